package main

import (
	"math/rand/v2"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/GriffinCanCode/pipetrace/internal/event"
	"github.com/GriffinCanCode/pipetrace/internal/infrastructure/logging"
	"github.com/GriffinCanCode/pipetrace/internal/tracer"
)

type recorder struct {
	mu    sync.Mutex
	lines []string
}

func (r *recorder) Publish(line string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lines = append(r.lines, line)
}

func newTestDemo(failRate float64) (*demo, *recorder, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.InfoLevel)
	logger := logging.Wrap(zap.New(core))
	rec := &recorder{}

	d := newDemo(tracer.New(rec, logger), logger, rand.New(rand.NewPCG(1, 2)))
	d.pause = func(time.Duration) {}
	d.failRate = failRate
	return d, rec, logs
}

func TestDemoSuccess(t *testing.T) {
	d, rec, logs := newTestDemo(0)

	require.NoError(t, d.main())

	// main, process_data and five calculate_something calls
	require.Len(t, rec.lines, 14)
	assert.True(t, strings.HasPrefix(rec.lines[0], "ENTER: main from "))
	assert.True(t, strings.HasPrefix(rec.lines[1], "ENTER: process_data from (*demo).run ("))
	assert.True(t, strings.HasPrefix(rec.lines[2], "ENTER: calculate_something from (*demo).process ("))
	assert.True(t, strings.HasPrefix(rec.lines[12], "EXIT: process_data "))
	assert.True(t, strings.HasPrefix(rec.lines[13], "EXIT: main "))

	for _, line := range rec.lines {
		assert.NotEqual(t, event.StyleError, event.Classify(line), line)
	}
	assert.Equal(t, 1, logs.FilterMessageSnippet("Processing completed with result:").Len())
	assert.Equal(t, 5, logs.FilterMessageSnippet("Calculating with inputs:").Len())
}

func TestDemoFailure(t *testing.T) {
	d, rec, logs := newTestDemo(1)

	require.NoError(t, d.main())

	// The first batch fails: main, process_data, one calculate_something
	require.Len(t, rec.lines, 6)
	assert.Equal(t, event.StyleSuccess, event.Classify(rec.lines[3]))
	assert.Equal(t, event.StyleError, event.Classify(rec.lines[4]))
	assert.Contains(t, rec.lines[4], "EXIT: process_data ")
	assert.Contains(t, rec.lines[4], "- Exception: ValueError: Random processing error occurred")
	assert.Equal(t, event.StyleSuccess, event.Classify(rec.lines[5]))

	caught := logs.FilterMessage("Main program caught error: Random processing error occurred")
	assert.Equal(t, 1, caught.Len())
	assert.Equal(t, 1, logs.FilterMessage("Example program completed").Len())
}

func TestCalculateRange(t *testing.T) {
	d, _, _ := newTestDemo(0)

	for i := 0; i < 50; i++ {
		got, err := d.calculateSomething(3, 4)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, got, 13)
		assert.LessOrEqual(t, got, 22)
	}
}
