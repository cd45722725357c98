package main

import (
	"fmt"
	"math/rand/v2"
	"time"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/pipetrace/internal/infrastructure/logging"
	"github.com/GriffinCanCode/pipetrace/internal/tracer"
)

// ValueError reports a bad intermediate value
type ValueError struct {
	Msg string
}

func (e *ValueError) Error() string { return e.Msg }

// failureRate is the chance that a processing batch fails
const failureRate = 0.2

// demo holds the traced functions of the example program
type demo struct {
	logger   *logging.Logger
	rng      *rand.Rand
	pause    func(time.Duration)
	failRate float64

	calculateSomething func(a, b int) (int, error)
	processData        func() (int, error)
	main               func() error
}

func newDemo(tr *tracer.Tracer, logger *logging.Logger, rng *rand.Rand) *demo {
	d := &demo{
		logger:   logger,
		rng:      rng,
		pause:    time.Sleep,
		failRate: failureRate,
	}
	d.calculateSomething = tracer.Func2(tr, "calculate_something", d.calculate)
	d.processData = tracer.Func0(tr, "process_data", d.process)
	d.main = tracer.Proc0(tr, "main", d.run)
	return d
}

// calculate simulates a slow computation
func (d *demo) calculate(a, b int) (int, error) {
	d.logger.Info(fmt.Sprintf("Calculating with inputs: a=%d, b=%d", a, b))
	d.pause(time.Duration(100+d.rng.IntN(400)) * time.Millisecond)
	return a*b + 1 + d.rng.IntN(10), nil
}

func (d *demo) process() (int, error) {
	d.logger.Info("Starting data processing")

	total := 0
	for i := 0; i < 5; i++ {
		d.logger.Info(fmt.Sprintf("Processing batch %d", i+1))
		value, err := d.calculateSomething(i, i+1)
		if err != nil {
			return total, err
		}
		total += value

		if d.rng.Float64() < d.failRate {
			return total, &ValueError{Msg: "Random processing error occurred"}
		}
	}
	return total, nil
}

func (d *demo) run() error {
	d.logger.Info("Starting example program")

	result, err := d.processData()
	if err != nil {
		d.logger.Error(fmt.Sprintf("Main program caught error: %v", err), zap.Error(err))
	} else {
		d.logger.Info(fmt.Sprintf("Processing completed with result: %d", result))
	}

	d.logger.Info("Example program completed")
	return nil
}
