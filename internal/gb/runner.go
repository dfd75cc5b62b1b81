package gb

import (
	"context"
	"errors"

	"github.com/nevisdale/gbcore/internal/logger"
)

// ErrRunnerStopped is returned by Do when the runner is no longer running.
var ErrRunnerStopped = errors.New("runner stopped")

// cycles run between checks for cancellation and pushed functions
const runBatchCycles = 4096

// Runner owns a Bus and runs it on the goroutine that calls Run. Other
// goroutines get at the machine with Do, which runs a function on the
// running goroutine between two steps.
type Runner struct {
	bus *Bus

	// MaxCycles stops Run once the clock reaches it. Zero runs forever.
	MaxCycles uint64

	funcs  chan func(*Bus)
	done   chan struct{}
	paused bool // only touched by the running goroutine
}

func NewRunner(bus *Bus) *Runner {
	return &Runner{
		bus:   bus,
		funcs: make(chan func(*Bus), 64),
		done:  make(chan struct{}),
	}
}

// Run the machine until ctx is cancelled, MaxCycles is reached or the CPU
// faults. Cancellation is noticed between batches of steps so the machine is
// always left between two instructions. Run must only be called once.
func (r *Runner) Run(ctx context.Context) error {
	defer close(r.done)

	for {
		if err := r.service(ctx); err != nil {
			return err
		}
		if r.paused {
			continue
		}

		if r.MaxCycles > 0 && r.bus.Cycles() >= r.MaxCycles {
			return nil
		}
		target := r.bus.Cycles() + runBatchCycles
		if r.MaxCycles > 0 && target > r.MaxCycles {
			target = r.MaxCycles
		}
		if err := r.bus.RunUntil(target); err != nil {
			logger.Logf("runner", "stopped at cycle %d: %v", r.bus.Cycles(), err)
			return err
		}
	}
}

// service runs pushed functions. While paused it waits for at least one.
func (r *Runner) service(ctx context.Context) error {
	if r.paused {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case f := <-r.funcs:
			f(r.bus)
		}
	}
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case f := <-r.funcs:
			f(r.bus)
		default:
			return nil
		}
	}
}

// Do runs f on the running goroutine and waits for it to return.
func (r *Runner) Do(ctx context.Context, f func(*Bus)) error {
	ran := make(chan struct{})
	push := func(b *Bus) {
		f(b)
		close(ran)
	}

	select {
	case r.funcs <- push:
	case <-r.done:
		return ErrRunnerStopped
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case <-ran:
		return nil
	case <-r.done:
		return ErrRunnerStopped
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Push queues f to run on the running goroutine without waiting. It is
// dropped if the queue is full.
func (r *Runner) Push(f func(*Bus)) {
	select {
	case r.funcs <- f:
	default:
		logger.Log("runner", "dropped pushed function")
	}
}

// Pause stops stepping the machine. Functions passed to Do still run.
func (r *Runner) Pause(ctx context.Context) error {
	return r.Do(ctx, func(*Bus) { r.paused = true })
}

func (r *Runner) Resume(ctx context.Context) error {
	return r.Do(ctx, func(*Bus) { r.paused = false })
}

// Paused reports whether the machine is paused.
func (r *Runner) Paused(ctx context.Context) (bool, error) {
	var p bool
	err := r.Do(ctx, func(*Bus) { p = r.paused })
	return p, err
}
