// Package statsview serves live runtime statistics of the emulator process
// (heap, goroutines, GC pauses) using github.com/go-echarts/statsview.
//
// After launch, the graphs are at http://<address>/debug/statsview and the
// standard Go pprof endpoints at http://<address>/debug/pprof/.
package statsview

import (
	"fmt"
	"io"

	"github.com/go-echarts/statsview"
	"github.com/go-echarts/statsview/viewer"
)

// Address is the default listening address.
const Address = "localhost:12600"

const path = "/debug/statsview"

type config struct {
	addr      string
	interval  int // milliseconds between samples
	maxPoints int // samples kept per graph
}

// Option changes how the server is launched.
type Option func(*config)

// WithAddress sets the listening address. An empty address keeps the
// default.
func WithAddress(addr string) Option {
	return func(c *config) {
		if addr != "" {
			c.addr = addr
		}
	}
}

// WithInterval sets the sampling interval in milliseconds.
func WithInterval(ms int) Option {
	return func(c *config) {
		if ms > 0 {
			c.interval = ms
		}
	}
}

// WithMaxPoints sets how many samples each graph keeps.
func WithMaxPoints(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.maxPoints = n
		}
	}
}

func newConfig(opts ...Option) config {
	c := config{
		addr:      Address,
		interval:  2000,
		maxPoints: 30,
	}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// URL of the graphs for the given options.
func URL(opts ...Option) string {
	return "http://" + newConfig(opts...).addr + path
}

// Launch starts the server on a new goroutine and reports where it can be
// found on output. The returned function shuts it down.
func Launch(output io.Writer, opts ...Option) (stop func()) {
	c := newConfig(opts...)
	viewer.SetConfiguration(
		viewer.WithAddr(c.addr),
		viewer.WithInterval(c.interval),
		viewer.WithMaxPoints(c.maxPoints),
	)
	mgr := statsview.New()
	go mgr.Start()

	fmt.Fprintf(output, "stats server available at %s\n", URL(opts...))
	return mgr.Stop
}
