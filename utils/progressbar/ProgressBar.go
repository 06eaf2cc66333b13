// Package progressbar prints a terminal progress bar for long
// training runs
package progressbar

import (
	"fmt"
	"strings"
	"time"
)

// ProgressBar displays the progress of a training run on the
// terminal. Rendering happens in its own goroutine so that the bar
// updates concurrently with training.
type ProgressBar struct {
	width float64

	// max is the number of Increment calls at which the bar reaches
	// 100%
	max     float64
	current float64

	increments chan float64
	closing    chan struct{}
	closed     bool

	redrawEvery time.Duration
}

// New returns a progress bar that is width characters wide and
// reaches 100% after max calls to Increment. The bar redraws every
// redrawEvery in addition to redrawing on each increment.
func New(width, max int, redrawEvery time.Duration) *ProgressBar {
	return &ProgressBar{
		width:       float64(width),
		max:         float64(max),
		increments:  make(chan float64),
		closing:     make(chan struct{}),
		redrawEvery: redrawEvery,
	}
}

// Increment advances the bar by one unit of progress
func (p *ProgressBar) Increment() {
	go func() {
		if p.current < p.max && !p.closed {
			p.increments <- p.current
			p.current++
		}
	}()
}

// Close stops the bar from displaying and releases its resources.
// Close panics if called twice.
func (p *ProgressBar) Close() {
	if p.closed {
		panic("close: close on closed progress bar")
	}
	close(p.closing)
	p.closed = true
	fmt.Println()
}

// Display starts rendering the bar. It should be called once.
func (p *ProgressBar) Display() {
	go func() {
		current := p.current
		tick := time.NewTicker(p.redrawEvery)
		start := time.Now()

		var bar strings.Builder
		for {
			select {
			case current = <-p.increments:

			case <-tick.C:

			case <-p.closing:
				close(p.increments)
				tick.Stop()
				return
			}

			bar.Reset()
			bar.WriteString("|")

			filled := current / p.max * p.width
			for i := 0.0; i < filled; i++ {
				bar.WriteString("█")
			}
			for i := filled; i < p.width; i++ {
				bar.WriteString(" ")
			}
			fmt.Fprintf(&bar, "| [%.2f%% | elapsed: %v]",
				current/p.max*100,
				time.Since(start).Round(time.Second))

			fmt.Printf("\n\033[1A\033[K%v", bar.String())
		}
	}()
}
