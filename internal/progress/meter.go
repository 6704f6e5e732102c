// Package progress provides a delayed ticking indicator for long-running
// operations. The indicator appears only when an operation outlasts a short
// grace period, so quick operations never flash a meter.
package progress

import (
	"fmt"
	"io"
	"strings"
	"sync/atomic"
	"time"

	"github.com/mattn/go-runewidth"
)

const (
	defaultInitialDelayConstant  = time.Second
	defaultTickIntervalConstant  = 120 * time.Millisecond
	indicatorGlyphConstant       = "."
	maximumIndicatorDotsConstant = 3
	carriageReturnConstant       = "\r"
	lineTemplateConstant         = "%s%s%s%s"
	blankFillGlyphConstant       = " "
)

// Meter describes a delayed progress indicator bound to a display writer.
type Meter struct {
	displayTarget io.Writer
	label         string
	initialDelay  time.Duration
	tickInterval  time.Duration
}

// NewMeter constructs a meter with the default delay and tick interval.
func NewMeter(displayTarget io.Writer, label string) *Meter {
	return NewMeterWithTimings(displayTarget, label, defaultInitialDelayConstant, defaultTickIntervalConstant)
}

// NewMeterWithTimings constructs a meter with explicit timings, primarily for tests.
func NewMeterWithTimings(displayTarget io.Writer, label string, initialDelay time.Duration, tickInterval time.Duration) *Meter {
	if displayTarget == nil {
		displayTarget = io.Discard
	}
	return &Meter{
		displayTarget: displayTarget,
		label:         label,
		initialDelay:  initialDelay,
		tickInterval:  tickInterval,
	}
}

// Guard controls the lifetime of one started meter. Callers must invoke Stop
// on every exit path, typically via defer.
type Guard struct {
	stopRequested atomic.Bool
	stopSignal    chan struct{}
	finished      chan struct{}
}

// Start launches the background indicator and returns its guard.
func (meter *Meter) Start() *Guard {
	meterGuard := &Guard{
		stopSignal: make(chan struct{}),
		finished:   make(chan struct{}),
	}
	go meter.run(meterGuard)
	return meterGuard
}

// Stop halts the indicator and blocks until the display line is cleared.
// Stopping an already stopped guard is safe.
func (meterGuard *Guard) Stop() {
	if meterGuard == nil {
		return
	}
	if meterGuard.stopRequested.CompareAndSwap(false, true) {
		close(meterGuard.stopSignal)
	}
	<-meterGuard.finished
}

func (meter *Meter) run(meterGuard *Guard) {
	defer close(meterGuard.finished)

	delayTimer := time.NewTimer(meter.initialDelay)
	defer delayTimer.Stop()

	select {
	case <-meterGuard.stopSignal:
		return
	case <-delayTimer.C:
	}

	intervalTicker := time.NewTicker(meter.tickInterval)
	defer intervalTicker.Stop()

	elapsedTicks := 0
	meter.drawIndicator(elapsedTicks)
	for {
		select {
		case <-meterGuard.stopSignal:
			meter.clearIndicator()
			return
		case <-intervalTicker.C:
			elapsedTicks++
			meter.drawIndicator(elapsedTicks)
		}
	}
}

func (meter *Meter) drawIndicator(elapsedTicks int) {
	dotCount := elapsedTicks%maximumIndicatorDotsConstant + 1
	indicatorDots := strings.Repeat(indicatorGlyphConstant, dotCount)
	trailingBlanks := strings.Repeat(blankFillGlyphConstant, maximumIndicatorDotsConstant-dotCount)
	fmt.Fprintf(meter.displayTarget, lineTemplateConstant, carriageReturnConstant, meter.label, indicatorDots, trailingBlanks)
}

func (meter *Meter) clearIndicator() {
	lineWidth := runewidth.StringWidth(meter.label) + maximumIndicatorDotsConstant
	blankLine := strings.Repeat(blankFillGlyphConstant, lineWidth)
	fmt.Fprintf(meter.displayTarget, "%s%s%s", carriageReturnConstant, blankLine, carriageReturnConstant)
}
