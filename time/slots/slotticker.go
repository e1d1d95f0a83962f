// Package slots converts genesis time and slot-duration constants into slot
// numbers and tickers, so callers deal in primitives.Slot rather than
// re-deriving it from wall-clock arithmetic at every call site.
package slots

import (
	"time"

	"github.com/go-beacon/consensus-core/config/params"
	"github.com/go-beacon/consensus-core/consensus-types/primitives"
)

// Ticker announces slot boundaries (or configured offsets within a slot) on
// a channel.
type Ticker interface {
	C() <-chan primitives.Slot
	Done()
}

// SlotTicker ticks once per slot boundary, or per configured interval
// within each slot, measured from a genesis time.
type SlotTicker struct {
	c    chan primitives.Slot
	done chan struct{}
}

var _ Ticker = (*SlotTicker)(nil)

// NewSlotTicker returns a ticker that fires once at the start of every slot.
func NewSlotTicker(genesisTime time.Time, secondsPerSlot uint64) *SlotTicker {
	t := &SlotTicker{c: make(chan primitives.Slot), done: make(chan struct{})}
	t.start(genesisTime, secondsPerSlot, time.Since, time.Until, time.After)
	return t
}

// NewSlotTickerWithOffset returns a ticker that fires once per slot, offset
// by a fixed duration into each slot, e.g. the point at which a validator
// should broadcast its attestation rather than propose.
func NewSlotTickerWithOffset(genesisTime time.Time, offset time.Duration, secondsPerSlot uint64) *SlotTicker {
	if offset >= time.Duration(secondsPerSlot)*time.Second {
		panic("offset greater than or equal to slot duration")
	}
	t := &SlotTicker{c: make(chan primitives.Slot), done: make(chan struct{})}
	t.start(genesisTime.Add(offset), secondsPerSlot, time.Since, time.Until, time.After)
	return t
}

// NewSlotTickerWithIntervals returns a ticker that fires at each of the
// given, strictly increasing offsets within every slot. Once genesis has
// passed, ticking begins with the slot after the current one.
func NewSlotTickerWithIntervals(genesisTime time.Time, cfg *params.BeaconChainConfig, intervals []time.Duration) *SlotTicker {
	if genesisTime.IsZero() {
		panic("zero genesis time")
	}
	if len(intervals) == 0 {
		panic("at least one interval has to be entered")
	}
	slotDuration := time.Duration(cfg.SecondsPerSlot) * time.Second
	prev := time.Duration(-1)
	for _, iv := range intervals {
		if iv <= prev {
			panic("invalid decreasing offsets")
		}
		if iv >= slotDuration {
			panic("invalid ticker offset")
		}
		prev = iv
	}
	t := &SlotTicker{c: make(chan primitives.Slot), done: make(chan struct{})}
	t.startWithIntervals(genesisTime, intervals, slotDuration, time.Since, time.Until, time.After)
	return t
}

// C returns the channel new slots are announced on.
func (s *SlotTicker) C() <-chan primitives.Slot { return s.c }

// Done stops the ticker's background goroutine.
func (s *SlotTicker) Done() { close(s.done) }

// start runs the once-per-slot ticking loop. since/until/after are injected
// so tests can drive it without real time passing.
func (s *SlotTicker) start(
	genesisTime time.Time,
	secondsPerSlot uint64,
	since, until func(time.Time) time.Duration,
	after func(time.Duration) <-chan time.Time,
) {
	d := time.Duration(secondsPerSlot) * time.Second

	go func() {
		var slot primitives.Slot
		if sinceGenesis := since(genesisTime); sinceGenesis > 0 {
			slot = primitives.Slot(sinceGenesis / d)
		}

		for {
			select {
			case <-after(until(genesisTime.Add(time.Duration(slot) * d))):
				select {
				case s.c <- slot:
				case <-s.done:
					return
				}
				slot++
			case <-s.done:
				return
			}
		}
	}()
}

// startWithIntervals runs the multiple-ticks-per-slot loop, computing each
// wake-up as an absolute target time so drift never accumulates across
// intervals.
func (s *SlotTicker) startWithIntervals(
	genesisTime time.Time,
	intervals []time.Duration,
	slotDuration time.Duration,
	since, until func(time.Time) time.Duration,
	after func(time.Duration) <-chan time.Time,
) {
	go func() {
		var slot primitives.Slot
		if d := since(genesisTime); d > 0 {
			slot = primitives.Slot(d/slotDuration) + 1
		}
		slotStart := genesisTime.Add(time.Duration(slot) * slotDuration)
		intervalIdx := 0

		for {
			target := slotStart.Add(intervals[intervalIdx])
			select {
			case <-after(until(target)):
				select {
				case s.c <- slot:
				case <-s.done:
					return
				}
				intervalIdx++
				if intervalIdx == len(intervals) {
					intervalIdx = 0
					slot++
					slotStart = slotStart.Add(slotDuration)
				}
			case <-s.done:
				return
			}
		}
	}()
}
