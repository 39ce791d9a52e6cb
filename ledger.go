package webullpnl

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"webullpnl/date"
)

// InvariantViolation reports a lot queue left in an impossible state after
// matching: lots of both sides at once, or a non-positive remaining
// quantity. It indicates a logic defect, not bad input, and is fatal.
type InvariantViolation struct {
	Key    Key
	Reason string
}

func (e *InvariantViolation) Error() string {
	return fmt.Sprintf("lot ledger invariant violated for %s: %s", e.Key, e.Reason)
}

// Ledger maps every instrument key to its ordered queue of open lots.
//
// It is owned by a single report run; nothing observes or mutates it
// mid-run.
type Ledger struct {
	queues      map[Key]lots
	instruments map[Key]Instrument // first resolved instrument per key, for reporting
	order       []Key              // keys in first-seen order, for deterministic sweeps
}

// NewLedger creates an empty ledger.
func NewLedger() *Ledger {
	return &Ledger{
		queues:      make(map[Key]lots),
		instruments: make(map[Key]Instrument),
	}
}

// Apply matches one trade against the instrument's lot queue and returns the
// quantity actually closed and the realized P&L of the match (zero for a
// purely opening trade).
func (l *Ledger) Apply(inst Instrument, side Side, qty Quantity, price Money, at time.Time) (Quantity, Money, error) {
	key := inst.Key()
	if _, ok := l.instruments[key]; !ok {
		l.instruments[key] = inst
		l.order = append(l.order, key)
	}

	updated, closed, realized := l.queues[key].apply(side, qty, price, inst.Multiplier(), at)
	if !updated.consistent() {
		return Quantity{}, Money{}, &InvariantViolation{Key: key, Reason: "mixed sides or non-positive lot quantity"}
	}
	l.queues[key] = updated
	return closed, realized, nil
}

// Expire synthetically closes, at a settlement price of zero, every option
// and strategy position whose expiry is on or before asOf, and returns the
// realized P&L released by those closures. Stock positions and unexpired
// contracts are unaffected.
func (l *Ledger) Expire(asOf date.Date) Money {
	var realized Money
	for _, key := range l.order {
		inst := l.instruments[key]
		if inst.Class == Stock || inst.Expiry.After(asOf) {
			continue
		}
		queue := l.queues[key]
		if len(queue) == 0 {
			continue
		}
		gone, _ := queue.expire(inst.Multiplier())
		realized = realized.Add(gone)
		l.queues[key] = nil
	}
	return realized
}

// Position is an open position left in the ledger at the end of a run.
type Position struct {
	Instrument   Instrument
	Side         Side     // net side; all lots of a key share it
	Quantity     Quantity // sum of the remaining lot quantities
	AveragePrice Money    // quantity-weighted mean entry price
}

// Positions returns the snapshot of all non-empty queues, sorted by asset
// class, instrument and side.
func (l *Ledger) Positions() []Position {
	var positions []Position
	for _, key := range l.order {
		queue := l.queues[key]
		if len(queue) == 0 {
			continue
		}
		positions = append(positions, Position{
			Instrument:   l.instruments[key],
			Side:         queue[0].side,
			Quantity:     queue.quantity(),
			AveragePrice: queue.averagePrice(),
		})
	}
	slices.SortFunc(positions, func(a, b Position) int {
		if c := int(a.Instrument.Class) - int(b.Instrument.Class); c != 0 {
			return c
		}
		if c := strings.Compare(a.Instrument.String(), b.Instrument.String()); c != 0 {
			return c
		}
		return int(a.Side) - int(b.Side)
	})
	return positions
}
