package webullpnl

import (
	"fmt"
	"time"

	"webullpnl/date"
)

// Row is the realized P&L impact of a single transaction, in chronological
// order. A transaction that closes nothing still gets a row, with a zero
// realized figure and an unchanged running total.
type Row struct {
	Time       time.Time
	Instrument Instrument
	Side       Side
	Quantity   Quantity // quantity traded
	Price      Money    // per-unit execution price
	Closed     Quantity // quantity actually closed by this transaction
	Realized   Money    // realized P&L of this transaction
	Running    Money    // cumulative realized P&L after this transaction
}

// OrderingError reports unsorted input when Options.RequireSorted is set.
type OrderingError struct {
	Index int // index of the first transaction earlier than its predecessor
}

func (e *OrderingError) Error() string {
	return fmt.Sprintf("transactions are not in chronological order at index %d", e.Index)
}

// Options configures a report run.
type Options struct {
	// AsOf enables the expiration sweep: after all transactions are
	// processed, option and strategy positions expiring on or before this
	// date are closed out at a value of zero. The zero Date disables the
	// sweep and leaves expired positions in the snapshot.
	AsOf date.Date

	// RequireSorted makes unsorted input an error instead of sorting it.
	RequireSorted bool
}

// Report is the outcome of running the engine over a transaction stream.
type Report struct {
	Rows      []Row      // one per transaction, chronological
	Positions []Position // still open at the end of the run
	Realized  Money      // final realized P&L, including expiration closures
}

// NewReport processes the transactions in ascending time order and builds
// the realized P&L ledger.
//
// Input order only matters among transactions sharing a timestamp: the sort
// is stable, so such ties keep their input order, and FIFO matching follows
// it. Expiration closures performed for Options.AsOf contribute to Realized
// but have no transaction record, so they are not appended to Rows; this is
// why Realized can differ from the running total of the last row.
func NewReport(transactions []Transaction, opts Options) (*Report, error) {
	if opts.RequireSorted {
		for i := 1; i < len(transactions); i++ {
			if transactions[i].Time.Before(transactions[i-1].Time) {
				return nil, &OrderingError{Index: i}
			}
		}
	}
	ordered := sortTransactions(transactions)

	ledger := NewLedger()
	rows := make([]Row, 0, len(ordered))
	var running Money

	for _, t := range ordered {
		inst, err := Resolve(t)
		if err != nil {
			return nil, fmt.Errorf("transaction at %s (%q): %w",
				t.Time.Format(time.DateTime), t.Description(), err)
		}
		closed, realized, err := ledger.Apply(inst, t.Side, t.Quantity, t.Price, t.Time)
		if err != nil {
			return nil, fmt.Errorf("transaction at %s (%q): %w",
				t.Time.Format(time.DateTime), t.Description(), err)
		}
		running = running.Add(realized)
		rows = append(rows, Row{
			Time:       t.Time,
			Instrument: inst,
			Side:       t.Side,
			Quantity:   t.Quantity,
			Price:      t.Price,
			Closed:     closed,
			Realized:   realized,
			Running:    running,
		})
	}

	final := running
	if !opts.AsOf.IsZero() {
		final = final.Add(ledger.Expire(opts.AsOf))
	}

	return &Report{Rows: rows, Positions: ledger.Positions(), Realized: final}, nil
}
