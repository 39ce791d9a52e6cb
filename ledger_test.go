package webullpnl

import (
	"testing"
	"time"

	"webullpnl/date"
)

// resolve is a test helper that fails the test on a ParseError.
func resolve(t *testing.T, tx Transaction) Instrument {
	t.Helper()
	inst, err := Resolve(tx)
	if err != nil {
		t.Fatalf("Resolve(%+v) error: %v", tx, err)
	}
	return inst
}

func TestLedgerApply_IndependentKeys(t *testing.T) {
	ledger := NewLedger()
	stock := resolve(t, NewStockTrade(at(0), Buy, "NVDA", Q(10), M(100)))
	option := resolve(t, NewOptionTrade(at(1), Buy, "UNH250718P00290000", Q(5), M(2.18)))

	if _, _, err := ledger.Apply(stock, Buy, Q(10), M(100), at(0)); err != nil {
		t.Fatal(err)
	}
	if _, _, err := ledger.Apply(option, Buy, Q(5), M(2.18), at(1)); err != nil {
		t.Fatal(err)
	}

	// Closing the option must not touch the stock position.
	closed, realized, err := ledger.Apply(option, Sell, Q(5), M(6.28), at(2))
	if err != nil {
		t.Fatal(err)
	}
	if !closed.Equal(Q(5)) || !realized.Equal(M(2050)) {
		t.Errorf("option close: closed=%s realized=%s, want 5 and $2,050.00", closed, realized)
	}

	positions := ledger.Positions()
	if len(positions) != 1 {
		t.Fatalf("positions = %d, want only the stock", len(positions))
	}
	if positions[0].Instrument.Key() != stock.Key() || !positions[0].Quantity.Equal(Q(10)) {
		t.Errorf("unexpected position %+v", positions[0])
	}
}

func TestLedgerExpire(t *testing.T) {
	ledger := NewLedger()
	stock := resolve(t, NewStockTrade(at(0), Buy, "NVDA", Q(10), M(100)))
	expired := resolve(t, NewOptionTrade(at(1), Buy, "UNH250718P00290000", Q(2), M(5)))
	open := resolve(t, NewOptionTrade(at(2), Buy, "UNH251219C00300000", Q(1), M(3)))

	for _, step := range []struct {
		inst  Instrument
		qty   Quantity
		price Money
	}{
		{stock, Q(10), M(100)},
		{expired, Q(2), M(5)},
		{open, Q(1), M(3)},
	} {
		if _, _, err := ledger.Apply(step.inst, Buy, step.qty, step.price, at(0)); err != nil {
			t.Fatal(err)
		}
	}

	realized := ledger.Expire(date.New(2025, time.August, 1))
	if !realized.Equal(M(-1000)) { // 2 contracts * 5.00 * 100, lost
		t.Errorf("Expire() = %s, want -$1,000.00", realized)
	}

	positions := ledger.Positions()
	if len(positions) != 2 {
		t.Fatalf("positions = %d, want stock and unexpired option", len(positions))
	}
	for _, p := range positions {
		if p.Instrument.Key() == expired.Key() {
			t.Errorf("expired position still in snapshot: %+v", p)
		}
	}
}

func TestLedgerExpire_OnExpiryDay(t *testing.T) {
	ledger := NewLedger()
	option := resolve(t, NewOptionTrade(at(0), Sell, "UNH250718P00290000", Q(1), M(2)))
	if _, _, err := ledger.Apply(option, Sell, Q(1), M(2), at(0)); err != nil {
		t.Fatal(err)
	}

	// An expiry equal to the as-of date is swept too.
	realized := ledger.Expire(date.New(2025, time.July, 18))
	if !realized.Equal(M(200)) { // short keeps the 1 * 2.00 * 100 premium
		t.Errorf("Expire() = %s, want +$200.00", realized)
	}
	if got := ledger.Positions(); len(got) != 0 {
		t.Errorf("positions = %+v, want none", got)
	}
}

func TestLedgerPositions_Sorted(t *testing.T) {
	ledger := NewLedger()
	option := resolve(t, NewOptionTrade(at(0), Buy, "UNH250718P00290000", Q(1), M(2)))
	zulu := resolve(t, NewStockTrade(at(1), Buy, "ZM", Q(1), M(60)))
	alpha := resolve(t, NewStockTrade(at(2), Buy, "AAPL", Q(1), M(200)))

	// Insert out of display order.
	for _, step := range []Instrument{option, zulu, alpha} {
		if _, _, err := ledger.Apply(step, Buy, Q(1), M(1), at(0)); err != nil {
			t.Fatal(err)
		}
	}

	positions := ledger.Positions()
	if len(positions) != 3 {
		t.Fatalf("positions = %d, want 3", len(positions))
	}
	// Stocks before options, stocks alphabetical.
	want := []Key{alpha.Key(), zulu.Key(), option.Key()}
	for i, p := range positions {
		if p.Instrument.Key() != want[i] {
			t.Errorf("positions[%d] = %s, want %s", i, p.Instrument.Key(), want[i])
		}
	}
}

func TestLedgerPositions_AveragePrice(t *testing.T) {
	ledger := NewLedger()
	stock := resolve(t, NewStockTrade(at(0), Buy, "NVDA", Q(1), M(10)))

	if _, _, err := ledger.Apply(stock, Buy, Q(1), M(10), at(0)); err != nil {
		t.Fatal(err)
	}
	if _, _, err := ledger.Apply(stock, Buy, Q(3), M(20), at(1)); err != nil {
		t.Fatal(err)
	}

	positions := ledger.Positions()
	if len(positions) != 1 {
		t.Fatalf("positions = %d, want 1", len(positions))
	}
	if p := positions[0]; !p.AveragePrice.Equal(M(17.5)) || !p.Quantity.Equal(Q(4)) || p.Side != Buy {
		t.Errorf("position = %+v, want long 4 @ $17.50", p)
	}
}
