package webullpnl

import (
	"errors"
	"testing"
	"time"

	"webullpnl/date"
)

// TestNewReport_EndToEnd replays the documented example: a stock buy that
// closes nothing, and a put position opened at 2.18 and closed at 6.28,
// releasing 5 * (6.28 - 2.18) * 100 = 2,050.00.
func TestNewReport_EndToEnd(t *testing.T) {
	transactions := []Transaction{
		NewStockTrade(at(0), Buy, "BYDDY", Q(9), M(102.75)),
		NewOptionTrade(at(1), Buy, "UNH250718P00290000", Q(5), M(2.18)),
		NewOptionTrade(at(2), Sell, "UNH250718P00290000", Q(5), M(6.28)),
	}

	report, err := NewReport(transactions, Options{})
	if err != nil {
		t.Fatalf("NewReport() error: %v", err)
	}
	if len(report.Rows) != 3 {
		t.Fatalf("rows = %d, want 3", len(report.Rows))
	}

	wantRealized := []Money{M(0), M(0), M(2050)}
	wantRunning := []Money{M(0), M(0), M(2050)}
	wantClosed := []Quantity{Q(0), Q(0), Q(5)}
	for i, row := range report.Rows {
		if !row.Realized.Equal(wantRealized[i]) {
			t.Errorf("rows[%d].Realized = %s, want %s", i, row.Realized, wantRealized[i])
		}
		if !row.Running.Equal(wantRunning[i]) {
			t.Errorf("rows[%d].Running = %s, want %s", i, row.Running, wantRunning[i])
		}
		if !row.Closed.Equal(wantClosed[i]) {
			t.Errorf("rows[%d].Closed = %s, want %s", i, row.Closed, wantClosed[i])
		}
	}
	if !report.Realized.Equal(M(2050)) {
		t.Errorf("final realized = %s, want $2,050.00", report.Realized)
	}

	// Only the stock position survives.
	if len(report.Positions) != 1 {
		t.Fatalf("positions = %d, want 1", len(report.Positions))
	}
	p := report.Positions[0]
	if p.Instrument.Symbol != "BYDDY" || !p.Quantity.Equal(Q(9)) || !p.AveragePrice.Equal(M(102.75)) {
		t.Errorf("position = %+v, want long 9 BYDDY @ 102.75", p)
	}
}

// TestNewReport_SortsInput checks that FIFO results do not depend on the
// order transactions are supplied in, only on their timestamps.
func TestNewReport_SortsInput(t *testing.T) {
	buys := []Transaction{
		NewStockTrade(at(0), Buy, "NVDA", Q(1), M(10)),
		NewStockTrade(at(1), Buy, "NVDA", Q(2), M(12)),
	}
	sell := NewStockTrade(at(2), Sell, "NVDA", Q(3), M(15))

	// Supply the closing trade first.
	report, err := NewReport([]Transaction{sell, buys[1], buys[0]}, Options{})
	if err != nil {
		t.Fatalf("NewReport() error: %v", err)
	}

	last := report.Rows[len(report.Rows)-1]
	if !last.Realized.Equal(M(11)) { // (15-10)*1 + (15-12)*2
		t.Errorf("realized = %s, want $11.00", last.Realized)
	}
	if len(report.Positions) != 0 {
		t.Errorf("positions = %+v, want none", report.Positions)
	}
}

func TestNewReport_RequireSorted(t *testing.T) {
	unsorted := []Transaction{
		NewStockTrade(at(2), Sell, "NVDA", Q(1), M(15)),
		NewStockTrade(at(0), Buy, "NVDA", Q(1), M(10)),
	}

	_, err := NewReport(unsorted, Options{RequireSorted: true})
	var orderingErr *OrderingError
	if !errors.As(err, &orderingErr) {
		t.Fatalf("NewReport() error = %v, want an OrderingError", err)
	}
	if orderingErr.Index != 1 {
		t.Errorf("OrderingError.Index = %d, want 1", orderingErr.Index)
	}

	// The same input without the option is simply sorted.
	if _, err := NewReport(unsorted, Options{}); err != nil {
		t.Errorf("NewReport() without RequireSorted error: %v", err)
	}
}

// TestNewReport_RunningTotalAdditivity checks that each row's running total
// is the previous one plus its realized figure, and that the final figure
// matches the last row when no sweep runs.
func TestNewReport_RunningTotalAdditivity(t *testing.T) {
	transactions := []Transaction{
		NewStockTrade(at(0), Buy, "NVDA", Q(10), M(100)),
		NewStockTrade(at(1), Sell, "NVDA", Q(4), M(110)),
		NewStockTrade(at(2), Sell, "NVDA", Q(6), M(90)),
		NewOptionTrade(at(3), Sell, "UNH250718P00290000", Q(2), M(3)),
		NewOptionTrade(at(4), Buy, "UNH250718P00290000", Q(2), M(1.5)),
	}

	report, err := NewReport(transactions, Options{})
	if err != nil {
		t.Fatalf("NewReport() error: %v", err)
	}

	var sum Money
	for i, row := range report.Rows {
		sum = sum.Add(row.Realized)
		if !row.Running.Equal(sum) {
			t.Errorf("rows[%d].Running = %s, want %s", i, row.Running, sum)
		}
	}
	if !report.Realized.Equal(sum) {
		t.Errorf("final realized = %s, want %s (no sweep requested)", report.Realized, sum)
	}
}

// TestNewReport_ExpirationSweep checks that an option held past its expiry
// is closed out at zero: the position disappears, the premium is lost, and
// the closure shows up in the final figure but not in the rows.
func TestNewReport_ExpirationSweep(t *testing.T) {
	transactions := []Transaction{
		NewOptionTrade(at(0), Buy, "UNH250718P00290000", Q(2), M(5)),
	}

	report, err := NewReport(transactions, Options{AsOf: date.New(2025, time.August, 1)})
	if err != nil {
		t.Fatalf("NewReport() error: %v", err)
	}

	if len(report.Rows) != 1 {
		t.Fatalf("rows = %d, want 1 (sweep closures have no row)", len(report.Rows))
	}
	if !report.Rows[0].Running.IsZero() {
		t.Errorf("last row running = %s, want zero", report.Rows[0].Running)
	}
	if !report.Realized.Equal(M(-1000)) { // 2 * 5.00 * 100
		t.Errorf("final realized = %s, want -$1,000.00", report.Realized)
	}
	if len(report.Positions) != 0 {
		t.Errorf("positions = %+v, want none after the sweep", report.Positions)
	}
}

func TestNewReport_SweepSparesUnexpired(t *testing.T) {
	transactions := []Transaction{
		NewOptionTrade(at(0), Buy, "UNH250718P00290000", Q(1), M(2)),
		NewStockTrade(at(1), Buy, "NVDA", Q(1), M(100)),
	}

	// As-of before the expiry: nothing is swept, stock is never swept.
	report, err := NewReport(transactions, Options{AsOf: date.New(2025, time.July, 17)})
	if err != nil {
		t.Fatalf("NewReport() error: %v", err)
	}
	if !report.Realized.IsZero() {
		t.Errorf("final realized = %s, want zero", report.Realized)
	}
	if len(report.Positions) != 2 {
		t.Errorf("positions = %d, want 2", len(report.Positions))
	}
}

// TestNewReport_StrategyRoundTrip opens and closes a multi-leg strategy as
// one unit, with an unrelated single-leg trade in between that must not
// interfere.
func TestNewReport_StrategyRoundTrip(t *testing.T) {
	legs := []string{"UNH250718P00290000", "UNH250718C00300000"}
	transactions := []Transaction{
		NewStrategyTrade(at(0), Buy, "Iron Condor", legs, Q(1), M(1)),
		NewOptionTrade(at(1), Sell, "UNH250718P00290000", Q(1), M(2)),
		NewStrategyTrade(at(2), Sell, "Iron Condor", legs, Q(1), M(2.5)),
	}

	report, err := NewReport(transactions, Options{})
	if err != nil {
		t.Fatalf("NewReport() error: %v", err)
	}

	// The single-leg sell opens its own short position, closing nothing.
	if row := report.Rows[1]; !row.Closed.IsZero() || !row.Realized.IsZero() {
		t.Errorf("single-leg row = %+v, want purely opening", row)
	}
	// The strategy sell closes the strategy: (2.50 - 1.00) * 1 * 100.
	if row := report.Rows[2]; !row.Closed.Equal(Q(1)) || !row.Realized.Equal(M(150)) {
		t.Errorf("strategy close row = %+v, want closed 1, realized $150.00", row)
	}
	// The stray short put is still open.
	if len(report.Positions) != 1 || report.Positions[0].Side != Sell {
		t.Errorf("positions = %+v, want the short put only", report.Positions)
	}
}

func TestNewReport_ParseErrorAborts(t *testing.T) {
	transactions := []Transaction{
		NewStockTrade(at(0), Buy, "NVDA", Q(1), M(100)),
		NewOptionTrade(at(1), Buy, "not an option", Q(1), M(1)),
	}

	report, err := NewReport(transactions, Options{})
	var parseErr *ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("NewReport() error = %v, want a ParseError", err)
	}
	if report != nil {
		t.Error("NewReport() must not produce a partial report on error")
	}
}

func TestNewReport_Empty(t *testing.T) {
	report, err := NewReport(nil, Options{})
	if err != nil {
		t.Fatalf("NewReport() error: %v", err)
	}
	if len(report.Rows) != 0 || len(report.Positions) != 0 || !report.Realized.IsZero() {
		t.Errorf("empty run produced %+v", report)
	}
}
