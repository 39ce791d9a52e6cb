package webullpnl

import (
	"fmt"
	"slices"
	"strings"
	"time"
)

// Side is the direction of a trade.
type Side int

const (
	Buy Side = iota
	Sell
)

func (s Side) String() string {
	switch s {
	case Buy:
		return "Buy"
	case Sell:
		return "Sell"
	default:
		return "unknown"
	}
}

// Opposite returns the other direction.
func (s Side) Opposite() Side {
	if s == Buy {
		return Sell
	}
	return Buy
}

// ParseSide parses a side string, tolerating case ("BUY", "buy").
func ParseSide(s string) (Side, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "buy":
		return Buy, nil
	case "sell":
		return Sell, nil
	default:
		return 0, fmt.Errorf("unknown side: %q", s)
	}
}

// Transaction is a single filled order from a brokerage export.
//
// Its instrument identity fields (Symbol, Name, Legs) are free-form text
// straight from the export; Resolve derives the typed Instrument from them.
type Transaction struct {
	Time     time.Time  // execution time; sequencing key
	Class    AssetClass // Stock, Option or OptionStrategy
	Symbol   string     // ticker, or OCC option symbol for single-leg options
	Name     string     // order name, set for multi-leg strategies (e.g. "Iron Condor")
	Legs     []string   // OCC symbols of the strategy legs, strategies only
	Side     Side
	Quantity Quantity // shares, contracts or strategy units; positive
	Price    Money    // per-unit execution price
}

// NewStockTrade returns a plain equity transaction.
func NewStockTrade(at time.Time, side Side, symbol string, qty Quantity, price Money) Transaction {
	return Transaction{Time: at, Class: Stock, Symbol: symbol, Side: side, Quantity: qty, Price: price}
}

// NewOptionTrade returns a single-leg option transaction. symbol is the OCC
// contract symbol, e.g. "UNH250718P00290000".
func NewOptionTrade(at time.Time, side Side, symbol string, qty Quantity, price Money) Transaction {
	return Transaction{Time: at, Class: Option, Symbol: symbol, Side: side, Quantity: qty, Price: price}
}

// NewStrategyTrade returns a multi-leg option strategy transaction. legs are
// the OCC symbols of its legs; the strategy is matched as one atomic unit,
// never leg by leg.
func NewStrategyTrade(at time.Time, side Side, name string, legs []string, qty Quantity, price Money) Transaction {
	return Transaction{Time: at, Class: OptionStrategy, Name: name, Legs: legs, Side: side, Quantity: qty, Price: price}
}

// Description returns the raw identity text of the transaction, for error
// reporting.
func (t Transaction) Description() string {
	if t.Class == OptionStrategy {
		return t.Name
	}
	return t.Symbol
}

// chronological reports whether the transactions are already in ascending
// time order.
func chronological(ts []Transaction) bool {
	return slices.IsSortedFunc(ts, func(a, b Transaction) int {
		return a.Time.Compare(b.Time)
	})
}

// sortTransactions returns the transactions in ascending time order.
// The sort is stable: transactions sharing a timestamp keep their input order.
func sortTransactions(ts []Transaction) []Transaction {
	sorted := slices.Clone(ts)
	slices.SortStableFunc(sorted, func(a, b Transaction) int {
		return a.Time.Compare(b.Time)
	})
	return sorted
}
