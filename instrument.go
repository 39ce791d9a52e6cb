package webullpnl

import (
	"fmt"
	"regexp"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"webullpnl/date"
)

// AssetClass identifies the kind of tradable object behind a transaction.
type AssetClass int

const (
	Stock AssetClass = iota
	Option
	OptionStrategy
)

func (c AssetClass) String() string {
	switch c {
	case Stock:
		return "Stock"
	case Option:
		return "Option"
	case OptionStrategy:
		return "Option Strategy"
	default:
		return "unknown"
	}
}

// OptionRight is the contractual right of a single-leg option.
type OptionRight int

const (
	Call OptionRight = iota
	Put
)

func (r OptionRight) String() string {
	if r == Call {
		return "Call"
	}
	return "Put"
}

// occPattern matches OCC-style option symbols: root, yymmdd expiry,
// call/put letter, strike price times 1000. E.g. "UNH250718P00290000".
var occPattern = regexp.MustCompile(`^([A-Z]+)(\d{6})([CP])(\d{8})$`)

const expiryDisplayFormat = "02 Jan 2006"

// ParseError reports a transaction whose instrument identity cannot be
// derived from its free-form description fields. It aborts the run: guessing
// a key instead would silently merge unrelated instruments.
type ParseError struct {
	Field string // the offending transaction field, e.g. "symbol", "leg"
	Value string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("cannot parse %s %q", e.Field, e.Value)
}

// Key is the identity under which opening and closing trades match each
// other. Two transactions match lots against each other iff their keys are
// equal.
type Key string

// Instrument is the resolved, typed identity of a transaction's tradable
// object.
type Instrument struct {
	Class    AssetClass
	Symbol   string          // underlying root, e.g. "UNH"
	Expiry   date.Date       // zero for stocks
	Strike   decimal.Decimal // single-leg options only
	Right    OptionRight     // single-leg options only
	Strategy string          // strategy kind, strategies only (e.g. "IronCondor")
	legs     string          // canonical leg set, strategies only (e.g. "C300,P290")
}

// Key returns the canonical matching key of the instrument. It is stable
// under formatting differences of the source text because Resolve normalizes
// before building the Instrument.
func (i Instrument) Key() Key {
	switch i.Class {
	case Stock:
		return Key("stock:" + i.Symbol)
	case Option:
		return Key(fmt.Sprintf("option:%s:%s:%s:%s", i.Symbol, i.Expiry, i.Strike, i.Right))
	default:
		return Key(fmt.Sprintf("strategy:%s:%s:%s:%s", i.Strategy, i.Symbol, i.Expiry, i.legs))
	}
}

// String renders the instrument the way brokers display it, e.g.
// "UNH 18 Jul 2025 $290" for an option or "NVDA" for a stock.
func (i Instrument) String() string {
	switch i.Class {
	case Stock:
		return i.Symbol
	case Option:
		return fmt.Sprintf("%s %s $%s", i.Symbol, i.Expiry.Format(expiryDisplayFormat), i.Strike)
	default:
		return fmt.Sprintf("%s %s", i.Symbol, i.Expiry.Format(expiryDisplayFormat))
	}
}

// Kind returns the option column label: the right for single-leg options,
// the strategy kind for multi-leg strategies, empty for stocks.
func (i Instrument) Kind() string {
	switch i.Class {
	case Option:
		return i.Right.String()
	case OptionStrategy:
		return i.Strategy
	default:
		return ""
	}
}

// Multiplier returns the number of underlying shares per traded unit:
// option contracts and strategy units cover 100 shares, stock trades one.
func (i Instrument) Multiplier() Quantity {
	if i.Class == Stock {
		return Q(1)
	}
	return Q(100)
}

// Resolve derives the Instrument of a transaction deterministically from its
// free-form description fields. It fails with a ParseError rather than guess:
// a wrong key would corrupt unrelated instruments' realized P&L.
func Resolve(t Transaction) (Instrument, error) {
	switch t.Class {
	case Stock:
		symbol := normalizeSymbol(t.Symbol)
		if symbol == "" {
			return Instrument{}, &ParseError{Field: "symbol", Value: t.Symbol}
		}
		return Instrument{Class: Stock, Symbol: symbol}, nil

	case Option:
		root, expiry, right, strike, err := parseOCC(t.Symbol)
		if err != nil {
			return Instrument{}, &ParseError{Field: "symbol", Value: t.Symbol}
		}
		return Instrument{Class: Option, Symbol: root, Expiry: expiry, Strike: strike, Right: right}, nil

	case OptionStrategy:
		name := strings.TrimSpace(t.Name)
		if name == "" {
			return Instrument{}, &ParseError{Field: "name", Value: t.Name}
		}
		if len(t.Legs) == 0 {
			return Instrument{}, &ParseError{Field: "legs", Value: name}
		}
		legs := make([]string, 0, len(t.Legs))
		var root string
		var expiry date.Date
		for n, leg := range t.Legs {
			r, e, right, strike, err := parseOCC(leg)
			if err != nil {
				return Instrument{}, &ParseError{Field: "leg", Value: leg}
			}
			if n == 0 {
				// The underlying and expiry of the strategy are those of its
				// first leg. Calendar structures hold several expiries, so
				// later legs may differ; a different root never happens on a
				// single order and is rejected.
				root, expiry = r, e
			} else if r != root {
				return Instrument{}, &ParseError{Field: "legs", Value: strings.Join(t.Legs, ",")}
			}
			legs = append(legs, fmt.Sprintf("%c%s", right.String()[0], strike))
		}
		slices.Sort(legs)
		return Instrument{
			Class:    OptionStrategy,
			Symbol:   root,
			Expiry:   expiry,
			Strategy: strategyKind(name),
			legs:     strings.Join(legs, ","),
		}, nil

	default:
		return Instrument{}, &ParseError{Field: "asset class", Value: t.Class.String()}
	}
}

// normalizeSymbol strips whitespace and currency decoration and upper-cases
// the symbol, so differently formatted descriptions of the same instrument
// resolve to equal keys.
func normalizeSymbol(s string) string {
	s = strings.Join(strings.Fields(s), "")
	s = strings.TrimPrefix(s, "$")
	return strings.ToUpper(s)
}

// parseOCC decomposes an OCC option symbol into its identity components.
func parseOCC(symbol string) (root string, expiry date.Date, right OptionRight, strike decimal.Decimal, err error) {
	m := occPattern.FindStringSubmatch(normalizeSymbol(symbol))
	if m == nil {
		return "", date.Date{}, 0, decimal.Decimal{}, fmt.Errorf("not an OCC option symbol: %q", symbol)
	}
	root = m[1]
	day, err := time.Parse("060102", m[2])
	if err != nil {
		return "", date.Date{}, 0, decimal.Decimal{}, fmt.Errorf("invalid expiry in %q: %w", symbol, err)
	}
	expiry = date.Of(day)
	if m[3] == "C" {
		right = Call
	} else {
		right = Put
	}
	// The strike is encoded as price * 1000 on 8 digits.
	raw, err := strconv.ParseInt(m[4], 10, 64)
	if err != nil {
		return "", date.Date{}, 0, decimal.Decimal{}, fmt.Errorf("invalid strike in %q: %w", symbol, err)
	}
	strike = decimal.New(raw, -3)
	return root, expiry, right, strike, nil
}

// strategyKind derives the strategy kind from the free-form order name.
// Unrecognized multi-leg structures fall back to the generic "Strategy":
// the name still takes part in matching through the canonical leg set.
func strategyKind(name string) string {
	lowered := strings.ToLower(strings.ReplaceAll(name, " ", ""))
	for _, kind := range []string{"IronCondor", "Condor", "Butterfly", "Straddle", "Strangle", "Spread"} {
		if strings.Contains(lowered, strings.ToLower(kind)) {
			return kind
		}
	}
	return "Strategy"
}
