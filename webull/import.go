// Package webull parses Webull order export CSV files into transactions.
//
// An export directory typically holds one file per account section, e.g.
// "Webull_Orders_Records.csv" for stock orders and
// "Webull_Options_Records.csv" for option orders. Option files mix
// single-leg contracts with multi-leg strategy orders: a strategy appears as
// a parent row carrying the order name but no symbol, followed by one row
// per leg sharing the parent's placed time. The legs are folded into the
// parent and never emitted as trades of their own.
package webull

import (
	"encoding/csv"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"webullpnl"
)

// timeLayout is the wall-clock layout of Webull timestamps, an optional
// trailing timezone word aside.
const timeLayout = "01/02/2006 15:04:05"

// Load reads every CSV export under dir (recursively, in sorted path order)
// and returns the transactions found, in file order. Files without the order
// columns are skipped.
func Load(dir string) ([]webullpnl.Transaction, error) {
	var paths []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.EqualFold(filepath.Ext(path), ".csv") {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("cannot scan data directory %q: %w", dir, err)
	}
	slices.Sort(paths)

	var trades []webullpnl.Transaction
	for _, path := range paths {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		parsed, err := File(f, filepath.Base(path))
		f.Close()
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		trades = append(trades, parsed...)
	}
	return trades, nil
}

// File parses a single order export. The file name decides the layout: files
// with "Options" in their name hold option and strategy orders, any other
// file stock orders. A file missing the Side or Filled column is not an
// order export and yields no transactions.
func File(r io.Reader, name string) ([]webullpnl.Transaction, error) {
	headers, records, err := readRecords(r)
	if err != nil {
		return nil, err
	}
	if !slices.Contains(headers, "Side") || !slices.Contains(headers, "Filled") {
		return nil, nil
	}
	if strings.Contains(name, "Options") {
		return parseOptions(records), nil
	}
	return parseStocks(records), nil
}

// record is one CSV row keyed by trimmed header name.
type record map[string]string

func readRecords(r io.Reader) ([]string, []record, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	rows, err := cr.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("cannot read CSV: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil, nil
	}
	headers := rows[0]
	for i := range headers {
		headers[i] = strings.TrimSpace(headers[i])
	}
	records := make([]record, 0, len(rows)-1)
	for _, row := range rows[1:] {
		rec := make(record, len(headers))
		for i, h := range headers {
			if i < len(row) {
				rec[h] = strings.TrimSpace(row[i])
			}
		}
		records = append(records, rec)
	}
	return headers, records, nil
}

func parseStocks(records []record) []webullpnl.Transaction {
	var trades []webullpnl.Transaction
	for _, rec := range records {
		side, qty, price, at, ok := core(rec)
		if !ok || rec["Symbol"] == "" {
			continue
		}
		trades = append(trades, webullpnl.NewStockTrade(at, side, rec["Symbol"], qty, price))
	}
	return trades
}

func parseOptions(records []record) []webullpnl.Transaction {
	// First pass: placed times of strategy parent rows (a name, no symbol).
	parents := make(map[string]bool)
	for _, rec := range records {
		if rec["Name"] != "" && rec["Symbol"] == "" && rec["Placed Time"] != "" {
			parents[rec["Placed Time"]] = true
		}
	}
	// Second pass: fold leg symbols under their parent's placed time.
	legs := make(map[string][]string)
	for _, rec := range records {
		placed := rec["Placed Time"]
		if parents[placed] && rec["Symbol"] != "" {
			legs[placed] = append(legs[placed], rec["Symbol"])
		}
	}

	var trades []webullpnl.Transaction
	for _, rec := range records {
		side, qty, price, at, ok := core(rec)
		if !ok {
			continue
		}
		name, symbol, placed := rec["Name"], rec["Symbol"], rec["Placed Time"]
		switch {
		case name != "" && symbol == "":
			trades = append(trades, webullpnl.NewStrategyTrade(at, side, name, legs[placed], qty, price))
		case parents[placed] && name == "":
			// A leg of a strategy order, already folded into its parent.
		case symbol != "":
			trades = append(trades, webullpnl.NewOptionTrade(at, side, symbol, qty, price))
		}
	}
	return trades
}

// core extracts direction, quantity, price and execution time from a row.
// Only filled Buy/Sell rows with a positive quantity, a parseable price and
// a parseable time qualify; everything else (cancelled, working, summary
// rows) is dropped.
func core(rec record) (side webullpnl.Side, qty webullpnl.Quantity, price webullpnl.Money, at time.Time, ok bool) {
	if status := strings.ToLower(rec["Status"]); status != "" && status != "filled" {
		return
	}
	side, err := webullpnl.ParseSide(rec["Side"])
	if err != nil {
		return
	}
	qty, err = webullpnl.ParseQuantity(cleanNumber(rec["Filled"]))
	if err != nil || !qty.IsPositive() {
		return
	}
	text := rec["Avg Price"]
	if text == "" {
		text = rec["Price"]
	}
	price, err = webullpnl.ParseMoney(cleanNumber(text))
	if err != nil {
		return
	}
	text = rec["Filled Time"]
	if text == "" {
		text = rec["Placed Time"]
	}
	at, err = parseTime(text)
	if err != nil {
		return
	}
	return side, qty, price, at, true
}

// cleanNumber strips the decoration Webull puts around numbers: a leading
// "@" on limit prices, "$" signs and thousands separators.
func cleanNumber(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "@")
	s = strings.TrimPrefix(s, "$")
	return strings.ReplaceAll(s, ",", "")
}

// parseTime parses a Webull timestamp, dropping the trailing timezone word
// ("EDT") when present: exports are wall-clock times.
func parseTime(s string) (time.Time, error) {
	fields := strings.Fields(s)
	if n := len(fields); n > 0 && len(fields[n-1]) <= 4 && isAlpha(fields[n-1]) {
		fields = fields[:n-1]
	}
	return time.Parse(timeLayout, strings.Join(fields, " "))
}

func isAlpha(s string) bool {
	for _, r := range s {
		if r < 'A' || (r > 'Z' && r < 'a') || r > 'z' {
			return false
		}
	}
	return s != ""
}
