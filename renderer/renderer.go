// Package renderer formats reports as markdown. It owns every presentation
// concern (currency strings, signs, column layout); the engine only hands it
// structured values.
package renderer

import (
	"fmt"
	"strings"

	"webullpnl"
)

// LogMarkdown renders the per-transaction realized P&L table.
func LogMarkdown(rows []webullpnl.Row) string {
	var b strings.Builder
	fmt.Fprint(&b, "# Realized P&L by Transaction\n\n")
	if len(rows) == 0 {
		fmt.Fprint(&b, "No transactions.\n")
		return b.String()
	}

	fmt.Fprintln(&b, "| Date | Instrument | Asset | Option | Side | Qty | Price | Closed Qty | Realized P&L | Running P&L |")
	fmt.Fprintln(&b, "|:---|:---|:---|:---|:---|---:|---:|---:|---:|---:|")
	for _, row := range rows {
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s | %s | %s | %s | %s | %s |\n",
			row.Time.Format("2006-01-02 15:04:05"),
			row.Instrument,
			row.Instrument.Class,
			orDash(row.Instrument.Kind()),
			row.Side,
			row.Quantity,
			formatPrice(row.Price, row.Instrument.Class),
			row.Closed,
			row.Realized.SignedString(),
			row.Running.SignedString(),
		)
	}
	return b.String()
}

// PositionsMarkdown renders the open positions snapshot.
func PositionsMarkdown(positions []webullpnl.Position) string {
	var b strings.Builder
	fmt.Fprint(&b, "## Open Positions\n\n")
	if len(positions) == 0 {
		fmt.Fprint(&b, "No open positions.\n")
		return b.String()
	}

	fmt.Fprintln(&b, "| Instrument | Asset | Option | Side | Qty | Avg Price | Expiry |")
	fmt.Fprintln(&b, "|:---|:---|:---|:---|---:|---:|---:|")
	for _, p := range positions {
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s | %s | %s |\n",
			p.Instrument,
			p.Instrument.Class,
			orDash(p.Instrument.Kind()),
			p.Side,
			p.Quantity,
			formatPrice(p.AveragePrice, p.Instrument.Class),
			formatExpiry(p.Instrument),
		)
	}
	return b.String()
}

// ReportMarkdown renders the full report: the transaction log, the open
// positions and the final realized total.
func ReportMarkdown(r *webullpnl.Report) string {
	var b strings.Builder
	b.WriteString(LogMarkdown(r.Rows))
	b.WriteString("\n")
	b.WriteString(PositionsMarkdown(r.Positions))
	fmt.Fprintf(&b, "\n**Final realized P&L:** %s\n", r.Realized.SignedString())
	return b.String()
}

// formatPrice renders a per-unit price: option premiums show up to three
// decimals, stock prices two, trailing zeros trimmed.
func formatPrice(m webullpnl.Money, class webullpnl.AssetClass) string {
	places := int32(2)
	if class != webullpnl.Stock {
		places = 3
	}
	s := m.StringFixed(places)
	if strings.Contains(s, ".") {
		s = strings.TrimRight(s, "0")
		s = strings.TrimRight(s, ".")
	}
	return s
}

func formatExpiry(inst webullpnl.Instrument) string {
	if inst.Expiry.IsZero() {
		return "-"
	}
	return inst.Expiry.Format("02 Jan 2006")
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
