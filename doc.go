// Package webullpnl turns a chronological stream of brokerage order records
// (stock and option trades, including multi-leg option strategies) into a
// realized profit-and-loss ledger.
//
// The core functionalities include:
//   - Instrument Resolution: deriving a stable identity for each trade's
//     underlying tradable object (equity, single option contract, or
//     multi-leg strategy) from the free-form fields of an order export,
//     so that opening and closing trades of the same thing match.
//   - Lot Matching: per instrument, an ordered queue of open lots matched
//     first-in-first-out against closing trades, releasing realized P&L.
//   - Reporting: one row per transaction with its realized P&L and a
//     running cumulative total, plus a snapshot of positions still open
//     at the end of the stream. An optional as-of date additionally
//     closes out option positions past their expiry at a value of zero.
//
// All arithmetic is exact decimal; nothing in this package touches files
// or the terminal. The webull package parses order exports into
// transactions, and the renderer and cmd packages present the results.
// This package is the foundational logic for the `wpnl` command-line tool.
package webullpnl
