package webullpnl

import "time"

// lot is the unmatched remainder of an opening trade, awaiting a future
// opposite-side trade to realize its P&L. An opening Sell lot represents a
// short position.
type lot struct {
	side   Side
	qty    Quantity // remaining quantity, always positive
	price  Money    // per-unit entry price, fixed at creation
	opened time.Time
}

// lots is the open-lot queue of one instrument, oldest first.
type lots []lot

// apply matches a trade against the queue using FIFO and returns the updated
// queue, the quantity actually closed and the realized P&L (at full
// precision, scaled by the instrument multiplier).
//
// A trade on the side already held opens a new lot. A trade on the opposite
// side consumes the oldest lots first; if it exhausts the queue and has
// quantity left, the remainder flips through zero and opens a new lot on the
// trade's side at the trade's price.
func (l lots) apply(side Side, qty Quantity, price Money, mult Quantity, at time.Time) (lots, Quantity, Money) {
	remaining := qty
	var closed Quantity
	var realized Money
	updated := make(lots, 0, len(l)+1)

	for _, cur := range l {
		if remaining.IsPositive() && cur.side != side {
			match := remaining.Min(cur.qty)
			// Per unit: close minus entry for long lots, entry minus close
			// for short lots.
			var perUnit Money
			if side == Sell {
				perUnit = price.Sub(cur.price)
			} else {
				perUnit = cur.price.Sub(price)
			}
			realized = realized.Add(perUnit.Mul(match).Mul(mult))
			closed = closed.Add(match)
			remaining = remaining.Sub(match)
			if left := cur.qty.Sub(match); left.IsPositive() {
				updated = append(updated, lot{side: cur.side, qty: left, price: cur.price, opened: cur.opened})
			}
		} else {
			updated = append(updated, cur)
		}
	}

	if remaining.IsPositive() {
		updated = append(updated, lot{side: side, qty: remaining, price: price, opened: at})
	}
	return updated, closed, realized
}

// expire closes every remaining lot at a settlement price of zero (expired
// worthless): a loss of the full entry premium for long lots, a gain of the
// full premium for short lots.
func (l lots) expire(mult Quantity) (realized Money, closed Quantity) {
	for _, cur := range l {
		premium := cur.price.Mul(cur.qty).Mul(mult)
		if cur.side == Buy {
			realized = realized.Sub(premium)
		} else {
			realized = realized.Add(premium)
		}
		closed = closed.Add(cur.qty)
	}
	return realized, closed
}

// quantity returns the total remaining quantity across the queue.
func (l lots) quantity() Quantity {
	var total Quantity
	for _, cur := range l {
		total = total.Add(cur.qty)
	}
	return total
}

// averagePrice returns the quantity-weighted mean entry price of the queue.
func (l lots) averagePrice() Money {
	total := l.quantity()
	if total.IsZero() {
		return Money{}
	}
	var weighted Money
	for _, cur := range l {
		weighted = weighted.Add(cur.price.Mul(cur.qty))
	}
	return weighted.Div(total)
}

// consistent reports whether the queue respects its invariants: positive
// remaining quantities and a single opening side across all lots.
func (l lots) consistent() bool {
	for _, cur := range l {
		if cur.qty.IsNegative() || cur.qty.IsZero() {
			return false
		}
		if cur.side != l[0].side {
			return false
		}
	}
	return true
}
