package rotation

import (
	"github.com/shopspring/decimal"
)

// OrderPlan is a limit buy sized from a basket holding.
type OrderPlan struct {
	ClientOrderID string
	Symbol        string
	Qty           int64
	LimitPrice    decimal.Decimal
	LastPrice     decimal.Decimal
	Allocation    decimal.Decimal
	ExtendedHours bool
}

// SizeOrder turns an allocation into whole shares and a limit price.
// ok is false when the price is not positive or the allocation buys less
// than one share.
func SizeOrder(allocation, price, markup decimal.Decimal) (qty int64, limit decimal.Decimal, ok bool) {
	if !price.IsPositive() {
		return 0, decimal.Zero, false
	}
	qty = allocation.Div(price).Floor().IntPart()
	if qty <= 0 {
		return 0, decimal.Zero, false
	}
	limit = price.Mul(decimal.NewFromInt(1).Add(markup)).Round(2)
	return qty, limit, true
}

// PlanOrder sizes one holding against cash at price. ok is false when the
// holding cannot buy a whole share.
func PlanOrder(cash decimal.Decimal, h Holding, price, markup decimal.Decimal, extendedHours bool) (OrderPlan, bool) {
	if !cash.IsPositive() {
		return OrderPlan{}, false
	}
	allocation := cash.Mul(h.Weight)
	qty, limit, ok := SizeOrder(allocation, price, markup)
	if !ok {
		return OrderPlan{}, false
	}
	return OrderPlan{
		Symbol:        h.Symbol,
		Qty:           qty,
		LimitPrice:    limit,
		LastPrice:     price,
		Allocation:    allocation,
		ExtendedHours: extendedHours,
	}, true
}
