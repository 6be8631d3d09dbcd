package rotation

import (
	"fmt"
	"strings"

	"github.com/rpgo/roth-optimizer/internal/domain"
	"github.com/shopspring/decimal"
)

// Names of the two scheduled baskets.
const (
	BasketIntraday   = "INTRADAY"
	BasketAfterHours = "AH"
)

// Holding is one symbol of a basket and the share of deployable cash it gets.
type Holding struct {
	Symbol string
	Weight decimal.Decimal
}

// Basket is an ordered list of holdings bought together.
type Basket struct {
	Name          string
	ExtendedHours bool
	Holdings      []Holding
}

// TotalWeight sums the holding weights.
func (b Basket) TotalWeight() decimal.Decimal {
	total := decimal.Zero
	for _, h := range b.Holdings {
		total = total.Add(h.Weight)
	}
	return total
}

func hold(symbol, weight string) Holding {
	return Holding{Symbol: symbol, Weight: decimal.RequireFromString(weight)}
}

// DefaultBaskets returns the built-in regular-hours and after-hours baskets.
func DefaultBaskets() map[string]Basket {
	return map[string]Basket{
		BasketIntraday: {
			Name: BasketIntraday,
			Holdings: []Holding{
				hold("QQQ", "0.1282"),
				hold("EWJ", "0.0933"),
				hold("EWS", "0.1282"),
				hold("EWU", "0.1282"),
				hold("EWL", "0.0700"),
				hold("EWG", "0.0933"),
				hold("EWA", "0.0700"),
				hold("EWH", "0.0700"),
				hold("EWM", "0.0933"),
				hold("BBJP", "0.1749"),
				hold("EWD", "0.1166"),
			},
		},
		BasketAfterHours: {
			Name:          BasketAfterHours,
			ExtendedHours: true,
			Holdings: []Holding{
				hold("QQQ", "0.1200"),
				hold("ONEQ", "0.1080"),
				hold("COPX", "0.0624"),
				hold("XOP", "0.1314"),
				hold("PSCE", "0.0624"),
				hold("ISCG", "0.0524"),
				hold("AVUV", "0.0524"),
				hold("CALF", "0.0524"),
				hold("GLD", "0.0421"),
				hold("SLV", "0.0421"),
				hold("URA", "0.0421"),
				hold("URNM", "0.0421"),
				hold("XAR", "0.1052"),
				hold("AFK", "0.0264"),
			},
		},
	}
}

// BasketsFromSettings starts from the defaults and replaces (or adds) any
// basket named in the settings. Names are matched case-insensitively.
func BasketsFromSettings(overrides []domain.BasketSettings) (map[string]Basket, error) {
	baskets := DefaultBaskets()
	for _, o := range overrides {
		name := strings.ToUpper(strings.TrimSpace(o.Name))
		if name == "" {
			return nil, fmt.Errorf("basket override without a name")
		}
		b := Basket{Name: name, ExtendedHours: o.ExtendedHours}
		for _, h := range o.Holdings {
			b.Holdings = append(b.Holdings, Holding{Symbol: h.Symbol, Weight: h.Weight})
		}
		if len(b.Holdings) == 0 {
			return nil, fmt.Errorf("basket %s has no holdings", name)
		}
		baskets[name] = b
	}
	return baskets, nil
}
