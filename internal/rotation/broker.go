package rotation

import (
	"context"
	"sync"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Broker is the brokerage surface the trader needs.
type Broker interface {
	Cash(ctx context.Context) (decimal.Decimal, error)
	LiquidateAll(ctx context.Context) error
	LatestPrice(ctx context.Context, symbol string) (decimal.Decimal, error)
	PlaceLimitBuy(ctx context.Context, order OrderPlan) (string, error)
}

// DryRunBroker reads cash and prices from an upstream broker but only logs
// liquidations and orders.
type DryRunBroker struct {
	upstream Broker
	logger   *zap.Logger

	mu           sync.Mutex
	orders       []OrderPlan
	liquidations int
}

// NewDryRunBroker wraps upstream. A nil logger logs nothing.
func NewDryRunBroker(upstream Broker, logger *zap.Logger) *DryRunBroker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DryRunBroker{upstream: upstream, logger: logger.With(zap.Bool("dry_run", true))}
}

func (b *DryRunBroker) Cash(ctx context.Context) (decimal.Decimal, error) {
	return b.upstream.Cash(ctx)
}

func (b *DryRunBroker) LatestPrice(ctx context.Context, symbol string) (decimal.Decimal, error) {
	return b.upstream.LatestPrice(ctx, symbol)
}

func (b *DryRunBroker) LiquidateAll(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	b.mu.Lock()
	b.liquidations++
	b.mu.Unlock()
	b.logger.Info("would liquidate all positions")
	return nil
}

func (b *DryRunBroker) PlaceLimitBuy(ctx context.Context, order OrderPlan) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	b.mu.Lock()
	b.orders = append(b.orders, order)
	b.mu.Unlock()
	b.logger.Info("would place limit buy",
		zap.String("symbol", order.Symbol),
		zap.Int64("qty", order.Qty),
		zap.String("limit_price", order.LimitPrice.StringFixed(2)),
		zap.Bool("extended_hours", order.ExtendedHours),
		zap.String("client_order_id", order.ClientOrderID),
	)
	return order.ClientOrderID, nil
}

// Orders returns the orders that would have been placed.
func (b *DryRunBroker) Orders() []OrderPlan {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]OrderPlan(nil), b.orders...)
}

// Liquidations counts skipped liquidation calls.
func (b *DryRunBroker) Liquidations() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.liquidations
}
