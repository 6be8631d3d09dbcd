package rotation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rpgo/roth-optimizer/internal/domain"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Trader runs the daily basket rotation against a broker.
type Trader struct {
	broker       Broker
	baskets      map[string]Basket
	schedule     *Schedule
	cashFraction decimal.Decimal
	markup       decimal.Decimal
	logger       *zap.Logger

	newID func() string
	now   func() time.Time
}

// NewTrader wires a broker to the configured baskets and schedule.
func NewTrader(broker Broker, settings domain.RotationSettings, logger *zap.Logger) (*Trader, error) {
	if broker == nil {
		return nil, errors.New("rotation trader requires a broker")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	baskets, err := BasketsFromSettings(settings.Baskets)
	if err != nil {
		return nil, err
	}
	for _, e := range DefaultEvents() {
		if e.Action == ActionBuy {
			if _, ok := baskets[e.Basket]; !ok {
				return nil, fmt.Errorf("scheduled basket %s is not defined", e.Basket)
			}
		}
	}

	window := time.Duration(settings.WindowSeconds) * time.Second
	schedule, err := NewSchedule(DefaultEvents(), window)
	if err != nil {
		return nil, err
	}

	t := &Trader{
		broker:       broker,
		baskets:      baskets,
		schedule:     schedule,
		cashFraction: settings.CashFraction,
		markup:       settings.LimitMarkup,
		logger:       logger,
		newID:        uuid.NewString,
		now:          time.Now,
	}
	for _, b := range baskets {
		if w := b.TotalWeight(); w.GreaterThan(decimal.NewFromInt(1)) {
			logger.Warn("basket weights exceed the deployable cash",
				zap.String("basket", b.Name), zap.String("total_weight", w.String()))
		}
	}
	return t, nil
}

// AvailableCash is the account cash scaled by the configured fraction, or
// zero when the account cannot be read.
func (t *Trader) AvailableCash(ctx context.Context) decimal.Decimal {
	cash, err := t.broker.Cash(ctx)
	if err != nil {
		t.logger.Error("could not fetch account cash", zap.Error(err))
		return decimal.Zero
	}
	return cash.Mul(t.cashFraction)
}

// Liquidate closes every position. Failures are logged.
func (t *Trader) Liquidate(ctx context.Context) {
	if err := t.broker.LiquidateAll(ctx); err != nil {
		t.logger.Error("liquidation failed", zap.Error(err))
		return
	}
	t.logger.Info("all positions liquidated")
}

// Buy sizes and submits limit buys for the named basket and returns the
// orders the broker accepted. Per-symbol failures are logged and skipped.
func (t *Trader) Buy(ctx context.Context, name string) []OrderPlan {
	basket, ok := t.baskets[name]
	if !ok {
		t.logger.Error("unknown basket", zap.String("basket", name))
		return nil
	}

	cash := t.AvailableCash(ctx)
	if !cash.IsPositive() {
		t.logger.Warn("no cash available to trade", zap.String("basket", name))
		return nil
	}

	t.logger.Info("buying basket",
		zap.String("basket", name),
		zap.String("cash", cash.StringFixed(2)),
		zap.Bool("extended_hours", basket.ExtendedHours))

	// Each order is sized from a price fetched just before it is submitted.
	var placed []OrderPlan
	for _, h := range basket.Holdings {
		log := t.logger.With(zap.String("symbol", h.Symbol))

		price, err := t.broker.LatestPrice(ctx, h.Symbol)
		if err != nil {
			log.Error("failed to buy", zap.Error(err))
			continue
		}
		order, ok := PlanOrder(cash, h, price, t.markup, basket.ExtendedHours)
		if !ok {
			log.Debug("skipped", zap.String("price", price.String()))
			continue
		}
		order.ClientOrderID = t.newID()

		id, err := t.broker.PlaceLimitBuy(ctx, order)
		if err != nil {
			log.Error("failed to buy", zap.Error(err))
			continue
		}
		log.Info("buy submitted",
			zap.Int64("qty", order.Qty),
			zap.String("limit_price", order.LimitPrice.StringFixed(2)),
			zap.String("allocation", order.Allocation.StringFixed(2)),
			zap.String("order_id", id))
		placed = append(placed, order)
	}
	return placed
}

// Step runs every event due at now.
func (t *Trader) Step(ctx context.Context, now time.Time) []Event {
	due := t.schedule.Due(now)
	for _, e := range due {
		t.logger.Info("event due", zap.String("at", e.Name()), zap.Stringer("action", e.Action))
		switch e.Action {
		case ActionLiquidate:
			t.Liquidate(ctx)
		case ActionBuy:
			t.Buy(ctx, e.Basket)
		}
	}
	return due
}

// Run polls the schedule once per second until ctx is done.
func (t *Trader) Run(ctx context.Context) error {
	t.logger.Info("starting rotation loop", zap.String("time_zone", t.schedule.Location().String()))

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	t.Step(ctx, t.now())
	for {
		select {
		case <-ctx.Done():
			t.logger.Info("rotation loop stopped")
			return ctx.Err()
		case <-ticker.C:
			t.Step(ctx, t.now())
		}
	}
}
