package rotation

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/alpacahq/alpaca-trade-api-go/v3/alpaca"
	"github.com/alpacahq/alpaca-trade-api-go/v3/marketdata"
	"github.com/shopspring/decimal"
)

// ErrMissingCredentials is returned when the Alpaca key pair is not set.
var ErrMissingCredentials = errors.New("ALPACA_API_KEY and ALPACA_SECRET_KEY must be set")

// AlpacaBroker places orders through the Alpaca trading API and reads
// prices from its market data API.
type AlpacaBroker struct {
	trading *alpaca.Client
	market  *marketdata.Client
}

// NewAlpacaBroker builds the trading and market data clients. An empty
// baseURL uses the SDK default.
func NewAlpacaBroker(apiKey, apiSecret, baseURL string) (*AlpacaBroker, error) {
	if apiKey == "" || apiSecret == "" {
		return nil, ErrMissingCredentials
	}
	return &AlpacaBroker{
		trading: alpaca.NewClient(alpaca.ClientOpts{
			APIKey:    apiKey,
			APISecret: apiSecret,
			BaseURL:   baseURL,
		}),
		market: marketdata.NewClient(marketdata.ClientOpts{
			APIKey:    apiKey,
			APISecret: apiSecret,
		}),
	}, nil
}

// NewAlpacaBrokerFromEnv reads ALPACA_API_KEY, ALPACA_SECRET_KEY and
// ALPACA_BASE_URL. Loading a .env file is left to the caller.
func NewAlpacaBrokerFromEnv() (*AlpacaBroker, error) {
	return NewAlpacaBroker(
		os.Getenv("ALPACA_API_KEY"),
		os.Getenv("ALPACA_SECRET_KEY"),
		os.Getenv("ALPACA_BASE_URL"),
	)
}

// The SDK calls take no context, so cancellation is only checked up front.

func (b *AlpacaBroker) Cash(ctx context.Context) (decimal.Decimal, error) {
	if err := ctx.Err(); err != nil {
		return decimal.Zero, err
	}
	account, err := b.trading.GetAccount()
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to get account: %w", err)
	}
	return account.Cash, nil
}

func (b *AlpacaBroker) LiquidateAll(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, err := b.trading.CloseAllPositions(alpaca.CloseAllPositionsRequest{}); err != nil {
		return fmt.Errorf("failed to close positions: %w", err)
	}
	return nil
}

func (b *AlpacaBroker) LatestPrice(ctx context.Context, symbol string) (decimal.Decimal, error) {
	if err := ctx.Err(); err != nil {
		return decimal.Zero, err
	}
	trade, err := b.market.GetLatestTrade(symbol, marketdata.GetLatestTradeRequest{})
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to get latest trade for %s: %w", symbol, err)
	}
	if trade == nil {
		return decimal.Zero, fmt.Errorf("no latest trade for %s", symbol)
	}
	return decimal.NewFromFloat(trade.Price), nil
}

func (b *AlpacaBroker) PlaceLimitBuy(ctx context.Context, order OrderPlan) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	qty := decimal.NewFromInt(order.Qty)
	limitPrice := order.LimitPrice
	placed, err := b.trading.PlaceOrder(alpaca.PlaceOrderRequest{
		Symbol:        order.Symbol,
		Qty:           &qty,
		Side:          alpaca.Buy,
		Type:          alpaca.Limit,
		TimeInForce:   alpaca.Day,
		LimitPrice:    &limitPrice,
		ExtendedHours: order.ExtendedHours,
		ClientOrderID: order.ClientOrderID,
	})
	if err != nil {
		return "", fmt.Errorf("failed to place order for %s: %w", order.Symbol, err)
	}
	return placed.ID, nil
}
