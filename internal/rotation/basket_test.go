package rotation

import (
	"testing"

	"github.com/rpgo/roth-optimizer/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultBaskets(t *testing.T) {
	baskets := DefaultBaskets()
	require.Len(t, baskets, 2)

	intraday := baskets[BasketIntraday]
	assert.False(t, intraday.ExtendedHours)
	require.Len(t, intraday.Holdings, 11)
	assert.Equal(t, "QQQ", intraday.Holdings[0].Symbol)
	assert.Equal(t, "BBJP", intraday.Holdings[9].Symbol)
	assert.True(t, intraday.Holdings[9].Weight.Equal(decimal.RequireFromString("0.1749")))
	assert.True(t, intraday.TotalWeight().Equal(decimal.RequireFromString("1.166")), "got %s", intraday.TotalWeight())

	ah := baskets[BasketAfterHours]
	assert.True(t, ah.ExtendedHours)
	require.Len(t, ah.Holdings, 14)
	assert.Equal(t, "AFK", ah.Holdings[13].Symbol)
	assert.True(t, ah.TotalWeight().Equal(decimal.RequireFromString("0.9414")), "got %s", ah.TotalWeight())
}

func TestDefaultBaskets_Independent(t *testing.T) {
	a := DefaultBaskets()
	a[BasketIntraday].Holdings[0].Weight = decimal.Zero
	b := DefaultBaskets()
	assert.False(t, b[BasketIntraday].Holdings[0].Weight.IsZero())
}

func TestBasketsFromSettings(t *testing.T) {
	baskets, err := BasketsFromSettings([]domain.BasketSettings{{
		Name:          " ah ",
		ExtendedHours: true,
		Holdings: []domain.HoldingSettings{
			{Symbol: "GLD", Weight: decimal.RequireFromString("0.6")},
			{Symbol: "SLV", Weight: decimal.RequireFromString("0.4")},
		},
	}, {
		Name:     "BONDS",
		Holdings: []domain.HoldingSettings{{Symbol: "TLT", Weight: decimal.NewFromInt(1)}},
	}})
	require.NoError(t, err)
	require.Len(t, baskets, 3)

	ah := baskets[BasketAfterHours]
	require.Len(t, ah.Holdings, 2)
	assert.Equal(t, "GLD", ah.Holdings[0].Symbol)
	assert.True(t, ah.ExtendedHours)

	assert.Len(t, baskets[BasketIntraday].Holdings, 11, "intraday keeps its default")
	assert.Equal(t, "TLT", baskets["BONDS"].Holdings[0].Symbol)
}

func TestBasketsFromSettings_Errors(t *testing.T) {
	_, err := BasketsFromSettings([]domain.BasketSettings{{Name: "  "}})
	assert.Error(t, err)

	_, err = BasketsFromSettings([]domain.BasketSettings{{Name: "EMPTY"}})
	assert.ErrorContains(t, err, "EMPTY has no holdings")
}
