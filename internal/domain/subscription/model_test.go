package subscription

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/vidinfra/clv/internal/types"
)

func TestDecisionValue(t *testing.T) {
	fact := &Fact{
		UserID:             7,
		StartTime:          time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
		Length:             30,
		SubscriptionTypeID: 84,
		Type:               "web",
		IsRecurrent:        true,
		Amount:             decimal.NewFromFloat(9.90),
		PaymentGatewayID:   3,
	}

	assert.Equal(t, "84", fact.DecisionValue(types.DecisionSubscriptionTypeID))
	assert.Equal(t, "true", fact.DecisionValue(types.DecisionIsRecurrent))
	assert.Equal(t, "web", fact.DecisionValue(types.DecisionType))
	assert.Equal(t, "30", fact.DecisionValue(types.DecisionLength))
	assert.Equal(t, "9.9", fact.DecisionValue(types.DecisionAmount))
	assert.Equal(t, "3", fact.DecisionValue(types.DecisionPaymentGatewayID))
}

func TestDecisionValueEqualAmountsShareKey(t *testing.T) {
	a := &Fact{Amount: decimal.NewFromFloat(10.50)}
	b := &Fact{Amount: decimal.RequireFromString("10.5")}

	assert.Equal(t, a.DecisionValue(types.DecisionAmount), b.DecisionValue(types.DecisionAmount))
}

func TestDailyPrice(t *testing.T) {
	fact := &Fact{Amount: decimal.NewFromInt(120), Length: 30}
	assert.True(t, fact.DailyPrice().Equal(decimal.NewFromInt(4)))

	zeroLength := &Fact{Amount: decimal.NewFromInt(120), Length: 0}
	assert.True(t, zeroLength.DailyPrice().IsZero())
}
