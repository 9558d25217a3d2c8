package subscription

import (
	"strconv"
	"time"

	"github.com/shopspring/decimal"
	"github.com/vidinfra/clv/internal/types"
)

// Fact is one qualifying (subscription, paid payment) row joined with the
// owning user's recency figures. Only subscriptions with is_paid = true and
// an associated payment qualify. Facts are read-only inputs to the compute
// pipeline and are discarded once folded into a user accumulator.
type Fact struct {
	// UserID is the identifier of the subscribing user
	UserID int64 `db:"user_id" json:"user_id"`

	// StartTime is the start of the subscription interval
	StartTime time.Time `db:"start_time" json:"start_time"`

	// EndTime is the end of the subscription interval
	EndTime time.Time `db:"end_time" json:"end_time"`

	// Length is the nominal subscription length in days
	Length int64 `db:"length" json:"length"`

	// SubscriptionTypeID references the subscription type
	SubscriptionTypeID int64 `db:"subscription_type_id" json:"subscription_type_id"`

	// Type is the subscription type label
	Type string `db:"type" json:"type"`

	// IsRecurrent reports whether the subscription renews automatically
	IsRecurrent bool `db:"is_recurrent" json:"is_recurrent"`

	// Amount is the paid amount of the associated payment
	Amount decimal.Decimal `db:"amount" json:"amount"`

	// PaymentGatewayID references the gateway the payment went through
	PaymentGatewayID int64 `db:"payment_gateway_id" json:"payment_gateway_id"`

	// LastSignInDays is the day count since the user's most recent sign-in,
	// computed by the fact query at fetch time
	LastSignInDays int64 `db:"last_sign_in_days" json:"last_sign_in_days"`

	// CreatedAtInDays is the day count since the user account was created,
	// computed by the fact query at fetch time
	CreatedAtInDays int64 `db:"created_at_in_days" json:"created_at_in_days"`
}

// DecisionValue returns the stringified value of the given decision
// attribute for this fact. The string form is the grouping key used by both
// the decision resolver and the group quantile table.
func (f *Fact) DecisionValue(attr types.DecisionAttribute) string {
	switch attr {
	case types.DecisionSubscriptionTypeID:
		return strconv.FormatInt(f.SubscriptionTypeID, 10)
	case types.DecisionIsRecurrent:
		return strconv.FormatBool(f.IsRecurrent)
	case types.DecisionType:
		return f.Type
	case types.DecisionLength:
		return strconv.FormatInt(f.Length, 10)
	case types.DecisionAmount:
		return f.Amount.String()
	case types.DecisionPaymentGatewayID:
		return strconv.FormatInt(f.PaymentGatewayID, 10)
	}
	return ""
}

// DailyPrice is the nominal per-day price of the subscription.
func (f *Fact) DailyPrice() decimal.Decimal {
	if f.Length == 0 {
		return decimal.Zero
	}
	return f.Amount.Div(decimal.NewFromInt(f.Length))
}
