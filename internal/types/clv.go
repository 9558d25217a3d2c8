package types

// DecisionAttribute is a categorical subscription field that is resolved to a
// single dominant value per user. The dominant value is the candidate with the
// greatest accumulated partial amount, ties broken by the later subscription
// start time, then by candidate insertion order.
type DecisionAttribute string

const (
	DecisionSubscriptionTypeID DecisionAttribute = "subscription_type_id"
	DecisionIsRecurrent        DecisionAttribute = "is_recurrent"
	DecisionType               DecisionAttribute = "type"
	DecisionLength             DecisionAttribute = "length"
	DecisionAmount             DecisionAttribute = "amount"
	DecisionPaymentGatewayID   DecisionAttribute = "payment_gateway_id"
)

// DecisionAttributes returns all decision attributes in their canonical order.
func DecisionAttributes() []DecisionAttribute {
	return []DecisionAttribute{
		DecisionSubscriptionTypeID,
		DecisionIsRecurrent,
		DecisionType,
		DecisionLength,
		DecisionAmount,
		DecisionPaymentGatewayID,
	}
}

// BinnedAttribute is a continuous or behavioral per-user figure whose raw
// value is replaced by an octile bin index 0-7 after aggregation.
type BinnedAttribute string

const (
	BinnedPeriodPaidSubCount    BinnedAttribute = "period_paid_sub_count"
	BinnedPeriodAmount          BinnedAttribute = "period_amount"
	BinnedPeriodActiveDays      BinnedAttribute = "period_active_days"
	BinnedDaysSinceFirstPaidSub BinnedAttribute = "days_since_first_paid_sub"
	BinnedPartialAmount         BinnedAttribute = "partial_amount"
	BinnedLastSignInDays        BinnedAttribute = "last_sign_in_days"
	BinnedCreatedAtInDays       BinnedAttribute = "created_at_in_days"
	BinnedLastAccessDateInDays  BinnedAttribute = "last_access_date_in_days"
)

// BinnedAttributes returns all binned attributes in their canonical order.
func BinnedAttributes() []BinnedAttribute {
	return []BinnedAttribute{
		BinnedPeriodPaidSubCount,
		BinnedPeriodAmount,
		BinnedPeriodActiveDays,
		BinnedDaysSinceFirstPaidSub,
		BinnedPartialAmount,
		BinnedLastSignInDays,
		BinnedCreatedAtInDays,
		BinnedLastAccessDateInDays,
	}
}

// BinSuffix is appended to a binned attribute's name once its raw value has
// been replaced by a bin index, so group keys of binned attributes never
// collide with raw attribute names.
const BinSuffix = "_bin"

// GroupKeyAttribute returns the attribute name a binned attribute is grouped
// under in the group quantile table.
func (b BinnedAttribute) GroupKeyAttribute() string {
	return string(b) + BinSuffix
}

// GroupKey identifies one (attribute, value) group in the group quantile
// table. Value carries the stringified attribute value, matching the lookup
// performed during percentile synthesis.
type GroupKey struct {
	Attribute string
	Value     string
}

// OctileBinCount is the number of equal-population bins a binned attribute is
// divided into.
const OctileBinCount = 8

// OctilePercentiles are the percentile points of the 9-point octile ladder.
func OctilePercentiles() []float64 {
	return []float64{0, 12.5, 25, 37.5, 50, 62.5, 75, 87.5, 100}
}
