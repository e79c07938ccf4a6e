package audit

import (
	"time"

	"github.com/shopspring/decimal"
)

// EventType classifies pricing audit records.
type EventType string

const (
	EventPricingCalculation EventType = "pricing_calculation"
	EventDiscountEvaluation EventType = "discount_evaluation"
	EventPricingError       EventType = "pricing_error"
)

// Severity grades a record for downstream alerting.
type Severity string

const (
	SeverityInfo Severity = "info"
	SeverityHigh Severity = "high"
)

// RecordStatus is the outcome the record describes.
type RecordStatus string

const (
	RecordStatusSuccess RecordStatus = "success"
	RecordStatusFailure RecordStatus = "failure"
)

// EvaluatedAlternative is one rule the engine considered, with the reason
// it applied (or why it lost to the winner).
type EvaluatedAlternative struct {
	RuleID         string          `json:"rule_id"`
	RuleName       string          `json:"rule_name"`
	RuleType       string          `json:"rule_type"`
	DiscountAmount decimal.Decimal `json:"discount_amount"`
	Reason         string          `json:"reason"`
	Selected       bool            `json:"selected"`
}

// Record is one structured pricing audit entry. The core builds these and
// hands them to a Sink; storage and retention are external concerns.
type Record struct {
	ID                 string                 `json:"id"`
	EventType          EventType              `json:"event_type"`
	CustomerID         string                 `json:"customer_id"`
	ProductID          string                 `json:"product_id,omitempty"`
	Quantity           int                    `json:"quantity,omitempty"`
	BasePrice          decimal.Decimal        `json:"base_price"`
	FinalPrice         decimal.Decimal        `json:"final_price"`
	DiscountAmount     decimal.Decimal        `json:"discount_amount"`
	DiscountPercentage decimal.Decimal        `json:"discount_percentage"`
	WinningRuleID      string                 `json:"winning_rule_id,omitempty"`
	WinningRuleName    string                 `json:"winning_rule_name,omitempty"`
	WinningRuleType    string                 `json:"winning_rule_type,omitempty"`
	Alternatives       []EvaluatedAlternative `json:"alternatives,omitempty"`
	SelectionReason    string                 `json:"selection_reason,omitempty"`
	ErrorMessage       string                 `json:"error_message,omitempty"`
	Severity           Severity               `json:"severity"`
	Status             RecordStatus           `json:"status"`
	CreatedAt          time.Time              `json:"created_at"`
}

// Stats aggregates pricing calculations over a query window.
type Stats struct {
	TotalCalculations         int                       `json:"total_calculations"`
	TotalDiscountAmount       decimal.Decimal           `json:"total_discount_amount"`
	AverageDiscountPercentage decimal.Decimal           `json:"average_discount_percentage"`
	DiscountsByRule           map[string]RuleStatsEntry `json:"discounts_by_rule"`
}

// RuleStatsEntry is the per-rule slice of Stats.
type RuleStatsEntry struct {
	Count        int             `json:"count"`
	TotalSavings decimal.Decimal `json:"total_savings"`
}
