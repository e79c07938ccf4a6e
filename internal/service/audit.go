package service

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/antoniodjones/price-and-promo/internal/domain/audit"
	"github.com/antoniodjones/price-and-promo/internal/types"
)

// AuditService builds and emits pricing audit records and serves the
// query side. Emission is best effort: a sink failure is logged and
// dropped, never surfaced to the pricing path.
type AuditService interface {
	RecordCalculation(ctx context.Context, result *PricingResult, evaluations []Evaluation)
	RecordError(ctx context.Context, customerID, productID string, quantity int, cause error)
	List(ctx context.Context, filter audit.Filter) ([]*audit.Record, error)
	GetStats(ctx context.Context, customerID string) (*audit.Stats, error)
}

type auditService struct {
	ServiceParams
}

func NewAuditService(params ServiceParams) AuditService {
	return &auditService{ServiceParams: params}
}

// selectionReason describes why the winning rule won, in the wording the
// audit trail UI renders verbatim.
func selectionReason(result *PricingResult) string {
	if result.AppliedRuleID == "" {
		return "No applicable discounts"
	}
	return fmt.Sprintf("Best deal: %s (%s%%) provides highest savings ($%s)",
		result.AppliedRuleName,
		result.DiscountPercentage.StringFixed(1),
		result.DiscountAmount.StringFixed(2))
}

func (s *auditService) RecordCalculation(ctx context.Context, result *PricingResult, evaluations []Evaluation) {
	alternatives := make([]audit.EvaluatedAlternative, 0, len(evaluations))
	for _, ev := range evaluations {
		alternatives = append(alternatives, audit.EvaluatedAlternative{
			RuleID:         ev.RuleID,
			RuleName:       ev.RuleName,
			RuleType:       string(ev.RuleType),
			DiscountAmount: ev.DiscountAmount,
			Reason:         ev.Reason,
			Selected:       ev.RuleID == result.AppliedRuleID && result.AppliedRuleID != "",
		})
	}

	record := &audit.Record{
		ID:                 types.GenerateUUIDWithPrefix(types.UUID_PREFIX_AUDIT_RECORD),
		EventType:          audit.EventPricingCalculation,
		CustomerID:         result.CustomerID,
		ProductID:          result.ProductID,
		Quantity:           result.Quantity,
		BasePrice:          result.BasePrice,
		FinalPrice:         result.FinalPrice,
		DiscountAmount:     result.DiscountAmount,
		DiscountPercentage: result.DiscountPercentage,
		WinningRuleID:      result.AppliedRuleID,
		WinningRuleName:    result.AppliedRuleName,
		WinningRuleType:    string(result.AppliedRuleType),
		Alternatives:       alternatives,
		SelectionReason:    selectionReason(result),
		Severity:           audit.SeverityInfo,
		Status:             audit.RecordStatusSuccess,
		CreatedAt:          result.CalculatedAt,
	}

	s.append(ctx, record)
}

func (s *auditService) RecordError(ctx context.Context, customerID, productID string, quantity int, cause error) {
	record := &audit.Record{
		ID:                 types.GenerateUUIDWithPrefix(types.UUID_PREFIX_AUDIT_RECORD),
		EventType:          audit.EventPricingError,
		CustomerID:         customerID,
		ProductID:          productID,
		Quantity:           quantity,
		BasePrice:          decimal.Zero,
		FinalPrice:         decimal.Zero,
		DiscountAmount:     decimal.Zero,
		DiscountPercentage: decimal.Zero,
		ErrorMessage:       cause.Error(),
		Severity:           audit.SeverityHigh,
		Status:             audit.RecordStatusFailure,
		CreatedAt:          nowUTC(),
	}

	s.append(ctx, record)
}

func (s *auditService) append(ctx context.Context, record *audit.Record) {
	defer func() {
		if r := recover(); r != nil {
			s.Logger.Errorw("audit sink panicked", "panic", r, "record_id", record.ID)
		}
	}()
	if err := s.AuditSink.Append(ctx, record); err != nil {
		s.Logger.Errorw("failed to append audit record",
			"record_id", record.ID,
			"event_type", record.EventType,
			"customer_id", record.CustomerID,
			"error", err)
	}
}

func (s *auditService) List(ctx context.Context, filter audit.Filter) ([]*audit.Record, error) {
	return s.AuditReader.List(ctx, filter)
}

func (s *auditService) GetStats(ctx context.Context, customerID string) (*audit.Stats, error) {
	return s.AuditReader.GetStats(ctx, customerID)
}
