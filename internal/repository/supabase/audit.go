package supabase

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/antoniodjones/price-and-promo/internal/domain/audit"
	ierr "github.com/antoniodjones/price-and-promo/internal/errors"
)

const tableAuditLog = "pricing_audit_log"

// auditRepository implements both audit.Sink and audit.Reader against the
// same table.
type auditRepository struct {
	client *Client
}

func NewAuditSink(client *Client) audit.Sink {
	return &auditRepository{client: client}
}

func NewAuditReader(client *Client) audit.Reader {
	return &auditRepository{client: client}
}

type auditRow struct {
	ID                 string                       `json:"id"`
	EventType          string                       `json:"event_type"`
	CustomerID         string                       `json:"customer_id"`
	ProductID          string                       `json:"product_id,omitempty"`
	Quantity           int                          `json:"quantity"`
	BasePrice          decimal.Decimal              `json:"base_price"`
	FinalPrice         decimal.Decimal              `json:"final_price"`
	DiscountAmount     decimal.Decimal              `json:"discount_amount"`
	DiscountPercentage decimal.Decimal              `json:"discount_percentage"`
	WinningRuleID      string                       `json:"winning_rule_id,omitempty"`
	WinningRuleName    string                       `json:"winning_rule_name,omitempty"`
	WinningRuleType    string                       `json:"winning_rule_type,omitempty"`
	Alternatives       []audit.EvaluatedAlternative `json:"alternatives,omitempty"`
	SelectionReason    string                       `json:"selection_reason,omitempty"`
	ErrorMessage       string                       `json:"error_message,omitempty"`
	Severity           string                       `json:"severity"`
	Status             string                       `json:"status"`
	CreatedAt          time.Time                    `json:"created_at"`
}

func toAuditRow(record *audit.Record) auditRow {
	return auditRow{
		ID:                 record.ID,
		EventType:          string(record.EventType),
		CustomerID:         record.CustomerID,
		ProductID:          record.ProductID,
		Quantity:           record.Quantity,
		BasePrice:          record.BasePrice,
		FinalPrice:         record.FinalPrice,
		DiscountAmount:     record.DiscountAmount,
		DiscountPercentage: record.DiscountPercentage,
		WinningRuleID:      record.WinningRuleID,
		WinningRuleName:    record.WinningRuleName,
		WinningRuleType:    record.WinningRuleType,
		Alternatives:       record.Alternatives,
		SelectionReason:    record.SelectionReason,
		ErrorMessage:       record.ErrorMessage,
		Severity:           string(record.Severity),
		Status:             string(record.Status),
		CreatedAt:          record.CreatedAt,
	}
}

func (row *auditRow) toDomain() *audit.Record {
	return &audit.Record{
		ID:                 row.ID,
		EventType:          audit.EventType(row.EventType),
		CustomerID:         row.CustomerID,
		ProductID:          row.ProductID,
		Quantity:           row.Quantity,
		BasePrice:          row.BasePrice,
		FinalPrice:         row.FinalPrice,
		DiscountAmount:     row.DiscountAmount,
		DiscountPercentage: row.DiscountPercentage,
		WinningRuleID:      row.WinningRuleID,
		WinningRuleName:    row.WinningRuleName,
		WinningRuleType:    row.WinningRuleType,
		Alternatives:       row.Alternatives,
		SelectionReason:    row.SelectionReason,
		ErrorMessage:       row.ErrorMessage,
		Severity:           audit.Severity(row.Severity),
		Status:             audit.RecordStatus(row.Status),
		CreatedAt:          row.CreatedAt,
	}
}

func (r *auditRepository) Append(ctx context.Context, record *audit.Record) error {
	span, ctx := r.client.Sentry.StartRepositorySpan(ctx, "audit.append", map[string]interface{}{
		"record_id":  record.ID,
		"event_type": string(record.EventType),
	})
	defer r.client.Sentry.FinishSpan(span)

	var inserted []auditRow
	err := r.client.Supabase.DB.From(tableAuditLog).
		Insert(toAuditRow(record)).
		ExecuteWithContext(ctx, &inserted)
	r.client.Sentry.SetSpanStatus(span, err)
	if err != nil {
		return ierr.WithError(err).
			WithHint("Failed to append audit record").
			Mark(ierr.ErrDatabase)
	}
	return nil
}

func (r *auditRepository) List(ctx context.Context, filter audit.Filter) ([]*audit.Record, error) {
	span, ctx := r.client.Sentry.StartRepositorySpan(ctx, "audit.list", map[string]interface{}{
		"customer_id": filter.CustomerID,
		"event_type":  string(filter.EventType),
	})
	defer r.client.Sentry.FinishSpan(span)

	query := r.client.Supabase.DB.From(tableAuditLog).Select("*")
	builder := &query.FilterRequestBuilder
	if filter.CustomerID != "" {
		builder = builder.Eq("customer_id", filter.CustomerID)
	}
	if filter.ProductID != "" {
		builder = builder.Eq("product_id", filter.ProductID)
	}
	if filter.EventType != "" {
		builder = builder.Eq("event_type", string(filter.EventType))
	}

	var rows []auditRow
	err := builder.ExecuteWithContext(ctx, &rows)
	r.client.Sentry.SetSpanStatus(span, err)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to load audit records").
			Mark(ierr.ErrDatabase)
	}

	records := make([]*audit.Record, 0, len(rows))
	for i := range rows {
		records = append(records, rows[i].toDomain())
	}
	sort.Slice(records, func(i, j int) bool {
		return records[i].CreatedAt.After(records[j].CreatedAt)
	})
	if filter.Limit > 0 && len(records) > filter.Limit {
		records = records[:filter.Limit]
	}
	return records, nil
}

func (r *auditRepository) GetStats(ctx context.Context, customerID string) (*audit.Stats, error) {
	records, err := r.List(ctx, audit.Filter{
		CustomerID: customerID,
		EventType:  audit.EventPricingCalculation,
	})
	if err != nil {
		return nil, err
	}

	stats := &audit.Stats{
		TotalDiscountAmount:       decimal.Zero,
		AverageDiscountPercentage: decimal.Zero,
		DiscountsByRule:           make(map[string]audit.RuleStatsEntry),
	}

	pctSum := decimal.Zero
	for _, record := range records {
		stats.TotalCalculations++
		stats.TotalDiscountAmount = stats.TotalDiscountAmount.Add(record.DiscountAmount)
		pctSum = pctSum.Add(record.DiscountPercentage)
		if record.WinningRuleID != "" {
			entry := stats.DiscountsByRule[record.WinningRuleID]
			entry.Count++
			entry.TotalSavings = entry.TotalSavings.Add(record.DiscountAmount)
			stats.DiscountsByRule[record.WinningRuleID] = entry
		}
	}
	if stats.TotalCalculations > 0 {
		stats.AverageDiscountPercentage = pctSum.Div(decimal.NewFromInt(int64(stats.TotalCalculations)))
	}
	return stats, nil
}
