package supabase

import (
	"context"
	"time"

	"github.com/antoniodjones/price-and-promo/internal/domain/customer"
	ierr "github.com/antoniodjones/price-and-promo/internal/errors"
)

const tableCustomers = "customers"

type customerRepository struct {
	client *Client
}

func NewCustomerRepository(client *Client) customer.Repository {
	return &customerRepository{client: client}
}

type customerRow struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Tier      string    `json:"tier"`
	Market    *string   `json:"market"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (r *customerRepository) Get(ctx context.Context, id string) (*customer.Customer, error) {
	span, ctx := r.client.Sentry.StartRepositorySpan(ctx, "customer.get", map[string]interface{}{
		"customer_id": id,
	})
	defer r.client.Sentry.FinishSpan(span)

	var rows []customerRow
	err := r.client.Supabase.DB.From(tableCustomers).
		Select("*").
		Eq("id", id).
		ExecuteWithContext(ctx, &rows)
	r.client.Sentry.SetSpanStatus(span, err)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to load customer").
			Mark(ierr.ErrDatabase)
	}

	if len(rows) == 0 {
		return nil, ierr.NewError("customer not found").
			WithHintf("Customer %s does not exist", id).
			Mark(ierr.ErrNotFound)
	}

	row := rows[0]
	return &customer.Customer{
		ID:        row.ID,
		Name:      row.Name,
		Tier:      row.Tier,
		Market:    row.Market,
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}, nil
}
