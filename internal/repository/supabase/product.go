package supabase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/antoniodjones/price-and-promo/internal/domain/product"
	ierr "github.com/antoniodjones/price-and-promo/internal/errors"
)

const tableProducts = "products"

type productRepository struct {
	client *Client
}

func NewProductRepository(client *Client) product.Repository {
	return &productRepository{client: client}
}

type productRow struct {
	ID             string           `json:"id"`
	SKU            string           `json:"sku"`
	Name           string           `json:"name"`
	Category       string           `json:"category"`
	SubCategory    *string          `json:"sub_category"`
	Brand          string           `json:"brand"`
	BasePrice      decimal.Decimal  `json:"base_price"`
	THCPercentage  *decimal.Decimal `json:"thc_percentage"`
	ExpirationDate *time.Time       `json:"expiration_date"`
	CreatedAt      time.Time        `json:"created_at"`
	UpdatedAt      time.Time        `json:"updated_at"`
}

func (row *productRow) toDomain() *product.Product {
	return &product.Product{
		ID:             row.ID,
		SKU:            row.SKU,
		Name:           row.Name,
		Category:       row.Category,
		SubCategory:    row.SubCategory,
		Brand:          row.Brand,
		BasePrice:      row.BasePrice,
		THCPercentage:  row.THCPercentage,
		ExpirationDate: row.ExpirationDate,
		CreatedAt:      row.CreatedAt,
		UpdatedAt:      row.UpdatedAt,
	}
}

func (r *productRepository) Get(ctx context.Context, id string) (*product.Product, error) {
	span, ctx := r.client.Sentry.StartRepositorySpan(ctx, "product.get", map[string]interface{}{
		"product_id": id,
	})
	defer r.client.Sentry.FinishSpan(span)

	var rows []productRow
	err := r.client.Supabase.DB.From(tableProducts).
		Select("*").
		Eq("id", id).
		ExecuteWithContext(ctx, &rows)
	r.client.Sentry.SetSpanStatus(span, err)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to load product").
			Mark(ierr.ErrDatabase)
	}

	if len(rows) == 0 {
		return nil, ierr.NewError("product not found").
			WithHintf("Product %s does not exist", id).
			Mark(ierr.ErrNotFound)
	}
	return rows[0].toDomain(), nil
}

func (r *productRepository) GetByIDs(ctx context.Context, ids []string) ([]*product.Product, error) {
	result := make([]*product.Product, 0, len(ids))
	for _, id := range ids {
		p, err := r.Get(ctx, id)
		if err != nil {
			if ierr.IsNotFound(err) {
				continue
			}
			return nil, err
		}
		result = append(result, p)
	}
	return result, nil
}
