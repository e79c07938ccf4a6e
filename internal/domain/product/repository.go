package product

import "context"

// Repository defines read-only access to the product catalog.
type Repository interface {
	Get(ctx context.Context, id string) (*Product, error)
	GetByIDs(ctx context.Context, ids []string) ([]*Product, error)
}
