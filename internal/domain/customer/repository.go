package customer

import "context"

// Repository defines read-only access to customers.
type Repository interface {
	Get(ctx context.Context, id string) (*Customer, error)
}
