package audit

import "context"

// Sink receives audit records, best effort. Implementations must not
// assume the caller retries; failures are the caller's to log and drop.
type Sink interface {
	Append(ctx context.Context, record *Record) error
}

// Filter narrows a Reader query. Zero values mean "any".
type Filter struct {
	CustomerID string
	ProductID  string
	EventType  EventType
	Limit      int
}

// Reader is the query side of the audit trail, backed by whatever store
// the Sink writes to.
type Reader interface {
	List(ctx context.Context, filter Filter) ([]*Record, error)
	GetStats(ctx context.Context, customerID string) (*Stats, error)
}
