package types

// Status is the lifecycle state of a discount rule.
// `scheduled` rules are only considered by the upcoming/preview pass,
// never by live pricing.
type Status string

const (
	StatusActive    Status = "active"
	StatusInactive  Status = "inactive"
	StatusScheduled Status = "scheduled"
	StatusExpired   Status = "expired"
)

func (s Status) Validate() bool {
	switch s {
	case StatusActive, StatusInactive, StatusScheduled, StatusExpired:
		return true
	}
	return false
}
