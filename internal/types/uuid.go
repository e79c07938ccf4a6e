package types

import (
	"fmt"

	"github.com/oklog/ulid/v2"
)

// GenerateUUID returns a k-sortable unique identifier
func GenerateUUID() string {
	return ulid.Make().String()
}

// GenerateUUIDWithPrefix returns a k-sortable unique identifier
// with a prefix ex calc_0ujsswThIGTUYm2K8FjOOfXtY1K
func GenerateUUIDWithPrefix(prefix string) string {
	if prefix == "" {
		return GenerateUUID()
	}
	return fmt.Sprintf("%s_%s", prefix, GenerateUUID())
}

const (
	UUID_PREFIX_CALCULATION  = "calc"
	UUID_PREFIX_AUDIT_RECORD = "audit"
	UUID_PREFIX_RULE         = "rule"
	UUID_PREFIX_PRODUCT      = "prod"
	UUID_PREFIX_CUSTOMER     = "cust"
	UUID_PREFIX_REQUEST      = "req"
)
