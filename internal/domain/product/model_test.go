package product

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	ierr "github.com/antoniodjones/price-and-promo/internal/errors"
)

func TestDaysToExpiration(t *testing.T) {
	asOf := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	p := &Product{ID: "prod-1", BasePrice: decimal.NewFromInt(10)}

	_, ok := p.DaysToExpiration(asOf)
	assert.False(t, ok, "no expiration date")

	// Partial days round up.
	exp := asOf.Add(12 * time.Hour)
	p.ExpirationDate = &exp
	days, ok := p.DaysToExpiration(asOf)
	assert.True(t, ok)
	assert.Equal(t, 1, days)

	exp = asOf.Add(5 * 24 * time.Hour)
	days, _ = p.DaysToExpiration(asOf)
	assert.Equal(t, 5, days)

	// Past expirations come back non-positive, never a panic.
	exp = asOf.Add(-36 * time.Hour)
	days, ok = p.DaysToExpiration(asOf)
	assert.True(t, ok)
	assert.LessOrEqual(t, days, 0)
}

func TestProductValidate(t *testing.T) {
	p := &Product{ID: "prod-1", BasePrice: decimal.NewFromInt(10)}
	assert.NoError(t, p.Validate())

	p.BasePrice = decimal.NewFromInt(-1)
	err := p.Validate()
	assert.Error(t, err)
	assert.True(t, ierr.IsValidation(err))

	p = &Product{BasePrice: decimal.NewFromInt(1)}
	assert.Error(t, p.Validate())
}
