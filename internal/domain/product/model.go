package product

import (
	"math"
	"time"

	ierr "github.com/antoniodjones/price-and-promo/internal/errors"
	"github.com/shopspring/decimal"
)

// Product is a catalog item as seen by the pricing core. It is read-only
// here; catalog management owns mutation.
type Product struct {
	ID             string           `json:"id" db:"id"`
	SKU            string           `json:"sku" db:"sku"`
	Name           string           `json:"name" db:"name"`
	Category       string           `json:"category" db:"category"`
	SubCategory    *string          `json:"sub_category,omitempty" db:"sub_category"`
	Brand          string           `json:"brand" db:"brand"`
	BasePrice      decimal.Decimal  `json:"base_price" db:"base_price"`
	THCPercentage  *decimal.Decimal `json:"thc_percentage,omitempty" db:"thc_percentage"`
	ExpirationDate *time.Time       `json:"expiration_date,omitempty" db:"expiration_date"`
	CreatedAt      time.Time        `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time        `json:"updated_at" db:"updated_at"`
}

// Validate checks the identity fields a pricing calculation cannot proceed
// without. A missing or negative base price is a caller contract violation.
func (p *Product) Validate() error {
	if p.ID == "" {
		return ierr.NewError("product id is required").
			WithHint("Product is missing an identifier").
			Mark(ierr.ErrValidation)
	}
	if p.BasePrice.IsNegative() {
		return ierr.NewError("product base price must be non-negative").
			WithHintf("Product %s has base price %s", p.ID, p.BasePrice).
			Mark(ierr.ErrValidation)
	}
	return nil
}

// DaysToExpiration returns ceil((expiration - asOf) / 24h), or false when
// the product carries no expiration date.
func (p *Product) DaysToExpiration(asOf time.Time) (int, bool) {
	if p.ExpirationDate == nil {
		return 0, false
	}
	diff := p.ExpirationDate.Sub(asOf)
	return int(math.Ceil(diff.Hours() / 24)), true
}
