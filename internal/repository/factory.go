package repository

import (
	"github.com/antoniodjones/price-and-promo/internal/domain/audit"
	"github.com/antoniodjones/price-and-promo/internal/domain/customer"
	"github.com/antoniodjones/price-and-promo/internal/domain/product"
	"github.com/antoniodjones/price-and-promo/internal/domain/rule"
	supabaseRepo "github.com/antoniodjones/price-and-promo/internal/repository/supabase"
)

func NewRuleRepository(client *supabaseRepo.Client) rule.Repository {
	return supabaseRepo.NewRuleRepository(client)
}

func NewProductRepository(client *supabaseRepo.Client) product.Repository {
	return supabaseRepo.NewProductRepository(client)
}

func NewCustomerRepository(client *supabaseRepo.Client) customer.Repository {
	return supabaseRepo.NewCustomerRepository(client)
}

func NewAuditSink(client *supabaseRepo.Client) audit.Sink {
	return supabaseRepo.NewAuditSink(client)
}

func NewAuditReader(client *supabaseRepo.Client) audit.Reader {
	return supabaseRepo.NewAuditReader(client)
}
