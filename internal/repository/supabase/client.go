package supabase

import (
	supa "github.com/nedpals/supabase-go"

	"github.com/antoniodjones/price-and-promo/internal/config"
	ierr "github.com/antoniodjones/price-and-promo/internal/errors"
	"github.com/antoniodjones/price-and-promo/internal/logger"
	"github.com/antoniodjones/price-and-promo/internal/sentry"
)

// Client wraps the Supabase PostgREST client with the logger and tracing
// every repository shares.
type Client struct {
	Supabase *supa.Client
	Logger   *logger.Logger
	Sentry   *sentry.Service
}

func NewClient(cfg *config.Configuration, log *logger.Logger, sentrySvc *sentry.Service) (*Client, error) {
	if cfg.Supabase.BaseURL == "" || cfg.Supabase.ServiceKey == "" {
		return nil, ierr.NewError("supabase is not configured").
			WithHint("Set supabase.base_url and supabase.service_key").
			Mark(ierr.ErrValidation)
	}

	sb := supa.CreateClient(cfg.Supabase.BaseURL, cfg.Supabase.ServiceKey)
	if sb == nil {
		return nil, ierr.NewError("failed to create supabase client").
			WithHint("Check the Supabase base URL and service key").
			Mark(ierr.ErrSystem)
	}

	return &Client{
		Supabase: sb,
		Logger:   log,
		Sentry:   sentrySvc,
	}, nil
}
