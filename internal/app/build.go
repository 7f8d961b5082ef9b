package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/ent0n29/samvad/internal/complaint"
	"github.com/ent0n29/samvad/internal/complaintid"
	"github.com/ent0n29/samvad/internal/config"
	"github.com/ent0n29/samvad/internal/dialogue"
	"github.com/ent0n29/samvad/internal/httpapi"
	"github.com/ent0n29/samvad/internal/location"
	"github.com/ent0n29/samvad/internal/observability"
	"github.com/ent0n29/samvad/internal/reliability"
	"github.com/ent0n29/samvad/internal/session"
	"github.com/ent0n29/samvad/internal/taxonomy"
)

type BuildResult struct {
	Config     config.Config
	API        *httpapi.Server
	Sessions   *session.Manager
	Taxonomy   *taxonomy.Taxonomy
	Complaints complaint.Store
	Metrics    *observability.Metrics

	// Cleanup should be called on shutdown to release the stores.
	Cleanup func() error
}

type pinger interface {
	Ping(ctx context.Context) error
}

// LoadTaxonomy returns the built-in tables merged with cfg.TaxonomyFile, if set.
func LoadTaxonomy(cfg config.Config) (*taxonomy.Taxonomy, error) {
	tax := taxonomy.Default()
	if cfg.TaxonomyFile == "" {
		return tax, nil
	}
	ov, err := taxonomy.LoadOverlayFile(cfg.TaxonomyFile)
	if err != nil {
		return nil, fmt.Errorf("taxonomy overlay: %w", err)
	}
	merged, err := tax.Merge(ov)
	if err != nil {
		return nil, fmt.Errorf("taxonomy overlay %s: %w", cfg.TaxonomyFile, err)
	}
	return merged, nil
}

// NewResolver builds the location resolver, with phonetic matching when
// enabled.
func NewResolver(cfg config.Config, tax *taxonomy.Taxonomy) *location.Resolver {
	var opts []location.Option
	if cfg.LocationPhoneticMatch {
		opts = append(opts, location.WithPhonetic(cfg.LocationPhoneticThreshold))
	}
	return location.NewResolver(tax, opts...)
}

func Build(ctx context.Context, cfg config.Config, logger *zap.Logger) (*BuildResult, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	metrics := observability.NewMetrics(cfg.MetricsNamespace, nil)

	tax, err := LoadTaxonomy(cfg)
	if err != nil {
		return nil, err
	}
	resolver := NewResolver(cfg, tax)

	var sessionStore session.Store
	err = reliability.Retry(ctx, cfg.StoreConnectAttempts, 200*time.Millisecond, 3*time.Second, func(ctx context.Context) error {
		s, err := session.NewStore(ctx, cfg.SessionStore, cfg.DatabaseURL)
		if err != nil {
			logger.Warn("session store connect failed", zap.String("store", cfg.SessionStore), zap.Error(err))
			return err
		}
		sessionStore = s
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("session store init failed: %w", err)
	}

	complaints, err := complaint.NewStore(ctx, cfg.ComplaintStoreDSN, cfg.StoreConnectAttempts)
	if err != nil {
		_ = sessionStore.Close()
		return nil, fmt.Errorf("complaint store init failed: %w", err)
	}

	engine := dialogue.New(tax, resolver, complaintid.New(cfg.ComplaintIDPrefix),
		dialogue.WithLogger(logger.Named("dialogue")),
	)
	sessions := session.NewManager(sessionStore, engine,
		session.WithRecorder(complaint.NewRecorder(complaints, tax)),
		session.WithMetrics(metrics),
		session.WithLogger(logger.Named("session")),
		session.WithInactivityTimeout(cfg.SessionInactivityTimeout),
	)

	opts := []httpapi.Option{
		httpapi.WithComplaints(complaints),
		httpapi.WithResolver(resolver),
		httpapi.WithMetrics(metrics),
		httpapi.WithLogger(logger.Named("http")),
	}
	if p, ok := sessionStore.(pinger); ok {
		opts = append(opts, httpapi.WithReadinessCheck("session_store", p.Ping))
	}
	if p, ok := complaints.(pinger); ok {
		opts = append(opts, httpapi.WithReadinessCheck("complaint_store", p.Ping))
	}
	api := httpapi.New(cfg, sessions, tax, opts...)

	cleanup := func() error {
		return errors.Join(complaints.Close(), sessionStore.Close())
	}

	logger.Info("service built",
		zap.String("session_store", cfg.SessionStore),
		zap.Bool("complaint_store_configured", cfg.ComplaintStoreDSN != ""),
		zap.Int("categories", len(tax.Categories())),
		zap.Int("areas", len(tax.Areas())),
		zap.Bool("phonetic_location", cfg.LocationPhoneticMatch),
	)

	return &BuildResult{
		Config:     cfg,
		API:        api,
		Sessions:   sessions,
		Taxonomy:   tax,
		Complaints: complaints,
		Metrics:    metrics,
		Cleanup:    cleanup,
	}, nil
}
