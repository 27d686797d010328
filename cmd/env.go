package main

import (
	"time"

	"go.uber.org/zap"

	"github.com/sells-group/ownership-cli/internal/enrich"
	"github.com/sells-group/ownership-cli/internal/portfolio"
	"github.com/sells-group/ownership-cli/internal/resolve"
	"github.com/sells-group/ownership-cli/internal/sources"
	"github.com/sells-group/ownership-cli/pkg/socrata"
)

// env bundles the wired orchestrators for the commands.
type env struct {
	orchestrator *enrich.Orchestrator
	discoverer   *portfolio.Discoverer
}

// initEnv builds the adapter stack and orchestrators from config.
func initEnv() (*env, error) {
	matchCfg := resolve.DefaultMatchConfig()
	if cfg.Match.VocabularyPath != "" {
		loaded, err := resolve.LoadMatchConfig(cfg.Match.VocabularyPath)
		if err != nil {
			zap.L().Warn("vocabulary file unusable, using defaults", zap.Error(err))
		} else {
			matchCfg = loaded
		}
	}
	matcher := resolve.NewMatcher(matchCfg)

	client := socrata.NewClient(cfg.Sources.BaseURL,
		socrata.WithAppToken(cfg.Sources.AppToken),
		socrata.WithRateLimit(cfg.Sources.RateLimit),
	)

	adapter := sources.NewOpenData(client, sources.OpenDataConfig{
		Datasets: sources.DatasetIDs{
			FilingLegals:  cfg.Sources.Datasets.FilingLegals,
			FilingMaster:  cfg.Sources.Datasets.FilingMaster,
			FilingParties: cfg.Sources.Datasets.FilingParties,
			Contacts:      cfg.Sources.Datasets.Contacts,
			Registrations: cfg.Sources.Datasets.Registrations,
			TaxRoll:       cfg.Sources.Datasets.TaxRoll,
			Corporations:  cfg.Sources.Datasets.Corporations,
		},
		RecordLimit: cfg.Sources.RecordLimit,
	})

	timeout := time.Duration(cfg.Sources.TimeoutSecs) * time.Second

	return &env{
		orchestrator: enrich.New(adapter, matcher, enrich.Config{
			DocIDLimit:           cfg.Resolve.DocIDLimit,
			CorporateLookupLimit: cfg.Resolve.CorporateLookupLimit,
			AdapterTimeout:       timeout,
		}),
		discoverer: portfolio.New(adapter, portfolio.Config{
			SearchNameLimit: cfg.Portfolio.SearchNameLimit,
			AddressLimit:    cfg.Portfolio.AddressLimit,
			DocIDLimit:      cfg.Portfolio.DocIDLimit,
			MaxConcurrent:   cfg.Portfolio.MaxConcurrent,
			AdapterTimeout:  timeout,
		}),
	}, nil
}
