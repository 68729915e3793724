package main

import (
	"context"
	"os"
	"time"

	"github.com/k-capehart/go-salesforce/v3"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/clash-creation/qualify-cli/internal/scoring"
	"github.com/clash-creation/qualify-cli/internal/session"
	"github.com/clash-creation/qualify-cli/internal/sink"
	"github.com/clash-creation/qualify-cli/internal/store"
	"github.com/clash-creation/qualify-cli/pkg/calendly"
	notionpkg "github.com/clash-creation/qualify-cli/pkg/notion"
	sfpkg "github.com/clash-creation/qualify-cli/pkg/salesforce"
)

func initStore(ctx context.Context) (store.Store, error) {
	switch cfg.Store.Driver {
	case "sqlite":
		dsn := cfg.Store.DatabaseURL
		if dsn == "" {
			dsn = "qualify.db"
		}
		return store.NewSQLite(dsn)
	case "postgres":
		return store.NewPostgres(ctx, cfg.Store.DatabaseURL)
	default:
		return nil, eris.Errorf("unsupported store driver: %s", cfg.Store.Driver)
	}
}

func initSalesforce() (sfpkg.Client, error) {
	if cfg.Salesforce.ClientID == "" {
		return nil, eris.New("salesforce client ID is required (QUALIFY_SALESFORCE_CLIENT_ID)")
	}

	pemData, err := os.ReadFile(cfg.Salesforce.KeyPath)
	if err != nil {
		return nil, eris.Wrap(err, "read salesforce JWT private key")
	}

	sf, err := salesforce.Init(salesforce.Creds{
		Domain:         cfg.Salesforce.LoginURL,
		Username:       cfg.Salesforce.Username,
		ConsumerKey:    cfg.Salesforce.ClientID,
		ConsumerRSAPem: string(pemData),
	})
	if err != nil {
		return nil, eris.Wrap(err, "init salesforce")
	}

	return sfpkg.NewClient(sf, sfpkg.WithRateLimit(5)), nil
}

// initSinks assembles the delivery fan-out from whatever is configured.
// An empty dispatcher is valid: leads still persist locally.
func initSinks() (*sink.Dispatcher, error) {
	if err := cfg.Validate("sinks"); err != nil {
		return nil, err
	}

	var sinks []sink.Sink

	if cfg.Salesforce.ClientID != "" {
		sf, err := initSalesforce()
		if err != nil {
			return nil, err
		}
		sinks = append(sinks, sink.NewSalesforceSink(sf))
	}
	if cfg.Notion.Token != "" {
		nc := notionpkg.NewClient(cfg.Notion.Token)
		sinks = append(sinks, sink.NewNotionSink(nc, cfg.Notion.LeadDB))
	}
	if cfg.Webhook.URL != "" {
		timeout := time.Duration(cfg.Webhook.TimeoutSecs) * time.Second
		sinks = append(sinks, sink.NewWebhookSink(cfg.Webhook.URL, timeout))
	}

	zap.L().Info("sinks configured", zap.Int("count", len(sinks)))
	return sink.NewDispatcher(sinks...), nil
}

func initCatalog() (*scoring.Catalog, error) {
	if cfg.Catalog.Path == "" {
		return scoring.DefaultCatalog(), nil
	}
	return scoring.LoadCatalog(cfg.Catalog.Path)
}

// initManager wires the session manager from config.
func initManager(st store.Store) (*session.Manager, error) {
	dispatcher, err := initSinks()
	if err != nil {
		return nil, err
	}
	catalog, err := initCatalog()
	if err != nil {
		return nil, err
	}

	cal := calendly.NewBuilder(
		calendly.WithBaseURL(cfg.Calendly.BaseURL),
		calendly.WithPrimaryColor(cfg.Calendly.PrimaryColor),
	)

	return session.NewManager(st,
		session.WithDispatcher(dispatcher),
		session.WithCatalog(catalog),
		session.WithScoringConfig(cfg.Scoring),
		session.WithCalendly(cal),
		session.WithLoadingDelay(cfg.Wizard.LoadingDelay()),
		session.WithDiscardAfter(cfg.Wizard.DiscardAfter()),
		session.WithResumeWindow(cfg.Wizard.ResumeWindow()),
	), nil
}
