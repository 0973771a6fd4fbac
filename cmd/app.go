package cmd

import (
	"context"
	"fmt"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/campusnav/nextclass/internal/auth"
	"github.com/campusnav/nextclass/internal/backend"
	"github.com/campusnav/nextclass/internal/calendar"
	"github.com/campusnav/nextclass/internal/config"
	"github.com/campusnav/nextclass/internal/google"
	"github.com/campusnav/nextclass/internal/instrumentation"
	"github.com/campusnav/nextclass/internal/logging"
	"github.com/campusnav/nextclass/internal/session"
)

// app bundles the wired components a command works with.
type app struct {
	cfg      *config.Config
	store    *session.FileStore
	broker   *auth.Broker
	importer *calendar.Importer
	provider *instrumentation.Provider
}

// newApp loads configuration and wires store, broker, source and importer
// for one command invocation.
func newApp(cmd *cobra.Command) (*app, error) {
	cfg, err := config.Load(configFile)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	level := cfg.LogLevel
	if debugMode {
		level = "debug"
	}
	logger := logging.Setup(level)

	provider, err := instrumentation.NewProvider(cmd.Context(), instrumentation.Config{
		ServiceName:       "nextclass",
		ServiceVersion:    version,
		Enabled:           cfg.Instrumentation.Enabled,
		MetricsExporter:   cfg.Instrumentation.MetricsExporter,
		TracingExporter:   cfg.Instrumentation.TracingExporter,
		OTLPEndpoint:      cfg.Instrumentation.OTLPEndpoint,
		OTLPInsecure:      cfg.Instrumentation.OTLPInsecure,
		TraceSamplingRate: cfg.Instrumentation.TraceSamplingRate,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to set up instrumentation: %w", err)
	}

	store := session.NewFileStore(cfg.StateDir)

	authorizer := &auth.PromptAuthorizer{
		Config:     auth.ConsentConfig(cfg.GoogleClientID),
		In:         cmd.InOrStdin(),
		Out:        cmd.OutOrStdout(),
		TokenBased: cfg.ProviderDirect,
	}

	var source calendar.Source
	var exchanger auth.Exchanger
	if cfg.ProviderDirect {
		source = google.NewSource(logger)
	} else {
		client := backend.New(cfg.BackendBaseURL,
			backend.WithLogger(logger),
			backend.WithHTTPClient(&http.Client{Timeout: cfg.RequestTimeout}))
		source = client
		exchanger = client
	}

	broker := auth.NewBroker(authorizer, exchanger, store, logger)
	broker.SetMetrics(provider.Metrics())

	return &app{
		cfg:      cfg,
		store:    store,
		broker:   broker,
		importer: calendar.NewImporter(source, broker, logger, provider.Metrics()),
		provider: provider,
	}, nil
}

// close flushes instrumentation.
func (a *app) close(ctx context.Context) {
	_ = a.provider.Shutdown(ctx)
}
