package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/bft-labs/expopush/internal/cliconfig"
	"github.com/bft-labs/expopush/pkg/client"
	"github.com/bft-labs/expopush/pkg/credential"
	"github.com/bft-labs/expopush/pkg/ledger"
	"github.com/bft-labs/expopush/pkg/log"
	"github.com/bft-labs/expopush/pkg/metrics"
)

// errSilent makes the process exit non-zero without logging; the command has
// already reported the problem on stdout.
var errSilent = errors.New("silent failure")

// app carries the resolved configuration and shared resources of one CLI run.
type app struct {
	cfg     cliconfig.Config
	cfgPath string
	envFile string

	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
	logger zerolog.Logger

	registry *prometheus.Registry
	closers  []func() error
}

func newApp(stdin io.Reader, stdout, stderr io.Writer) *app {
	logger, _ := cliconfig.NewLogger(stderr, "info")
	return &app{
		cfg:    cliconfig.DefaultConfig(),
		stdin:  stdin,
		stdout: stdout,
		stderr: stderr,
		logger: logger,
	}
}

// loadConfig layers the config file, environment and flags into a.cfg.
func (a *app) loadConfig(cmd *cobra.Command) error {
	cfgFile := a.cfgPath
	if cfgFile == "" {
		cfgFile = cliconfig.DefaultConfigPath()
	}

	changed := changedFlags(cmd)

	if cfgFile != "" && cliconfig.FileExists(cfgFile) {
		fc, err := cliconfig.LoadFileConfig(cfgFile)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		if err := cliconfig.ApplyFileConfig(&a.cfg, fc, changed); err != nil {
			return err
		}
	} else if a.cfgPath != "" {
		return fmt.Errorf("config file %s not found", a.cfgPath)
	}

	if err := cliconfig.LoadDotEnv(a.envFile); err != nil {
		return fmt.Errorf("load env file: %w", err)
	}
	if err := cliconfig.ApplyEnvConfig(&a.cfg, changed); err != nil {
		return err
	}

	if err := a.cfg.Validate(); err != nil {
		return err
	}

	logger, err := cliconfig.NewLogger(a.stderr, a.cfg.LogLevel)
	if err != nil {
		return err
	}
	a.logger = logger
	a.logger.Debug().Interface("config", a.cfg.Redacted()).Msg("configuration")
	return nil
}

// newClient builds a push client from the configuration. Resources it opens
// are released by close.
func (a *app) newClient(ctx context.Context) (*client.Client, error) {
	opts := []client.Option{
		client.WithBaseURL(a.cfg.BaseURL),
		client.WithHTTPClient(&http.Client{Timeout: a.cfg.Timeout}),
		client.WithLogger(log.NewZerologAdapterWithLogger(a.logger)),
		client.WithGzipThreshold(a.cfg.GzipThreshold),
		client.WithChunkSize(a.cfg.ChunkSize),
		client.WithConcurrency(a.cfg.Concurrency),
	}

	if v, ok := a.cfg.FCMv1(); ok {
		opts = append(opts, client.WithUseFCMv1(v))
	}

	switch {
	case a.cfg.AccessTokenFile != "":
		src, err := credential.NewFileSource(a.cfg.AccessTokenFile, credential.FileConfig{
			Logger: log.NewZerologAdapterWithLogger(a.logger),
		})
		if err != nil {
			return nil, err
		}
		if err := src.Start(ctx); err != nil {
			return nil, err
		}
		a.closers = append(a.closers, src.Close)
		opts = append(opts, client.WithCredentialSource(src))
	case a.cfg.AccessToken != "":
		opts = append(opts, client.WithAccessToken(a.cfg.AccessToken))
	}

	if a.cfg.MetricsTextfile != "" {
		a.registry = prometheus.NewRegistry()
		obs, err := metrics.NewObserver(a.registry)
		if err != nil {
			return nil, fmt.Errorf("register metrics: %w", err)
		}
		opts = append(opts, client.WithObserver(obs))
	}

	return client.New(opts...)
}

// openLedger opens the configured ticket ledger.
func (a *app) openLedger(ctx context.Context) (ledger.Ledger, error) {
	switch a.cfg.Ledger {
	case cliconfig.LedgerFile:
		return ledger.NewFileLedger(a.cfg.LedgerDir), nil
	case cliconfig.LedgerRedis:
		rdb, err := ledger.DialRedis(ctx, a.cfg.RedisAddr, a.cfg.RedisPassword, a.cfg.RedisDB)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, rdb.Close)
		return ledger.NewRedisLedger(rdb, a.cfg.RedisKey, 0), nil
	default:
		return ledger.Discard{}, nil
	}
}

// close releases resources and writes the metrics textfile.
func (a *app) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			a.logger.Warn().Err(err).Msg("close")
		}
	}
	a.closers = nil

	if a.registry != nil && a.cfg.MetricsTextfile != "" {
		if err := prometheus.WriteToTextfile(a.cfg.MetricsTextfile, a.registry); err != nil {
			a.logger.Warn().Err(err).Str("path", a.cfg.MetricsTextfile).Msg("write metrics")
		}
	}
}

// printJSON writes v to stdout as a single JSON line.
func (a *app) printJSON(v any) error {
	enc := json.NewEncoder(a.stdout)
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}
