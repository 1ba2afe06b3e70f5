package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime"
	"runtime/debug"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	pflag "github.com/spf13/pflag"
)

const helpDescription = `
Send Expo push notifications and collect their receipts from the command line.

Highlights:
  - Validates every message before anything goes over the wire.
  - Splits large batches into 100-message requests and gzips big bodies.
  - Remembers ticket ids so "expopush receipts" can follow up later.
  - Configure via file, env (EXPOPUSH_*, EXPO_ACCESS_TOKEN, .env) or flags.
`

var exampleUsage = strings.TrimSpace(`
  expopush send --to 'ExponentPushToken[xxxxxxxxxxxxxxxxxxxxxx]' --title Hello --body 'From the CLI'
  expopush send --file messages.json --concurrency 4
  expopush receipts
  expopush validate 'ExponentPushToken[xxxxxxxxxxxxxxxxxxxxxx]'
`)

func getVersion() string {
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		return info.Main.Version
	}
	return "dev"
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// run executes the CLI and returns the process exit code.
func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	a := newApp(stdin, stdout, stderr)
	root := newRootCmd(a)
	root.SetArgs(args)

	if err := root.ExecuteContext(ctx); err != nil {
		if !errors.Is(err, errSilent) {
			a.logger.Error().Err(err).Msg("expopush")
		}
		return 1
	}
	return 0
}

// newRootCmd builds the command tree. Configuration is resolved before any
// subcommand runs, in order of increasing precedence: config file, .env,
// environment, flags.
func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           "expopush",
		Short:         "Send Expo push notifications and collect their receipts",
		Long:          strings.TrimSpace(helpDescription),
		Example:       exampleUsage,
		Version:       fmt.Sprintf("%s %s/%s", getVersion(), runtime.GOOS, runtime.GOARCH),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.loadConfig(cmd)
		},
	}
	root.SetIn(a.stdin)
	root.SetOut(a.stdout)
	root.SetErr(a.stderr)

	cfg := &a.cfg
	pf := root.PersistentFlags()
	pf.StringVar(&a.cfgPath, "config", "", "path to config file, TOML or YAML (default: $HOME/.expopush/config.toml)")
	pf.StringVar(&a.envFile, "env-file", ".env", "dotenv file loaded before reading the environment")
	pf.StringVar(&cfg.AccessToken, "access-token", cfg.AccessToken, "access token sent as a Bearer credential")
	pf.StringVar(&cfg.AccessTokenFile, "access-token-file", cfg.AccessTokenFile, "file holding the access token, re-read when it changes")
	pf.StringVar(&cfg.BaseURL, "base-url", cfg.BaseURL, "push service base URL")
	pf.DurationVar(&cfg.Timeout, "timeout", cfg.Timeout, "HTTP timeout per request")
	pf.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level (debug, info, warn, error)")
	pf.IntVar(&cfg.GzipThreshold, "gzip-threshold", cfg.GzipThreshold, "compress request bodies larger than this many bytes; negative disables")
	pf.IntVar(&cfg.ChunkSize, "chunk-size", cfg.ChunkSize, "messages per send request")
	pf.IntVar(&cfg.Concurrency, "concurrency", cfg.Concurrency, "send requests in flight at once")
	pf.StringVar(&cfg.UseFCMv1, "use-fcm-v1", cfg.UseFCMv1, "force FCM v1 on or off for Android (true, false)")
	pf.StringVar(&cfg.Ledger, "ledger", cfg.Ledger, "where ticket ids are kept for receipts (file, redis, none)")
	pf.StringVar(&cfg.LedgerDir, "ledger-dir", cfg.LedgerDir, "directory of the file ledger (default: $HOME/.expopush/ledger)")
	pf.StringVar(&cfg.RedisAddr, "redis-addr", cfg.RedisAddr, "redis address for the redis ledger")
	pf.StringVar(&cfg.RedisPassword, "redis-password", cfg.RedisPassword, "redis password")
	pf.IntVar(&cfg.RedisDB, "redis-db", cfg.RedisDB, "redis database number")
	pf.StringVar(&cfg.RedisKey, "redis-key", cfg.RedisKey, "redis hash holding pending tickets")
	pf.StringVar(&cfg.MetricsTextfile, "metrics-textfile", cfg.MetricsTextfile, "write Prometheus metrics to this file on exit")

	for _, name := range []string{"base-url", "redis-key"} {
		if err := pf.MarkHidden(name); err != nil {
			a.logger.Info().Err(err).Msgf("failed to hide %s flag", name)
		}
	}

	root.AddCommand(
		newSendCmd(a),
		newReceiptsCmd(a),
		newValidateCmd(a),
	)

	return root
}

// changedFlags returns the names of flags set on the command line.
func changedFlags(cmd *cobra.Command) map[string]bool {
	changed := map[string]bool{}
	cmd.Flags().Visit(func(f *pflag.Flag) { changed[f.Name] = true })
	return changed
}
