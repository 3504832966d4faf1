package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/baharkarakas/authmonitor/internal/config"
	"github.com/baharkarakas/authmonitor/internal/dashboard"
	"github.com/baharkarakas/authmonitor/internal/logger"
	"github.com/baharkarakas/authmonitor/internal/remote"
	"github.com/baharkarakas/authmonitor/internal/worker"
)

var rootCmd = &cobra.Command{
	Use:   "consolectl",
	Short: "Command-line client for the auth monitor backend",
	Long: `consolectl talks to the remote auth/admin API directly: it registers and
checks accounts, manages users, lists the audit trail with severities and
runs the change detector.`,
	SilenceUsage: true,
}

var (
	configPath string
	apiURL     string
	pageSize   int
	debug      bool
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "config file path")
	rootCmd.PersistentFlags().StringVar(&apiURL, "api", "", "remote API base URL (overrides config)")
	rootCmd.PersistentFlags().IntVar(&pageSize, "page-size", 0, "rows per page (overrides config)")
	rootCmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "enable debug logging")

	rootCmd.AddCommand(newLoginCmd(), newRegisterCmd(), newUsersCmd(), newLogsCmd(), newChangesCmd())
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// app is what every subcommand works against.
type app struct {
	cfg    config.Config
	client *remote.Client
	pool   *worker.Pool
	out    io.Writer
}

func newApp(cmd *cobra.Command) (*app, error) {
	cfg, err := config.LoadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if apiURL != "" {
		cfg.APIBaseURL = apiURL
	}
	if pageSize > 0 {
		cfg.PageSize = pageSize
	}

	log := logger.CLI(debug)
	slog.SetDefault(log)

	return &app{
		cfg:    cfg,
		client: remote.New(cfg.APIBaseURL, remote.WithLogger(log), remote.WithTimeout(cfg.UpstreamTimeout)),
		pool:   worker.NewPool(2),
		out:    cmd.OutOrStdout(),
	}, nil
}

func (a *app) close() { a.pool.Stop() }

func (a *app) dashboard() *dashboard.Controller {
	return dashboard.NewController(a.client, a.pool, a.cfg.PageSize, slog.Default())
}
