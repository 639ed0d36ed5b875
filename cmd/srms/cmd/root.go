package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/schoolbench/srms/pkg/config"
	"github.com/schoolbench/srms/pkg/console"
	"github.com/schoolbench/srms/pkg/export"
	"github.com/schoolbench/srms/pkg/session"
	"github.com/schoolbench/srms/pkg/store"
)

// appContext wires the stores, exporter and login manager for one run.
type appContext struct {
	cfg      *config.Config
	logger   *slog.Logger
	students *store.StudentStore
	creds    *store.CredentialStore
	exporter *export.Exporter
	manager  *session.Manager
}

var (
	configPath string
	app        *appContext
)

// rootCmd launches the interactive console when called without a
// subcommand: login, role menu loop, logout.
var rootCmd = &cobra.Command{
	Use:   "srms",
	Short: "SRMS - student record management console",
	Long: `SRMS is a file-backed student record store with a role-gated
interactive console. Running srms without a subcommand starts the
console; the default accounts are seeded on first run.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		ctx, err := buildAppContext()
		if err != nil {
			return err
		}
		app = ctx
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runShell(app, console.New())
	},
}

// Execute adds all child commands to the root command and sets flags
// appropriately. This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "srms.yaml", "path to the configuration file")
}

// buildAppContext loads configuration (falling back to defaults when no
// config file exists), prepares the data directory and constructs the
// stores and services.
func buildAppContext() (*appContext, error) {
	cfg := config.DefaultConfig()
	if config.ConfigExists(configPath) {
		loaded, err := config.LoadConfig(configPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	logger := newLogger(cfg.Logging.Level)

	if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data dir: %w", err)
	}

	students := store.NewStudentStore(store.StudentStoreConfig{
		FilePath: cfg.StudentPath(),
		Logger:   logger,
	})
	creds := store.NewCredentialStore(store.CredentialStoreConfig{
		FilePath: cfg.CredentialPath(),
		Logger:   logger,
	})
	if err := creds.Seed(); err != nil {
		return nil, fmt.Errorf("failed to seed credentials: %w", err)
	}

	exporter := export.New(export.Config{
		StudentFile:   cfg.StudentPath(),
		BackupFile:    cfg.BackupPath(),
		CSVFile:       cfg.CSVPath(),
		ReportFile:    cfg.ReportPath(),
		MaskChunkSize: cfg.Mask.ChunkSize,
	}, logger)

	return &appContext{
		cfg:      cfg,
		logger:   logger,
		students: students,
		creds:    creds,
		exporter: exporter,
		manager:  session.NewManager(creds, cfg.Login.MaxAttempts),
	}, nil
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}

// authFlags adds the credential flags shared by the non-interactive
// verbs.
func authFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("user", "u", "", "username to authenticate as")
	cmd.Flags().StringP("password", "p", "", "password for --user")
	_ = cmd.MarkFlagRequired("user")
	_ = cmd.MarkFlagRequired("password")
}

// authenticate builds a session from the --user/--password flags. The
// non-interactive verbs enforce the same capability table as the console.
func authenticate(cmd *cobra.Command) (*session.Session, error) {
	user, _ := cmd.Flags().GetString("user")
	password, _ := cmd.Flags().GetString("password")
	sess, err := app.manager.Attempt(user, password)
	if err != nil {
		return nil, fmt.Errorf("authentication failed: %w", err)
	}
	return sess, nil
}
