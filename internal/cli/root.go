// Package cli provides the command-line interface for the food sharing app.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"foodShare/internal/config"
	"foodShare/internal/db"
	"foodShare/internal/foodshare"
	"foodShare/repository"
)

// Version is set at build time.
var Version = "dev"

type configKey struct{}

func init() {
	// Finalizers run even when RunE fails.
	cobra.OnFinalize(closeLogFile)
}

var rootCmdPersistentFlags struct {
	ConfigFile string
	logFile    io.Closer
}

// NewRootCmd creates the root command. Without a subcommand it starts the
// interactive menu.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "foodshare",
		Short: "Share surplus food with people nearby",
		Long: `foodshare lets you register an account, post listings of surplus food
(area, food, quantity, contact) and browse or search what others have posted.`,
		Example: `foodshare
  foodshare --users-db data/users.db --listings-db data/listings.db
  foodshare listings --area Harbour --format table`,
		CompletionOptions: cobra.CompletionOptions{
			HiddenDefaultCmd: true,
		},
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(rootCmdPersistentFlags.ConfigFile, cmd.Flags())
			if err != nil {
				return err
			}
			setLogLevel(cfg.LogLevel)
			logToFile(cfg.LogFile)
			log.Debug("configuration loaded", "config", cfg.String())
			cmd.SetContext(context.WithValue(cmd.Context(), configKey{}, cfg))
			return nil
		},
		RunE: runMenu,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&rootCmdPersistentFlags.ConfigFile, "config", "c", "", "Path to config file (default: search for foodshare.yml in current dir, ~/.foodshare)")
	pf.String("users-db", "", "Path to the users database file")
	pf.String("listings-db", "", "Path to the listings database file")
	pf.String("log-level", "", "Log level (debug, info, warn, error) - overrides config file setting")
	pf.String("log-file", "", "File to write logs to")
	pf.String("format", "", "Listing output format (plain, table)")

	_ = rootCmd.RegisterFlagCompletionFunc("format", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{string(config.OutputPlain), string(config.OutputTable)}, cobra.ShellCompDirectiveNoFileComp
	})

	rootCmd.AddCommand(newListingsCmd())
	rootCmd.AddCommand(newVersionCmd())
	return rootCmd
}

// Execute runs the root command.
func Execute() error {
	if err := NewRootCmd().Execute(); err != nil {
		log.Error("foodshare failed", "error", err)
		return err
	}
	return nil
}

// getConfig returns the config loaded by PersistentPreRunE.
func getConfig(ctx context.Context) *config.Config {
	if c, ok := ctx.Value(configKey{}).(*config.Config); ok {
		return c
	}
	return &config.Config{
		Database: config.DatabaseConfig{UsersPath: "users.db", ListingsPath: "listings.db"},
		LogLevel: "warn",
		Output:   config.OutputConfig{Format: config.OutputPlain},
	}
}

// openService opens both stores and wires the repositories into a service.
// The returned stores must be closed by the caller.
func openService(cfg *config.Config) (*foodshare.Service, *db.Stores, error) {
	stores, err := db.OpenStores(cfg.Database.UsersPath, cfg.Database.ListingsPath)
	if err != nil {
		return nil, nil, err
	}
	svc := foodshare.NewService(
		repository.NewUserRepository(stores.Users),
		repository.NewListingRepository(stores.Listings),
	)
	return svc, stores, nil
}

func runMenu(cmd *cobra.Command, _ []string) error {
	cfg := getConfig(cmd.Context())

	svc, stores, err := openService(cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := stores.Close(); err != nil {
			log.Error("close databases", "error", err)
		}
	}()

	prompter, err := NewPrompter(cmd.InOrStdin(), cmd.OutOrStdout())
	if err != nil {
		return err
	}
	defer prompter.Close() //nolint: errcheck

	return NewMenu(svc, prompter, cmd.OutOrStdout(), cfg.Output.Format).Run(cmd.Context())
}

func setLogLevel(level string) {
	switch level {
	case "debug":
		log.SetLevel(log.DebugLevel)
	case "info":
		log.SetLevel(log.InfoLevel)
	case "warn":
		log.SetLevel(log.WarnLevel)
	case "error":
		log.SetLevel(log.ErrorLevel)
	default:
		log.Warnf("unknown log level %s, defaulting to warn", level)
		log.SetLevel(log.WarnLevel)
	}
}

func logToFile(path string) {
	if path == "" {
		return
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644) //nolint:gosec
	if err != nil {
		log.Errorf("failed to open log file: %v", err)
		return
	}
	log.SetOutput(io.MultiWriter(os.Stderr, file))
	rootCmdPersistentFlags.logFile = file
	log.Debug("logging to both console and file", "file", path)
}

// closeLogFile undoes logToFile. Safe to call more than once.
func closeLogFile() {
	c := rootCmdPersistentFlags.logFile
	if c == nil {
		return
	}
	log.SetOutput(os.Stderr)
	if err := c.Close(); err != nil {
		log.Error("close log file", "error", err)
	}
	rootCmdPersistentFlags.logFile = nil
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "foodshare %s\n", Version)
			return err
		},
	}
}
