// Package cli wires the auction-draft commands with cobra.
package cli

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"auction-draft-mcp/internal/app"
	"auction-draft-mcp/internal/config"
	"auction-draft-mcp/internal/logging"
)

// flagKeys binds command-line flags to config keys. Flags a command does
// not define are skipped.
var flagKeys = map[string]string{
	"log-level":    "logging.level",
	"session":      "store.session_id",
	"catalog":      "catalog.source",
	"store":        "store.driver",
	"addr":         "server.addr",
	"require-auth": "server.require_auth",
	"refresh":      "catalog.refresh_remote",
}

// env is the per-invocation state built before any command runs.
type env struct {
	configFile string
	v          *viper.Viper
	cfg        *config.Config
	log        *logrus.Logger
	closeLog   func() error
}

func (e *env) openApp(ctx context.Context) (*app.App, error) {
	return app.Open(ctx, e.cfg, e.log)
}

// NewRootCmd builds a fresh command tree.
func NewRootCmd() *cobra.Command {
	e := &env{}
	root := &cobra.Command{
		Use:   "auction-draft",
		Short: "Fantasy football auction draft ledger and MCP server",
		Long: `auction-draft tracks a live fantasy football auction draft: it records
winning bids against a player catalog, enforces budgets and roster limits,
and ranks the remaining pool. Run "serve" to expose it to MCP agents.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return e.init(cmd)
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if e.closeLog != nil {
				return e.closeLog()
			}
			return nil
		},
	}

	pf := root.PersistentFlags()
	pf.StringVarP(&e.configFile, "config", "c", "", "config file (default is ./config.yaml or "+config.ConfigDir()+"/config.yaml)")
	pf.String("log-level", "", "log level: debug, info, warn, error")
	pf.String("session", "", "draft session id to resume")
	pf.String("catalog", "", "catalog CSV/XLSX path or URL")
	pf.String("store", "", "session store: json, sqlite, memory")

	root.AddCommand(
		newServeCmd(e),
		newDraftCmd(e),
		newBoardCmd(e),
		newCatalogCmd(e),
		newResetCmd(e),
		newConfigCmd(e),
	)
	return root
}

// skipLoad marks commands that must run without a loadable config.
const skipLoad = "skip-config-load"

func (e *env) init(cmd *cobra.Command) error {
	if cmd.Annotations[skipLoad] == "true" {
		e.log, e.closeLog = logging.Nop(), nil
		return nil
	}
	e.v = config.NewViper(e.configFile)
	for name, key := range flagKeys {
		if f := cmd.Flags().Lookup(name); f != nil {
			if err := e.v.BindPFlag(key, f); err != nil {
				return err
			}
		}
	}
	cfg, err := config.Load(e.v)
	if err != nil {
		return err
	}
	e.cfg = cfg

	log, closeLog, err := logging.New(logging.Options{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Dir:    cfg.Logging.Dir,
	})
	if err != nil {
		return fmt.Errorf("init logging: %w", err)
	}
	e.log, e.closeLog = log, closeLog
	return nil
}

// Execute runs the CLI.
func Execute(ctx context.Context) error {
	return NewRootCmd().ExecuteContext(ctx)
}
