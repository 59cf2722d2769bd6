// Package commands implements the sqlbind CLI commands.
package commands

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/asaidimu/go-sqlbind/config"
	"github.com/asaidimu/go-sqlbind/core/persistence"
	"github.com/asaidimu/go-sqlbind/core/statement"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// App carries the state shared by every command.
type App struct {
	ConfigFile string
	Dir        string
	Verbose    bool
	DryRun     bool

	logger   *zap.Logger
	executor *persistence.Executor
}

// NewRootCommand builds the sqlbind command tree.
func NewRootCommand(version string) *cobra.Command {
	app := &App{}

	root := &cobra.Command{
		Use:           "sqlbind",
		Short:         "Build and run parameterized SQL statements",
		Long:          "sqlbind turns JSON descriptions of inserts, updates, selects and deletes into prepared statements.",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return app.close()
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&app.ConfigFile, "config", "", "Path to a config file (default: sqlbind.yaml in --dir)")
	flags.StringVar(&app.Dir, "dir", ".", "Directory searched for sqlbind config and .env files")
	flags.BoolVarP(&app.Verbose, "verbose", "v", false, "Log statements and connection activity")
	flags.BoolVar(&app.DryRun, "dry-run", false, "Print the statement and binds without executing")

	root.AddCommand(
		newInsertCommand(app),
		newUpdateCommand(app),
		newSelectCommand(app),
		newDeleteCommand(app),
	)
	return root
}

func (a *App) log() *zap.Logger {
	if a.logger != nil {
		return a.logger
	}
	a.logger = zap.NewNop()
	if a.Verbose {
		if logger, err := zap.NewDevelopment(); err == nil {
			a.logger = logger
		}
	}
	return a.logger
}

// connect loads the configuration and creates the executor once.
func (a *App) connect() (*persistence.Executor, error) {
	if a.executor != nil {
		return a.executor, nil
	}
	cfg, err := config.Load(config.LoadOptions{ConfigFile: a.ConfigFile, Dir: a.Dir})
	if err != nil {
		return nil, err
	}
	factory, err := cfg.Connector(a.log())
	if err != nil {
		return nil, err
	}
	executor, err := persistence.NewExecutor(factory, &persistence.ExecutorOptions{Logger: a.log()})
	if err != nil {
		return nil, err
	}
	a.executor = executor
	return executor, nil
}

func (a *App) close() error {
	if a.logger != nil {
		_ = a.logger.Sync()
	}
	if a.executor == nil {
		return nil
	}
	return a.executor.Close()
}

// printStatement writes the dry-run rendering of stmt.
func printStatement(w io.Writer, stmt statement.Statement) error {
	binds, err := json.Marshal(stmt.Binds)
	if err != nil {
		return fmt.Errorf("failed to encode binds: %w", err)
	}
	_, err = fmt.Fprintf(w, "%s\n%s\n", stmt.SQL, binds)
	return err
}

func printJSON(w io.Writer, v any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}
