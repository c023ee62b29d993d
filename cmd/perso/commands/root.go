package commands

import (
	"errors"
	"io"
	"time"

	"perso/internal/clipboard"
	"perso/internal/config"
	"perso/internal/logging"
	"perso/internal/mail"
	"perso/internal/mcp"
	"perso/internal/recipes"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

// App carries what every subcommand needs once flags are parsed.
type App struct {
	Version string
	Config  *config.Config
	Logger  *logging.AppLogger

	configPath string
}

// NewRootCommand builds the command tree. Running it bare serves MCP on stdio.
func NewRootCommand(version string) *cobra.Command {
	app := &App{Version: version}

	root := &cobra.Command{
		Use:           "perso",
		Short:         "Personal MCP server over stdio",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return app.setup(cmd.ErrOrStderr())
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.serve(cmd)
		},
	}
	root.PersistentFlags().StringVarP(&app.configPath, "config", "c", "", "path to config.yaml (default: search "+config.ConfigEnvVar+", ./config, XDG config, ~/.mcps)")

	root.AddCommand(
		newServeCommand(app),
		newToolsCommand(app),
		newPromptCommand(app),
		newEmailsCommand(app),
		newMailToJSONCommand(app),
		newRecipesCommand(app),
		newConfigCommand(app),
		newVersionCommand(app),
	)
	return root
}

// newLogger writes to the debug log file when debugging is enabled and to
// stderr (warnings and up) otherwise.
func newLogger(stderr io.Writer) *logging.AppLogger {
	if logging.DebugEnabled() {
		return logging.NewAppLogger()
	}
	return logging.NewWriterLogger(stderr, log.WarnLevel)
}

func (a *App) setup(stderr io.Writer) error {
	a.Logger = newLogger(stderr).With("session", uuid.NewString())

	var err error
	if a.configPath != "" {
		a.Config, err = config.LoadFrom(config.ExpandHome(a.configPath))
		if err != nil {
			return err
		}
	} else {
		a.Config, err = config.Load()
		switch {
		case errors.Is(err, config.ErrNoConfig):
			a.Logger.Warn("No configuration file found, using defaults", "searched", config.SearchPaths())
		case err != nil:
			a.Logger.Warn("Configuration unreadable, using defaults", "error", err)
		}
	}

	if err := a.Config.ApplyEnvironment(); err != nil {
		a.Logger.Warn("Failed to apply configured environment", "error", err)
	}
	a.Logger.Debug("Configuration loaded", "source", a.Config.Source())
	a.Logger.DebugObject("config", *a.Config)
	return nil
}

// Deps wires the production collaborators from the loaded configuration.
func (a *App) Deps() mcp.Deps {
	return mcp.Deps{
		Recipes:   a.RecipeStore(),
		Mail:      a.Summarizer(),
		Clipboard: clipboard.NewSystem(a.Logger),
		Now:       time.Now,
	}
}

func (a *App) RecipeStore() *recipes.SQLiteStore {
	return recipes.NewSQLiteStore(a.Config.DatabasePath(), a.Logger)
}

func (a *App) Summarizer() *mail.MboxSummarizer {
	return mail.NewMboxSummarizer(a.Config.MboxPath(), a.Config.Mbox.Src, mail.NewExtractor(), a.Logger)
}
