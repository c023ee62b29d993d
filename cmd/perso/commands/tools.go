package commands

import (
	"fmt"
	"os"
	"strings"
	"time"

	"perso/internal/mcp"
	"perso/internal/prompts"
	"perso/internal/ui"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

const styleDetectTimeout = 100 * time.Millisecond

func terminalWidth() int {
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 20 {
		return min(w, 100)
	}
	return 80
}

func newToolsCommand(app *App) *cobra.Command {
	var full bool

	cmd := &cobra.Command{
		Use:   "tools",
		Short: "List the tools advertised by tools/list",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			server, err := mcp.NewServer(app.Config, app.Logger, app.Deps())
			if err != nil {
				return err
			}
			title := fmt.Sprintf("%s %s", app.Config.Server.Name, app.Config.Server.Version)
			fmt.Fprint(cmd.OutOrStdout(), ui.RenderToolCatalog(title, server.Registry().Descriptors(), terminalWidth(), full))
			return nil
		},
	}
	cmd.Flags().BoolVar(&full, "full", false, "show complete descriptions, including inline prompts")
	return cmd
}

func newPromptCommand(app *App) *cobra.Command {
	var raw bool

	cmd := &cobra.Command{
		Use:       "prompt <" + strings.Join(prompts.Names(), "|") + ">",
		Short:     "Show an embedded prompt",
		Args:      cobra.ExactArgs(1),
		ValidArgs: prompts.Names(),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, ok := prompts.Get(args[0])
			if !ok {
				return fmt.Errorf("unknown prompt %q (available: %s)", args[0], strings.Join(prompts.Names(), ", "))
			}
			if raw {
				fmt.Fprintln(cmd.OutOrStdout(), p.Body)
				return nil
			}

			md := fmt.Sprintf("# %s\n\n*%s* (`%s`)\n\n%s\n", p.Title, p.Lead, p.Tool, p.Body)
			out, err := ui.RenderMarkdown(md, ui.DetectGlamourStyle(styleDetectTimeout), terminalWidth())
			if err != nil {
				app.Logger.Warn("Markdown rendering failed, printing raw prompt", "error", err)
				out = md
			}
			fmt.Fprint(cmd.OutOrStdout(), out)
			return nil
		},
	}
	cmd.Flags().BoolVar(&raw, "raw", false, "print the prompt body without rendering")
	return cmd
}

func newVersionCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "perso %s (server %s %s)\n", app.Version, app.Config.Server.Name, app.Config.Server.Version)
		},
	}
}
