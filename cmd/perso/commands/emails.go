package commands

import (
	"fmt"

	"perso/internal/mail"

	"github.com/spf13/cobra"
)

func newEmailsCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "emails",
		Short: "Print the resume_emails prompt for the configured mailbox",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			summary, err := app.Summarizer().Summarize(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), summary)
			return nil
		},
	}
}

func newMailToJSONCommand(app *App) *cobra.Command {
	var indent bool

	cmd := &cobra.Command{
		Use:   "mail-to-json",
		Short: "Convert one RFC 5322 message on stdin to a JSON digest",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			digest, err := mail.NewExtractor().Digest(cmd.InOrStdin())
			if err != nil {
				return fmt.Errorf("failed to parse message: %w", err)
			}
			out, err := mail.MarshalDigest(digest, indent)
			if err != nil {
				return err
			}
			app.Logger.Debug("Message converted", "subject", digest.Subject)
			fmt.Fprintln(cmd.OutOrStdout(), out)
			return nil
		},
	}
	cmd.Flags().BoolVar(&indent, "indent", false, "indent the JSON output")
	return cmd
}
