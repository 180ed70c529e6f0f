package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show connector and credential status",
	Long: `Shows whether each connector is enabled and whether its credential is
available. No network calls are made.`,
	Args: cobra.NoArgs,
	RunE: runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, _ []string) error {
	if connectorService == nil {
		return errors.New("connector service not configured")
	}

	report, err := connectorService.Status(cmd.Context())
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	st := newStyles(out)

	fmt.Fprintln(out, st.Title.Render("memorybox status"))
	fmt.Fprintf(out, "Config: %s\n\n", report.ConfigPath)

	for _, c := range report.Connectors {
		state := st.Muted.Render("disabled")
		if c.Enabled {
			state = st.Success.Render("enabled")
		}
		creds := st.Warning.Render("missing")
		if c.CredentialsPresent {
			creds = st.Success.Render("present")
		}
		fmt.Fprintf(out, "%s %-13s %-9s credentials %s", st.mark(c.Enabled && c.CredentialsPresent), c.Name, state, creds)
		if c.CredentialSource != "" {
			fmt.Fprintf(out, " %s", st.Muted.Render("("+c.CredentialSource+")"))
		}
		fmt.Fprintln(out)
		if c.Detail != "" {
			fmt.Fprintf(out, "  %s\n", st.Muted.Render(c.Detail))
		}
	}

	if report.EmbeddingKeyEnv != "" {
		present := st.Warning.Render("not set")
		if report.EmbeddingKeyPresent {
			present = st.Success.Render("set")
		}
		fmt.Fprintf(out, "\nEmbedding key %s: %s\n", report.EmbeddingKeyEnv, present)
	}
	return nil
}
