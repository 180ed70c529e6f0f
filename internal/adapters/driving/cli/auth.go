package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/memorybox-cli/internal/core/domain"
)

var authCmd = &cobra.Command{
	Use:   "auth [connector...]",
	Short: "Authenticate connectors",
	Long: `Authenticates the named connectors, or every enabled connector.

Slack and GitHub read their tokens from the environment. Google Drive opens
a browser for consent the first time and stores the token file configured
under connectors.google_drive.token_file.

Exits with status 1 when any connector fails.

Examples:
  memorybox auth
  memorybox auth slack github
  memorybox auth reset google_drive`,
	Args:      cobra.ArbitraryArgs,
	ValidArgs: domain.ConnectorNames,
	RunE:      runAuth,
}

var authResetCmd = &cobra.Command{
	Use:   "reset [connector]",
	Short: "Delete a connector's saved OAuth token",
	Long: `Deletes the persisted OAuth token so the next "memorybox auth" runs the
authorisation flow again. Only google_drive keeps a token.`,
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{domain.ConnectorGoogleDrive},
	RunE:      runAuthReset,
}

func init() {
	authCmd.AddCommand(authResetCmd)
	rootCmd.AddCommand(authCmd)
}

func runAuth(cmd *cobra.Command, args []string) error {
	if connectorService == nil {
		return errors.New("connector service not configured")
	}
	defer flushMetrics()

	results, err := connectorService.Authenticate(cmd.Context(), args...)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	st := newStyles(out)

	if len(results) == 0 {
		fmt.Fprintln(out, "No connectors enabled. Run 'memorybox config enable <connector>' first.")
		return nil
	}

	failed := 0
	for _, r := range results {
		if r.Authenticated {
			account := r.Account.Identifier
			if r.Account.DisplayName != "" && r.Account.DisplayName != account {
				account += " (" + r.Account.DisplayName + ")"
			}
			fmt.Fprintf(out, "%s %s: authenticated as %s\n", st.mark(true), r.Connector, account)
			continue
		}
		failed++
		fmt.Fprintf(out, "%s %s: %s\n", st.mark(false), r.Connector, st.Error.Render(r.Err.Error()))
		if hint := authHint(r.Err); hint != "" {
			fmt.Fprintf(out, "  %s\n", st.Muted.Render(hint))
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d connectors failed to authenticate", failed, len(results))
	}
	return nil
}

// authHint suggests the operator remedy for an authentication failure.
func authHint(err error) string {
	var refreshErr *domain.RefreshError
	switch {
	case errors.As(err, &refreshErr):
		return "run 'memorybox auth reset google_drive' and authenticate again"
	case errors.Is(err, domain.ErrConnectorDisabled):
		return "enable it with 'memorybox config enable <connector>'"
	case errors.Is(err, domain.ErrAuthRequired):
		return "set the token variable (or add it to .env) and retry"
	case errors.Is(err, domain.ErrAuthInvalid):
		return "the credential was rejected; check it is current and has the required scopes"
	case errors.Is(err, domain.ErrRateLimited):
		return "the service is rate limiting requests; wait a few minutes and run again"
	default:
		return ""
	}
}

func runAuthReset(cmd *cobra.Command, args []string) error {
	if connectorService == nil {
		return errors.New("connector service not configured")
	}

	if err := connectorService.ResetToken(cmd.Context(), args[0]); err != nil {
		return err
	}
	cmd.Printf("Removed saved token for %s.\n", args[0])
	return nil
}
