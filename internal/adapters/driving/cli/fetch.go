package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/memorybox-cli/internal/adapters/driven/export"
	"github.com/custodia-labs/memorybox-cli/internal/core/domain"
	"github.com/custodia-labs/memorybox-cli/internal/core/ports/driven"
	"github.com/custodia-labs/memorybox-cli/internal/core/ports/driving"
	"github.com/custodia-labs/memorybox-cli/internal/logger"
)

var fetchCmd = &cobra.Command{
	Use:   "fetch [connector...]",
	Short: "Fetch and normalise content from connectors",
	Long: `Authenticates and fetches the named connectors, or every enabled connector,
and writes the normalised documents as JSON (default) or JSON Lines.

Documents go to stdout unless --output is given; the summary goes to stderr.
Exits with status 1 when any connector fails.`,
	Args:      cobra.ArbitraryArgs,
	ValidArgs: domain.ConnectorNames,
	RunE:      runFetch,
}

var (
	fetchOutput string
	fetchFormat string
)

// openSink opens where fetched documents are written: the command's stdout
// when path is empty, otherwise the file at path.
var openSink = func(cmd *cobra.Command, path string, format export.Format) (driven.DocumentSink, error) {
	if path == "" {
		return export.NewSink(cmd.OutOrStdout(), format), nil
	}
	sink, err := export.OpenFile(path, format)
	if err != nil {
		return nil, err
	}
	return sink, nil
}

func init() {
	fetchCmd.Flags().StringVarP(&fetchOutput, "output", "o", "", "write documents to this file instead of stdout")
	fetchCmd.Flags().StringVar(&fetchFormat, "format", string(export.FormatJSON), "output format: json or jsonl")
	rootCmd.AddCommand(fetchCmd)
}

func runFetch(cmd *cobra.Command, args []string) error {
	if connectorService == nil {
		return errors.New("connector service not configured")
	}
	format, err := export.ParseFormat(fetchFormat)
	if err != nil {
		return err
	}
	defer flushMetrics()

	report, err := connectorService.Fetch(cmd.Context(), driving.FetchRequest{Connectors: args})
	if err != nil {
		return err
	}

	sink, err := openSink(cmd, fetchOutput, format)
	if err != nil {
		return err
	}
	if err := sink.Write(cmd.Context(), report.Documents); err != nil {
		_ = sink.Close()
		return err
	}
	if err := sink.Close(); err != nil {
		return err
	}

	printFetchSummary(cmd, report)
	if report.Failed() {
		return errors.New("one or more connectors failed")
	}
	return nil
}

func printFetchSummary(cmd *cobra.Command, report *driving.FetchReport) {
	out := cmd.ErrOrStderr()
	st := newStyles(out)

	fmt.Fprintf(out, "%s %s\n", st.Title.Render("fetch"), st.Muted.Render(report.RunID))
	for _, r := range report.Results {
		if r.Err != nil {
			fmt.Fprintf(out, "%s %s: %s\n", st.mark(false), r.Connector, st.Error.Render(r.Err.Error()))
			if r.RateLimited {
				fmt.Fprintf(out, "  %s\n", st.Warning.Render(fmt.Sprintf("kept %d documents read before the limit", r.Documents)))
			}
			if hint := authHint(r.Err); hint != "" {
				fmt.Fprintf(out, "  %s\n", st.Muted.Render(hint))
			}
			continue
		}
		line := fmt.Sprintf("%s %s: %d documents", st.mark(true), r.Connector, r.Documents)
		if r.Skipped > 0 {
			line += st.Warning.Render(fmt.Sprintf(" (%d skipped)", r.Skipped))
		}
		if logger.IsVerbose() {
			line += st.Muted.Render(fmt.Sprintf(" in %s", r.Duration.Round(time.Millisecond)))
		}
		fmt.Fprintln(out, line)
	}
	if fetchOutput != "" {
		fmt.Fprintf(out, "Wrote %d documents to %s\n", len(report.Documents), fetchOutput)
	}
}
