package cli

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version and active configuration",
	Long: `Prints the memorybox version and the platform it was built for, followed by
the configuration file in use and the connectors it enables.

A configuration that cannot be read is reported but does not fail the command.`,
	Args: cobra.NoArgs,
	RunE: runVersion,
}

var versionShort bool

func init() {
	versionCmd.Flags().BoolVar(&versionShort, "short", false, "print only the version number")
	rootCmd.AddCommand(versionCmd)
}

func runVersion(cmd *cobra.Command, _ []string) error {
	if versionShort {
		fmt.Fprintln(cmd.OutOrStdout(), version)
		return nil
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "memorybox %s (%s, %s/%s)\n", version, runtime.Version(), runtime.GOOS, runtime.GOARCH)

	if connectorService == nil {
		return nil
	}
	report, err := connectorService.Status(cmd.Context())
	if err != nil {
		fmt.Fprintf(out, "config:     unavailable (%v)\n", err)
		return nil
	}

	var enabled []string
	for _, c := range report.Connectors {
		if c.Enabled {
			enabled = append(enabled, c.Name)
		}
	}
	connectors := "none enabled"
	if len(enabled) > 0 {
		connectors = strings.Join(enabled, ", ")
	}
	fmt.Fprintf(out, "config:     %s\n", report.ConfigPath)
	fmt.Fprintf(out, "connectors: %s\n", connectors)
	return nil
}
