package cli

import (
	"encoding/json"
	"errors"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/memorybox-cli/internal/core/domain"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the memorybox config file",
	Long: `Create, inspect and edit the JSON config file.

Examples:
  memorybox config init
  memorybox config enable slack
  memorybox config auto`,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the default config file",
	Args:  cobra.NoArgs,
	RunE:  runConfigInit,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the current configuration",
	Args:  cobra.NoArgs,
	RunE:  runConfigShow,
}

var configEnableCmd = &cobra.Command{
	Use:       "enable [connector]",
	Short:     "Enable a connector",
	Args:      cobra.ExactArgs(1),
	ValidArgs: domain.ConnectorNames,
	RunE:      runConfigEnable,
}

var configDisableCmd = &cobra.Command{
	Use:       "disable [connector]",
	Short:     "Disable a connector",
	Args:      cobra.ExactArgs(1),
	ValidArgs: domain.ConnectorNames,
	RunE:      runConfigDisable,
}

var configAutoCmd = &cobra.Command{
	Use:   "auto",
	Short: "Enable every connector whose credentials are available",
	Long: `Enables google_drive when its credentials file exists, and slack and github
when their token variables are set. Connectors that are already enabled stay
enabled, and the command lists every connector enabled afterwards.`,
	Args: cobra.NoArgs,
	RunE: runConfigAuto,
}

var configInitForce bool

func init() {
	configInitCmd.Flags().BoolVar(&configInitForce, "force", false, "overwrite an existing config file")

	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configEnableCmd)
	configCmd.AddCommand(configDisableCmd)
	configCmd.AddCommand(configAutoCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigInit(cmd *cobra.Command, _ []string) error {
	if configService == nil {
		return errors.New("config service not configured")
	}
	if _, err := configService.Init(cmd.Context(), configInitForce); err != nil {
		return err
	}
	cmd.Println("Wrote default configuration. Every connector starts disabled.")
	return nil
}

func runConfigShow(cmd *cobra.Command, _ []string) error {
	if configService == nil {
		return errors.New("config service not configured")
	}
	cfg, err := configService.Show(cmd.Context())
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	cmd.Println(string(data))
	return nil
}

func runConfigEnable(cmd *cobra.Command, args []string) error {
	if configService == nil {
		return errors.New("config service not configured")
	}
	if err := configService.Enable(cmd.Context(), args[0]); err != nil {
		return err
	}
	cmd.Printf("Enabled %s.\n", args[0])
	return nil
}

func runConfigDisable(cmd *cobra.Command, args []string) error {
	if configService == nil {
		return errors.New("config service not configured")
	}
	if err := configService.Disable(cmd.Context(), args[0]); err != nil {
		return err
	}
	cmd.Printf("Disabled %s.\n", args[0])
	return nil
}

func runConfigAuto(cmd *cobra.Command, _ []string) error {
	if configService == nil {
		return errors.New("config service not configured")
	}
	enabled, err := configService.AutoConfigure(cmd.Context())
	if err != nil {
		return err
	}
	if len(enabled) == 0 {
		cmd.Println("No connectors enabled; no credentials found.")
		return nil
	}
	cmd.Printf("Enabled: %s\n", strings.Join(enabled, ", "))
	return nil
}
