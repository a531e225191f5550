package commands

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/spf13/cobra"

	"github.com/haivivi/voicelock/pkg/cli"
)

var (
	configFormat string
	configForce  bool
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or initialize the configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	Long:  `Print the configuration after defaults are applied. API keys are masked.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, _, err := loadConfig()
		if err != nil {
			return err
		}
		format, err := outputFormat(configFormat)
		if err != nil {
			return err
		}
		return cli.Output(cfg.Masked(), cli.OutputOptions{Format: format, Writer: cmd.OutOrStdout()})
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the default configuration file",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, _, err := loadConfig()
		if err != nil {
			return err
		}
		if _, err := os.Stat(cfg.Path()); err == nil && !configForce {
			return fmt.Errorf("%s already exists (use --force to overwrite)", cfg.Path())
		} else if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return err
		}
		if err := cfg.Save(); err != nil {
			return err
		}
		printer(cmd).Success("Wrote %s", cfg.Path())
		return nil
	},
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the configuration file path",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, paths, err := loadConfig()
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), cfg.Path())
		if IsVerbose() {
			fmt.Fprintln(cmd.OutOrStdout(), cfg.ReferencePath(paths))
		}
		return nil
	},
}

func init() {
	configShowCmd.Flags().StringVar(&configFormat, "format", "yaml", "output format: yaml or json")
	configInitCmd.Flags().BoolVar(&configForce, "force", false, "overwrite an existing file")
	configCmd.AddCommand(configShowCmd, configInitCmd, configPathCmd)
	rootCmd.AddCommand(configCmd)
}
