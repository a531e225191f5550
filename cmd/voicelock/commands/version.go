package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/haivivi/voicelock/cmd/voicelock/internal/build"
	"github.com/haivivi/voicelock/pkg/cli"
)

var versionFormat string

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	RunE: func(cmd *cobra.Command, args []string) error {
		if versionFormat != "" {
			format, err := outputFormat(versionFormat)
			if err != nil {
				return err
			}
			return cli.Output(build.Get(), cli.OutputOptions{Format: format, Writer: cmd.OutOrStdout()})
		}

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, build.String())
		if IsVerbose() {
			fmt.Fprintf(out, "  go:     %s\n", build.Get().Go)
			if _, paths, err := loadConfig(); err == nil {
				fmt.Fprintf(out, "  config: %s\n", paths.Dir)
			} else {
				fmt.Fprintf(out, "  config: (unavailable: %v)\n", err)
			}
		}
		return nil
	},
}

func init() {
	versionCmd.Flags().StringVar(&versionFormat, "format", "", "output format: yaml or json")
	rootCmd.AddCommand(versionCmd)
}
