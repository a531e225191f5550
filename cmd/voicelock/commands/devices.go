package commands

import (
	"github.com/spf13/cobra"

	"github.com/haivivi/voicelock/pkg/audio/portaudio"
	"github.com/haivivi/voicelock/pkg/cli"
)

var devicesFormat string

var devicesCmd = &cobra.Command{
	Use:   "devices",
	Short: "List audio devices",
	Long: `List the audio devices PortAudio can see. Use the index with the
input_device and output_device config keys.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		devices, err := portaudio.Devices()
		if err != nil {
			return err
		}
		if devicesFormat != "" {
			format, err := outputFormat(devicesFormat)
			if err != nil {
				return err
			}
			return cli.Output(devices, cli.OutputOptions{Format: format, Writer: cmd.OutOrStdout()})
		}

		p := printer(cmd)
		for _, d := range devices {
			marker := ""
			if d.IsDefaultInput {
				marker += " [DEFAULT INPUT]"
			}
			if d.IsDefaultOutput {
				marker += " [DEFAULT OUTPUT]"
			}
			p.Info("%d: %s%s", d.Index, d.Name, marker)
			p.Dim("   Input channels: %d, Output channels: %d, Default rate: %s",
				d.MaxInputChannels, d.MaxOutputChannels, cli.FormatRate(d.DefaultSampleRate))
		}
		return nil
	},
}

func init() {
	devicesCmd.Flags().StringVar(&devicesFormat, "format", "", "output format: yaml or json (default: text)")
	rootCmd.AddCommand(devicesCmd)
}
