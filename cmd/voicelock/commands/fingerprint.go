package commands

import (
	"github.com/spf13/cobra"

	"github.com/haivivi/voicelock/pkg/audio/wav"
	"github.com/haivivi/voicelock/pkg/cli"
	"github.com/haivivi/voicelock/pkg/voiceprint"
)

var (
	fingerprintFormat string
	fingerprintOutput string
)

var fingerprintCmd = &cobra.Command{
	Use:   "fingerprint FILE",
	Short: "Print the acoustic fingerprint of a recording",
	Long: `Print the tone attributes and the mel-band frequency envelope of a WAV file.

Examples:
  voicelock fingerprint reference.wav
  voicelock fingerprint reference.wav --format json -o ref.json`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		format, err := outputFormat(fingerprintFormat)
		if err != nil {
			return err
		}
		ex, err := voiceprint.NewExtractor(voiceprint.DefaultConfig())
		if err != nil {
			return err
		}
		buf, err := wav.Load(args[0], ex.Format())
		if err != nil {
			return err
		}
		fp, err := ex.Extract(buf)
		if err != nil {
			return err
		}
		opts := cli.OutputOptions{Format: format, File: fingerprintOutput}
		if fingerprintOutput == "" {
			opts.Writer = cmd.OutOrStdout()
		}
		return cli.Output(fp, opts)
	},
}

func init() {
	fingerprintCmd.Flags().StringVar(&fingerprintFormat, "format", "yaml", "output format: yaml or json")
	fingerprintCmd.Flags().StringVarP(&fingerprintOutput, "output", "o", "", "output file (default: stdout)")
	rootCmd.AddCommand(fingerprintCmd)
}
