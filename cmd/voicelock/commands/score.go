package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/haivivi/voicelock/pkg/audio/wav"
	"github.com/haivivi/voicelock/pkg/cli"
	"github.com/haivivi/voicelock/pkg/voiceprint"
)

var (
	scoreThreshold float64
	scoreFormat    string
)

var scoreCmd = &cobra.Command{
	Use:   "score REFERENCE CANDIDATE",
	Short: "Compare two recordings offline",
	Long: `Compare a candidate recording against a reference recording and print
the similarity breakdown the listen loop would compute.

The comparison is directional: the reference is the denominator of every
tone ratio, so swapping the arguments changes the score.

Examples:
  voicelock score reference.wav attempt.wav
  voicelock score reference.wav attempt.wav --format json`,
	Args: cobra.ExactArgs(2),
	RunE: runScore,
}

func init() {
	scoreCmd.Flags().Float64VarP(&scoreThreshold, "threshold", "t", voiceprint.DefaultThreshold, "similarity threshold in (0, 1)")
	scoreCmd.Flags().StringVar(&scoreFormat, "format", "", "output format: yaml or json (default: styled text)")
	rootCmd.AddCommand(scoreCmd)
}

func runScore(cmd *cobra.Command, args []string) error {
	if err := voiceprint.ValidateThreshold(scoreThreshold); err != nil {
		return err
	}
	ex, err := voiceprint.NewExtractor(voiceprint.DefaultConfig())
	if err != nil {
		return err
	}
	enrollment, err := voiceprint.Enroll(args[0], voiceprint.WAVLoader(ex.Format()), ex)
	if err != nil {
		return err
	}
	buf, err := wav.Load(args[1], ex.Format())
	if err != nil {
		return fmt.Errorf("load candidate: %w", err)
	}
	fp, err := ex.Extract(buf)
	if err != nil {
		return err
	}

	d, scoreErr := voiceprint.Score(enrollment.Reference(), fp, scoreThreshold)
	if scoreFormat != "" {
		if scoreErr != nil {
			return scoreErr
		}
		format, err := outputFormat(scoreFormat)
		if err != nil {
			return err
		}
		if err := cli.Output(d, cli.OutputOptions{Format: format, Writer: cmd.OutOrStdout()}); err != nil {
			return err
		}
	} else {
		printer(cmd).Decision(d)
	}
	return scoreErr
}
