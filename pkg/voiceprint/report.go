package voiceprint

import (
	"fmt"
	"io"
	"strings"
)

// Report writes the human-readable similarity breakdown of d to w.
func (d Decision) Report(w io.Writer) error {
	_, err := io.WriteString(w, d.String())
	return err
}

// String renders the breakdown as multi-line text.
func (d Decision) String() string {
	b := d.Breakdown
	var sb strings.Builder
	sb.WriteString("Voice Characteristics:\n")
	fmt.Fprintf(&sb, "Voice Brightness - Ref: %.2f Hz, Input: %.2f Hz\n", b.Reference.Centroid, b.Candidate.Centroid)
	fmt.Fprintf(&sb, "Frequency Distribution - Ref: %.2f Hz, Input: %.2f Hz\n", b.Reference.Rolloff, b.Candidate.Rolloff)
	fmt.Fprintf(&sb, "Spectral Spread - Ref: %.2f Hz, Input: %.2f Hz\n", b.Reference.Bandwidth, b.Candidate.Bandwidth)
	sb.WriteString("\nSimilarity Scores:\n")
	fmt.Fprintf(&sb, "Tone Similarity: %s\n", percent(b.Tone))
	fmt.Fprintf(&sb, "├─ Voice Brightness: %s\n", percent(b.Centroid))
	fmt.Fprintf(&sb, "├─ Frequency Distribution: %s\n", percent(b.Rolloff))
	fmt.Fprintf(&sb, "└─ Spectral Spread: %s\n", percent(b.Bandwidth))
	fmt.Fprintf(&sb, "Frequency Similarity: %s\n", percent(b.Frequency))
	fmt.Fprintf(&sb, "Total Similarity: %s (threshold %s)\n", percent(d.Score), percent(d.Threshold))
	return sb.String()
}

func percent(v float64) string {
	return fmt.Sprintf("%.2f%%", v*100)
}
