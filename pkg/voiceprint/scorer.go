package voiceprint

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"
)

// DefaultThreshold is the default decision threshold.
const DefaultThreshold = 0.80

// ValidateThreshold checks that t lies strictly between 0 and 1. A threshold
// of 0 accepts almost any voice and 1 accepts none.
func ValidateThreshold(t float64) error {
	if !(t > 0 && t < 1) {
		return fmt.Errorf("voiceprint: threshold %v out of (0, 1)", t)
	}
	return nil
}

// Weights sets how sub-scores combine into the total similarity.
//
// Centroid, Rolloff and Bandwidth weigh the tone attributes against each
// other and should sum to 1. Tone and Frequency weigh the tone group against
// the envelope correlation and should also sum to 1.
type Weights struct {
	Centroid  float64 `json:"centroid" yaml:"centroid"`
	Rolloff   float64 `json:"rolloff" yaml:"rolloff"`
	Bandwidth float64 `json:"bandwidth" yaml:"bandwidth"`
	Tone      float64 `json:"tone" yaml:"tone"`
	Frequency float64 `json:"frequency" yaml:"frequency"`
}

// DefaultWeights returns the default weighting: tone dominates, with the
// centroid most important, and the envelope acts as corroboration.
func DefaultWeights() Weights {
	return Weights{
		Centroid:  0.5,
		Rolloff:   0.3,
		Bandwidth: 0.2,
		Tone:      0.75,
		Frequency: 0.25,
	}
}

// Validate checks that both weight groups are non-negative and sum to 1.
func (w Weights) Validate() error {
	for _, v := range []float64{w.Centroid, w.Rolloff, w.Bandwidth, w.Tone, w.Frequency} {
		if v < 0 || math.IsNaN(v) {
			return fmt.Errorf("voiceprint: negative or NaN weight in %+v", w)
		}
	}
	if s := w.Centroid + w.Rolloff + w.Bandwidth; math.Abs(s-1) > 1e-9 {
		return fmt.Errorf("voiceprint: tone weights sum to %v, want 1", s)
	}
	if s := w.Tone + w.Frequency; math.Abs(s-1) > 1e-9 {
		return fmt.Errorf("voiceprint: group weights sum to %v, want 1", s)
	}
	return nil
}

// Breakdown holds every intermediate value behind a Decision.
type Breakdown struct {
	Reference Tone `json:"reference" yaml:"reference"`
	Candidate Tone `json:"candidate" yaml:"candidate"`

	// Per-attribute tone similarities.
	Centroid  float64 `json:"centroid" yaml:"centroid"`
	Rolloff   float64 `json:"rolloff" yaml:"rolloff"`
	Bandwidth float64 `json:"bandwidth" yaml:"bandwidth"`

	// Tone is the weighted tone similarity.
	Tone float64 `json:"tone" yaml:"tone"`

	// Frequency is the envelope correlation coefficient.
	Frequency float64 `json:"frequency" yaml:"frequency"`
}

// Decision is the result of comparing a candidate against the reference.
type Decision struct {
	Score     float64   `json:"score" yaml:"score"`
	Threshold float64   `json:"threshold" yaml:"threshold"`
	Matched   bool      `json:"matched" yaml:"matched"`
	Breakdown Breakdown `json:"breakdown" yaml:"breakdown"`
}

// Scorer compares fingerprints with a fixed weighting.
type Scorer struct {
	weights Weights
}

// ScorerOption configures a Scorer.
type ScorerOption func(*Scorer)

// WithWeights overrides the default weights.
func WithWeights(w Weights) ScorerOption {
	return func(s *Scorer) {
		s.weights = w
	}
}

// NewScorer creates a Scorer with the given options.
func NewScorer(opts ...ScorerOption) *Scorer {
	s := &Scorer{weights: DefaultWeights()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Weights returns the scorer's weights.
func (s *Scorer) Weights() Weights { return s.weights }

// Score compares candidate against reference using the default weights.
func Score(reference, candidate Fingerprint, threshold float64) (Decision, error) {
	return NewScorer().Score(reference, candidate, threshold)
}

// Score compares candidate against reference.
//
// The candidate matches when the total similarity is strictly greater than
// threshold. Envelopes of different length fail with ErrDimensionMismatch.
// Undefined comparisons fail with ErrDegenerateAudio; the returned Decision
// then holds whatever was computed and is never Matched.
func (s *Scorer) Score(reference, candidate Fingerprint, threshold float64) (Decision, error) {
	d := Decision{Threshold: threshold}
	if reference.Bands() != candidate.Bands() {
		return d, fmt.Errorf("%w: reference has %d bands, candidate has %d",
			ErrDimensionMismatch, reference.Bands(), candidate.Bands())
	}

	ref, cand := reference.Tone, candidate.Tone
	b := Breakdown{
		Reference: ref,
		Candidate: cand,
		Centroid:  relativeSimilarity(ref.Centroid, cand.Centroid),
		Rolloff:   relativeSimilarity(ref.Rolloff, cand.Rolloff),
		Bandwidth: relativeSimilarity(ref.Bandwidth, cand.Bandwidth),
	}
	w := s.weights
	b.Tone = b.Centroid*w.Centroid + b.Rolloff*w.Rolloff + b.Bandwidth*w.Bandwidth
	b.Frequency = correlation(reference.Frequency, candidate.Frequency)

	d.Breakdown = b
	d.Score = b.Tone*w.Tone + b.Frequency*w.Frequency

	if err := degenerate(reference, candidate, d); err != nil {
		return d, err
	}
	d.Matched = d.Score > threshold
	return d, nil
}

// relativeSimilarity is 1 - |ref-cand|/ref. It is NaN or ±Inf when ref is 0.
func relativeSimilarity(ref, cand float64) float64 {
	return 1 - math.Abs(ref-cand)/ref
}

// correlation returns the Pearson correlation of a and b, or NaN when either
// has fewer than two values or zero variance.
func correlation(a, b []float64) float64 {
	if len(a) < 2 || stat.Variance(a, nil) == 0 || stat.Variance(b, nil) == 0 {
		return math.NaN()
	}
	return stat.Correlation(a, b, nil)
}

func degenerate(reference, candidate Fingerprint, d Decision) error {
	ref := reference.Tone
	switch {
	case ref.Centroid == 0 || ref.Rolloff == 0 || ref.Bandwidth == 0:
		return fmt.Errorf("%w: reference tone has a zero attribute %+v", ErrDegenerateAudio, ref)
	case len(reference.Frequency) < 2 || stat.Variance(reference.Frequency, nil) == 0:
		return fmt.Errorf("%w: reference envelope is flat", ErrDegenerateAudio)
	case stat.Variance(candidate.Frequency, nil) == 0:
		return fmt.Errorf("%w: candidate envelope is flat", ErrDegenerateAudio)
	case !finite(d.Score):
		return fmt.Errorf("%w: similarity is %v", ErrDegenerateAudio, d.Score)
	}
	return nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
