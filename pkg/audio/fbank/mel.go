package fbank

import "math"

// hannWindow returns a periodic Hann window of length n.
func hannWindow(n int) []float64 {
	w := make([]float64, n)
	for i := range w {
		w[i] = 0.5 - 0.5*math.Cos(2*math.Pi*float64(i)/float64(n))
	}
	return w
}

// binFrequencies returns the center frequency of each non-negative FFT bin.
func binFrequencies(fftSize, sampleRate int) []float64 {
	freqs := make([]float64, fftSize/2+1)
	for k := range freqs {
		freqs[k] = float64(k) * float64(sampleRate) / float64(fftSize)
	}
	return freqs
}

// hzToMel converts Hz to the HTK mel scale.
func hzToMel(hz float64) float64 {
	return 2595.0 * math.Log10(1.0+hz/700.0)
}

// melToHz converts HTK mels back to Hz.
func melToHz(mel float64) float64 {
	return 700.0 * (math.Pow(10.0, mel/2595.0) - 1.0)
}

// melFilterBank returns numMels triangular filters over the fftSize/2+1
// spectrum bins. Filter edges are equally spaced on the mel scale between
// lowFreq and highFreq; a highFreq outside (0, Nyquist] means Nyquist.
// Weights peak at 1 and are not area-normalized.
func melFilterBank(numMels, fftSize, sampleRate int, lowFreq, highFreq float64) [][]float64 {
	if nyquist := float64(sampleRate) / 2; highFreq <= 0 || highFreq > nyquist {
		highFreq = nyquist
	}
	lo, hi := hzToMel(lowFreq), hzToMel(highFreq)
	edges := make([]float64, numMels+2)
	for i := range edges {
		edges[i] = melToHz(lo + (hi-lo)*float64(i)/float64(numMels+1))
	}

	freqs := binFrequencies(fftSize, sampleRate)
	bank := make([][]float64, numMels)
	for m := range bank {
		left, center, right := edges[m], edges[m+1], edges[m+2]
		filter := make([]float64, len(freqs))
		for k, f := range freqs {
			rise := (f - left) / (center - left)
			fall := (right - f) / (right - center)
			if w := math.Min(rise, fall); w > 0 {
				filter[k] = w
			}
		}
		bank[m] = filter
	}
	return bank
}
