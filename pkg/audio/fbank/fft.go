package fbank

import (
	"math"
	"math/bits"
)

// FFT transforms real and imag in place with an iterative radix-2
// Cooley-Tukey FFT. Both slices must have the same power-of-two length.
func FFT(real, imag []float64) {
	n := len(real)
	if n <= 1 {
		return
	}

	shift := bits.UintSize - bits.TrailingZeros(uint(n))
	for i := range n {
		j := int(bits.Reverse(uint(i)) >> shift)
		if i < j {
			real[i], real[j] = real[j], real[i]
			imag[i], imag[j] = imag[j], imag[i]
		}
	}

	for size := 2; size <= n; size *= 2 {
		half := size / 2
		for k := range half {
			wi, wr := math.Sincos(-2 * math.Pi * float64(k) / float64(size))
			for u := k; u < n; u += size {
				v := u + half
				xr := wr*real[v] - wi*imag[v]
				xi := wr*imag[v] + wi*real[v]
				real[v], imag[v] = real[u]-xr, imag[u]-xi
				real[u] += xr
				imag[u] += xi
			}
		}
	}
}
