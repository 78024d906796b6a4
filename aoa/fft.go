package aoa

import "math"

// complexFFT is the same in-place, unnormalized radix-2 Cooley-Tukey
// forward transform used by the radar package's range-FFT stage; it is
// duplicated here rather than imported so the aoa package has no
// dependency on radar's detector state (spec.md keeps AoA a standalone
// single-shot estimator, §4.H).
func complexFFT(buf []complex128) {
	n := len(buf)
	if n <= 1 {
		return
	}

	for i, j := 1, 0; i < n; i++ {
		bit := n >> 1
		for ; j&bit != 0; bit >>= 1 {
			j &^= bit
		}
		j |= bit
		if i < j {
			buf[i], buf[j] = buf[j], buf[i]
		}
	}

	for length := 2; length <= n; length <<= 1 {
		ang := -2 * math.Pi / float64(length)
		wlen := complex(math.Cos(ang), math.Sin(ang))
		for i := 0; i < n; i += length {
			w := complex(1, 0)
			half := length / 2
			for k := 0; k < half; k++ {
				u := buf[i+k]
				v := buf[i+k+half] * w
				buf[i+k] = u + v
				buf[i+k+half] = u - v
				w *= wlen
			}
		}
	}
}
