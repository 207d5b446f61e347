// SPDX-License-Identifier: MIT
package spectral

import (
	"fmt"
	"strings"

	"gonum.org/v1/gonum/dsp/window"
)

// Window selects the taper applied to a sample block before the transform.
type Window int

// Available window functions. BlackmanHarris is the default: its sidelobe
// suppression is what a response-curve display needs, at the cost of a
// slightly wider main lobe.
const (
	BlackmanHarris Window = iota
	BartlettHann
	Blackman
	BlackmanNuttall
	Hamming
	Hann
	Lanczos
	Nuttall
)

// String returns the canonical lowercase name of the window.
func (w Window) String() string {
	switch w {
	case BlackmanHarris:
		return "blackmanharris"
	case BartlettHann:
		return "bartletthann"
	case Blackman:
		return "blackman"
	case BlackmanNuttall:
		return "blackmannuttall"
	case Hamming:
		return "hamming"
	case Hann:
		return "hann"
	case Lanczos:
		return "lanczos"
	case Nuttall:
		return "nuttall"
	default:
		return "unknown"
	}
}

// ParseWindow converts a name (case-insensitive) to a Window. Returns the
// BlackmanHarris default and an error if the name is unknown.
func ParseWindow(name string) (Window, error) {
	switch strings.ToLower(name) {
	case "blackmanharris", "blackman-harris":
		return BlackmanHarris, nil
	case "bartletthann":
		return BartlettHann, nil
	case "blackman":
		return Blackman, nil
	case "blackmannuttall":
		return BlackmanNuttall, nil
	case "hamming":
		return Hamming, nil
	case "hann", "hanning":
		return Hann, nil
	case "lanczos":
		return Lanczos, nil
	case "nuttall":
		return Nuttall, nil
	default:
		return BlackmanHarris, fmt.Errorf("unknown window function name: %q", name)
	}
}

// coefficients builds the length-n coefficient table for w.
// The gonum window functions multiply in place, so the table starts at 1.0.
func coefficients(n int, w Window) []float64 {
	coeffs := make([]float64, n)
	for i := range coeffs {
		coeffs[i] = 1.0
	}
	switch w {
	case BartlettHann:
		window.BartlettHann(coeffs)
	case Blackman:
		window.Blackman(coeffs)
	case BlackmanNuttall:
		window.BlackmanNuttall(coeffs)
	case Hamming:
		window.Hamming(coeffs)
	case Hann:
		window.Hann(coeffs)
	case Lanczos:
		window.Lanczos(coeffs)
	case Nuttall:
		window.Nuttall(coeffs)
	default:
		window.BlackmanHarris(coeffs)
	}
	return coeffs
}
