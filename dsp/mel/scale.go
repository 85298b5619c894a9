package mel

import "math"

// Scale selects a mel-scale formula.
type Scale int

const (
	// ScaleSlaney is the Auditory Toolbox scale, linear below 1 kHz.
	ScaleSlaney Scale = iota
	// ScaleHTK is the HTK formula 2595*log10(1 + f/700).
	ScaleHTK
)

// Slaney scale constants.
const (
	slaneyHzPerMel = 200.0 / 3
	slaneyMinLogHz = 1000.0
	slaneyMinLog   = slaneyMinLogHz / slaneyHzPerMel
)

var slaneyLogStep = math.Log(6.4) / 27

// String returns the scale name.
func (s Scale) String() string {
	switch s {
	case ScaleSlaney:
		return "slaney"
	case ScaleHTK:
		return "htk"
	default:
		return "unknown"
	}
}

// HzToMel converts a frequency in Hz to mels.
func HzToMel(hz float64, s Scale) float64 {
	if s == ScaleHTK {
		return 2595 * math.Log10(1+hz/700)
	}

	if hz < slaneyMinLogHz {
		return hz / slaneyHzPerMel
	}

	return slaneyMinLog + math.Log(hz/slaneyMinLogHz)/slaneyLogStep
}

// MelToHz converts mels to a frequency in Hz.
func MelToHz(m float64, s Scale) float64 {
	if s == ScaleHTK {
		return 700 * (math.Pow(10, m/2595) - 1)
	}

	if m < slaneyMinLog {
		return m * slaneyHzPerMel
	}

	return slaneyMinLogHz * math.Exp(slaneyLogStep*(m-slaneyMinLog))
}

// Frequencies returns n frequencies in Hz evenly spaced on the mel scale
// between fmin and fmax inclusive.
func Frequencies(n int, fmin, fmax float64, s Scale) []float64 {
	if n <= 0 {
		return nil
	}

	out := make([]float64, n)
	if n == 1 {
		out[0] = fmin
		return out
	}

	lo := HzToMel(fmin, s)
	hi := HzToMel(fmax, s)
	step := (hi - lo) / float64(n-1)

	for i := range out {
		out[i] = MelToHz(lo+float64(i)*step, s)
	}

	out[n-1] = fmax

	return out
}
