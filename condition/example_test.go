package condition_test

import (
	"fmt"

	"github.com/cwbudde/algo-voice/condition"
	"github.com/cwbudde/algo-voice/dsp/core"
)

func ExampleNormalizeRMS() {
	w := core.Waveform{Samples: []float64{0.5, -0.5, 0.5, -0.5}, SampleRate: 8000}

	out := condition.NormalizeRMS(w, 0.1)
	fmt.Printf("%.2f %.2f\n", out.Samples[0], out.Samples[1])

	silent := condition.NormalizeRMS(core.Waveform{Samples: []float64{0, 0}, SampleRate: 8000}, 0.1)
	fmt.Println(silent.Samples)
	// Output:
	// 0.10 -0.10
	// [0 0]
}
