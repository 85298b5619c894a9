package spectral_test

import (
	"fmt"

	"github.com/cwbudde/algo-voice/measure/spectral"
)

func ExamplePowerToDB() {
	data := [][]float64{{1, 0.1}, {0.01, 1e-12}}
	spectral.PowerToDB(data, 80)

	for _, row := range data {
		fmt.Printf("%.1f %.1f\n", row[0], row[1])
	}
	// Output:
	// 0.0 -10.0
	// -20.0 -80.0
}
