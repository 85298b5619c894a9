package formant

// burg returns linear-prediction coefficients d[0..m) of x such that
// x[n] ~ sum_k d[k] x[n-k-1], estimated with Burg's maximum-entropy method.
// The order is reduced when the residual vanishes before m coefficients.
func burg(x []float64, m int) []float64 {
	n := len(x)
	if n < 2 || m < 1 {
		return nil
	}

	m = min(m, n-1)

	wk1 := append([]float64(nil), x[:n-1]...)
	wk2 := append([]float64(nil), x[1:]...)
	d := make([]float64, m)
	wkm := make([]float64, m)

	used := 0

	for k := range m {
		var num, den float64
		for j := range n - k - 1 {
			num += wk1[j] * wk2[j]
			den += wk1[j]*wk1[j] + wk2[j]*wk2[j]
		}

		if den == 0 {
			break
		}

		d[k] = 2 * num / den
		used = k + 1

		for i := range k {
			d[i] = wkm[i] - d[k]*wkm[k-1-i]
		}

		if k == m-1 {
			break
		}

		copy(wkm[:k+1], d[:k+1])

		for j := range n - k - 2 {
			wk1[j] -= wkm[k] * wk2[j]
			wk2[j] = wk2[j+1] - wkm[k]*wk1[j+1]
		}
	}

	return d[:used]
}
