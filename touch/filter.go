package touch

// MedianOfThree returns the middle of three values. Light presses often produce a single reading
// near zero; taking the median of three consecutive readings rejects it while still following a
// real change in pressure within two samples.
func MedianOfThree(a, b, c int) int {
	samples := [3]int{a, b, c}
	for i := 1; i < len(samples); i++ {
		for j := i; j > 0 && samples[j-1] > samples[j]; j-- {
			samples[j-1], samples[j] = samples[j], samples[j-1]
		}
	}
	return samples[1]
}
