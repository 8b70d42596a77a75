package tarot

// scriptedRand replays fixed IntN and Float64 results. It panics when a
// queue runs dry so a test notices unexpected consumption.
type scriptedRand struct {
	ints   []int
	floats []float64
}

func (r *scriptedRand) IntN(n int) int {
	if len(r.ints) == 0 {
		panic("scriptedRand: IntN queue exhausted")
	}
	v := r.ints[0]
	r.ints = r.ints[1:]
	if v >= n {
		panic("scriptedRand: scripted IntN value out of range")
	}
	return v
}

func (r *scriptedRand) Float64() float64 {
	if len(r.floats) == 0 {
		panic("scriptedRand: Float64 queue exhausted")
	}
	v := r.floats[0]
	r.floats = r.floats[1:]
	return v
}
