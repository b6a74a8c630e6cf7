package series

import "time"

// Interpolate linearly projects (t0, v0)-(t1, v1) onto target.
// alpha = (target - t0) / (t1 - t0), measured in nanoseconds.
// A zero-length bracket returns v0. target is not required to lie in [t0, t1].
func Interpolate(t0, t1 time.Time, v0, v1 float64, target time.Time) float64 {
	dt := float64(t1.Sub(t0))
	if dt > -1e-9 && dt < 1e-9 {
		return v0
	}
	alpha := float64(target.Sub(t0)) / dt
	return v0 + alpha*(v1-v0)
}
