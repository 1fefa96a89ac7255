package metrics

import (
	"math"

	"github.com/san-kum/magpend/internal/dynamo"
)

// ForceEffort is the mean magnitude of the applied magnetic force. Non-finite
// frames are skipped here and counted by NonFinite.
type ForceEffort struct {
	sum     float64
	samples int
}

func NewForceEffort() *ForceEffort {
	return &ForceEffort{}
}

func (f *ForceEffort) Name() string { return "force_effort" }

func (f *ForceEffort) Observe(x dynamo.State, u dynamo.Control, t float64) {
	mag := u.Magnitude()
	if math.IsNaN(mag) || math.IsInf(mag, 0) {
		return
	}
	f.sum += mag
	f.samples++
}

func (f *ForceEffort) Value() float64 {
	if f.samples == 0 {
		return 0
	}
	return f.sum / float64(f.samples)
}

func (f *ForceEffort) Reset() {
	f.sum = 0
	f.samples = 0
}

// NonFinite counts frames whose applied force was NaN or Inf.
type NonFinite struct {
	count int
}

func NewNonFinite() *NonFinite { return &NonFinite{} }

func (n *NonFinite) Name() string { return "nonfinite" }

func (n *NonFinite) Observe(x dynamo.State, u dynamo.Control, t float64) {
	if !u.IsFinite() {
		n.count++
	}
}

func (n *NonFinite) Value() float64 { return float64(n.count) }
func (n *NonFinite) Reset()         { n.count = 0 }
