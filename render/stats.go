package render

import (
	"math"

	"github.com/viterin/vek/vek32"
	"github.com/xmkit/xmkit"
)

// Stats describes the level of a sample. Peak and RMS are relative to full
// scale (1.0); the decibel values are relative to full scale as well.
type Stats struct {
	Frames int
	Peak   float32
	RMS    float32
	DC     float32 // mean value
}

// PeakDB returns the peak level in dBFS, or -Inf for a silent sample.
func (s Stats) PeakDB() float64 {
	return 20 * math.Log10(float64(s.Peak))
}

// RMSDB returns the RMS level in dBFS, or -Inf for a silent sample.
func (s Stats) RMSDB() float64 {
	return 20 * math.Log10(float64(s.RMS))
}

// SampleStats measures the decoded PCM of a sample. Both 8-bit and 16-bit
// samples are measured on the 16-bit signed scale.
func SampleStats(s *xmkit.Sample) Stats {
	x := normalized(s)
	if len(x) == 0 {
		return Stats{}
	}
	ret := Stats{Frames: len(x), DC: vek32.Mean(x)}
	sq := vek32.Mul(x, x)
	ret.RMS = float32(math.Sqrt(float64(vek32.Mean(sq))))
	vek32.Abs_Inplace(x)
	ret.Peak = vek32.Max(x)
	return ret
}

func normalized(s *xmkit.Sample) []float32 {
	pcm := s.Signed16()
	ret := make([]float32, len(pcm))
	for i, v := range pcm {
		ret[i] = float32(v)
	}
	vek32.MulNumber_Inplace(ret, 1.0/32768)
	return ret
}
