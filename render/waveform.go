package render

import (
	"image"
	"io"

	"github.com/fogleman/gg"
	"github.com/xmkit/xmkit"
)

// Waveform draws the decoded sample as a min/max envelope per pixel column.
// The loop region, if the sample loops, is shaded.
func Waveform(s *xmkit.Sample, width, height int) image.Image {
	return drawWaveform(s, width, height).Image()
}

// WaveformPNG draws the waveform like Waveform and writes it as PNG.
func WaveformPNG(w io.Writer, s *xmkit.Sample, width, height int) error {
	return drawWaveform(s, width, height).EncodePNG(w)
}

func drawWaveform(s *xmkit.Sample, width, height int) *gg.Context {
	dc := gg.NewContext(width, height)
	dc.SetRGB(0.08, 0.08, 0.1)
	dc.Clear()
	x := normalized(s)
	w, h := float64(width), float64(height)
	if len(x) == 0 {
		return dc
	}
	if s.LoopType() != xmkit.SampleLoopNone && s.LoopLength() > 0 {
		bytesPerFrame := 1
		if s.Is16Bit() {
			bytesPerFrame = 2
		}
		start := float64(s.LoopStart()/bytesPerFrame) / float64(len(x)) * w
		length := float64(s.LoopLength()/bytesPerFrame) / float64(len(x)) * w
		dc.DrawRectangle(start, 0, length, h)
		dc.SetRGB(0.15, 0.2, 0.3)
		dc.Fill()
	}
	mid := h / 2
	dc.SetRGB(0.3, 0.3, 0.35)
	dc.SetLineWidth(1)
	dc.DrawLine(0, mid, w, mid)
	dc.Stroke()
	dc.SetRGB(0.4, 0.9, 0.6)
	for col := 0; col < width; col++ {
		lo := col * len(x) / width
		hi := (col + 1) * len(x) / width
		if hi <= lo {
			hi = lo + 1
		}
		if lo >= len(x) {
			break
		}
		if hi > len(x) {
			hi = len(x)
		}
		bottom, top := x[lo], x[lo]
		for _, v := range x[lo:hi] {
			if v < bottom {
				bottom = v
			}
			if v > top {
				top = v
			}
		}
		px := float64(col) + 0.5
		dc.DrawLine(px, mid-float64(top)*mid, px, mid-float64(bottom)*mid+1)
	}
	dc.Stroke()
	return dc
}
