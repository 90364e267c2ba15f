package analyzer

import (
	"github.com/anthonynsimon/bild/histogram"
)

// ChannelHistogram counts pixels per intensity 0-255 of one channel.
// Its bins always sum to the pixel count.
type ChannelHistogram [256]int

// Total returns the sum of all bins
func (h ChannelHistogram) Total() int {
	total := 0
	for _, c := range h {
		total += c
	}
	return total
}

// Max returns the tallest bin count
func (h ChannelHistogram) Max() int {
	max := 0
	for _, c := range h {
		if c > max {
			max = c
		}
	}
	return max
}

// HistogramSet holds the histograms of the three RGB channels
type HistogramSet struct {
	Red   ChannelHistogram
	Green ChannelHistogram
	Blue  ChannelHistogram
}

// Channel returns the histogram for ChannelRed, ChannelGreen or ChannelBlue
func (s HistogramSet) Channel(c int) ChannelHistogram {
	switch c {
	case ChannelRed:
		return s.Red
	case ChannelGreen:
		return s.Green
	default:
		return s.Blue
	}
}

// BuildHistogram counts the intensities of one channel plane
func BuildHistogram(plane []uint8) ChannelHistogram {
	var h ChannelHistogram
	for _, v := range plane {
		h[v]++
	}
	return h
}

// AnalyzeHistograms builds the RGB histograms of buf
func AnalyzeHistograms(buf *PixelBuffer) HistogramSet {
	rgba := histogram.NewRGBAHistogram(buf.NRGBA())
	return HistogramSet{
		Red:   fromBins(rgba.R.Bins),
		Green: fromBins(rgba.G.Bins),
		Blue:  fromBins(rgba.B.Bins),
	}
}

func fromBins(bins []int) ChannelHistogram {
	var h ChannelHistogram
	copy(h[:], bins)
	return h
}

// FindPeaks returns, in ascending order, every bin whose count exceeds
// ratio times the tallest bin.
func FindPeaks(h ChannelHistogram, ratio float64) []int {
	threshold := ratio * float64(h.Max())
	peaks := make([]int, 0, len(h))
	for i, c := range h {
		if float64(c) > threshold {
			peaks = append(peaks, i)
		}
	}
	return peaks
}

// TopPeaks truncates peaks to the first n for display
func TopPeaks(peaks []int, n int) []int {
	if n < 0 || len(peaks) <= n {
		return peaks
	}
	return peaks[:n]
}
