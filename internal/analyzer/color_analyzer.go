package analyzer

import (
	"context"
	"fmt"
	"image"
	"math"
	"math/rand"
	"sort"
	"time"

	"gonum.org/v1/gonum/stat"
)

// ColorCluster is a dominant color: a rounded RGB centroid and the number
// of pixels assigned to it.
type ColorCluster struct {
	R, G, B uint8
	Count   int
}

// Luminance returns 0.299R + 0.587G + 0.114B
func (c ColorCluster) Luminance() float64 {
	return luminance(float64(c.R), float64(c.G), float64(c.B))
}

// ColorStatistics holds the scalar color metrics of an image
type ColorStatistics struct {
	Brightness float64 // mean of the grayscale plane
	Contrast   float64 // population standard deviation of the grayscale plane
	MeanRed    float64
	MeanGreen  float64
	MeanBlue   float64
}

// colorPoint is one distinct color with the number of pixels carrying it.
// Clustering weighted distinct colors gives the same centroids as
// clustering every pixel.
type colorPoint struct {
	rgb    [3]float64
	weight int
}

type colorPoints struct {
	points []colorPoint
	index  map[uint32]int // packed RGB -> position in points
	total  int
}

// ColorAnalyzer extracts dominant colors with k-means and computes color
// statistics. The pool, when set, parallelises the assignment step.
type ColorAnalyzer struct {
	pool *WorkerPool
}

// NewColorAnalyzer creates a color analyzer. pool may be nil.
func NewColorAnalyzer(pool *WorkerPool) *ColorAnalyzer {
	return &ColorAnalyzer{pool: pool}
}

// ExtractDominantColors clusters the pixels of buf into opts.Clusters
// colors. The result always has exactly opts.Clusters entries, sorted by
// luminance ascending.
func (ca *ColorAnalyzer) ExtractDominantColors(ctx context.Context, buf *PixelBuffer, opts AnalysisOptions) ([]ColorCluster, error) {
	k := opts.Clusters
	if k < 1 {
		return nil, fmt.Errorf("clusters must be >= 1 (got %d)", k)
	}

	seed := time.Now().UnixNano()
	if opts.Seed != nil {
		seed = *opts.Seed
	}
	rng := rand.New(rand.NewSource(seed))

	cp := collectColorPoints(buf)
	labels := make([]int, len(cp.points))

	var best [][3]float64
	var bestLabels []int
	bestCompactness := math.Inf(1)

	attempts := opts.Attempts
	if attempts < 1 {
		attempts = 1
	}
	for attempt := 0; attempt < attempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("dominant color extraction interrupted: %w", err)
		}

		centers := ca.initialCenters(buf, cp, k, rng)
		centers, compactness, err := ca.runKMeans(ctx, cp.points, centers, labels, opts)
		if err != nil {
			return nil, fmt.Errorf("dominant color extraction interrupted: %w", err)
		}

		if compactness < bestCompactness {
			bestCompactness = compactness
			best = centers
			bestLabels = append(bestLabels[:0], labels...)
		}
	}

	return finalizeClusters(cp.points, best, bestLabels), nil
}

// ComputeColorStatistics computes brightness, contrast and channel means
func (ca *ColorAnalyzer) ComputeColorStatistics(buf *PixelBuffer, gray *image.Gray) ColorStatistics {
	n := buf.Len()
	grayValues := make([]float64, n)
	for i := range grayValues {
		grayValues[i] = float64(gray.Pix[i])
	}

	r := make([]float64, n)
	g := make([]float64, n)
	b := make([]float64, n)
	for i := 0; i < n; i++ {
		rv, gv, bv := buf.pixel(i)
		r[i], g[i], b[i] = float64(rv), float64(gv), float64(bv)
	}

	return ColorStatistics{
		Brightness: stat.Mean(grayValues, nil),
		Contrast:   math.Sqrt(stat.PopVariance(grayValues, nil)),
		MeanRed:    stat.Mean(r, nil),
		MeanGreen:  stat.Mean(g, nil),
		MeanBlue:   stat.Mean(b, nil),
	}
}

func collectColorPoints(buf *PixelBuffer) colorPoints {
	cp := colorPoints{index: make(map[uint32]int), total: buf.Len()}
	for i := 0; i < buf.Len(); i++ {
		r, g, b := buf.pixel(i)
		key := packRGB(r, g, b)
		if idx, ok := cp.index[key]; ok {
			cp.points[idx].weight++
			continue
		}
		cp.index[key] = len(cp.points)
		cp.points = append(cp.points, colorPoint{
			rgb:    [3]float64{float64(r), float64(g), float64(b)},
			weight: 1,
		})
	}
	return cp
}

// initialCenters picks k distinct pixels at random. With fewer pixels
// than k, pixels are drawn with replacement.
func (ca *ColorAnalyzer) initialCenters(buf *PixelBuffer, cp colorPoints, k int, rng *rand.Rand) [][3]float64 {
	centers := make([][3]float64, k)
	used := make(map[int]bool, k)
	for i := 0; i < k; i++ {
		idx := rng.Intn(cp.total)
		for cp.total >= k && used[idx] {
			idx = rng.Intn(cp.total)
		}
		used[idx] = true

		r, g, b := buf.pixel(idx)
		centers[i] = cp.points[cp.index[packRGB(r, g, b)]].rgb
	}
	return centers
}

// runKMeans iterates assignment and update until the summed centroid
// shift drops below the epsilon or the iteration bound is reached. labels
// holds the final assignment on return. ctx is checked before every
// iteration.
func (ca *ColorAnalyzer) runKMeans(ctx context.Context, points []colorPoint, centers [][3]float64, labels []int, opts AnalysisOptions) ([][3]float64, float64, error) {
	for iter := 0; iter < opts.MaxIterations; iter++ {
		if err := ctx.Err(); err != nil {
			return nil, 0, err
		}
		ca.assign(points, centers, labels)
		updated := updateCenters(points, labels, centers)

		shift := 0.0
		for j := range centers {
			shift += math.Sqrt(squaredDistance(centers[j], updated[j]))
		}
		centers = updated
		if shift < opts.Epsilon {
			break
		}
	}
	return centers, ca.assign(points, centers, labels), nil
}

// assign labels every point with its nearest center and returns the
// weighted sum of squared distances. Every label is written before the
// caller updates any center.
func (ca *ColorAnalyzer) assign(points []colorPoint, centers [][3]float64, labels []int) float64 {
	parts := 1
	if ca.pool != nil && len(points) >= 4096 {
		parts = ca.pool.Workers()
	}
	strips := splitRange(len(points), parts)
	partial := make([]float64, len(strips))

	jobs := make([]func(), len(strips))
	for s, strip := range strips {
		s, start, end := s, strip[0], strip[1]
		jobs[s] = func() {
			var sum float64
			for i := start; i < end; i++ {
				best, bestDist := 0, math.Inf(1)
				for j, c := range centers {
					if d := squaredDistance(points[i].rgb, c); d < bestDist {
						best, bestDist = j, d
					}
				}
				labels[i] = best
				sum += bestDist * float64(points[i].weight)
			}
			partial[s] = sum
		}
	}
	runJobs(ca.pool, jobs...)

	// Summed in strip order so the result does not depend on scheduling
	var compactness float64
	for _, p := range partial {
		compactness += p
	}
	return compactness
}

// updateCenters recomputes each center as the weighted mean of its
// points. Empty clusters keep their previous center.
func updateCenters(points []colorPoint, labels []int, centers [][3]float64) [][3]float64 {
	sums := make([][3]float64, len(centers))
	weights := make([]float64, len(centers))
	for i, p := range points {
		w := float64(p.weight)
		j := labels[i]
		sums[j][0] += p.rgb[0] * w
		sums[j][1] += p.rgb[1] * w
		sums[j][2] += p.rgb[2] * w
		weights[j] += w
	}

	updated := make([][3]float64, len(centers))
	for j := range centers {
		if weights[j] == 0 {
			updated[j] = centers[j]
			continue
		}
		updated[j] = [3]float64{sums[j][0] / weights[j], sums[j][1] / weights[j], sums[j][2] / weights[j]}
	}
	return updated
}

// finalizeClusters counts members, replaces empty clusters with the
// nearest non-empty centroid, rounds and sorts.
func finalizeClusters(points []colorPoint, centers [][3]float64, labels []int) []ColorCluster {
	counts := make([]int, len(centers))
	for i, p := range points {
		counts[labels[i]] += p.weight
	}

	resolved := make([][3]float64, len(centers))
	copy(resolved, centers)
	for j := range centers {
		if counts[j] > 0 {
			continue
		}
		nearest, nearestDist := -1, math.Inf(1)
		for o := range centers {
			if counts[o] == 0 {
				continue
			}
			if d := squaredDistance(centers[j], centers[o]); d < nearestDist {
				nearest, nearestDist = o, d
			}
		}
		if nearest >= 0 {
			resolved[j] = centers[nearest]
		}
	}

	clusters := make([]ColorCluster, len(resolved))
	for j, c := range resolved {
		clusters[j] = ColorCluster{
			R:     roundChannel(c[0]),
			G:     roundChannel(c[1]),
			B:     roundChannel(c[2]),
			Count: counts[j],
		}
	}

	sort.SliceStable(clusters, func(a, b int) bool {
		la, lb := clusters[a].Luminance(), clusters[b].Luminance()
		if la != lb {
			return la < lb
		}
		if clusters[a].R != clusters[b].R {
			return clusters[a].R < clusters[b].R
		}
		if clusters[a].G != clusters[b].G {
			return clusters[a].G < clusters[b].G
		}
		return clusters[a].B < clusters[b].B
	})
	return clusters
}

func squaredDistance(a, b [3]float64) float64 {
	dr, dg, db := a[0]-b[0], a[1]-b[1], a[2]-b[2]
	return dr*dr + dg*dg + db*db
}

func luminance(r, g, b float64) float64 {
	return 0.299*r + 0.587*g + 0.114*b
}

func roundChannel(v float64) uint8 {
	v = math.Round(v)
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}

func packRGB(r, g, b uint8) uint32 {
	return uint32(r)<<16 | uint32(g)<<8 | uint32(b)
}
