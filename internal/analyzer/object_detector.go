package analyzer

import (
	"image"
	"math"
	"sort"
)

// ObjectRegion is one connected edge contour and the area it encloses
type ObjectRegion struct {
	Bounds    image.Rectangle
	Area      int // contour pixels plus the holes they surround
	Perimeter int // contour pixels with a 4-neighbour outside the contour
}

// Circularity returns 4πA/P², 1 for a perfect disc
func (r ObjectRegion) Circularity() float64 {
	if r.Perimeter == 0 {
		return 0
	}
	return 4 * math.Pi * float64(r.Area) / float64(r.Perimeter*r.Perimeter)
}

// ObjectSummary describes the significant regions of an edge map
type ObjectSummary struct {
	Regions []ObjectRegion // significant regions, largest area first
	// LargestAreaShare is the largest region's area as a percentage of the image
	LargestAreaShare float64
}

// Largest returns the region with the largest area
func (s ObjectSummary) Largest() (ObjectRegion, bool) {
	if len(s.Regions) == 0 {
		return ObjectRegion{}, false
	}
	return s.Regions[0], true
}

// ObjectDetector groups edge pixels into contours and keeps the ones
// enclosing more than MinArea pixels.
type ObjectDetector struct {
	MinArea int
}

// NewObjectDetector creates an object detector
func NewObjectDetector(minArea int) *ObjectDetector {
	return &ObjectDetector{MinArea: minArea}
}

// Detect finds the significant regions of edges
func (od *ObjectDetector) Detect(edges *EdgeMap) ObjectSummary {
	width, height := edges.Width, edges.Height
	labels := make([]int32, len(edges.Edges))
	var regions []ObjectRegion

	var next int32
	var queue []int
	for start, isEdge := range edges.Edges {
		if !isEdge || labels[start] != 0 {
			continue
		}
		next++
		labels[start] = next
		queue = append(queue[:0], start)
		bounds := image.Rect(start%width, start/width, start%width+1, start/width+1)

		for head := 0; head < len(queue); head++ {
			i := queue[head]
			x, y := i%width, i/width
			bounds = bounds.Union(image.Rect(x, y, x+1, y+1))
			for dy := -1; dy <= 1; dy++ {
				for dx := -1; dx <= 1; dx++ {
					nx, ny := x+dx, y+dy
					if nx < 0 || nx >= width || ny < 0 || ny >= height {
						continue
					}
					j := ny*width + nx
					if edges.Edges[j] && labels[j] == 0 {
						labels[j] = next
						queue = append(queue, j)
					}
				}
			}
		}

		region := measureRegion(labels, width, height, next, bounds)
		if region.Area > od.MinArea {
			regions = append(regions, region)
		}
	}

	sort.SliceStable(regions, func(a, b int) bool {
		return regions[a].Area > regions[b].Area
	})

	summary := ObjectSummary{Regions: regions}
	if len(regions) > 0 && len(edges.Edges) > 0 {
		summary.LargestAreaShare = float64(regions[0].Area) / float64(len(edges.Edges)) * 100
	}
	return summary
}

// measureRegion computes the enclosed area and perimeter of the component
// carrying label. Background is flood-filled 4-connected from the border of
// the padded bounding box; whatever it cannot reach is enclosed.
func measureRegion(labels []int32, width, height int, label int32, bounds image.Rectangle) ObjectRegion {
	inRegion := func(x, y int) bool {
		if x < 0 || x >= width || y < 0 || y >= height {
			return false
		}
		return labels[y*width+x] == label
	}

	pw, ph := bounds.Dx()+2, bounds.Dy()+2
	ox, oy := bounds.Min.X-1, bounds.Min.Y-1
	outside := make([]bool, pw*ph)
	outside[0] = true
	queue := []int{0}
	for head := 0; head < len(queue); head++ {
		i := queue[head]
		x, y := i%pw, i/pw
		for _, d := range [4][2]int{{-1, 0}, {1, 0}, {0, -1}, {0, 1}} {
			nx, ny := x+d[0], y+d[1]
			if nx < 0 || nx >= pw || ny < 0 || ny >= ph {
				continue
			}
			j := ny*pw + nx
			if outside[j] || inRegion(nx+ox, ny+oy) {
				continue
			}
			outside[j] = true
			queue = append(queue, j)
		}
	}

	perimeter := 0
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			if !inRegion(x, y) {
				continue
			}
			if !inRegion(x-1, y) || !inRegion(x+1, y) || !inRegion(x, y-1) || !inRegion(x, y+1) {
				perimeter++
			}
		}
	}

	return ObjectRegion{
		Bounds:    bounds,
		Area:      pw*ph - len(queue),
		Perimeter: perimeter,
	}
}
