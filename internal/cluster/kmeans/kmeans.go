// Package kmeans clusters dense vectors with Lloyd's algorithm and k-means++ seeding.
package kmeans

import (
	"errors"
	"math"
	"math/rand/v2"
	"strconv"
	"strings"
)

var (
	ErrNoPoints          = errors.New("kmeans: no points")
	ErrInvalidK          = errors.New("kmeans: k must be positive")
	ErrTooFewPoints      = errors.New("kmeans: fewer distinct points than clusters")
	ErrDimensionMismatch = errors.New("kmeans: points have different dimensions")
)

// Options configures a clustering run.
type Options struct {
	K       int
	MaxIter int
	Seed    uint64
}

// Result holds the fitted centroids and the cluster label of every point.
type Result struct {
	Centroids  [][]float64
	Labels     []int
	Iterations int
}

// Fit clusters points into opts.K groups. The same points and seed always
// produce the same result.
func Fit(points [][]float64, opts Options) (*Result, error) {
	if len(points) == 0 {
		return nil, ErrNoPoints
	}
	if opts.K <= 0 {
		return nil, ErrInvalidK
	}
	if opts.MaxIter <= 0 {
		opts.MaxIter = 300
	}
	dim := len(points[0])
	for _, p := range points {
		if len(p) != dim {
			return nil, ErrDimensionMismatch
		}
	}
	if Distinct(points) < opts.K {
		return nil, ErrTooFewPoints
	}

	rng := rand.New(rand.NewPCG(opts.Seed, opts.Seed^0x9e3779b97f4a7c15))
	centroids := seed(points, opts.K, rng)
	labels := make([]int, len(points))
	for i := range labels {
		labels[i] = -1
	}

	iter := 0
	for iter < opts.MaxIter {
		iter++
		changed := false
		for i, p := range points {
			best := nearest(p, centroids)
			if best != labels[i] {
				labels[i] = best
				changed = true
			}
		}
		if !changed {
			break
		}
		centroids = recompute(points, labels, centroids)
	}
	return &Result{Centroids: centroids, Labels: labels, Iterations: iter}, nil
}

// seed picks k initial centroids with k-means++ (D² weighting).
func seed(points [][]float64, k int, rng *rand.Rand) [][]float64 {
	centroids := make([][]float64, 0, k)
	centroids = append(centroids, clone(points[rng.IntN(len(points))]))
	dist := make([]float64, len(points))
	for len(centroids) < k {
		total := 0.0
		for i, p := range points {
			d := math.Inf(1)
			for _, c := range centroids {
				if sd := sqDist(p, c); sd < d {
					d = sd
				}
			}
			dist[i] = d
			total += d
		}
		target := rng.Float64() * total
		pick := -1
		for i, d := range dist {
			if d == 0 {
				continue
			}
			pick = i
			target -= d
			if target <= 0 {
				break
			}
		}
		centroids = append(centroids, clone(points[pick]))
	}
	return centroids
}

// recompute moves every centroid to the mean of its points. An empty cluster
// takes the point farthest from its current centroid.
func recompute(points [][]float64, labels []int, prev [][]float64) [][]float64 {
	k := len(prev)
	dim := len(points[0])
	sums := make([][]float64, k)
	counts := make([]int, k)
	for c := range sums {
		sums[c] = make([]float64, dim)
	}
	for i, p := range points {
		c := labels[i]
		counts[c]++
		for d, x := range p {
			sums[c][d] += x
		}
	}
	for c := range sums {
		if counts[c] == 0 {
			far, farDist := 0, -1.0
			for i, p := range points {
				if d := sqDist(p, prev[labels[i]]); d > farDist {
					far, farDist = i, d
				}
			}
			sums[c] = clone(points[far])
			continue
		}
		for d := range sums[c] {
			sums[c][d] /= float64(counts[c])
		}
	}
	return sums
}

func nearest(p []float64, centroids [][]float64) int {
	best, bestDist := 0, math.Inf(1)
	for c, centroid := range centroids {
		if d := sqDist(p, centroid); d < bestDist {
			best, bestDist = c, d
		}
	}
	return best
}

func sqDist(a, b []float64) float64 {
	sum := 0.0
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return sum
}

// Distinct counts the points that are not exact duplicates of another point.
func Distinct(points [][]float64) int {
	seen := make(map[string]struct{}, len(points))
	var b strings.Builder
	for _, p := range points {
		b.Reset()
		for _, x := range p {
			b.WriteString(strconv.FormatUint(math.Float64bits(x), 16))
			b.WriteByte(',')
		}
		seen[b.String()] = struct{}{}
	}
	return len(seen)
}

func clone(p []float64) []float64 {
	out := make([]float64, len(p))
	copy(out, p)
	return out
}
