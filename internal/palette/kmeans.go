package palette

import (
	"math"
	"math/rand"
	"runtime"
	"sync"

	"go-visual-auditor/internal/colormath"
)

// kmeansResult holds cluster centers in Lab space, a center index per
// input point, and the fraction of points per cluster.
type kmeansResult struct {
	centers  []colormath.Lab
	labels   []int
	coverage []float64
}

// runKMeans clusters Lab points with ++-style seeding, bounded iterations
// and a convergence epsilon, restarting `attempts` times and keeping the
// run with the lowest within-cluster distance sum. Always returns k
// centers; on degenerate input several centers may coincide.
func runKMeans(points []colormath.Lab, k, maxIterations int, epsilon float64, attempts int, rng *rand.Rand) kmeansResult {
	best := kmeansResult{}
	bestCost := math.Inf(1)

	for attempt := 0; attempt < attempts; attempt++ {
		centers := seedPlusPlus(points, k, rng)
		labels := make([]int, len(points))

		for iter := 0; iter < maxIterations; iter++ {
			assignLabels(points, centers, labels)

			// Recompute centers as cluster means
			sums := make([]colormath.Lab, k)
			counts := make([]int, k)
			for i, lbl := range labels {
				sums[lbl].L += points[i].L
				sums[lbl].A += points[i].A
				sums[lbl].B += points[i].B
				counts[lbl]++
			}

			maxShift := 0.0
			for c := 0; c < k; c++ {
				if counts[c] == 0 {
					// Empty cluster keeps its previous center
					continue
				}
				next := colormath.Lab{
					L: sums[c].L / float64(counts[c]),
					A: sums[c].A / float64(counts[c]),
					B: sums[c].B / float64(counts[c]),
				}
				if shift := colormath.Distance(centers[c], next); shift > maxShift {
					maxShift = shift
				}
				centers[c] = next
			}

			if maxShift < epsilon {
				break
			}
		}

		assignLabels(points, centers, labels)
		cost := 0.0
		for i, lbl := range labels {
			cost += colormath.Distance(points[i], centers[lbl])
		}
		if cost < bestCost {
			bestCost = cost
			best = kmeansResult{centers: centers, labels: labels}
		}
	}

	counts := make([]int, k)
	for _, lbl := range best.labels {
		counts[lbl]++
	}
	best.coverage = make([]float64, k)
	total := float64(len(points))
	for c := 0; c < k; c++ {
		best.coverage[c] = float64(counts[c]) / total
	}
	return best
}

// seedPlusPlus picks initial centers with probability proportional to the
// squared distance from already-chosen centers.
func seedPlusPlus(points []colormath.Lab, k int, rng *rand.Rand) []colormath.Lab {
	centers := make([]colormath.Lab, 0, k)
	centers = append(centers, points[rng.Intn(len(points))])

	dists := make([]float64, len(points))
	for len(centers) < k {
		var total float64
		for i, p := range points {
			d := colormath.Distance(p, centers[0])
			for _, c := range centers[1:] {
				if dc := colormath.Distance(p, c); dc < d {
					d = dc
				}
			}
			dists[i] = d * d
			total += dists[i]
		}

		if total == 0 {
			// All points coincide with existing centers; duplicate one
			centers = append(centers, centers[0])
			continue
		}

		target := rng.Float64() * total
		var acc float64
		picked := len(points) - 1
		for i, d := range dists {
			acc += d
			if acc >= target {
				picked = i
				break
			}
		}
		centers = append(centers, points[picked])
	}
	return centers
}

// assignLabels writes the nearest center index per point, splitting the
// work across CPUs for large inputs.
func assignLabels(points []colormath.Lab, centers []colormath.Lab, labels []int) {
	numWorkers := runtime.NumCPU()
	if len(points) < 4096 || numWorkers < 2 {
		assignRange(points, centers, labels, 0, len(points))
		return
	}

	chunk := (len(points) + numWorkers - 1) / numWorkers
	var wg sync.WaitGroup
	for w := 0; w < numWorkers; w++ {
		start := w * chunk
		end := start + chunk
		if start >= len(points) {
			break
		}
		if end > len(points) {
			end = len(points)
		}
		wg.Add(1)
		go func(start, end int) {
			defer wg.Done()
			assignRange(points, centers, labels, start, end)
		}(start, end)
	}
	wg.Wait()
}

func assignRange(points []colormath.Lab, centers []colormath.Lab, labels []int, start, end int) {
	for i := start; i < end; i++ {
		bestIdx := 0
		bestDist := colormath.Distance(points[i], centers[0])
		for c := 1; c < len(centers); c++ {
			if d := colormath.Distance(points[i], centers[c]); d < bestDist {
				bestDist = d
				bestIdx = c
			}
		}
		labels[i] = bestIdx
	}
}
