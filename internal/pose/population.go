package pose

import (
	"sort"

	"github.com/ajhynes7/depth-gait-analysis/internal/geom"
)

// Hypothesis is one candidate position for an anatomical part.
// Label 0 is the most proximal part (head); labels increase toward
// the feet.
type Hypothesis struct {
	Point geom.Vec3
	Label int
}

// Population holds all part hypotheses for a single frame, with an
// index from label to member positions for fast per-label lookup.
// A Population is built fresh per frame and never mutated.
type Population struct {
	hyps     []Hypothesis
	byLabel  map[int][]int
	maxLabel int
}

// NewPopulation builds a population from a set of hypotheses.
func NewPopulation(hyps []Hypothesis) *Population {
	p := &Population{
		hyps:    hyps,
		byLabel: make(map[int][]int),
	}
	for i, h := range hyps {
		p.byLabel[h.Label] = append(p.byLabel[h.Label], i)
		if h.Label > p.maxLabel {
			p.maxLabel = h.Label
		}
	}
	return p
}

// Len returns the number of hypotheses.
func (p *Population) Len() int { return len(p.hyps) }

// Point returns the position of hypothesis i.
func (p *Population) Point(i int) geom.Vec3 { return p.hyps[i].Point }

// Label returns the anatomical label of hypothesis i.
func (p *Population) Label(i int) int { return p.hyps[i].Label }

// MaxLabel returns the largest label present (the foot label).
func (p *Population) MaxLabel() int { return p.maxLabel }

// Indices returns the hypothesis indices carrying the given label.
func (p *Population) Indices(label int) []int { return p.byLabel[label] }

// HasAllLabels reports whether every label in [0, maxLabel] has at
// least one hypothesis. maxLabel is the highest label required by the
// downstream path extraction.
func (p *Population) HasAllLabels(maxLabel int) bool {
	for l := 0; l <= maxLabel; l++ {
		if len(p.byLabel[l]) == 0 {
			return false
		}
	}
	return true
}

// LabelOrder returns all hypothesis indices sorted by label. Because
// edges only run from lower to higher labels, this is a topological
// ordering of the candidate graph. Ties keep index order.
func (p *Population) LabelOrder() []int {
	order := make([]int, len(p.hyps))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return p.hyps[order[a]].Label < p.hyps[order[b]].Label
	})
	return order
}

// DistanceMatrix returns the symmetric pairwise Euclidean distance
// matrix over the population.
func (p *Population) DistanceMatrix() [][]float64 {
	n := len(p.hyps)
	d := make([][]float64, n)
	for i := range d {
		d[i] = make([]float64, n)
	}
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			dist := p.hyps[i].Point.Dist(p.hyps[j].Point)
			d[i][j] = dist
			d[j][i] = dist
		}
	}
	return d
}
