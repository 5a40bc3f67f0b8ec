package pose

// LengthTable maps directional anatomical label pairs (i < j) to the
// expected distance between parts with those labels. It is computed
// once per subject and shared read-only across frame workers.
type LengthTable struct {
	expected map[[2]int]float64
	maxLabel int
}

// DefaultConnections lists the label pairs connected in the body
// graph: the consecutive chain head→hip→thigh→knee→calf→foot plus the
// long-range knee→foot and hip→knee pairs used for scoring.
var DefaultConnections = [][2]int{
	{0, 1}, {1, 2}, {2, 3}, {3, 4}, {4, 5},
	{3, 5}, {1, 3},
}

// ConsecutiveConnections returns the consecutive-pair subset of a
// connection list, i.e. the pairs (i, i+1). The candidate graph uses
// only these; the score matrix uses the full list.
func ConsecutiveConnections(connections [][2]int) [][2]int {
	out := make([][2]int, 0, len(connections))
	for _, c := range connections {
		if c[1] == c[0]+1 {
			out = append(out, c)
		}
	}
	return out
}

// NewLengthTable returns an empty length table.
func NewLengthTable() *LengthTable {
	return &LengthTable{expected: make(map[[2]int]float64)}
}

// Set records the expected distance from label i to label j.
func (t *LengthTable) Set(i, j int, dist float64) {
	t.expected[[2]int{i, j}] = dist
	if j > t.maxLabel {
		t.maxLabel = j
	}
	if i > t.maxLabel {
		t.maxLabel = i
	}
}

// Get returns the expected distance from label i to label j and
// whether the pair is present.
func (t *LengthTable) Get(i, j int) (float64, bool) {
	d, ok := t.expected[[2]int{i, j}]
	return d, ok
}

// MaxLabel returns the highest label mentioned in the table.
func (t *LengthTable) MaxLabel() int { return t.maxLabel }

// TableFromSegments builds a length table from per-segment lengths.
// segments[k] is the expected distance between consecutive labels k
// and k+1; the expected distance for a connection (u, v) is the sum of
// the segments between them, so long-range pairs such as knee→foot are
// covered without separate calibration.
func TableFromSegments(segments []float64, connections [][2]int) *LengthTable {
	t := NewLengthTable()
	for _, c := range connections {
		u, v := c[0], c[1]
		if u < 0 || v > len(segments) || u >= v {
			continue
		}
		var sum float64
		for k := u; k < v; k++ {
			sum += segments[k]
		}
		t.Set(u, v, sum)
	}
	return t
}
