package predict

import (
	"math"
	"math/rand"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// treeNode is one node of a regression tree. Leaves carry the mean target of
// the rows that reached them.
type treeNode struct {
	feature int
	thresh  float64
	value   float64
	left    *treeNode
	right   *treeNode
}

func (n *treeNode) leaf() bool { return n.left == nil }

func (n *treeNode) predict(row []float64) float64 {
	for !n.leaf() {
		if row[n.feature] <= n.thresh {
			n = n.left
		} else {
			n = n.right
		}
	}
	return n.value
}

// treeParams bound the growth of a single tree.
type treeParams struct {
	maxDepth int
	minLeaf  int
}

func growTree(x [][]float64, y []float64, idx []int, depth int, p treeParams) *treeNode {
	node := &treeNode{value: meanAt(y, idx)}
	if depth >= p.maxDepth || len(idx) < 2 || len(idx) < 2*p.minLeaf {
		return node
	}
	feature, thresh, ok := bestSplit(x, y, idx, p.minLeaf)
	if !ok {
		return node
	}
	var left, right []int
	for _, i := range idx {
		if x[i][feature] <= thresh {
			left = append(left, i)
		} else {
			right = append(right, i)
		}
	}
	node.feature = feature
	node.thresh = thresh
	node.left = growTree(x, y, left, depth+1, p)
	node.right = growTree(x, y, right, depth+1, p)
	return node
}

// bestSplit scans every feature and candidate threshold for the split with
// the lowest weighted squared error. Thresholds are midpoints between
// consecutive distinct sorted values.
func bestSplit(x [][]float64, y []float64, idx []int, minLeaf int) (int, float64, bool) {
	bestSSE := math.Inf(1)
	bestFeature, bestThresh := -1, 0.0
	nFeatures := len(x[idx[0]])
	for f := 0; f < nFeatures; f++ {
		thresholds := candidateThresholds(x, idx, f)
		for _, th := range thresholds {
			var lSum, lN, rSum, rN float64
			for _, i := range idx {
				if x[i][f] <= th {
					lSum += y[i]
					lN++
				} else {
					rSum += y[i]
					rN++
				}
			}
			if lN < float64(minLeaf) || rN < float64(minLeaf) {
				continue
			}
			lMean, rMean := lSum/lN, rSum/rN
			var sse float64
			for _, i := range idx {
				if x[i][f] <= th {
					d := y[i] - lMean
					sse += d * d
				} else {
					d := y[i] - rMean
					sse += d * d
				}
			}
			if sse < bestSSE {
				bestSSE, bestFeature, bestThresh = sse, f, th
			}
		}
	}
	return bestFeature, bestThresh, bestFeature >= 0
}

func candidateThresholds(x [][]float64, idx []int, f int) []float64 {
	vals := make([]float64, 0, len(idx))
	for _, i := range idx {
		vals = append(vals, x[i][f])
	}
	sort.Float64s(vals)
	var out []float64
	for i := 1; i < len(vals); i++ {
		if vals[i] != vals[i-1] {
			out = append(out, (vals[i]+vals[i-1])/2)
		}
	}
	return out
}

func meanAt(y []float64, idx []int) float64 {
	vals := make([]float64, len(idx))
	for j, i := range idx {
		vals[j] = y[i]
	}
	if len(vals) == 0 {
		return 0
	}
	return stat.Mean(vals, nil)
}

// Forest is a bagged ensemble of regression trees for a single target.
type Forest struct {
	trees []*treeNode
}

// ForestParams configure ensemble training.
type ForestParams struct {
	Trees    int
	MaxDepth int
	MinLeaf  int
	Seed     int64
}

func (p *ForestParams) setDefaults() {
	if p.Trees == 0 {
		p.Trees = 50
	}
	if p.MaxDepth == 0 {
		p.MaxDepth = 8
	}
	if p.MinLeaf == 0 {
		p.MinLeaf = 2
	}
}

// FitForest trains the ensemble on bootstrap resamples of (x, y).
func FitForest(x [][]float64, y []float64, p ForestParams) *Forest {
	p.setDefaults()
	rng := rand.New(rand.NewSource(p.Seed))
	f := &Forest{}
	n := len(x)
	if n == 0 {
		return f
	}
	for t := 0; t < p.Trees; t++ {
		idx := make([]int, n)
		for i := range idx {
			idx[i] = rng.Intn(n)
		}
		f.trees = append(f.trees, growTree(x, y, idx, 0, treeParams{maxDepth: p.MaxDepth, minLeaf: p.MinLeaf}))
	}
	return f
}

// Predict averages the tree predictions for one row.
func (f *Forest) Predict(row []float64) float64 {
	if len(f.trees) == 0 {
		return 0
	}
	var sum float64
	for _, t := range f.trees {
		sum += t.predict(row)
	}
	return sum / float64(len(f.trees))
}
