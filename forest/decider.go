package forest

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/groveml/grove/core/random"
	"github.com/groveml/grove/feature"
	"github.com/groveml/grove/pkg/errors"
)

// Direction is the outcome of a Decider evaluation.
type Direction int

const (
	// Left is taken when the feature response is strictly below the
	// threshold.
	Left Direction = iota
	// Right is taken otherwise; equality goes Right.
	Right
)

// Split is the outcome of threshold selection: the winning cut's per-side
// label counts and entropy gain. Valid is false when no cut left points on
// both sides; such a Split carries the sentinel gain -Inf and must never
// be committed as a real split.
type Split struct {
	Threshold float64
	Left      []float64
	Right     []float64
	Gain      float64
	Valid     bool
}

// invalidSplit is the sentinel returned when no usable cut exists.
func invalidSplit() Split {
	return Split{Gain: math.Inf(-1)}
}

// Decider couples one feature with one threshold. Its lifecycle is
// Unloaded -> Loaded (LoadData cached responses) -> Scored
// (ChooseThreshold committed a threshold). The per-candidate scratch
// buffers used during scoring are transient and not part of the model.
type Decider struct {
	feature   feature.Feature
	threshold float64

	// cached per-point data, populated by LoadData
	values  []float64
	labels  []int
	weights []float64
	min     float64
	max     float64
	loaded  bool
}

// NewDecider creates a Decider owning the given feature.
func NewDecider(f feature.Feature) *Decider {
	return &Decider{feature: f}
}

// Feature returns the owned feature.
func (d *Decider) Feature() feature.Feature { return d.feature }

// Threshold returns the committed threshold.
func (d *Decider) Threshold() float64 { return d.threshold }

// SetThreshold commits a threshold directly; used when rebuilding a
// decider from a known cut.
func (d *Decider) SetThreshold(t float64) { d.threshold = t }

// LoadData computes and caches the feature response of every point,
// writing each point's feature-value cache and tracking the running
// min/max. A NaN or Inf response is a NumericalInstabilityError.
func (d *Decider) LoadData(points []feature.Point) error {
	d.values = make([]float64, len(points))
	d.labels = make([]int, len(points))
	d.weights = make([]float64, len(points))
	d.min = math.Inf(1)
	d.max = math.Inf(-1)

	for i, p := range points {
		v := d.feature.Compute(p)
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return errors.NewNumericalInstabilityError("decider.LoadData:"+d.feature.Name(), []float64{v})
		}
		p.SetFeatureValue(v)
		d.values[i] = v
		d.labels[i] = p.Label()
		d.weights[i] = p.Weight()
		if v < d.min {
			d.min = v
		}
		if v > d.max {
			d.max = v
		}
	}
	d.loaded = true
	return nil
}

// ChooseThreshold evaluates numThresholds candidate cut points against the
// loaded data and commits the one maximizing entropy gain.
//
// Candidates are drawn from a Gaussian fitted to the cached responses
// (the empirical mean plus numThresholds-1 Normal(mean, stddev) samples),
// concentrating cuts near the value distribution. Each point is
// binary-searched into its bin, per-bin label counts are accumulated, and
// prefix/suffix sums yield every cut's side counts in
// O(n + numThresholds*numLabels). labelWeights, when non-nil, rescales
// per-label counts before entropy computation.
//
// Gain for cut i is -(nL*H(left) + nR*H(right)) / (nL+nR) with H the
// base-2 Shannon entropy over Dirichlet-smoothed distributions; ties
// break toward the lowest cut index. A winning cut with an empty side is
// reported as an invalid Split carrying the sentinel gain.
func (d *Decider) ChooseThreshold(rng *random.Rand, numThresholds, numLabels int, labelWeights []float64) (Split, error) {
	return d.ChooseThresholdWithPriors(rng, numThresholds, numLabels, labelWeights, nil, nil)
}

// ChooseThresholdWithPriors is ChooseThreshold with existing per-side
// label counts folded into the entropy computation. The vine uses it to
// re-derive a parent's cut against the accumulated distributions of the
// children it is assigned to; the returned Split carries only the
// parent's own contribution, not the priors.
func (d *Decider) ChooseThresholdWithPriors(rng *random.Rand, numThresholds, numLabels int, labelWeights, leftPrior, rightPrior []float64) (Split, error) {
	if !d.loaded {
		return invalidSplit(), errors.ErrNotLoaded
	}
	if len(d.values) == 0 {
		return invalidSplit(), nil
	}

	// Gaussian fit of the cached responses. A degenerate spread falls
	// back to the mean for every candidate.
	mean := stat.Mean(d.values, nil)
	sd := 0.0
	if len(d.values) > 1 {
		sd = stat.StdDev(d.values, nil)
	}
	candidates := make([]float64, numThresholds)
	candidates[0] = mean
	for i := 1; i < numThresholds; i++ {
		if sd > 0 && !math.IsNaN(sd) && !math.IsInf(sd, 0) {
			candidates[i] = rng.NormFloat64(mean, sd)
		} else {
			candidates[i] = mean
		}
	}
	sort.Float64s(candidates)

	// Bin accumulation: bin b holds points with exactly b candidate
	// thresholds <= value, so the points left of cut i are bins 0..i
	// (value < candidates[i]; equality goes Right).
	bins := make([][]float64, numThresholds+1)
	for b := range bins {
		bins[b] = make([]float64, numLabels)
	}
	for i, v := range d.values {
		label := d.labels[i]
		if label < 0 {
			continue
		}
		w := d.weights[i]
		if labelWeights != nil {
			w *= labelWeights[label]
		}
		b := sort.Search(numThresholds, func(k int) bool { return candidates[k] > v })
		bins[b][label] += w
	}

	// Prefix sums left-to-right; totals give the suffix side.
	total := make([]float64, numLabels)
	for _, bin := range bins {
		for l, w := range bin {
			total[l] += w
		}
	}

	left := make([]float64, numLabels)
	bestGain := math.Inf(-1)
	bestCut := -1
	var bestLeft, bestRight []float64

	right := make([]float64, numLabels)
	scoreLeft := make([]float64, numLabels)
	scoreRight := make([]float64, numLabels)
	for i := 0; i < numThresholds; i++ {
		for l, w := range bins[i] {
			left[l] += w
		}
		nLeft := 0.0
		nRight := 0.0
		for l := range right {
			right[l] = total[l] - left[l]
			nLeft += left[l]
			nRight += right[l]
		}
		// Usability is judged on the cut's own counts: priors must not
		// make a one-sided cut look valid.
		if nLeft == 0 || nRight == 0 {
			continue
		}
		copy(scoreLeft, left)
		copy(scoreRight, right)
		sLeft, sRight := nLeft, nRight
		if leftPrior != nil {
			for l, w := range leftPrior {
				scoreLeft[l] += w
				sLeft += w
			}
		}
		if rightPrior != nil {
			for l, w := range rightPrior {
				scoreRight[l] += w
				sRight += w
			}
		}
		gain := -(sLeft*distributionEntropy(scoreLeft) + sRight*distributionEntropy(scoreRight)) / (sLeft + sRight)
		if gain > bestGain {
			bestGain = gain
			bestCut = i
			bestLeft = append([]float64(nil), left...)
			bestRight = append([]float64(nil), right...)
		}
	}

	if bestCut < 0 {
		return invalidSplit(), nil
	}

	d.threshold = candidates[bestCut]
	return Split{
		Threshold: d.threshold,
		Left:      bestLeft,
		Right:     bestRight,
		Gain:      bestGain,
		Valid:     true,
	}, nil
}

// Decide routes a point against the committed threshold. The response is
// recomputed and written back into the point's feature-value cache;
// value < threshold goes Left, equality goes Right.
func (d *Decider) Decide(p feature.Point) Direction {
	v := d.feature.Compute(p)
	p.SetFeatureValue(v)
	if v < d.threshold {
		return Left
	}
	return Right
}

// Partition splits points by Decide.
func (d *Decider) Partition(points []feature.Point) (left, right []feature.Point) {
	for _, p := range points {
		if d.Decide(p) == Left {
			left = append(left, p)
		} else {
			right = append(right, p)
		}
	}
	return left, right
}
