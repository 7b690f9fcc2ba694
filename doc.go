// Package grove provides randomized decision forests for per-pixel image
// labeling: entropy-driven threshold selection, depth-first and
// breadth-first tree construction, forest-level aggregation with
// hierarchical histograms and sparse leaf coding, and a decision-DAG
// ("vine") variant with a bounded per-level branching factor.
//
// # Packages
//
//   - pixel: the image collaborator with O(1) rectangle sums over
//     lazily built integral tables
//   - feature: the Feature/Factory abstraction and its concrete
//     families (vector components, pixel readouts, rectangle and
//     Haar-like sums, filter-bank lookups, multi-tap parts)
//   - forest: Decider, Tree, Forest, Histogram, and Vine together with
//     their construction algorithms
//   - core/random: the thread-safe randomness collaborator
//   - core/parallel: fork-join helpers for the data-parallel trial loops
//
// # Quick Start
//
//	rng := random.New(42)
//	factory := feature.NewComponentFactory(rng, dims)
//	cfg := forest.Config{
//		NumFeatures:   25,
//		NumThresholds: 10,
//		MaximumDepth:  8,
//		NumberOfTries: 10,
//	}
//	f, err := forest.ComputeForestDepthFirst(cfg, factory,
//		[][]feature.Point{train}, 5, labelNames, rng, nil)
//	if err != nil {
//		log.Fatal(err)
//	}
//	label := f.Classify(point)
//
// See examples/pixel_labeling for a complete walkthrough.
package grove
