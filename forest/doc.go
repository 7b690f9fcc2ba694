// Package forest implements randomized decision-forest training and
// inference for per-pixel labeling: entropy-gain threshold selection
// (Decider), depth-first and breadth-first tree construction (Tree), the
// shared-children DAG variant (Vine), and ensemble aggregation (Forest)
// with tree histograms and sparse codes.
package forest
