package scgo

import "sort"

// CountClusters returns the number of distinct label values in a cluster
// assignment. Label values are arbitrary; only equality matters.
func CountClusters(labels []int) int {
	seen := make(map[int]struct{}, 16)
	for _, l := range labels {
		seen[l] = struct{}{}
	}
	return len(seen)
}

// DistinctLabels returns the distinct label values in ascending order.
func DistinctLabels(labels []int) []int {
	seen := make(map[int]struct{}, 16)
	for _, l := range labels {
		seen[l] = struct{}{}
	}
	out := make([]int, 0, len(seen))
	for l := range seen {
		out = append(out, l)
	}
	sort.Ints(out)
	return out
}

// ClusterSizes returns the number of points carrying each label.
func ClusterSizes(labels []int) map[int]int {
	sizes := make(map[int]int, 16)
	for _, l := range labels {
		sizes[l]++
	}
	return sizes
}

// relabelContiguous rewrites labels to 0..k-1 in order of first appearance,
// giving community-detection output a stable, compact numbering.
func relabelContiguous(labels []int) []int {
	next := 0
	mapping := make(map[int]int, 16)
	out := make([]int, len(labels))
	for i, l := range labels {
		id, ok := mapping[l]
		if !ok {
			id = next
			mapping[l] = id
			next++
		}
		out[i] = id
	}
	return out
}
