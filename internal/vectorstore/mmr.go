package vectorstore

import "math"

// mmrLambda balances query similarity against diversity; 0.5 weights both
// equally.
const mmrLambda = 0.5

// maximalMarginalRelevance picks k candidate indexes that are similar to the
// query but dissimilar to each other. Each round scores every unselected
// candidate as lambda*sim(query, c) - (1-lambda)*max(sim(c, selected)) and
// takes the best, so the result order is most-relevant-first.
func maximalMarginalRelevance(query []float32, candidates [][]float32, k int, lambda float32) []int {
	if k > len(candidates) {
		k = len(candidates)
	}
	if k <= 0 {
		return nil
	}

	querySim := make([]float32, len(candidates))
	for i, c := range candidates {
		querySim[i] = cosineSimilarity(query, c)
	}

	selected := make([]int, 0, k)
	chosen := make([]bool, len(candidates))
	for len(selected) < k {
		best := -1
		bestScore := float32(math.Inf(-1))
		for i := range candidates {
			if chosen[i] {
				continue
			}
			var redundancy float32
			for _, j := range selected {
				if sim := cosineSimilarity(candidates[i], candidates[j]); sim > redundancy {
					redundancy = sim
				}
			}
			score := lambda*querySim[i] - (1-lambda)*redundancy
			if score > bestScore {
				bestScore = score
				best = i
			}
		}
		selected = append(selected, best)
		chosen[best] = true
	}
	return selected
}

func cosineSimilarity(a, b []float32) float32 {
	if len(a) != len(b) {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return float32(dot / (math.Sqrt(normA) * math.Sqrt(normB)))
}
