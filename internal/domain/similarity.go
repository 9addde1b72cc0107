package domain

import (
	"math"
	"strconv"
)

// SimilarityK is the fixed length of a precomputed neighbour vector.
const SimilarityK = 200

// SimilarityRow holds the precomputed nearest neighbours of one recipe,
// ordered by descending similarity. Position 0 is the recipe itself.
type SimilarityRow struct {
	RecipeID    int64
	NeighborIDs []int64
	Scores      []float64
}

// NewSimilarityRow builds a row from raw stored vectors. Stored values may
// carry a meaningless sign, so every id and score is made non-negative here
// and nowhere else.
func NewSimilarityRow(recipeID int64, rawIDs []int64, rawScores []float32) *SimilarityRow {
	ids := make([]int64, len(rawIDs))
	for i, id := range rawIDs {
		if id < 0 {
			id = -id
		}
		ids[i] = id
	}
	scores := make([]float64, len(rawScores))
	for i, s := range rawScores {
		scores[i] = CanonicalScore(float32(math.Abs(float64(s))))
	}
	return &SimilarityRow{
		RecipeID:    recipeID,
		NeighborIDs: ids,
		Scores:      scores,
	}
}

// CanonicalScore widens a float32 score to the float64 with the same shortest
// decimal form, so 0.452267 stored as float32 reads back as 0.452267.
func CanonicalScore(f float32) float64 {
	v, err := strconv.ParseFloat(strconv.FormatFloat(float64(f), 'g', -1, 32), 64)
	if err != nil {
		return float64(f)
	}
	return v
}

// Consistent reports whether the neighbour and score vectors have equal length.
func (r *SimilarityRow) Consistent() bool {
	return len(r.NeighborIDs) == len(r.Scores)
}

// Len is the number of usable (id, score) pairs.
func (r *SimilarityRow) Len() int {
	if len(r.NeighborIDs) < len(r.Scores) {
		return len(r.NeighborIDs)
	}
	return len(r.Scores)
}

// Neighbor is one (id, score) pair of a similarity row.
type Neighbor struct {
	RecipeID int64
	Score    float64
}

// Pairs zips ids and scores in vector order, truncated to the shorter vector.
func (r *SimilarityRow) Pairs() []Neighbor {
	n := r.Len()
	out := make([]Neighbor, n)
	for i := 0; i < n; i++ {
		out[i] = Neighbor{RecipeID: r.NeighborIDs[i], Score: r.Scores[i]}
	}
	return out
}

// IDs returns the usable neighbour ids in vector order.
func (r *SimilarityRow) IDs() []int64 {
	return r.NeighborIDs[:r.Len()]
}
