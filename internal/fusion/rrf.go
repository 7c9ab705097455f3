// Package fusion implements Reciprocal Rank Fusion over the Lexical
// Index's string "file_path:start_line" ids and the Vector Index's int64
// chunk ids, unweighted and keyed by a native id string so either id
// scheme fuses without collision.
package fusion

import "sort"

// DefaultK is the smoothing constant used when unspecified.
const DefaultK = 60

// Ranked is a single ranked-list entry carrying its native id as a string.
// Callers of Fuse convert their own id types (string lexical keys, int64
// chunk ids) to string before calling.
type Ranked struct {
	ID    string
	Score float64
}

// Fused is one row of a fused ranking: the id and its accumulated RRF
// score.
type Fused struct {
	ID    string
	Score float64
}

// Fuse combines any number of ranked lists into one ranking via unweighted
// reciprocal rank fusion: score(id) = sum over lists containing id of
// 1/(rank+1+k), where rank is 0-indexed. Ids absent from a list contribute
// nothing from it. Ties break by each id's first position of occurrence
// across the input lists, in the order the lists were given.
func Fuse(lists [][]Ranked, k int) []Fused {
	if k <= 0 {
		k = DefaultK
	}

	scores := make(map[string]float64)
	firstSeen := make(map[string]int)
	order := 0

	for _, list := range lists {
		for rank, entry := range list {
			if _, seen := firstSeen[entry.ID]; !seen {
				firstSeen[entry.ID] = order
				order++
			}
			scores[entry.ID] += 1.0 / float64(rank+1+k)
		}
	}

	fused := make([]Fused, 0, len(scores))
	for id, score := range scores {
		fused = append(fused, Fused{ID: id, Score: score})
	}

	sort.Slice(fused, func(i, j int) bool {
		if fused[i].Score != fused[j].Score {
			return fused[i].Score > fused[j].Score
		}
		return firstSeen[fused[i].ID] < firstSeen[fused[j].ID]
	})

	return fused
}
