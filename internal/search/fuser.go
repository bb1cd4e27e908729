package search

import "sort"

// rrfK is the Reciprocal Rank Fusion constant. 60 keeps top ranks from a
// single retriever competitive without letting either list dominate.
const rrfK = 60

// Fused is one document after rank fusion. Ranks are 1-based positions in
// the source lists; 0 means the document was absent from that list.
type Fused struct {
	ID           int64
	Score        float64
	LexicalRank  int
	SemanticRank int
}

// FuseRanks merges a lexical and a semantic id ranking with Reciprocal Rank
// Fusion: score = sum of 1/(k+rank) over the lists the document appears in.
// The output is the full outer union of both lists ordered by fused score
// descending. Ties keep first-seen (lexical) order, so the result is
// deterministic for identical inputs.
func FuseRanks(lexical, semantic []int64) []Fused {
	index := make(map[int64]int, len(lexical)+len(semantic))
	fused := make([]Fused, 0, len(lexical)+len(semantic))

	for i, id := range lexical {
		if _, seen := index[id]; seen {
			continue
		}
		index[id] = len(fused)
		fused = append(fused, Fused{
			ID:          id,
			LexicalRank: i + 1,
			Score:       1.0 / float64(rrfK+i+1),
		})
	}
	for i, id := range semantic {
		at, seen := index[id]
		if !seen {
			index[id] = len(fused)
			fused = append(fused, Fused{ID: id})
			at = len(fused) - 1
		}
		if fused[at].SemanticRank != 0 {
			continue
		}
		fused[at].SemanticRank = i + 1
		fused[at].Score += 1.0 / float64(rrfK+i+1)
	}

	sort.SliceStable(fused, func(i, j int) bool {
		return fused[i].Score > fused[j].Score
	})
	return fused
}

// PageOf cuts one offset page out of a fused ranking. Pagination always
// happens after fusion, over the full fused set.
func PageOf(fused []Fused, page, limit int) []Fused {
	if page < 1 || limit <= 0 {
		return nil
	}
	start := (page - 1) * limit
	if start >= len(fused) {
		return nil
	}
	end := start + limit
	if end > len(fused) {
		end = len(fused)
	}
	return fused[start:end]
}
