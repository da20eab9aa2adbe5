package curation

// Similarity provides the artist-similarity signal consumed by the scorer.
// Implementations may call external services; a returned error degrades the
// signal to the scorer's neutral default instead of aborting the run.
type Similarity interface {
	Similarity(artist string, references []string) (float64, error)
}

// LocalSimilarity is the default in-process Similarity implementation: the
// best Levenshtein ratio between the artist and any reference artist.
type LocalSimilarity struct{}

// Similarity returns the maximum string similarity in [0,1] between artist
// and the reference set.
func (LocalSimilarity) Similarity(artist string, references []string) (float64, error) {
	best := 0.0
	for _, ref := range references {
		if s := similarityRatio(artist, ref); s > best {
			best = s
		}
	}
	return best, nil
}

// similarityRatio converts edit distance to a [0,1] similarity.
func similarityRatio(a, b string) float64 {
	if a == b {
		return 1.0
	}
	maxLen := max(len([]rune(a)), len([]rune(b)))
	if maxLen == 0 {
		return 1.0
	}
	return 1.0 - float64(editDistance(a, b))/float64(maxLen)
}

// editDistance computes the Levenshtein distance between two strings using
// two rolling rows.
func editDistance(a, b string) int {
	ra := []rune(a)
	rb := []rune(b)
	if len(ra) == 0 {
		return len(rb)
	}
	if len(rb) == 0 {
		return len(ra)
	}

	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)
	for j := 0; j <= len(rb); j++ {
		prev[j] = j
	}

	for i := 1; i <= len(ra); i++ {
		curr[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 0
			if ra[i-1] != rb[j-1] {
				cost = 1
			}
			curr[j] = min(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		copy(prev, curr)
	}

	return prev[len(rb)]
}
