package classifier

// KeywordOverlap scores each label by how many description tokens appear
// in that label's vocabulary. Ties give no prediction.
type KeywordOverlap struct{}

// Name implements Method.
func (KeywordOverlap) Name() string { return "keyword" }

// Build implements Method.
func (KeywordOverlap) Build(docs []Document) (Model, error) {
	if len(docs) == 0 {
		return nil, ErrNoDocuments
	}
	labels, _ := labelsOf(docs)
	index := make(map[string]int, len(labels))
	for i, l := range labels {
		index[l] = i
	}

	vocab := make(map[string][]bool)
	for _, d := range docs {
		for _, tok := range d.Tokens {
			hits, ok := vocab[tok]
			if !ok {
				hits = make([]bool, len(labels))
				vocab[tok] = hits
			}
			hits[index[d.Label]] = true
		}
	}
	return &overlapModel{labels: labels, vocab: vocab}, nil
}

type overlapModel struct {
	labels []string
	vocab  map[string][]bool
}

func (m *overlapModel) Classify(tokens []string) (string, bool) {
	scores := make([]int, len(m.labels))
	for _, tok := range tokens {
		for i, hit := range m.vocab[tok] {
			if hit {
				scores[i]++
			}
		}
	}

	best, bestScore, tie := -1, 0, false
	for i, s := range scores {
		switch {
		case s > bestScore:
			best, bestScore, tie = i, s, false
		case s == bestScore && s > 0:
			tie = true
		}
	}
	if best < 0 || tie {
		return "", false
	}
	return m.labels[best], true
}
