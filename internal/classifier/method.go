package classifier

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNoDocuments is returned by Method.Build when there is nothing to learn.
var ErrNoDocuments = errors.New("classifier: no training documents")

// Document is one labeled token sequence.
type Document struct {
	Label  string
	Tokens []string
}

// Model is an immutable trained model. Classify reports false when the
// tokens do not point at a single best label.
type Model interface {
	Classify(tokens []string) (label string, ok bool)
}

// Method builds a Model from documents. Implementations must not retain
// or mutate the documents slice.
type Method interface {
	Name() string
	Build(docs []Document) (Model, error)
}

// MethodByName resolves a configured method name. An empty name selects
// naive Bayes.
func MethodByName(name string) (Method, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "bayes", "naive_bayes":
		return NaiveBayes{}, nil
	case "keyword", "keywords":
		return KeywordOverlap{}, nil
	default:
		return nil, fmt.Errorf("classifier: unknown method %q", name)
	}
}

// labelsOf returns the distinct labels in first-seen order together with
// the vocabulary of every document.
func labelsOf(docs []Document) ([]string, map[string]struct{}) {
	var labels []string
	seen := make(map[string]bool)
	vocab := make(map[string]struct{})
	for _, d := range docs {
		if !seen[d.Label] {
			seen[d.Label] = true
			labels = append(labels, d.Label)
		}
		for _, tok := range d.Tokens {
			vocab[tok] = struct{}{}
		}
	}
	return labels, vocab
}

// known filters tokens down to those present in vocab.
func known(tokens []string, vocab map[string]struct{}) []string {
	out := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		if _, ok := vocab[tok]; ok {
			out = append(out, tok)
		}
	}
	return out
}

// singleLabel answers for corpora that only cover one category: any known
// token selects it.
type singleLabel struct {
	label string
	vocab map[string]struct{}
}

func (m *singleLabel) Classify(tokens []string) (string, bool) {
	if len(known(tokens, m.vocab)) == 0 {
		return "", false
	}
	return m.label, true
}
