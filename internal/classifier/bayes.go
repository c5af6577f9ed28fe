package classifier

import (
	"fmt"

	"github.com/jbrukh/bayesian"
)

// NaiveBayes is a multinomial naive Bayes method. Tokens never seen during
// training carry no evidence, so a description made only of unknown words
// gets no prediction.
type NaiveBayes struct{}

// Name implements Method.
func (NaiveBayes) Name() string { return "bayes" }

// Build implements Method.
func (NaiveBayes) Build(docs []Document) (m Model, err error) {
	if len(docs) == 0 {
		return nil, ErrNoDocuments
	}
	labels, vocab := labelsOf(docs)
	if len(labels) == 1 {
		return &singleLabel{label: labels[0], vocab: vocab}, nil
	}

	defer func() {
		if r := recover(); r != nil {
			m, err = nil, fmt.Errorf("classifier: build naive bayes: %v", r)
		}
	}()

	classes := make([]bayesian.Class, len(labels))
	for i, l := range labels {
		classes[i] = bayesian.Class(l)
	}
	cl := bayesian.NewClassifier(classes...)
	for _, d := range docs {
		cl.Learn(d.Tokens, bayesian.Class(d.Label))
	}
	return &bayesModel{cl: cl, vocab: vocab}, nil
}

type bayesModel struct {
	cl    *bayesian.Classifier
	vocab map[string]struct{}
}

func (m *bayesModel) Classify(tokens []string) (string, bool) {
	terms := known(tokens, m.vocab)
	if len(terms) == 0 {
		return "", false
	}
	_, inx, strict := m.cl.LogScores(terms)
	if !strict {
		return "", false
	}
	return string(m.cl.Classes[inx]), true
}
