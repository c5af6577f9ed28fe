// Package classifier predicts an expense category from a free-text
// transaction description. A Classifier owns the currently trained model
// and replaces it wholesale on every training pass, so concurrent readers
// always see either the previous or the new model.
package classifier

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// CategoryRef identifies a persisted category.
type CategoryRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// CategoryLookup resolves corpus category names to persisted categories.
// A category that does not exist is reported as nil with a nil error;
// errors are reserved for lookups that could not be answered.
type CategoryLookup interface {
	FindCategoryByName(ctx context.Context, name string) (*CategoryRef, error)
}

// Predictor is the read side used by the categorization policy. Classify
// returns nil when there is no prediction.
type Predictor interface {
	Classify(ctx context.Context, description string) *CategoryRef
}

// TrainResult summarizes one training pass.
type TrainResult struct {
	Method     string   `json:"method"`
	Documents  int      `json:"documents"`
	Categories []string `json:"categories"`
	Skipped    []string `json:"skipped,omitempty"`
	Trained    bool     `json:"trained"`
}

// Status describes the model currently serving predictions.
type Status struct {
	Trained    bool       `json:"trained"`
	Method     string     `json:"method"`
	Documents  int        `json:"documents"`
	Categories []string   `json:"categories"`
	TrainedAt  *time.Time `json:"trained_at,omitempty"`
}

type snapshot struct {
	model     Model
	refs      map[string]CategoryRef
	result    TrainResult
	trainedAt time.Time
}

// Classifier is safe for concurrent use.
type Classifier struct {
	corpus *Corpus
	lookup CategoryLookup
	method Method
	log    *zap.SugaredLogger

	current atomic.Pointer[snapshot]
	trainMu sync.Mutex
	lazy    singleflight.Group
	now     func() time.Time
}

// New creates an untrained classifier.
func New(corpus *Corpus, lookup CategoryLookup, method Method, log *zap.SugaredLogger) *Classifier {
	if corpus == nil {
		corpus = DefaultCorpus()
	}
	if method == nil {
		method = NaiveBayes{}
	}
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Classifier{
		corpus: corpus,
		lookup: lookup,
		method: method,
		log:    log,
		now:    time.Now,
	}
}

// Train rebuilds the model from the corpus. Categories that cannot be
// resolved are logged and skipped. When no documents remain, or the model
// cannot be built, the classifier reverts to untrained.
func (c *Classifier) Train(ctx context.Context) TrainResult {
	c.trainMu.Lock()
	defer c.trainMu.Unlock()

	result := TrainResult{Method: c.method.Name(), Categories: []string{}}
	refs := make(map[string]CategoryRef, len(c.corpus.Categories))

	for _, cat := range c.corpus.Categories {
		ref, err := c.lookup.FindCategoryByName(ctx, cat.Name)
		if err != nil {
			c.log.Errorw("Category lookup failed, skipping it for training", "category", cat.Name, "error", err)
			result.Skipped = append(result.Skipped, cat.Name)
			continue
		}
		if ref == nil {
			c.log.Warnw("Category not found, skipping it for training", "category", cat.Name)
			result.Skipped = append(result.Skipped, cat.Name)
			continue
		}
		refs[cat.Name] = *ref
	}

	docs := c.corpus.Documents(func(name string) bool {
		_, ok := refs[name]
		return ok
	})
	result.Documents = len(docs)

	if len(docs) == 0 {
		c.current.Store(nil)
		c.log.Warnw("No training documents, classifier left untrained", "skipped", result.Skipped)
		return result
	}

	model, err := c.method.Build(docs)
	if err != nil {
		c.current.Store(nil)
		c.log.Errorw("Classifier training failed", "method", result.Method, "error", err)
		result.Documents = 0
		return result
	}

	for _, cat := range c.corpus.Categories {
		if _, ok := refs[cat.Name]; ok {
			result.Categories = append(result.Categories, cat.Name)
		}
	}
	result.Trained = true

	c.current.Store(&snapshot{
		model:     model,
		refs:      refs,
		result:    result,
		trainedAt: c.now(),
	})
	c.log.Infow("Classifier trained",
		"method", result.Method,
		"documents", result.Documents,
		"categories", len(result.Categories),
		"skipped", len(result.Skipped),
	)
	return result
}

// Classify predicts the category of description. An untrained classifier
// trains once first; concurrent callers share that attempt.
func (c *Classifier) Classify(ctx context.Context, description string) (ref *CategoryRef) {
	snap := c.current.Load()
	if snap == nil {
		_, _, _ = c.lazy.Do("train", func() (any, error) {
			if c.current.Load() == nil {
				c.Train(ctx)
			}
			return nil, nil
		})
		if snap = c.current.Load(); snap == nil {
			return nil
		}
	}

	tokens := Tokenize(description)
	if len(tokens) == 0 {
		return nil
	}

	defer func() {
		if r := recover(); r != nil {
			c.log.Errorw("Classification panicked", "panic", r)
			ref = nil
		}
	}()

	label, ok := snap.model.Classify(tokens)
	if !ok {
		return nil
	}
	found, ok := snap.refs[label]
	if !ok {
		return nil
	}
	return &found
}

// Trained reports whether a model is currently serving predictions.
func (c *Classifier) Trained() bool {
	return c.current.Load() != nil
}

// Status reports on the model currently serving predictions.
func (c *Classifier) Status() Status {
	snap := c.current.Load()
	if snap == nil {
		return Status{Method: c.method.Name(), Categories: []string{}}
	}
	at := snap.trainedAt
	return Status{
		Trained:    true,
		Method:     snap.result.Method,
		Documents:  snap.result.Documents,
		Categories: snap.result.Categories,
		TrainedAt:  &at,
	}
}

// Schedule retrains on the given cron spec until the returned scheduler is
// stopped.
func (c *Classifier) Schedule(spec string) (*cron.Cron, error) {
	if spec == "" {
		return nil, errors.New("classifier: empty retrain schedule")
	}
	sched := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DefaultLogger)))
	if _, err := sched.AddFunc(spec, func() {
		c.Train(context.Background())
	}); err != nil {
		return nil, fmt.Errorf("classifier: invalid retrain schedule %q: %w", spec, err)
	}
	sched.Start()
	c.log.Infow("Classifier retraining scheduled", "schedule", spec)
	return sched, nil
}
