package classifier

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
)

//go:embed corpus.toml
var defaultCorpus []byte

// CategoryKeywords is the training material for one category.
type CategoryKeywords struct {
	Name     string   `toml:"name"`
	Keywords []string `toml:"keywords"`
}

// Corpus is the ordered keyword configuration the classifier trains on.
type Corpus struct {
	Categories []CategoryKeywords `toml:"category"`
}

// DefaultCorpus returns the built-in corpus.
func DefaultCorpus() *Corpus {
	c, err := ParseCorpus(defaultCorpus)
	if err != nil {
		panic(fmt.Sprintf("classifier: embedded corpus is invalid: %v", err))
	}
	return c
}

// LoadCorpus reads a TOML corpus from path. An empty path yields the
// built-in corpus.
func LoadCorpus(path string) (*Corpus, error) {
	if path == "" {
		return DefaultCorpus(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read corpus %s: %w", path, err)
	}
	c, err := ParseCorpus(data)
	if err != nil {
		return nil, fmt.Errorf("corpus %s: %w", path, err)
	}
	return c, nil
}

// ParseCorpus decodes and validates TOML corpus data.
func ParseCorpus(data []byte) (*Corpus, error) {
	var c Corpus
	md, err := toml.Decode(string(data), &c)
	if err != nil {
		return nil, fmt.Errorf("decode corpus: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("unknown corpus keys: %v", undecoded)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Validate checks that every category is named once and every keyword
// phrase yields at least one token.
func (c *Corpus) Validate() error {
	if len(c.Categories) == 0 {
		return fmt.Errorf("corpus has no categories")
	}
	seen := make(map[string]bool, len(c.Categories))
	for i, cat := range c.Categories {
		name := strings.TrimSpace(cat.Name)
		if name == "" {
			return fmt.Errorf("category #%d has no name", i+1)
		}
		if seen[name] {
			return fmt.Errorf("category %q is listed more than once", name)
		}
		seen[name] = true
		for _, kw := range cat.Keywords {
			if len(Tokenize(kw)) == 0 {
				return fmt.Errorf("category %q has a blank keyword", name)
			}
		}
	}
	return nil
}

// Documents expands the corpus into labeled training documents, keeping
// only the categories accepted by keep.
func (c *Corpus) Documents(keep func(name string) bool) []Document {
	var docs []Document
	for _, cat := range c.Categories {
		if keep != nil && !keep(cat.Name) {
			continue
		}
		for _, kw := range cat.Keywords {
			if tokens := Tokenize(kw); len(tokens) > 0 {
				docs = append(docs, Document{Label: cat.Name, Tokens: tokens})
			}
		}
	}
	return docs
}

// Tokenize lowercases s and splits it on whitespace.
func Tokenize(s string) []string {
	return strings.Fields(strings.ToLower(s))
}
