package classifier

import "context"

// StaticLookup resolves names from a fixed name to ID map. It is used by
// the corpus CLI and in tests where no database is available.
type StaticLookup map[string]string

// FindCategoryByName implements CategoryLookup.
func (s StaticLookup) FindCategoryByName(_ context.Context, name string) (*CategoryRef, error) {
	id, ok := s[name]
	if !ok {
		return nil, nil
	}
	return &CategoryRef{ID: id, Name: name}, nil
}

// LookupFromCorpus maps every corpus category to itself, so predictions can
// be previewed without persisted categories.
func LookupFromCorpus(c *Corpus) StaticLookup {
	l := make(StaticLookup, len(c.Categories))
	for _, cat := range c.Categories {
		l[cat.Name] = cat.Name
	}
	return l
}
