package urlsync

import (
	"fmt"
	"maps"
	"net/url"
	"slices"
	"sync"
)

// SearchParams is the query string of the current page.
type SearchParams interface {
	// Get returns the first value of key, or "".
	Get(key string) string
	// Replace rewrites the query with update, replacing the current history
	// entry rather than pushing a new one.
	Replace(update func(url.Values) url.Values)
}

// URLParams is a SearchParams held in memory. It is safe for concurrent use.
type URLParams struct {
	mu     sync.Mutex
	values url.Values
	writes int
}

// NewURLParams creates URLParams holding a copy of q.
func NewURLParams(q url.Values) *URLParams {
	return &URLParams{values: cloneValues(q)}
}

// ParseURLParams creates URLParams from a raw query string.
func ParseURLParams(rawQuery string) (*URLParams, error) {
	q, err := url.ParseQuery(rawQuery)
	if err != nil {
		return nil, fmt.Errorf("parsing query %q: %w", rawQuery, err)
	}
	return &URLParams{values: q}, nil
}

// Get implements SearchParams.
func (p *URLParams) Get(key string) string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.values.Get(key)
}

// Replace implements SearchParams. update receives a copy of the current
// values; its result becomes the new query.
func (p *URLParams) Replace(update func(url.Values) url.Values) {
	p.mu.Lock()
	defer p.mu.Unlock()

	next := update(cloneValues(p.values))
	if next == nil {
		next = url.Values{}
	}
	p.values = next
	p.writes++
}

// Values returns a copy of the current query.
func (p *URLParams) Values() url.Values {
	p.mu.Lock()
	defer p.mu.Unlock()
	return cloneValues(p.values)
}

// Encode returns the current query in URL encoded form.
func (p *URLParams) Encode() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.values.Encode()
}

// Writes returns how many times Replace has been called.
func (p *URLParams) Writes() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.writes
}

func cloneValues(q url.Values) url.Values {
	out := make(url.Values, len(q))
	for k, v := range maps.All(q) {
		out[k] = slices.Clone(v)
	}
	return out
}
