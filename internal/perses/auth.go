package perses

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"
)

// DefaultTokenRefresh is how long FileToken trusts the token it last read.
const DefaultTokenRefresh = time.Minute

// TokenProvider supplies the bearer token sent to Perses.
type TokenProvider interface {
	Token(ctx context.Context) (string, error)
}

// StaticToken is a TokenProvider that always returns the same token.
type StaticToken string

// Token implements TokenProvider.
func (t StaticToken) Token(context.Context) (string, error) {
	return string(t), nil
}

// FileToken reads the token from a file, typically a projected service
// account token that the kubelet rotates. The file is re-read once the last
// read is older than the refresh interval. Thread-safe via mutex.
type FileToken struct {
	path    string
	refresh time.Duration

	mu      sync.Mutex
	token   string
	readAt  time.Time
	nowFunc func() time.Time // for testing
}

// FileTokenOption configures the FileToken.
type FileTokenOption func(*FileToken)

// WithRefresh overrides DefaultTokenRefresh.
func WithRefresh(d time.Duration) FileTokenOption {
	return func(f *FileToken) {
		f.refresh = d
	}
}

// WithTokenNowFunc overrides the time function for testing.
func WithTokenNowFunc(fn func() time.Time) FileTokenOption {
	return func(f *FileToken) {
		f.nowFunc = fn
	}
}

// NewFileToken creates a FileToken reading path.
func NewFileToken(path string, opts ...FileTokenOption) *FileToken {
	f := &FileToken{
		path:    path,
		refresh: DefaultTokenRefresh,
		nowFunc: time.Now,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Token returns the cached token, re-reading the file when the cache is stale.
func (f *FileToken) Token(context.Context) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	now := f.nowFunc()
	if f.token != "" && now.Sub(f.readAt) < f.refresh {
		return f.token, nil
	}

	b, err := os.ReadFile(f.path)
	if err != nil {
		return "", fmt.Errorf("reading token file: %w", err)
	}
	token := strings.TrimSpace(string(b))
	if token == "" {
		return "", fmt.Errorf("token file %s is empty", f.path)
	}

	f.token = token
	f.readAt = now
	return f.token, nil
}
