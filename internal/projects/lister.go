package projects

import (
	"context"
	"fmt"
	"log/slog"
	"slices"

	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/kubernetes"
)

// DefaultLabelSelector selects the namespaces the platform shows as projects.
const DefaultLabelSelector = "opendatahub.io/dashboard=true"

// Lister lists platform projects.
type Lister struct {
	client   kubernetes.Interface
	selector string
	log      *slog.Logger
}

// ListerOption configures the Lister.
type ListerOption func(*Lister)

// WithLabelSelector overrides DefaultLabelSelector.
func WithLabelSelector(s string) ListerOption {
	return func(l *Lister) {
		l.selector = s
	}
}

// WithListerLogger sets the logger.
func WithListerLogger(log *slog.Logger) ListerOption {
	return func(l *Lister) {
		l.log = log
	}
}

// NewLister creates a Lister backed by client.
func NewLister(client kubernetes.Interface, opts ...ListerOption) *Lister {
	l := &Lister{
		client:   client,
		selector: DefaultLabelSelector,
		log:      slog.Default(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// ListProjectNames returns the names of all project namespaces in ascending
// order.
func (l *Lister) ListProjectNames(ctx context.Context) ([]string, error) {
	list, err := l.client.CoreV1().Namespaces().List(ctx, metav1.ListOptions{
		LabelSelector: l.selector,
	})
	if err != nil {
		return nil, fmt.Errorf("listing project namespaces: %w", err)
	}

	names := make([]string, 0, len(list.Items))
	for i := range list.Items {
		names = append(names, list.Items[i].Name)
	}
	slices.Sort(names)

	l.log.Debug("listed projects", "selector", l.selector, "count", len(names))
	return names, nil
}
