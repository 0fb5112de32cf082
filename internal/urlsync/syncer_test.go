package urlsync_test

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/donaldgifford/perses-gateway/internal/urlsync"
	domain "github.com/donaldgifford/perses-gateway/pkg/types"
)

// recordingParams captures Replace callbacks so tests can apply them to
// arbitrary inputs.
type recordingParams struct {
	current url.Values
	updates []func(url.Values) url.Values
}

func (p *recordingParams) Get(key string) string { return p.current.Get(key) }

func (p *recordingParams) Replace(update func(url.Values) url.Values) {
	p.updates = append(p.updates, update)
}

func ready(v *domain.DefaultValue) *urlsync.VariableState {
	return &urlsync.VariableState{Value: v}
}

func TestSyncer_IgnoresUnusableStates(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		state *urlsync.VariableState
	}{
		{name: "nil state", state: nil},
		{name: "nil value", state: &urlsync.VariableState{}},
		{name: "empty string", state: ready(domain.SingleValue(""))},
		{name: "empty list", state: ready(domain.SliceValue(nil))},
		{name: "loading", state: &urlsync.VariableState{Value: domain.SingleValue("ns"), Loading: true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			params := &recordingParams{current: url.Values{}}
			s := urlsync.NewSyncer(params)

			s.Observe(tt.state)
			s.Observe(tt.state)
			assert.Empty(t, params.updates)

			// Unusable states do not consume the baseline observation.
			s.Observe(ready(domain.SingleValue("first")))
			assert.Empty(t, params.updates)
			s.Observe(ready(domain.SingleValue("second")))
			assert.Len(t, params.updates, 1)
		})
	}
}

func TestSyncer_FirstObservationIsBaseline(t *testing.T) {
	t.Parallel()

	params := &recordingParams{current: url.Values{}}
	s := urlsync.NewSyncer(params)

	s.Observe(ready(domain.SingleValue("test-namespace")))
	assert.Empty(t, params.updates)
}

func TestSyncer_WritesChangedValue(t *testing.T) {
	t.Parallel()

	params := &recordingParams{current: url.Values{}}
	s := urlsync.NewSyncer(params)

	s.Observe(ready(domain.SingleValue("initial-namespace")))
	s.Observe(ready(domain.SingleValue("new-namespace")))

	require.Len(t, params.updates, 1)
	got := params.updates[0](url.Values{})
	assert.Equal(t, "new-namespace", got.Get("var-namespace"))
}

func TestSyncer_JoinsListValues(t *testing.T) {
	t.Parallel()

	params := &recordingParams{current: url.Values{}}
	s := urlsync.NewSyncer(params)

	s.Observe(ready(domain.SingleValue("initial")))
	s.Observe(ready(domain.SliceValue([]string{"namespace-1", "namespace-2"})))

	require.Len(t, params.updates, 1)
	got := params.updates[0](url.Values{})
	assert.Equal(t, "namespace-1,namespace-2", got.Get("var-namespace"))
}

func TestSyncer_SameValueIsNotWritten(t *testing.T) {
	t.Parallel()

	params := &recordingParams{current: url.Values{}}
	s := urlsync.NewSyncer(params)

	s.Observe(ready(domain.SingleValue("same-namespace")))
	s.Observe(ready(domain.SingleValue("same-namespace")))
	assert.Empty(t, params.updates)

	// A list joining to the baseline counts as the same value.
	s.Observe(ready(domain.SliceValue([]string{"same-namespace"})))
	assert.Empty(t, params.updates)
}

func TestSyncer_ValueAlreadyInURL(t *testing.T) {
	t.Parallel()

	params := &recordingParams{current: url.Values{"var-namespace": {"existing-namespace"}}}
	s := urlsync.NewSyncer(params)

	s.Observe(ready(domain.SingleValue("initial-value")))
	s.Observe(ready(domain.SingleValue("existing-namespace")))
	assert.Empty(t, params.updates)

	// The URL value is now the last synced value.
	s.Observe(ready(domain.SingleValue("existing-namespace")))
	assert.Empty(t, params.updates)
}

func TestSyncer_AllValueRemovesParam(t *testing.T) {
	t.Parallel()

	params := &recordingParams{current: url.Values{}}
	s := urlsync.NewSyncer(params)

	s.Observe(ready(domain.SingleValue("specific-namespace")))
	s.Observe(ready(domain.SingleValue("$__all")))

	require.Len(t, params.updates, 1)
	got := params.updates[0](url.Values{"var-namespace": {"old-value"}})
	_, present := got["var-namespace"]
	assert.False(t, present)
}

func TestSyncer_EmptyAfterBaselineIsIgnored(t *testing.T) {
	t.Parallel()

	params := &recordingParams{current: url.Values{}}
	s := urlsync.NewSyncer(params)

	s.Observe(ready(domain.SingleValue("specific-namespace")))
	s.Observe(ready(domain.SingleValue("")))
	assert.Empty(t, params.updates)
}

func TestSyncer_PreservesOtherParams(t *testing.T) {
	t.Parallel()

	params := urlsync.NewURLParams(url.Values{
		"dashboard":   {"test"},
		"other-param": {"value"},
	})
	s := urlsync.NewSyncer(params)

	s.Observe(ready(domain.SingleValue("initial")))
	s.Observe(ready(domain.SingleValue("new-namespace")))

	got := params.Values()
	assert.Equal(t, "new-namespace", got.Get("var-namespace"))
	assert.Equal(t, "value", got.Get("other-param"))
	assert.Equal(t, "test", got.Get("dashboard"))
	assert.Equal(t, 1, params.Writes())
}

func TestSyncer_SequenceOfChanges(t *testing.T) {
	t.Parallel()

	params := urlsync.NewURLParams(nil)
	s := urlsync.NewSyncer(params)

	steps := []struct {
		value      *domain.DefaultValue
		wantParam  string
		wantWrites int
	}{
		{value: domain.SingleValue("$__all"), wantParam: "", wantWrites: 0},
		{value: domain.SingleValue("a"), wantParam: "a", wantWrites: 1},
		{value: domain.SliceValue([]string{"a", "b"}), wantParam: "a,b", wantWrites: 2},
		{value: domain.SliceValue([]string{"a", "b"}), wantParam: "a,b", wantWrites: 2},
		{value: domain.SingleValue("$__all"), wantParam: "", wantWrites: 3},
		{value: domain.SingleValue("b"), wantParam: "b", wantWrites: 4},
	}

	for i, step := range steps {
		s.Observe(ready(step.value))
		assert.Equal(t, step.wantParam, params.Get("var-namespace"), "step %d", i)
		assert.Equal(t, step.wantWrites, params.Writes(), "step %d", i)
	}
}

func TestAttach(t *testing.T) {
	t.Parallel()

	store := urlsync.NewStore()
	params := urlsync.NewURLParams(url.Values{"var-namespace": {"team-a"}})

	store.Set("namespace", urlsync.VariableState{Loading: true})
	detach := urlsync.Attach(store, params)

	store.Set("namespace", urlsync.VariableState{Value: domain.SingleValue("team-a")})
	store.Set("namespace", urlsync.VariableState{Value: domain.SingleValue("team-b")})
	assert.Equal(t, "team-b", params.Get("var-namespace"))
	assert.Equal(t, 1, params.Writes())

	// Other variables are not synced.
	store.Set("cluster", urlsync.VariableState{Value: domain.SingleValue("c1")})
	assert.Equal(t, 1, params.Writes())

	detach()
	store.Set("namespace", urlsync.VariableState{Value: domain.SingleValue("team-c")})
	assert.Equal(t, "team-b", params.Get("var-namespace"))
	assert.Equal(t, 1, params.Writes())
}
