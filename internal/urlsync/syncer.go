package urlsync

import (
	"net/url"
	"sync"

	"github.com/donaldgifford/perses-gateway/pkg/dashboards"
)

// Syncer writes observed namespace values into the NamespaceURLParam search
// param.
//
// The first usable observation is taken as the baseline and never written:
// at that point the URL already describes the page. Later observations are
// written only when they differ from both the last synced value and what the
// URL already holds.
type Syncer struct {
	params SearchParams
	param  string

	mu              sync.Mutex
	lastSyncedValue string
	hasInitialized  bool
}

// NewSyncer creates a Syncer writing to params.
func NewSyncer(params SearchParams) *Syncer {
	return &Syncer{params: params, param: dashboards.NamespaceURLParam}
}

// Observe feeds one state of the namespace variable to the syncer. Absent,
// empty or loading states are ignored.
func (s *Syncer) Observe(state *VariableState) {
	if state == nil || state.Loading || state.Value.IsEmpty() {
		return
	}
	value := state.Value.String()

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.hasInitialized {
		s.lastSyncedValue = value
		s.hasInitialized = true
		return
	}

	if value == s.lastSyncedValue {
		return
	}
	if s.params.Get(s.param) == value {
		s.lastSyncedValue = value
		return
	}

	s.params.Replace(func(q url.Values) url.Values {
		if value == dashboards.AllValue {
			q.Del(s.param)
		} else {
			q.Set(s.param, value)
		}
		return q
	})
	s.lastSyncedValue = value
}

// Attach subscribes a new Syncer for params to the namespace variable of
// store. Call the returned func to detach it.
func Attach(store *Store, params SearchParams) (detach func()) {
	s := NewSyncer(params)
	return store.Subscribe(dashboards.NamespaceVariableName, s.Observe)
}
