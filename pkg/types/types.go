// Package domain defines the Perses resource types handled by the gateway.
//
// Dashboards are decoded only as far as the gateway needs to inspect them.
// Everything else in a dashboard spec (panels, layouts, datasources, ...) is
// carried through untouched so a round trip never drops fields.
package domain

import (
	"encoding/json"
	"fmt"
	"time"
)

// Resource kinds as reported by the Perses API.
const (
	KindDashboard        = "Dashboard"
	KindProject          = "Project"
	KindDatasource       = "Datasource"
	KindGlobalDatasource = "GlobalDatasource"
)

// Metadata is the common metadata block of a Perses resource. Project is
// empty for global resources.
type Metadata struct {
	Name      string     `json:"name"`
	Project   string     `json:"project,omitempty"`
	CreatedAt *time.Time `json:"createdAt,omitempty"`
	UpdatedAt *time.Time `json:"updatedAt,omitempty"`
	Version   uint64     `json:"version,omitempty"`
}

// Display holds the human readable label of a resource.
type Display struct {
	Name        string `json:"name,omitempty"`
	Description string `json:"description,omitempty"`
}

// Project is a Perses project. It is distinct from the platform's own
// project list: Perses only knows the projects that own dashboards or
// datasources.
type Project struct {
	Kind     string   `json:"kind"`
	Metadata Metadata `json:"metadata"`
}

// Dashboard is a Perses dashboard resource. Treat values as immutable:
// transformations return new dashboards instead of editing in place.
type Dashboard struct {
	Kind     string        `json:"kind"`
	Metadata Metadata      `json:"metadata"`
	Spec     DashboardSpec `json:"spec"`
}

// DashboardSpec is the decoded part of a dashboard spec. Fields the gateway
// does not interpret are kept verbatim in Extra.
type DashboardSpec struct {
	Display   *Display                   `json:"display,omitempty"`
	Variables []Variable                 `json:"variables"`
	Extra     map[string]json.RawMessage `json:"-"`
}

const (
	specDisplayKey   = "display"
	specVariablesKey = "variables"
)

// UnmarshalJSON decodes display and variables and keeps every other key.
func (s *DashboardSpec) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("decoding dashboard spec: %w", err)
	}

	*s = DashboardSpec{}

	if d, ok := raw[specDisplayKey]; ok {
		if err := json.Unmarshal(d, &s.Display); err != nil {
			return fmt.Errorf("decoding dashboard display: %w", err)
		}
		delete(raw, specDisplayKey)
	}

	if v, ok := raw[specVariablesKey]; ok {
		if err := json.Unmarshal(v, &s.Variables); err != nil {
			return fmt.Errorf("decoding dashboard variables: %w", err)
		}
		delete(raw, specVariablesKey)
	}

	if len(raw) > 0 {
		s.Extra = raw
	}
	return nil
}

// MarshalJSON re-assembles the spec from the decoded fields and Extra.
func (s DashboardSpec) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(s.Extra)+2)
	for k, v := range s.Extra {
		out[k] = v
	}
	if s.Display != nil {
		out[specDisplayKey] = s.Display
	}
	if s.Variables != nil {
		out[specVariablesKey] = s.Variables
	} else {
		out[specVariablesKey] = []Variable{}
	}
	return json.Marshal(out)
}

// Plugin describes how a variable's values or a datasource's backend are
// computed. Spec is plugin specific and kept as raw JSON.
type Plugin struct {
	Kind string          `json:"kind"`
	Spec json.RawMessage `json:"spec,omitempty"`
}
