package domain

// Datasource is a Perses Datasource or GlobalDatasource resource.
type Datasource struct {
	Kind     string         `json:"kind"`
	Metadata Metadata       `json:"metadata"`
	Spec     DatasourceSpec `json:"spec"`
}

// DatasourceSpec describes the backend a datasource points at.
type DatasourceSpec struct {
	Display *Display `json:"display,omitempty"`
	Default bool     `json:"default"`
	Plugin  Plugin   `json:"plugin"`
}

// DatasourceSelector identifies a class of datasource plugin, optionally
// narrowed to one datasource by name. An empty Name selects the default
// datasource of that kind.
type DatasourceSelector struct {
	Kind string `json:"kind"`
	Name string `json:"name,omitempty"`
}
