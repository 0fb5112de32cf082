package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// VariableKind discriminates the variants of Variable.
type VariableKind string

// Known variable kinds. Anything else decodes as an opaque variant.
const (
	ListVariableKind VariableKind = "ListVariable"
	TextVariableKind VariableKind = "TextVariable"
)

// StaticListVariablePlugin is the plugin kind of a statically enumerated list.
const StaticListVariablePlugin = "StaticListVariable"

// Variable is a dashboard variable. Exactly one payload is set, selected by
// Kind: List for ListVariable, Text for TextVariable and Raw for every kind
// the gateway does not interpret.
type Variable struct {
	Kind VariableKind      `json:"kind"`
	List *ListVariableSpec `json:"-"`
	Text *TextVariableSpec `json:"-"`
	Raw  json.RawMessage   `json:"-"`
}

// Name returns the variable name, or "" for opaque variants.
func (v *Variable) Name() string {
	switch {
	case v.List != nil:
		return v.List.Name
	case v.Text != nil:
		return v.Text.Name
	default:
		return ""
	}
}

type variableEnvelope struct {
	Kind VariableKind    `json:"kind"`
	Spec json.RawMessage `json:"spec,omitempty"`
}

// UnmarshalJSON decodes the variant selected by the kind field.
func (v *Variable) UnmarshalJSON(data []byte) error {
	var env variableEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return fmt.Errorf("decoding variable: %w", err)
	}

	*v = Variable{Kind: env.Kind}

	switch env.Kind {
	case ListVariableKind:
		v.List = &ListVariableSpec{}
		if err := json.Unmarshal(env.Spec, v.List); err != nil {
			return fmt.Errorf("decoding list variable: %w", err)
		}
	case TextVariableKind:
		v.Text = &TextVariableSpec{}
		if err := json.Unmarshal(env.Spec, v.Text); err != nil {
			return fmt.Errorf("decoding text variable: %w", err)
		}
	default:
		v.Raw = env.Spec
	}
	return nil
}

// MarshalJSON encodes the variable back into its kind/spec envelope.
func (v Variable) MarshalJSON() ([]byte, error) {
	env := struct {
		Kind VariableKind `json:"kind"`
		Spec any          `json:"spec,omitempty"`
	}{Kind: v.Kind}

	switch {
	case v.List != nil:
		env.Spec = v.List
	case v.Text != nil:
		env.Spec = v.Text
	case v.Raw != nil:
		env.Spec = v.Raw
	}
	return json.Marshal(env)
}

// VariableDisplay is the display block of a variable.
type VariableDisplay struct {
	Name        string `json:"name,omitempty"`
	Description string `json:"description,omitempty"`
	Hidden      bool   `json:"hidden,omitempty"`
}

// ListVariableSpec is the payload of a ListVariable.
type ListVariableSpec struct {
	Name            string           `json:"name"`
	Display         *VariableDisplay `json:"display,omitempty"`
	DefaultValue    *DefaultValue    `json:"defaultValue,omitempty"`
	AllowAllValue   bool             `json:"allowAllValue"`
	AllowMultiple   bool             `json:"allowMultiple"`
	CustomAllValue  string           `json:"customAllValue,omitempty"`
	CapturingRegexp string           `json:"capturingRegexp,omitempty"`
	Sort            string           `json:"sort,omitempty"`
	Plugin          Plugin           `json:"plugin"`
}

// TextVariableSpec is the payload of a TextVariable.
type TextVariableSpec struct {
	Name     string           `json:"name"`
	Display  *VariableDisplay `json:"display,omitempty"`
	Value    string           `json:"value"`
	Constant bool             `json:"constant,omitempty"`
}

// ListValue is one entry of a StaticListVariable.
type ListValue struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// StaticListSpec is the plugin spec of a StaticListVariable.
type StaticListSpec struct {
	Values []ListValue `json:"values"`
}

// NewStaticListPlugin returns a StaticListVariable plugin enumerating values.
func NewStaticListPlugin(values []ListValue) Plugin {
	if values == nil {
		values = []ListValue{}
	}
	spec, err := json.Marshal(StaticListSpec{Values: values})
	if err != nil {
		// A slice of string pairs always encodes.
		panic(fmt.Sprintf("encoding static list spec: %v", err))
	}
	return Plugin{Kind: StaticListVariablePlugin, Spec: spec}
}

// StaticListValues decodes the values of a StaticListVariable plugin. It
// reports false for any other plugin kind.
func StaticListValues(p Plugin) ([]ListValue, bool) {
	if p.Kind != StaticListVariablePlugin {
		return nil, false
	}
	var spec StaticListSpec
	if err := json.Unmarshal(p.Spec, &spec); err != nil {
		return nil, false
	}
	return spec.Values, true
}

// DefaultValue is a variable value: either a single string or an ordered
// list of strings.
type DefaultValue struct {
	single string
	slice  []string
	multi  bool
}

// SingleValue returns a single string value.
func SingleValue(v string) *DefaultValue {
	return &DefaultValue{single: v}
}

// SliceValue returns a multi-value. The slice is copied.
func SliceValue(v []string) *DefaultValue {
	return &DefaultValue{slice: append([]string(nil), v...), multi: true}
}

// IsSlice reports whether the value holds a list of strings.
func (d *DefaultValue) IsSlice() bool {
	return d != nil && d.multi
}

// Values returns the value as a list; a single value yields one element.
func (d *DefaultValue) Values() []string {
	switch {
	case d == nil:
		return nil
	case d.multi:
		return append([]string(nil), d.slice...)
	default:
		return []string{d.single}
	}
}

// IsEmpty reports whether there is no usable value: nil, "" or an empty list.
func (d *DefaultValue) IsEmpty() bool {
	if d == nil {
		return true
	}
	if d.multi {
		return len(d.slice) == 0
	}
	return d.single == ""
}

// String joins list values with a comma, the URL encoding of a
// multi-value selection.
func (d *DefaultValue) String() string {
	switch {
	case d == nil:
		return ""
	case d.multi:
		return strings.Join(d.slice, ",")
	default:
		return d.single
	}
}

// MarshalJSON encodes a single value as a string and a list as an array.
func (d DefaultValue) MarshalJSON() ([]byte, error) {
	if d.multi {
		if d.slice == nil {
			return []byte("[]"), nil
		}
		return json.Marshal(d.slice)
	}
	return json.Marshal(d.single)
}

// UnmarshalJSON accepts either a string or an array of strings.
func (d *DefaultValue) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '[' {
		var s []string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("decoding default value list: %w", err)
		}
		*d = DefaultValue{slice: s, multi: true}
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("decoding default value: %w", err)
	}
	*d = DefaultValue{single: s}
	return nil
}
