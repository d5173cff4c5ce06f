// Package jsonschema holds the JSON Schema representation that schema
// building projects config types into. The struct covers the draft-07
// vocabulary the library emits; anything it does not set marshals away via
// omitempty.
package jsonschema

import (
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Draft07 is the schema draft the library targets. Union support (anyOf) and
// patternProperties require at least draft-07.
const Draft07 = "http://json-schema.org/draft-07/schema#"

// Properties preserves property declaration order when the schema is
// marshaled.
type Properties = orderedmap.OrderedMap[string, *Schema]

// NewProperties returns an empty ordered property set.
func NewProperties() *Properties {
	return orderedmap.New[string, *Schema]()
}

// Schema is the JSON Schema node produced for a config type, a field, or a
// nested fragment.
type Schema struct {
	ID    string `json:"$id,omitempty"`
	Draft string `json:"$schema,omitempty"`

	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
	Default     any    `json:"default,omitempty"`
	Examples    []any  `json:"examples,omitempty"`

	Type string `json:"type,omitempty"`
	Enum []any  `json:"enum,omitempty"`

	// String
	Pattern   string `json:"pattern,omitempty"`
	MinLength *int   `json:"minLength,omitempty"`
	MaxLength *int   `json:"maxLength,omitempty"`

	// Numeric
	Minimum *float64 `json:"minimum,omitempty"`
	Maximum *float64 `json:"maximum,omitempty"`

	// Object
	Required          []string           `json:"required,omitempty"`
	Properties        *Properties        `json:"properties,omitempty"`
	PatternProperties map[string]*Schema `json:"patternProperties,omitempty"`
	MinProperties     *int               `json:"minProperties,omitempty"`
	MaxProperties     *int               `json:"maxProperties,omitempty"`

	// Array
	Items       *Schema `json:"items,omitempty"`
	MinItems    *int    `json:"minItems,omitempty"`
	MaxItems    *int    `json:"maxItems,omitempty"`
	UniqueItems bool    `json:"uniqueItems,omitempty"`
	Contains    any     `json:"contains,omitempty"`

	// Union
	AnyOf []*Schema `json:"anyOf,omitempty"`
}

// Merge copies every set field of other into s, used when a per-field node
// absorbs its type-specific fragment.
func (s *Schema) Merge(other *Schema) *Schema {
	if other == nil {
		return s
	}
	if other.ID != "" {
		s.ID = other.ID
	}
	if other.Draft != "" {
		s.Draft = other.Draft
	}
	if other.Title != "" {
		s.Title = other.Title
	}
	if other.Description != "" {
		s.Description = other.Description
	}
	if other.Default != nil {
		s.Default = other.Default
	}
	if other.Examples != nil {
		s.Examples = other.Examples
	}
	if other.Type != "" {
		s.Type = other.Type
	}
	if other.Enum != nil {
		s.Enum = other.Enum
	}
	if other.Pattern != "" {
		s.Pattern = other.Pattern
	}
	if other.MinLength != nil {
		s.MinLength = other.MinLength
	}
	if other.MaxLength != nil {
		s.MaxLength = other.MaxLength
	}
	if other.Minimum != nil {
		s.Minimum = other.Minimum
	}
	if other.Maximum != nil {
		s.Maximum = other.Maximum
	}
	if other.Required != nil {
		s.Required = other.Required
	}
	if other.Properties != nil {
		s.Properties = other.Properties
	}
	if other.PatternProperties != nil {
		s.PatternProperties = other.PatternProperties
	}
	if other.MinProperties != nil {
		s.MinProperties = other.MinProperties
	}
	if other.MaxProperties != nil {
		s.MaxProperties = other.MaxProperties
	}
	if other.Items != nil {
		s.Items = other.Items
	}
	if other.MinItems != nil {
		s.MinItems = other.MinItems
	}
	if other.MaxItems != nil {
		s.MaxItems = other.MaxItems
	}
	if other.UniqueItems {
		s.UniqueItems = true
	}
	if other.Contains != nil {
		s.Contains = other.Contains
	}
	if other.AnyOf != nil {
		s.AnyOf = other.AnyOf
	}
	return s
}
