package jsonschema

// Schema is a minimal JSON Schema representation used for import and export.
// It covers the keywords the shapeval model can express plus the purely
// descriptive ones; anything else is rejected when decoding a document.
type Schema struct {
	// Descriptive (ignored by validation)
	Schema      string `json:"$schema,omitempty" yaml:"$schema,omitempty" mapstructure:"$schema"`
	ID          string `json:"$id,omitempty" yaml:"$id,omitempty" mapstructure:"$id"`
	Title       string `json:"title,omitempty" yaml:"title,omitempty" mapstructure:"title"`
	Description string `json:"description,omitempty" yaml:"description,omitempty" mapstructure:"description"`

	// Core
	Type string `json:"type,omitempty" yaml:"type,omitempty" mapstructure:"type"`
	Enum []any  `json:"enum,omitempty" yaml:"enum,omitempty" mapstructure:"enum"`

	// Object
	Properties           map[string]*Schema `json:"properties,omitempty" yaml:"properties,omitempty" mapstructure:"properties"`
	Required             []string           `json:"required,omitempty" yaml:"required,omitempty" mapstructure:"required"`
	AdditionalProperties any                `json:"additionalProperties,omitempty" yaml:"additionalProperties,omitempty" mapstructure:"additionalProperties"`

	// Array
	Items *Schema `json:"items,omitempty" yaml:"items,omitempty" mapstructure:"items"`
}
