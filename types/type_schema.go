package types

import (
	"fmt"
	"sync"

	"github.com/goccy/go-json"
)

// TypeSchema is the JSON Schema document attached to a stream. Properties use
// sync.Map since discovery may populate columns concurrently.
type TypeSchema struct {
	Properties           sync.Map
	AdditionalProperties bool
}

func NewTypeSchema() *TypeSchema {
	return &TypeSchema{
		Properties: sync.Map{},
	}
}

// MarshalJSON custom marshaller to handle sync.Map encoding
func (t *TypeSchema) MarshalJSON() ([]byte, error) {
	propertiesMap := make(map[string]*Property)
	t.Properties.Range(func(key, value interface{}) bool {
		strKey, ok := key.(string)
		if !ok {
			return false
		}
		prop, ok := value.(*Property)
		if !ok {
			return false
		}
		propertiesMap[strKey] = prop
		return true
	})

	return json.Marshal(&struct {
		Type                 string               `json:"type"`
		Properties           map[string]*Property `json:"properties,omitempty"`
		AdditionalProperties bool                 `json:"additionalProperties"`
	}{
		Type:                 "object",
		Properties:           propertiesMap,
		AdditionalProperties: t.AdditionalProperties,
	})
}

// UnmarshalJSON custom unmarshaller to handle sync.Map decoding
func (t *TypeSchema) UnmarshalJSON(data []byte) error {
	aux := &struct {
		Properties           map[string]*Property `json:"properties,omitempty"`
		AdditionalProperties bool                 `json:"additionalProperties"`
	}{}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	t.AdditionalProperties = aux.AdditionalProperties
	for key, value := range aux.Properties {
		t.Properties.Store(key, value)
	}

	return nil
}

func (t *TypeSchema) GetType(column string) (DataType, error) {
	p, found := t.Properties.Load(column)
	if !found {
		return "", fmt.Errorf("column [%s] missing from type schema", column)
	}

	return p.(*Property).DataType(), nil
}

func (t *TypeSchema) GetProperty(column string) (*Property, error) {
	p, found := t.Properties.Load(column)
	if !found {
		return nil, fmt.Errorf("column [%s] missing from type schema", column)
	}

	return p.(*Property), nil
}

func (t *TypeSchema) AddTypes(column string, types ...DataType) {
	p, found := t.Properties.Load(column)
	if !found {
		t.Properties.Store(column, &Property{
			Type: NewSet(types...),
		})

		return
	}

	property := p.(*Property)
	property.Type.Insert(types...)
}

// HasProperty reports whether the column is declared by the schema.
func (t *TypeSchema) HasProperty(column string) bool {
	_, found := t.Properties.Load(column)
	return found
}

// Fields returns the declared column names.
func (t *TypeSchema) Fields() []string {
	fields := []string{}
	t.Properties.Range(func(key, _ any) bool {
		fields = append(fields, key.(string))
		return true
	})
	return fields
}

// Property is a dto for schema properties representation
type Property struct {
	Type   *Set[DataType] `json:"type,omitempty"`
	Format string         `json:"format,omitempty"`
}

func (p *Property) DataType() DataType {
	for _, typ := range p.Type.Array() {
		if typ != NULL {
			return typ
		}
	}
	return NULL
}

func (p *Property) Nullable() bool {
	return p.Type.Exists(NULL)
}
