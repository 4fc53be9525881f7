// Package jsonschema reflects a typed configuration struct into a JSON Schema
// document for the spec command output.
package jsonschema

import (
	"fmt"
	"reflect"
	"sort"
	"strings"
	"time"
)

// Reflect builds a JSON Schema for the given struct value. Field names come
// from json tags, required fields from `validate:"required"` tags, human hints
// from `description` tags.
func Reflect(v any) (map[string]any, error) {
	typ := reflect.TypeOf(v)
	for typ != nil && typ.Kind() == reflect.Ptr {
		typ = typ.Elem()
	}
	if typ == nil || typ.Kind() != reflect.Struct {
		return nil, fmt.Errorf("can only reflect struct types, got %v", typ)
	}

	schema := reflectStruct(typ)
	schema["$schema"] = "http://json-schema.org/draft-07/schema#"
	return schema, nil
}

func reflectStruct(typ reflect.Type) map[string]any {
	properties := make(map[string]any)
	required := []string{}

	for i := 0; i < typ.NumField(); i++ {
		field := typ.Field(i)
		if !field.IsExported() {
			continue
		}

		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			continue
		}
		if name == "" {
			name = field.Name
		}

		prop := reflectType(field.Type)
		if description := field.Tag.Get("description"); description != "" {
			prop["description"] = description
		}
		properties[name] = prop

		if strings.Contains(field.Tag.Get("validate"), "required") {
			required = append(required, name)
		}
	}

	sort.Strings(required)
	schema := map[string]any{
		"type":       "object",
		"properties": properties,
	}
	if len(required) > 0 {
		schema["required"] = required
	}

	return schema
}

func reflectType(typ reflect.Type) map[string]any {
	for typ.Kind() == reflect.Ptr {
		typ = typ.Elem()
	}

	if typ == reflect.TypeOf(time.Time{}) {
		return map[string]any{"type": "string", "format": "date-time"}
	}

	switch typ.Kind() {
	case reflect.String:
		return map[string]any{"type": "string"}
	case reflect.Bool:
		return map[string]any{"type": "boolean"}
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return map[string]any{"type": "integer"}
	case reflect.Float32, reflect.Float64:
		return map[string]any{"type": "number"}
	case reflect.Slice, reflect.Array:
		return map[string]any{
			"type":  "array",
			"items": reflectType(typ.Elem()),
		}
	case reflect.Map:
		return map[string]any{
			"type":                 "object",
			"additionalProperties": true,
		}
	case reflect.Struct:
		// structs with a custom string form (e.g. timestamp wrappers) serialize
		// as strings; detect via encoding.TextMarshaler or json.Marshaler on value
		if hasStringMarshaler(typ) {
			return map[string]any{"type": "string"}
		}
		return reflectStruct(typ)
	default:
		return map[string]any{}
	}
}

func hasStringMarshaler(typ reflect.Type) bool {
	marshaler := reflect.TypeOf((*interface{ MarshalJSON() ([]byte, error) })(nil)).Elem()
	return typ.Implements(marshaler) || reflect.PtrTo(typ).Implements(marshaler)
}
