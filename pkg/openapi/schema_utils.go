package openapi

import (
	"encoding/json"
	"reflect"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	timeType = reflect.TypeOf(time.Time{})
	uuidType = reflect.TypeOf(uuid.UUID{})
	rawType  = reflect.TypeOf(json.RawMessage{})
)

// GenerateSchema creates an OpenAPI schema from a Go struct using reflection
func GenerateSchema(v interface{}) *Schema {
	if v == nil {
		return nil
	}

	t := reflect.TypeOf(v)
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	return typeToSchema(t, map[reflect.Type]bool{})
}

func typeToSchema(t reflect.Type, seen map[reflect.Type]bool) *Schema {
	switch t {
	case timeType:
		return &Schema{Type: "string", Format: "date-time"}
	case uuidType:
		return &Schema{Type: "string", Format: "uuid"}
	case rawType:
		return &Schema{}
	}

	switch t.Kind() {
	case reflect.Struct:
		// Self-referencing types are cut off at the second visit
		if seen[t] {
			return &Schema{Type: "object"}
		}
		seen[t] = true
		defer delete(seen, t)

		schema := &Schema{
			Type:       "object",
			Properties: make(map[string]*Schema),
		}
		addFields(schema, t, seen)
		return schema

	case reflect.Slice, reflect.Array:
		if t.Elem().Kind() == reflect.Uint8 {
			return &Schema{Type: "string", Format: "byte"}
		}
		return &Schema{
			Type:  "array",
			Items: typeToSchema(t.Elem(), seen),
		}

	case reflect.Map:
		return &Schema{
			Type:                 "object",
			AdditionalProperties: typeToSchema(t.Elem(), seen),
		}

	case reflect.String:
		return &Schema{Type: "string"}

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return &Schema{Type: "integer"}

	case reflect.Float32, reflect.Float64:
		return &Schema{Type: "number"}

	case reflect.Bool:
		return &Schema{Type: "boolean"}

	case reflect.Ptr:
		schema := typeToSchema(t.Elem(), seen)
		schema.Nullable = true
		return schema

	case reflect.Interface:
		return &Schema{}

	default:
		return &Schema{Type: "string"} // Fallback
	}
}

// addFields adds the exported fields of t to schema, flattening embedded structs
// the way encoding/json does. Fields without omitempty are listed as required.
func addFields(schema *Schema, t reflect.Type, seen map[reflect.Type]bool) {
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)

		jsonTag := field.Tag.Get("json")
		if jsonTag == "-" {
			continue
		}
		name, opts, _ := strings.Cut(jsonTag, ",")

		if field.Anonymous && name == "" {
			ft := field.Type
			if ft.Kind() == reflect.Ptr {
				// encoding/json ignores embedded pointers to unexported structs
				if !field.IsExported() {
					continue
				}
				ft = ft.Elem()
			}
			if ft.Kind() == reflect.Struct {
				addFields(schema, ft, seen)
				continue
			}
		}
		if !field.IsExported() {
			continue
		}

		if name == "" {
			name = field.Name
		}

		propSchema := typeToSchema(field.Type, seen)
		if propSchema == nil {
			continue
		}
		schema.Properties[name] = propSchema
		if !strings.Contains(opts, "omitempty") && field.Type.Kind() != reflect.Ptr {
			schema.Required = append(schema.Required, name)
		}
	}
}
