package officebuddy

import (
	"strconv"
	"strings"
)

// FieldKind is the value shape a schema field must hold.
type FieldKind int

// Field kinds.
const (
	KindString FieldKind = iota
	KindList
	KindObject
)

// String returns the kind name used in prompts and logs.
func (k FieldKind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindList:
		return "list"
	case KindObject:
		return "object"
	default:
		return "kind(" + strconv.Itoa(int(k)) + ")"
	}
}

// Field describes one key of an extraction schema.
type Field struct {
	Name string
	Kind FieldKind

	// Label is the human-readable name used in sentinels and prompt skeletons.
	// Defaults to Name with underscores replaced by spaces.
	Label string

	// Fields holds the children of a KindObject field.
	Fields []Field
}

// StringField returns a string field.
func StringField(name, label string) Field {
	return Field{Name: name, Kind: KindString, Label: label}
}

// ListField returns a list-of-strings field.
func ListField(name, label string) Field {
	return Field{Name: name, Kind: KindList, Label: label}
}

// ObjectField returns a nested object field.
func ObjectField(name string, fields ...Field) Field {
	return Field{Name: name, Kind: KindObject, Fields: fields}
}

func (f Field) label() string {
	if f.Label != "" {
		return f.Label
	}
	return strings.ReplaceAll(f.Name, "_", " ")
}

// Schema is the contract a pipeline stage's output must satisfy: the exact
// set of keys and the shape of each value.
type Schema struct {
	Name   string
	Fields []Field

	// Sentinel, when set, replaces the per-field "Error: Could not extract
	// <label>" message for every leaf of the placeholder.
	Sentinel string
}

// NewSchema returns a schema with the given fields.
func NewSchema(name string, fields ...Field) Schema {
	return Schema{Name: name, Fields: fields}
}

// Keys returns the top-level keys in declaration order.
func (s Schema) Keys() []string {
	keys := make([]string, 0, len(s.Fields))
	for _, f := range s.Fields {
		keys = append(keys, f.Name)
	}
	return keys
}

func (s Schema) sentinel(f Field) string {
	if s.Sentinel != "" {
		return s.Sentinel
	}
	return "Error: Could not extract " + f.label()
}

// Placeholder returns a schema-conformant result whose every leaf is a
// human-readable sentinel. Lists hold exactly one sentinel element.
func (s Schema) Placeholder() StageResult {
	return s.placeholder(s.Fields)
}

func (s Schema) placeholder(fields []Field) StageResult {
	result := make(StageResult, len(fields))
	for _, f := range fields {
		result[f.Name] = s.placeholderValue(f)
	}
	return result
}

func (s Schema) placeholderValue(f Field) any {
	switch f.Kind {
	case KindList:
		return []string{s.sentinel(f)}
	case KindObject:
		return s.placeholder(f.Fields)
	default:
		return s.sentinel(f)
	}
}

// Conform projects a parsed object onto the schema. Keys outside the schema
// are dropped and lists are converted to []string. Missing or wrongly shaped
// values are replaced with their sentinel; ok reports whether none were.
// A nil object yields the full placeholder.
func (s Schema) Conform(obj map[string]any) (result StageResult, ok bool) {
	if obj == nil {
		return s.Placeholder(), false
	}
	return s.conform(s.Fields, obj)
}

func (s Schema) conform(fields []Field, obj map[string]any) (StageResult, bool) {
	result := make(StageResult, len(fields))
	ok := true
	for _, f := range fields {
		v, fieldOK := s.conformValue(f, obj[f.Name])
		result[f.Name] = v
		ok = ok && fieldOK
	}
	return result, ok
}

func (s Schema) conformValue(f Field, v any) (any, bool) {
	switch f.Kind {
	case KindString:
		if str, ok := v.(string); ok {
			return str, true
		}
	case KindList:
		if list, ok := toStrings(v); ok {
			return list, true
		}
	case KindObject:
		if m, ok := toObject(v); ok {
			return s.conform(f.Fields, m)
		}
		return s.placeholder(f.Fields), false
	}
	return s.placeholderValue(f), false
}

func toStrings(v any) ([]string, bool) {
	switch list := v.(type) {
	case []string:
		return append([]string{}, list...), true
	case []any:
		out := make([]string, 0, len(list))
		for _, item := range list {
			str, ok := item.(string)
			if !ok {
				return nil, false
			}
			out = append(out, str)
		}
		return out, true
	}
	return nil, false
}

func toObject(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case map[string]any:
		return m, true
	case StageResult:
		return m, true
	}
	return nil, false
}

// Skeleton renders an indented JSON outline of the schema for use in prompts.
func (s Schema) Skeleton() string {
	var sb strings.Builder
	writeSkeleton(&sb, s.Fields, 0)
	return sb.String()
}

func writeSkeleton(sb *strings.Builder, fields []Field, depth int) {
	indent := strings.Repeat("    ", depth+1)
	sb.WriteString("{\n")
	for i, f := range fields {
		sb.WriteString(indent)
		sb.WriteString(strconv.Quote(f.Name))
		sb.WriteString(": ")
		switch f.Kind {
		case KindList:
			l := f.label()
			sb.WriteString("[" + strconv.Quote(l+" 1") + ", " + strconv.Quote(l+" 2") + ", ...]")
		case KindObject:
			writeSkeleton(sb, f.Fields, depth+1)
		default:
			sb.WriteString(strconv.Quote(f.label()))
		}
		if i < len(fields)-1 {
			sb.WriteString(",")
		}
		sb.WriteString("\n")
	}
	sb.WriteString(strings.Repeat("    ", depth))
	sb.WriteString("}")
}
