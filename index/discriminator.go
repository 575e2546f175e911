package index

import (
	"reflect"
	"strings"
)

// Discriminator extracts the raw value an index stores for a document.
// ok is false when the document does not have the value at all.
type Discriminator interface {
	Discriminate(doc any) (v any, ok bool)
}

// DiscriminatorFunc adapts a function to Discriminator.
type DiscriminatorFunc func(doc any) (any, bool)

// Discriminate implements Discriminator.
func (f DiscriminatorFunc) Discriminate(doc any) (any, bool) { return f(doc) }

// FieldGetter is implemented by documents that look up their own fields.
type FieldGetter interface {
	FieldValue(name string) (any, bool)
}

// ValueDiscriminator reads a named field from a document.
//
// Lookup order: FieldGetter, map key, then exported struct field tagged
// `retrieval:"<name>"`, named exactly, or matching case-insensitively.
type ValueDiscriminator struct {
	Field string
}

// Discriminate implements Discriminator.
func (d ValueDiscriminator) Discriminate(doc any) (any, bool) {
	switch x := doc.(type) {
	case nil:
		return nil, false
	case FieldGetter:
		return x.FieldValue(d.Field)
	case map[string]any:
		v, ok := x[d.Field]
		return v, ok
	}

	rv := reflect.ValueOf(doc)
	for rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return nil, false
		}
		rv = rv.Elem()
	}

	switch rv.Kind() {
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return nil, false
		}
		v := rv.MapIndex(reflect.ValueOf(d.Field).Convert(rv.Type().Key()))
		if !v.IsValid() {
			return nil, false
		}
		return v.Interface(), true
	case reflect.Struct:
		f, ok := structField(rv, d.Field)
		if !ok {
			return nil, false
		}
		return f.Interface(), true
	}
	return nil, false
}

func structField(rv reflect.Value, name string) (reflect.Value, bool) {
	t := rv.Type()
	fold := -1
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		if !sf.IsExported() {
			continue
		}
		if tag, _, _ := strings.Cut(sf.Tag.Get("retrieval"), ","); tag != "" {
			if tag == "-" {
				continue
			}
			if tag == name {
				return rv.Field(i), true
			}
			continue
		}
		if sf.Name == name {
			return rv.Field(i), true
		}
		if fold < 0 && strings.EqualFold(sf.Name, strings.ReplaceAll(name, "_", "")) {
			fold = i
		}
	}
	if fold >= 0 {
		return rv.Field(fold), true
	}
	return reflect.Value{}, false
}
