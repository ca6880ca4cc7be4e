// Package binder populates request structs from the HTTP request: the JSON
// body, the query string and router path parameters. Binders compose, so a
// request type may mix sources:
//
//	type UpdateNoteRequest struct {
//		ID    uuid.UUID `path:"id"`
//		Title *string   `json:"title"`
//	}
//
//	handler.Wrap(h, handler.WithBinders[handler.Context, UpdateNoteRequest](
//		binder.Path(chi.URLParam),
//		binder.JSON(),
//	))
package binder

import (
	"encoding"
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

// parseFieldTag returns the parameter name for a field and whether it should
// be skipped. Fields without a tag are skipped.
func parseFieldTag(field reflect.StructField, tag string) (string, bool) {
	raw, ok := field.Tag.Lookup(tag)
	if !ok || raw == "-" {
		return "", true
	}
	name, _, _ := strings.Cut(raw, ",")
	if name == "" {
		name = field.Name
	}
	return name, false
}

func structValue(v any) (reflect.Value, error) {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return reflect.Value{}, ErrInvalidTarget
	}
	rv = rv.Elem()
	if rv.Kind() != reflect.Struct {
		return reflect.Value{}, ErrInvalidTarget
	}
	return rv, nil
}

// bindValues sets every tagged field that has at least one value in lookup.
func bindValues(v any, tag string, lookup func(name string) []string, sentinel error) error {
	rv, err := structValue(v)
	if err != nil {
		return err
	}
	rt := rv.Type()

	for i := range rv.NumField() {
		field := rv.Field(i)
		ft := rt.Field(i)
		if !field.CanSet() {
			continue
		}
		name, skip := parseFieldTag(ft, tag)
		if skip {
			continue
		}
		values := lookup(name)
		if len(values) == 0 {
			continue
		}
		if err := setField(field, values); err != nil {
			return fmt.Errorf("%w: %s: %v", sentinel, name, err)
		}
	}
	return nil
}

var textUnmarshalerType = reflect.TypeFor[encoding.TextUnmarshaler]()

func setField(field reflect.Value, values []string) error {
	if field.Kind() == reflect.Pointer {
		ptr := reflect.New(field.Type().Elem())
		if err := setField(ptr.Elem(), values); err != nil {
			return err
		}
		field.Set(ptr)
		return nil
	}

	if reflect.PointerTo(field.Type()).Implements(textUnmarshalerType) {
		return field.Addr().Interface().(encoding.TextUnmarshaler).UnmarshalText([]byte(values[0]))
	}

	if field.Kind() == reflect.Slice {
		var items []string
		for _, v := range values {
			for item := range strings.SplitSeq(v, ",") {
				if item = strings.TrimSpace(item); item != "" {
					items = append(items, item)
				}
			}
		}
		slice := reflect.MakeSlice(field.Type(), len(items), len(items))
		for i, item := range items {
			if err := setScalar(slice.Index(i), item); err != nil {
				return err
			}
		}
		field.Set(slice)
		return nil
	}

	return setScalar(field, values[0])
}

func setScalar(field reflect.Value, value string) error {
	switch field.Kind() {
	case reflect.String:
		field.SetString(value)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := strconv.ParseInt(value, 10, field.Type().Bits())
		if err != nil {
			return err
		}
		field.SetInt(n)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n, err := strconv.ParseUint(value, 10, field.Type().Bits())
		if err != nil {
			return err
		}
		field.SetUint(n)
	case reflect.Float32, reflect.Float64:
		n, err := strconv.ParseFloat(value, field.Type().Bits())
		if err != nil {
			return err
		}
		field.SetFloat(n)
	case reflect.Bool:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return err
		}
		field.SetBool(b)
	default:
		return fmt.Errorf("unsupported field type %s", field.Type())
	}
	return nil
}
