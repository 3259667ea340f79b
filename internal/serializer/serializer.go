package serializer

import (
	"fmt"
	"reflect"
)

var serializers = make(Serializers)

type Serializers map[reflect.Type]Serializer

// Serializer maps a model value onto its API representation.
type Serializer interface {
	Serialize(input any) (any, error)
}

// SerializerFunc adapts a plain function to Serializer.
type SerializerFunc func(input any) (any, error)

func (f SerializerFunc) Serialize(input any) (any, error) {
	return f(input)
}

// Register registers a model and its serializer
func Register(model any, serializer Serializer) {
	serializers[reflect.TypeOf(model)] = serializer
}

// Serialize looks up the serializer registered for the dynamic type of model.
// Slices and arrays are serialized element by element into a []any.
func Serialize(model any) (any, error) {
	if model == nil {
		return nil, nil
	}

	t := reflect.TypeOf(model)
	if s, ok := serializers[t]; ok {
		return s.Serialize(model)
	}

	if t.Kind() == reflect.Slice || t.Kind() == reflect.Array {
		v := reflect.ValueOf(model)
		out := make([]any, 0, v.Len())
		for i := 0; i < v.Len(); i++ {
			item, err := Serialize(v.Index(i).Interface())
			if err != nil {
				return nil, err
			}
			out = append(out, item)
		}
		return out, nil
	}

	return nil, fmt.Errorf("no serializer found for model %T", model)
}

// register wraps a typed mapping function so callers never deal with any.
func register[M any, A any](fn func(M) A) {
	var zero M
	Register(zero, SerializerFunc(func(input any) (any, error) {
		m, ok := input.(M)
		if !ok {
			return nil, fmt.Errorf("serializer for %T received %T", zero, input)
		}
		return fn(m), nil
	}))
}
