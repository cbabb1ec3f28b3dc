package docstore

import (
	"encoding/json"
	"reflect"
	"strconv"

	"github.com/go-viper/mapstructure/v2"
)

var jsonUnmarshaler = reflect.TypeFor[json.Unmarshaler]()

// decodeLenient decodes fields into out, converting mistyped scalars
// instead of failing: numbers and bools become strings, numeric strings
// become numbers, and values of the wrong shape decode as zero. Types with
// their own UnmarshalJSON receive the raw value.
func decodeLenient(fields map[string]any, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:       mapstructure.DecodeHookFuncType(coerceHook),
		WeaklyTypedInput: true,
		TagName:          "json",
		Result:           out,
	})
	if err != nil {
		return err
	}
	v := reflect.ValueOf(out).Elem()
	v.Set(reflect.Zero(v.Type()))
	return dec.Decode(fields)
}

func coerceHook(from, to reflect.Type, data any) (any, error) {
	if data == nil {
		return data, nil
	}
	if to.Kind() != reflect.Pointer && reflect.PointerTo(to).Implements(jsonUnmarshaler) {
		raw, err := json.Marshal(data)
		if err != nil {
			return reflect.Zero(to).Interface(), nil
		}
		v := reflect.New(to)
		if err := v.Interface().(json.Unmarshaler).UnmarshalJSON(raw); err != nil {
			return reflect.Zero(to).Interface(), nil
		}
		return v.Elem().Interface(), nil
	}

	if from.Kind() == reflect.Bool && to.Kind() == reflect.String {
		return strconv.FormatBool(reflect.ValueOf(data).Bool()), nil
	}

	composite := from.Kind() == reflect.Map || from.Kind() == reflect.Slice
	switch to.Kind() {
	case reflect.String, reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		if composite {
			return reflect.Zero(to).Interface(), nil
		}
	case reflect.Struct:
		if from.Kind() != reflect.Map {
			return map[string]any{}, nil
		}
	}
	return data, nil
}
