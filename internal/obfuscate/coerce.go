package obfuscate

import (
	"encoding/json"
	"fmt"
	"reflect"
)

// coerceCode extracts transformed source from whatever shape an engine
// returns. Plain strings and code-field results are first-class; anything
// else degrades to JSON serialization and finally to generic string
// conversion, so coercion itself never fails.
func coerceCode(result any) string {
	switch v := result.(type) {
	case nil:
		return ""
	case string:
		return v
	case []byte:
		return string(v)
	case interface{ Code() string }:
		return v.Code()
	case map[string]any:
		if code, ok := v["code"].(string); ok {
			return code
		}
	}

	if code, ok := codeField(result); ok {
		return code
	}
	if data, err := json.Marshal(result); err == nil {
		return string(data)
	}
	return fmt.Sprint(result)
}

// codeField reads a string Code field from struct results via reflection.
func codeField(result any) (string, bool) {
	rv := reflect.ValueOf(result)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return "", false
		}
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return "", false
	}

	field := rv.FieldByName("Code")
	if !field.IsValid() || field.Kind() != reflect.String {
		return "", false
	}
	return field.String(), true
}
