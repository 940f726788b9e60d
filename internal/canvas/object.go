package canvas

import (
	"fmt"
	"math"
	"regexp"
	"strconv"

	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	utiljson "k8s.io/apimachinery/pkg/util/json"

	"github.com/tranphat180603/canvas-cli/internal/timeutil"
)

// Object is an upstream Canvas resource as decoded JSON. Accessors are total:
// a missing, null or mistyped field yields nil or the zero default.
type Object map[string]interface{}

var digits = regexp.MustCompile(`\d+`)

// decodeObject decodes a single resource. Integral numbers become int64.
func decodeObject(data []byte) (Object, error) {
	var m map[string]interface{}
	if err := utiljson.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to decode canvas object: %w", err)
	}
	return Object(m), nil
}

// decodeObjects decodes a JSON array of resources, skipping non-object elements.
func decodeObjects(data []byte) ([]Object, error) {
	var list []interface{}
	if err := utiljson.Unmarshal(data, &list); err != nil {
		return nil, fmt.Errorf("failed to decode canvas list: %w", err)
	}
	out := make([]Object, 0, len(list))
	for _, v := range list {
		if m, ok := v.(map[string]interface{}); ok {
			out = append(out, Object(m))
		}
	}
	return out, nil
}

// Raw returns the value at path, or nil.
func (o Object) Raw(path ...string) interface{} {
	v, found, err := unstructured.NestedFieldNoCopy(o, path...)
	if err != nil || !found {
		return nil
	}
	return v
}

// Has reports whether path is present, even when its value is null.
func (o Object) Has(path ...string) bool {
	_, found, err := unstructured.NestedFieldNoCopy(o, path...)
	return err == nil && found
}

// String returns the string at path.
func (o Object) String(path ...string) *string {
	s, ok := o.Raw(path...).(string)
	if !ok {
		return nil
	}
	return &s
}

// ID returns a numeric identifier at path. Strings yield their first run of
// digits and nested objects their own id.
func (o Object) ID(path ...string) *int64 {
	return toID(o.Raw(path...))
}

func toID(v interface{}) *int64 {
	switch val := v.(type) {
	case int64:
		return &val
	case int:
		id := int64(val)
		return &id
	case float64:
		if val != math.Trunc(val) {
			return nil
		}
		id := int64(val)
		return &id
	case string:
		if id, err := strconv.ParseInt(val, 10, 64); err == nil {
			return &id
		}
		m := digits.FindString(val)
		if m == "" {
			return nil
		}
		id, err := strconv.ParseInt(m, 10, 64)
		if err != nil {
			return nil
		}
		return &id
	case map[string]interface{}:
		return toID(val["id"])
	}
	return nil
}

// Int returns the integer at path.
func (o Object) Int(path ...string) *int {
	switch val := o.Raw(path...).(type) {
	case int64:
		n := int(val)
		return &n
	case float64:
		if val != math.Trunc(val) {
			return nil
		}
		n := int(val)
		return &n
	}
	return nil
}

// Count returns the integer at path, or 0.
func (o Object) Count(path ...string) int {
	if n := o.Int(path...); n != nil {
		return *n
	}
	return 0
}

// Int64 returns the 64-bit integer at path.
func (o Object) Int64(path ...string) *int64 {
	switch val := o.Raw(path...).(type) {
	case int64:
		return &val
	case float64:
		if val != math.Trunc(val) {
			return nil
		}
		n := int64(val)
		return &n
	}
	return nil
}

// Float returns the number at path.
func (o Object) Float(path ...string) *float64 {
	switch val := o.Raw(path...).(type) {
	case float64:
		return &val
	case int64:
		f := float64(val)
		return &f
	}
	return nil
}

// Bool returns the boolean at path.
func (o Object) Bool(path ...string) *bool {
	b, ok := o.Raw(path...).(bool)
	if !ok {
		return nil
	}
	return &b
}

// Flag returns the boolean at path, or false.
func (o Object) Flag(path ...string) bool {
	b, _ := o.Raw(path...).(bool)
	return b
}

// Time returns the timestamp at path in canonical form.
func (o Object) Time(path ...string) *string {
	return timeutil.Normalize(o.Raw(path...))
}

// Object returns the nested object at path.
func (o Object) Object(path ...string) Object {
	m, ok := o.Raw(path...).(map[string]interface{})
	if !ok {
		return nil
	}
	return Object(m)
}

// Objects returns the nested objects at path, skipping other elements.
func (o Object) Objects(path ...string) []Object {
	list, ok := o.Raw(path...).([]interface{})
	if !ok {
		return nil
	}
	out := make([]Object, 0, len(list))
	for _, v := range list {
		if m, ok := v.(map[string]interface{}); ok {
			out = append(out, Object(m))
		}
	}
	return out
}

// Strings returns the strings at path. The result is never nil.
func (o Object) Strings(path ...string) []string {
	out := []string{}
	list, ok := o.Raw(path...).([]interface{})
	if !ok {
		return out
	}
	for _, v := range list {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// IDs returns the identifiers at path. The result is never nil.
func (o Object) IDs(path ...string) []int64 {
	out := []int64{}
	list, ok := o.Raw(path...).([]interface{})
	if !ok {
		return out
	}
	for _, v := range list {
		if id := toID(v); id != nil {
			out = append(out, *id)
		}
	}
	return out
}

// List returns the raw elements at path. The result is never nil.
func (o Object) List(path ...string) []interface{} {
	list, ok := o.Raw(path...).([]interface{})
	if !ok {
		return []interface{}{}
	}
	return list
}
