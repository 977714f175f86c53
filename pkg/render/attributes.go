package render

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/bytedance/sonic"

	"github.com/vango-dev/weave/internal/errors"
	"github.com/vango-dev/weave/pkg/vdom"
)

// SerializeAttrs renders attrs as they appear inside an opening tag,
// without the leading space. Keys keep their order.
//
//   - nil, false and nil pointers are dropped
//   - true renders the bare key
//   - slices join their elements with a single space
//   - maps and structs are JSON encoded and single quoted
//   - anything else is stringified and double quoted
//
// Functions, channels and complex numbers cannot be serialized and yield
// an InvalidAttribute error.
func SerializeAttrs(attrs vdom.Attrs) (string, error) {
	if len(attrs) == 0 {
		return "", nil
	}
	parts := make([]string, 0, len(attrs))
	for _, a := range attrs {
		if a.IsEmpty() {
			continue
		}
		if !validAttrName(a.Key) {
			return "", invalidAttr(a.Key, "invalid attribute name")
		}
		var b strings.Builder
		ok, err := writeAttr(&b, a.Key, a.Value)
		if err != nil {
			return "", err
		}
		if ok {
			parts = append(parts, b.String())
		}
	}
	return strings.Join(parts, " "), nil
}

// writeAttr appends one key/value pair. It reports false when the
// attribute is omitted.
func writeAttr(b *strings.Builder, key string, value any) (bool, error) {
	switch v := value.(type) {
	case nil:
		return false, nil
	case bool:
		if !v {
			return false, nil
		}
		b.WriteString(key)
		return true, nil
	case string:
		writeQuoted(b, key, v)
		return true, nil
	case []string:
		writeQuoted(b, key, strings.Join(v, " "))
		return true, nil
	case int:
		writeQuoted(b, key, strconv.Itoa(v))
		return true, nil
	case int64:
		writeQuoted(b, key, strconv.FormatInt(v, 10))
		return true, nil
	case float64:
		writeQuoted(b, key, strconv.FormatFloat(v, 'g', -1, 64))
		return true, nil
	case fmt.Stringer:
		if isNilPointer(value) {
			return false, nil
		}
		writeQuoted(b, key, v.String())
		return true, nil
	}

	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Func, reflect.Chan, reflect.UnsafePointer, reflect.Complex64, reflect.Complex128:
		return false, invalidAttr(key, fmt.Sprintf("unsupported value of type %T", value))

	case reflect.Pointer:
		if rv.IsNil() {
			return false, nil
		}
		return writeAttr(b, key, rv.Elem().Interface())

	case reflect.Slice, reflect.Array:
		parts := make([]string, 0, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			s, err := attrScalar(key, rv.Index(i).Interface())
			if err != nil {
				return false, err
			}
			parts = append(parts, s)
		}
		writeQuoted(b, key, strings.Join(parts, " "))
		return true, nil

	case reflect.Map, reflect.Struct:
		data, err := sonic.ConfigStd.Marshal(value)
		if err != nil {
			return false, invalidAttr(key, err.Error())
		}
		b.WriteString(key)
		b.WriteString(`='`)
		b.WriteString(strings.ReplaceAll(EscapeAttr(string(data)), "'", "&#39;"))
		b.WriteByte('\'')
		return true, nil

	case reflect.Bool:
		return writeAttr(b, key, rv.Bool())

	default:
		writeQuoted(b, key, fmt.Sprint(value))
		return true, nil
	}
}

// attrScalar stringifies one element of a slice attribute.
func attrScalar(key string, v any) (string, error) {
	switch x := v.(type) {
	case nil:
		return "", nil
	case string:
		return x, nil
	}
	switch reflect.ValueOf(v).Kind() {
	case reflect.Func, reflect.Chan, reflect.UnsafePointer, reflect.Complex64, reflect.Complex128,
		reflect.Map, reflect.Struct, reflect.Slice, reflect.Array:
		return "", invalidAttr(key, fmt.Sprintf("unsupported slice element of type %T", v))
	}
	return fmt.Sprint(v), nil
}

func writeQuoted(b *strings.Builder, key, value string) {
	b.WriteString(key)
	b.WriteString(`="`)
	b.WriteString(EscapeAttr(value))
	b.WriteByte('"')
}

func isNilPointer(v any) bool {
	rv := reflect.ValueOf(v)
	return rv.Kind() == reflect.Pointer && rv.IsNil()
}

// validAttrName rejects names that would break out of the tag.
func validAttrName(name string) bool {
	if name == "" {
		return false
	}
	return !strings.ContainsAny(name, " \t\n\r\f\"'<>/=`")
}

func invalidAttr(key, detail string) error {
	return errors.New(errors.CodeInvalidAttribute).WithDetail(fmt.Sprintf("%s: %s", key, detail))
}
