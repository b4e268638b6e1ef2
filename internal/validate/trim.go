package validate

import (
	"reflect"
	"strings"
)

// Trim strips surrounding whitespace from every string reachable from ptr:
// struct fields, *string, and string slices. Fields tagged `trim:"-"` are
// left alone (passwords).
func Trim(ptr any) {
	v := reflect.ValueOf(ptr)
	if v.Kind() != reflect.Pointer || v.IsNil() {
		return
	}
	trimValue(v.Elem())
}

func trimValue(v reflect.Value) {
	switch v.Kind() {
	case reflect.Pointer:
		if !v.IsNil() {
			trimValue(v.Elem())
		}
	case reflect.String:
		if v.CanSet() {
			v.SetString(strings.TrimSpace(v.String()))
		}
	case reflect.Slice:
		for i := 0; i < v.Len(); i++ {
			trimValue(v.Index(i))
		}
	case reflect.Struct:
		t := v.Type()
		for i := 0; i < v.NumField(); i++ {
			if t.Field(i).PkgPath != "" || t.Field(i).Tag.Get("trim") == "-" {
				continue
			}
			trimValue(v.Field(i))
		}
	}
}
