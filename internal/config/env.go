package config

import (
	"reflect"
	"strconv"
	"time"
)

var durationType = reflect.TypeOf(time.Duration(0))

// bindEnv walks v's fields, descending into nested structs, and assigns the
// value of each `env` tag key that getenv returns non-empty.
func bindEnv(v reflect.Value, getenv func(string) string) {
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		field := v.Field(i)
		if field.Kind() == reflect.Struct {
			bindEnv(field, getenv)
			continue
		}
		key := t.Field(i).Tag.Get("env")
		if key == "" {
			continue
		}
		if raw := getenv(key); raw != "" {
			setFromString(field, raw)
		}
	}
}

// setFromString leaves field alone when raw does not parse. Unsigned
// integers are read as octal permission bits.
func setFromString(field reflect.Value, raw string) {
	switch {
	case field.Type() == durationType:
		if d, err := time.ParseDuration(raw); err == nil {
			field.SetInt(int64(d))
		}
	case field.Kind() == reflect.String:
		field.SetString(raw)
	case field.Kind() == reflect.Bool:
		if b, err := strconv.ParseBool(raw); err == nil {
			field.SetBool(b)
		}
	case field.CanInt():
		if n, err := strconv.ParseInt(raw, 10, field.Type().Bits()); err == nil {
			field.SetInt(n)
		}
	case field.CanUint():
		if n, err := strconv.ParseUint(raw, 8, field.Type().Bits()); err == nil {
			field.SetUint(n)
		}
	}
}
