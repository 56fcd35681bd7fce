package utils

import (
	"reflect"
	"strconv"
	"strings"
)

// UpdatesFromPtrDTO collects the non-nil pointer fields of a patch DTO into a column map for
// gorm's Updates. The column is taken from a `gorm:"column:..."` tag when present, otherwise
// from the json name. Fields tagged json:"-" are never written.
func UpdatesFromPtrDTO(dto any) map[string]any {
	res := make(map[string]any)
	s, ok := structElem(dto)
	if !ok {
		return res
	}
	t := s.Type()
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		fv := s.Field(i)
		if fv.Kind() != reflect.Ptr || fv.IsNil() {
			continue
		}
		if col := columnName(sf); col != "" {
			res[col] = fv.Elem().Interface()
		}
	}
	return res
}

func columnName(sf reflect.StructField) string {
	for _, part := range strings.Split(sf.Tag.Get("gorm"), ";") {
		if col, ok := strings.CutPrefix(strings.TrimSpace(part), "column:"); ok && col != "" {
			return col
		}
	}
	jsonTag := sf.Tag.Get("json")
	if jsonTag == "-" {
		return ""
	}
	if name, _, _ := strings.Cut(jsonTag, ","); name != "" {
		return name
	}
	return ""
}

// ParseIntDefault returns def for blank, malformed or negative input.
func ParseIntDefault(s string, def int) int {
	if v, err := strconv.Atoi(strings.TrimSpace(s)); err == nil && v >= 0 {
		return v
	}
	return def
}

// ParsePage reads list paging parameters. A zero or oversized limit is clamped to max.
func ParsePage(limitParam, offsetParam string, def, max int) (limit, offset int) {
	limit = ParseIntDefault(limitParam, def)
	if limit == 0 || limit > max {
		limit = max
	}
	return limit, ParseIntDefault(offsetParam, 0)
}
