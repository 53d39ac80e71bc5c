package core

import (
	"log"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/jmoiron/sqlx/reflectx"
)

var jsonMapper = reflectx.NewMapperFunc("json", func(s string) string { return s })

// CleanString trims all leading and trailing whitespace in `s` and optionally lowers it.
func CleanString(s string, lower ...bool) string {
	s = strings.TrimSpace(s)
	if len(lower) > 0 && lower[0] {
		return strings.ToLower(s)
	}
	return s
}

// CleanStringPtr is CleanString for optional values. Blank strings become nil.
func CleanStringPtr(s *string, lower ...bool) *string {
	if s == nil {
		return nil
	}
	c := CleanString(*s, lower...)
	if c == "" {
		return nil
	}
	return &c
}

// Getwd tries to find the project root (the directory holding go.mod).
// go-test changes the working directory to the test package being run.
func Getwd() string {
	wd, err := os.Getwd()
	if err != nil {
		log.Fatal(err)
	}
	currDir := wd
	for {
		if _, err := os.Stat(filepath.Join(currDir, "go.mod")); err == nil {
			return currDir
		}
		newDir := filepath.Dir(currDir)
		if newDir == currDir {
			return wd
		}
		currDir = newDir
	}
}

// JSONFieldNames lists the top-level JSON names of a struct value, embedded structs flattened.
func JSONFieldNames(v interface{}) []string {
	tm := jsonMapper.TypeMap(reflectx.Deref(reflect.TypeOf(v)))
	names := make([]string, 0, len(tm.Index))
	for _, fi := range tm.Index {
		if fi.Embedded || fi.Name == "" || strings.Contains(fi.Path, ".") {
			continue
		}
		names = append(names, fi.Name)
	}
	return names
}

// Columns maps the JSON names of a struct type to their `db` columns.
// Fields without a db tag are skipped.
func Columns(v interface{}) map[string]string {
	tm := jsonMapper.TypeMap(reflectx.Deref(reflect.TypeOf(v)))
	cols := make(map[string]string, len(tm.Index))
	for _, fi := range tm.Index {
		if fi.Embedded || strings.Contains(fi.Path, ".") {
			continue
		}
		col := strings.SplitN(fi.Field.Tag.Get("db"), ",", 2)[0]
		if col == "" || col == "-" {
			continue
		}
		cols[fi.Name] = col
	}
	return cols
}
