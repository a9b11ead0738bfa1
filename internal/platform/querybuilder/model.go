package querybuilder

import (
	"errors"
	"reflect"
	"slices"
	"strings"
)

var (
	errNilModel     = errors.New("querybuilder: model is nil")
	errNotStruct    = errors.New("querybuilder: model is not a struct")
	errNoDBColumns  = errors.New("querybuilder: model has no db columns")
	errNoConflictOn = errors.New("querybuilder: upsert needs conflict columns")
)

// InsertModel builds a single-row insert from the exported db-tagged fields
// of model, in field order.
func InsertModel(table string, model any) (string, []any, error) {
	cols, vals, err := dbFields(model)
	if err != nil {
		return "", nil, err
	}
	return InsertInto(table).Columns(cols...).Values(vals...).ToSQL()
}

// UpsertModel is InsertModel that overwrites every non-key column when a row
// with the same conflictCols already exists.
func UpsertModel(table string, model any, conflictCols ...string) (string, []any, error) {
	if len(conflictCols) == 0 {
		return "", nil, errNoConflictOn
	}
	cols, vals, err := dbFields(model)
	if err != nil {
		return "", nil, err
	}

	updates := slices.DeleteFunc(slices.Clone(cols), func(col string) bool {
		return slices.Contains(conflictCols, col)
	})
	return InsertInto(table).
		Columns(cols...).
		Values(vals...).
		OnConflict(conflictCols...).
		DoUpdate(updates...).
		ToSQL()
}

func dbFields(model any) ([]string, []any, error) {
	v := reflect.ValueOf(model)
	for v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return nil, nil, errNilModel
		}
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct {
		return nil, nil, errNotStruct
	}

	var (
		cols []string
		vals []any
	)
	for _, field := range reflect.VisibleFields(v.Type()) {
		if !field.IsExported() || field.Anonymous {
			continue
		}
		name, _, _ := strings.Cut(field.Tag.Get("db"), ",")
		name = strings.TrimSpace(name)
		if name == "" || name == "-" {
			continue
		}
		cols = append(cols, name)
		vals = append(vals, v.FieldByIndex(field.Index).Interface())
	}
	if len(cols) == 0 {
		return nil, nil, errNoDBColumns
	}
	return cols, vals, nil
}
