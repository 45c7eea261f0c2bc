package querybuilder

import (
	"reflect"
	"strings"

	"github.com/cockroachdb/errors"
)

// InsertModels builds one multi-row insert from structs carrying `db` tags. Every model must
// have the same type.
func InsertModels[T any](table string, models []T) (*InsertBuilder, error) {
	if len(models) == 0 {
		return nil, errors.New("at least one model is required")
	}

	b := InsertInto(table)
	for i, model := range models {
		cols, vals, err := columnsAndValuesFromModel(model)
		if err != nil {
			return nil, errors.Wrapf(err, "model %d", i)
		}
		if i == 0 {
			b.Columns(cols...)
		}
		b.Values(vals...)
	}
	return b, nil
}

// Columns lists the `db` columns of a model type, in field order.
func Columns[T any]() []string {
	var zero T
	cols, _, err := columnsAndValuesFromModel(zero)
	if err != nil {
		return nil
	}
	return cols
}

func columnsAndValuesFromModel(model any) ([]string, []any, error) {
	value := reflect.ValueOf(model)
	for value.Kind() == reflect.Pointer {
		if value.IsNil() {
			return nil, nil, errors.New("model cannot be nil")
		}
		value = value.Elem()
	}
	if value.Kind() != reflect.Struct {
		return nil, nil, errors.New("model must be struct")
	}

	typ := value.Type()
	cols := make([]string, 0, typ.NumField())
	vals := make([]any, 0, typ.NumField())
	for i := 0; i < typ.NumField(); i++ {
		field := typ.Field(i)
		if field.PkgPath != "" {
			continue
		}
		tag := strings.TrimSpace(field.Tag.Get("db"))
		if tag == "" || tag == "-" {
			continue
		}
		col := strings.TrimSpace(strings.Split(tag, ",")[0])
		if col == "" || col == "-" {
			continue
		}
		cols = append(cols, col)
		vals = append(vals, value.Field(i).Interface())
	}

	if len(cols) == 0 {
		return nil, nil, errors.New("model has no db columns")
	}
	return cols, vals, nil
}
