package utils

import (
	"fmt"
	"reflect"
)

var ColumnTag = "db"

// StructTagValues returns the column names of input's exported fields in
// declaration order. Fields without a tag or tagged "-" are skipped.
func StructTagValues(input any) []string {
	fields := taggedFields(input)

	result := make([]string, 0, len(fields))
	for _, f := range fields {
		result = append(result, f.column)
	}
	return result
}

// StructToMap keys every tagged field value by its column name, ready for
// squirrel's SetMap.
func StructToMap(input any) map[string]any {
	fields := taggedFields(input)

	result := make(map[string]any, len(fields))
	for _, f := range fields {
		result[f.column] = f.value.Interface()
	}
	return result
}

type taggedField struct {
	column string
	value  reflect.Value
}

func taggedFields(input any) []taggedField {

	itemValue := reflect.ValueOf(input)
	if itemValue.Kind() == reflect.Ptr {
		itemValue = itemValue.Elem()
	}

	if itemValue.Kind() != reflect.Struct {
		panic("input must be a pointer to a struct or a struct")
	}

	itemType := itemValue.Type()

	out := make([]taggedField, 0, itemValue.NumField())
	for i := 0; i < itemValue.NumField(); i++ {

		if itemType.Field(i).PkgPath != "" {
			continue
		}

		tagValue := itemType.Field(i).Tag.Get(ColumnTag)
		if tagValue == "" || tagValue == "-" {
			continue
		}

		out = append(out, taggedField{column: tagValue, value: itemValue.Field(i)})
	}

	return out

}

func ErrorWrapOrNil(err error, msg string) error {
	if err == nil {
		return nil
	}

	if msg == "" {
		return err
	}

	return fmt.Errorf("%s: %w", msg, err)

}
