package models

import (
	"fmt"
	"reflect"
	"strings"
	"time"
)

// fieldNameMapping maps lowercased JSON field names to struct field names.
var fieldNameMapping = map[string]string{
	"title":       "Title",
	"description": "Description",
	"duedate":     "DueDate",
	"category":    "Category",
	"priority":    "Priority",
	"status":      "Status",
	"attachment":  "Attachment",
	"updatedat":   "UpdatedAt",
}

// Fields that callers may never change through a partial update, keyed
// lowercased like fieldNameMapping. The id is immutable after creation,
// ownership is fixed, and the activity log is append-only and owned by the
// repository.
var immutableFields = map[string]bool{
	"id":         true,
	"createdby":  true,
	"userid":     true,
	"createdat":  true,
	"activities": true,
}

// ApplyFields merges a partial field map, keyed by JSON field names, into
// the task. Keys are matched case-insensitively so that immutability cannot
// be sidestepped by recapitalizing a field name. The merged result is not
// validated here; callers run ValidateStruct afterwards.
func ApplyFields(task *Task, updates map[string]interface{}) error {
	for key, value := range updates {
		canonical := strings.ToLower(key)
		if immutableFields[canonical] {
			return fmt.Errorf("field %q cannot be updated", key)
		}
		fieldName, ok := fieldNameMapping[canonical]
		if !ok {
			return fmt.Errorf("unknown task field %q", key)
		}

		field := reflect.ValueOf(task).Elem().FieldByName(fieldName)
		if !field.IsValid() || !field.CanSet() {
			return fmt.Errorf("unknown task field %q", key)
		}

		if value == nil {
			if field.Kind() == reflect.Ptr {
				field.Set(reflect.Zero(field.Type()))
				continue
			}
			return fmt.Errorf("field %q cannot be set to nil", key)
		}

		val := reflect.ValueOf(value)
		if field.Type() != val.Type() {
			converted, err := convertType(value, field.Type())
			if err != nil {
				return fmt.Errorf("type conversion error for field %s: %w", key, err)
			}
			val = converted
		}
		field.Set(val)
	}
	return nil
}

// convertType attempts to convert an interface value to a target
// reflect.Type. This is a simplified converter for the types used in Task.
func convertType(value interface{}, targetType reflect.Type) (reflect.Value, error) {
	if valueStr, ok := value.(string); ok {
		switch targetType {
		case reflect.TypeOf(TaskStatus("")):
			return reflect.ValueOf(TaskStatus(valueStr)), nil
		case reflect.TypeOf(TaskPriority("")):
			return reflect.ValueOf(TaskPriority(valueStr)), nil
		case reflect.TypeOf(TaskCategory("")):
			return reflect.ValueOf(TaskCategory(valueStr)), nil
		case reflect.TypeOf(time.Time{}):
			if t, err := time.Parse(time.RFC3339, valueStr); err == nil {
				return reflect.ValueOf(t), nil
			}
			if t, err := time.Parse("2006-01-02", valueStr); err == nil {
				return reflect.ValueOf(t.UTC()), nil
			}
			return reflect.Value{}, fmt.Errorf("cannot parse %q as a date", valueStr)
		}
	}
	return reflect.Value{}, fmt.Errorf("unsupported type conversion from %T to %v", value, targetType)
}
