package events

import (
	"reflect"
)

// ignoredProperties are bookkeeping fields that never count as a change.
var ignoredProperties = map[string]bool{
	"CreatedAt": true,
	"UpdatedAt": true,
}

// ChangedProperties returns the names of the exported struct fields whose
// values differ between previous and current. Both must be pointers to the
// same struct type; anything else yields nil.
func ChangedProperties(previous, current any) []string {
	pv := reflect.ValueOf(previous)
	cv := reflect.ValueOf(current)
	if pv.Kind() != reflect.Ptr || cv.Kind() != reflect.Ptr || pv.IsNil() || cv.IsNil() {
		return nil
	}
	pv, cv = pv.Elem(), cv.Elem()
	if pv.Type() != cv.Type() || pv.Kind() != reflect.Struct {
		return nil
	}

	var changed []string
	t := pv.Type()
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() || ignoredProperties[field.Name] {
			continue
		}
		if !reflect.DeepEqual(pv.Field(i).Interface(), cv.Field(i).Interface()) {
			changed = append(changed, field.Name)
		}
	}
	return changed
}
