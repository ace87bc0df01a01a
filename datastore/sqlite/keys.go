/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package sqlite

import (
	"reflect"

	"github.com/suparena/tablestore/errors"
)

// keyField is the struct field entities are keyed by when no explicit
// key function is configured.
const keyField = "ID"

// entityKey extracts the row key from an entity's ID field. Pointers
// are followed; the field must be an exported string.
func entityKey(entity any) (string, error) {
	v := reflect.ValueOf(entity)
	for v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return "", errors.NewValidationError(keyField, "entity is nil")
		}
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct {
		return "", errors.NewValidationError(keyField, "entity is not a struct")
	}

	f := v.FieldByName(keyField)
	if !f.IsValid() {
		return "", errors.NewValidationError(keyField, "entity has no ID field")
	}

	switch f.Kind() {
	case reflect.String:
		return f.String(), nil
	case reflect.Pointer:
		if f.IsNil() {
			return "", nil
		}
		if f.Elem().Kind() == reflect.String {
			return f.Elem().String(), nil
		}
	}
	return "", errors.NewValidationError(keyField, "ID field is not a string")
}

// setEntityKey writes key into the entity's ID field when the entity is
// an addressable struct pointer. Reports whether the write happened.
func setEntityKey(entity any, key string) bool {
	v := reflect.ValueOf(entity)
	for v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return false
		}
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct {
		return false
	}

	f := v.FieldByName(keyField)
	if !f.IsValid() || !f.CanSet() {
		return false
	}

	switch f.Kind() {
	case reflect.String:
		f.SetString(key)
		return true
	case reflect.Pointer:
		if f.Type().Elem().Kind() == reflect.String {
			f.Set(reflect.ValueOf(&key))
			return true
		}
	}
	return false
}
