// Copyright (c) DeltaStream, Inc.
// SPDX-License-Identifier: Apache-2.0

package object

import (
	"fmt"

	"github.com/deltastreaminc/terraform-provider-snowflake-objects/internal/util"
)

// Scope is the namespace an object kind lives in. The set is closed: see
// AccountScope, DatabaseScope and SchemaScope.
type Scope interface {
	// Keys are the inputs locating the object, in namespace order.
	Keys() []string
	FullName(name string, inputs Inputs) (string, error)
	// Database is the session database statements must run in, if any.
	Database(inputs Inputs) string
	// ShowIn is the IN clause restricting SHOW to the object's namespace.
	ShowIn(inputs Inputs) (string, error)
	Outputs(inputs Inputs, outs map[string]any)

	isScope()
}

var (
	_ Scope = AccountScope{}
	_ Scope = DatabaseScope{}
	_ Scope = SchemaScope{}
)

// AccountScope objects (warehouses, integrations) are named by their name alone.
type AccountScope struct{}

func (AccountScope) Keys() []string { return nil }

func (AccountScope) FullName(name string, inputs Inputs) (string, error) {
	return name, nil
}

func (AccountScope) Database(inputs Inputs) string { return "" }

func (AccountScope) ShowIn(inputs Inputs) (string, error) { return "", nil }

func (AccountScope) Outputs(inputs Inputs, outs map[string]any) {}

func (AccountScope) isScope() {}

// DatabaseScope objects are created by bare name with the session database set.
type DatabaseScope struct{}

func (DatabaseScope) Keys() []string { return []string{"database"} }

func (DatabaseScope) FullName(name string, inputs Inputs) (string, error) {
	if _, err := scopeIdentifier(inputs, "database"); err != nil {
		return "", err
	}
	return name, nil
}

func (DatabaseScope) Database(inputs Inputs) string {
	db, _ := inputs.String("database")
	return db
}

func (DatabaseScope) ShowIn(inputs Inputs) (string, error) {
	db, err := scopeIdentifier(inputs, "database")
	if err != nil {
		return "", err
	}
	return " IN DATABASE " + db, nil
}

func (DatabaseScope) Outputs(inputs Inputs, outs map[string]any) {}

func (DatabaseScope) isScope() {}

// SchemaScope objects are named database.schema.name.
type SchemaScope struct{}

func (SchemaScope) Keys() []string { return []string{"database", "schema"} }

func (s SchemaScope) FullName(name string, inputs Inputs) (string, error) {
	prefix, err := s.qualifier(inputs)
	if err != nil {
		return "", err
	}
	return prefix + "." + name, nil
}

func (SchemaScope) Database(inputs Inputs) string { return "" }

func (s SchemaScope) ShowIn(inputs Inputs) (string, error) {
	prefix, err := s.qualifier(inputs)
	if err != nil {
		return "", err
	}
	return " IN SCHEMA " + prefix, nil
}

func (SchemaScope) Outputs(inputs Inputs, outs map[string]any) {
	outs["database"], _ = inputs.Lookup("database")
	outs["schema"], _ = inputs.Lookup("schema")
}

func (SchemaScope) qualifier(inputs Inputs) (string, error) {
	db, err := scopeIdentifier(inputs, "database")
	if err != nil {
		return "", err
	}
	schema, err := scopeIdentifier(inputs, "schema")
	if err != nil {
		return "", err
	}
	return db + "." + schema, nil
}

func (SchemaScope) isScope() {}

func scopeIdentifier(inputs Inputs, key string) (string, error) {
	v, ok := inputs.Lookup(key)
	if !ok {
		return "", fmt.Errorf("%w: %q must be provided", ErrMissingScope, key)
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("%w: %q must be a string, got %T", ErrInvalidValue, key, v)
	}
	return util.ValidateIdentifier(s)
}
