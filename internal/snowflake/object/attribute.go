// Copyright (c) DeltaStream, Inc.
// SPDX-License-Identifier: Apache-2.0

package object

import (
	"fmt"
	"strings"

	"github.com/hashicorp/terraform-plugin-framework/schema/validator"

	"github.com/deltastreaminc/terraform-provider-snowflake-objects/internal/util"
)

// Kind is the shape of an input value, used to derive the Terraform schema.
type Kind int

const (
	KindString Kind = iota
	KindBool
	KindInt
	KindStringList
)

// Attribute compiles one declared input into a clause of a CREATE statement
// and the values bound to that clause's placeholders.
type Attribute interface {
	Name() string
	SQLName() string
	Required() bool
	Kind() Kind
	Description() string
	Validators() []validator.String

	GenerateSQL(value any) (string, error)
	// GenerateBindings returns nil when the clause binds nothing.
	GenerateBindings(value any) []any
}

type attributeConfig struct {
	name        string
	sqlName     string
	description string
	required    bool
	kind        Kind
	validate    func(string) (string, error)
	validators  []validator.String
}

type AttributeOption func(*attributeConfig)

func IsRequired() AttributeOption {
	return func(c *attributeConfig) { c.required = true }
}

func WithSQLName(sqlName string) AttributeOption {
	return func(c *attributeConfig) { c.sqlName = sqlName }
}

func WithDescription(description string) AttributeOption {
	return func(c *attributeConfig) { c.description = description }
}

func WithKind(kind Kind) AttributeOption {
	return func(c *attributeConfig) { c.kind = kind }
}

// WithValidator replaces the check applied to inlined values.
func WithValidator(fn func(string) (string, error)) AttributeOption {
	return func(c *attributeConfig) { c.validate = fn }
}

// WithValidators adds plan-time validators to the Terraform attribute.
func WithValidators(v ...validator.String) AttributeOption {
	return func(c *attributeConfig) { c.validators = append(c.validators, v...) }
}

func newAttributeConfig(name string, kind Kind, opts []AttributeOption) attributeConfig {
	c := attributeConfig{
		name:     name,
		sqlName:  strings.ToUpper(name),
		kind:     kind,
		validate: util.ValidateIdentifier,
	}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

type baseAttribute struct {
	cfg attributeConfig
}

func (a baseAttribute) Name() string                   { return a.cfg.name }
func (a baseAttribute) SQLName() string                { return a.cfg.sqlName }
func (a baseAttribute) Required() bool                 { return a.cfg.required }
func (a baseAttribute) Kind() Kind                     { return a.cfg.kind }
func (a baseAttribute) Description() string            { return a.cfg.description }
func (a baseAttribute) Validators() []validator.String { return a.cfg.validators }

// ValueAttribute renders "NAME = ?" and binds the value.
type ValueAttribute struct {
	baseAttribute
}

func NewValueAttribute(name string, opts ...AttributeOption) *ValueAttribute {
	return &ValueAttribute{baseAttribute{newAttributeConfig(name, KindString, opts)}}
}

func (a *ValueAttribute) GenerateSQL(value any) (string, error) {
	return fmt.Sprintf("%s = ?", a.SQLName()), nil
}

func (a *ValueAttribute) GenerateBindings(value any) []any {
	return []any{value}
}

// IdentifierAttribute inlines a validated keyword or identifier, e.g. "TYPE = CSV".
type IdentifierAttribute struct {
	baseAttribute
}

func NewIdentifierAttribute(name string, opts ...AttributeOption) *IdentifierAttribute {
	return &IdentifierAttribute{baseAttribute{newAttributeConfig(name, KindString, opts)}}
}

func (a *IdentifierAttribute) GenerateSQL(value any) (string, error) {
	s, ok := value.(string)
	if !ok {
		return "", fmt.Errorf("%w: %s must be a string, got %T", ErrInvalidValue, a.Name(), value)
	}
	s, err := a.cfg.validate(s)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s = %s", a.SQLName(), s), nil
}

func (a *IdentifierAttribute) GenerateBindings(value any) []any {
	return nil
}

type BooleanAttribute struct {
	baseAttribute
}

func NewBooleanAttribute(name string, opts ...AttributeOption) *BooleanAttribute {
	return &BooleanAttribute{baseAttribute{newAttributeConfig(name, KindBool, opts)}}
}

func (a *BooleanAttribute) GenerateSQL(value any) (string, error) {
	b, ok := value.(bool)
	if !ok {
		return "", fmt.Errorf("%w: %s must be a bool, got %T", ErrInvalidValue, a.Name(), value)
	}
	return fmt.Sprintf("%s = %s", a.SQLName(), util.Literal(b)), nil
}

func (a *BooleanAttribute) GenerateBindings(value any) []any {
	return nil
}

// ListAttribute renders "NAME = (?, ?, ...)" with one binding per element.
type ListAttribute struct {
	baseAttribute
}

func NewListAttribute(name string, opts ...AttributeOption) *ListAttribute {
	return &ListAttribute{baseAttribute{newAttributeConfig(name, KindStringList, opts)}}
}

func (a *ListAttribute) GenerateSQL(value any) (string, error) {
	items, err := listItems(value)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %w", ErrInvalidValue, a.Name(), err)
	}
	placeholders := make([]string, len(items))
	for i := range items {
		placeholders[i] = "?"
	}
	return fmt.Sprintf("%s = (%s)", a.SQLName(), strings.Join(placeholders, ", ")), nil
}

func (a *ListAttribute) GenerateBindings(value any) []any {
	items, _ := listItems(value)
	return items
}

func listItems(value any) ([]any, error) {
	switch v := value.(type) {
	case []any:
		return v, nil
	case []string:
		items := make([]any, len(v))
		for i, s := range v {
			items[i] = s
		}
		return items, nil
	default:
		return nil, fmt.Errorf("expected a list, got %T", value)
	}
}

// ValueOrTokenAttribute lets a Token be given in place of the wrapped
// attribute's value. The token is inlined and binds nothing.
type ValueOrTokenAttribute struct {
	attribute Attribute
	token     Token
}

func NewValueOrTokenAttribute(attribute Attribute, token Token) *ValueOrTokenAttribute {
	return &ValueOrTokenAttribute{attribute: attribute, token: token}
}

func (a *ValueOrTokenAttribute) Name() string                   { return a.attribute.Name() }
func (a *ValueOrTokenAttribute) SQLName() string                { return a.attribute.SQLName() }
func (a *ValueOrTokenAttribute) Required() bool                 { return a.attribute.Required() }
func (a *ValueOrTokenAttribute) Kind() Kind                     { return a.attribute.Kind() }
func (a *ValueOrTokenAttribute) Description() string            { return a.attribute.Description() }
func (a *ValueOrTokenAttribute) Validators() []validator.String { return a.attribute.Validators() }
func (a *ValueOrTokenAttribute) Token() Token                   { return a.token }
func (a *ValueOrTokenAttribute) Unwrap() Attribute              { return a.attribute }

func (a *ValueOrTokenAttribute) isToken(value any) bool {
	t, ok := value.(Token)
	return ok && t == a.token
}

func (a *ValueOrTokenAttribute) GenerateSQL(value any) (string, error) {
	if a.isToken(value) {
		return fmt.Sprintf("%s = %s", a.SQLName(), a.token.SQL()), nil
	}
	return a.attribute.GenerateSQL(value)
}

func (a *ValueOrTokenAttribute) GenerateBindings(value any) []any {
	if a.isToken(value) {
		return nil
	}
	return a.attribute.GenerateBindings(value)
}

// NestedAttribute places the wrapped clause inside "OUTER = ( ... )", as
// Snowflake expects for FILE_FORMAT and COPY_OPTIONS.
type NestedAttribute struct {
	sqlName   string
	attribute Attribute
}

func NewNestedAttribute(sqlName string, attribute Attribute) *NestedAttribute {
	return &NestedAttribute{sqlName: sqlName, attribute: attribute}
}

func (a *NestedAttribute) Name() string                   { return a.attribute.Name() }
func (a *NestedAttribute) SQLName() string                { return a.sqlName }
func (a *NestedAttribute) Required() bool                 { return a.attribute.Required() }
func (a *NestedAttribute) Kind() Kind                     { return a.attribute.Kind() }
func (a *NestedAttribute) Description() string            { return a.attribute.Description() }
func (a *NestedAttribute) Validators() []validator.String { return a.attribute.Validators() }
func (a *NestedAttribute) Unwrap() Attribute              { return a.attribute }

func (a *NestedAttribute) GenerateSQL(value any) (string, error) {
	inner, err := a.attribute.GenerateSQL(value)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s = ( %s )", a.sqlName, inner), nil
}

func (a *NestedAttribute) GenerateBindings(value any) []any {
	return a.attribute.GenerateBindings(value)
}

// TokenOf returns the token accepted by a, looking through wrappers.
func TokenOf(a Attribute) (Token, bool) {
	for a != nil {
		if t, ok := a.(interface{ Token() Token }); ok {
			return t.Token(), true
		}
		u, ok := a.(interface{ Unwrap() Attribute })
		if !ok {
			break
		}
		a = u.Unwrap()
	}
	return "", false
}
