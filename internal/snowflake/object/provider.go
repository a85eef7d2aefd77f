// Copyright (c) DeltaStream, Inc.
// SPDX-License-Identifier: Apache-2.0

package object

import (
	"context"
	"fmt"

	"github.com/google/go-cmp/cmp"
	"github.com/hashicorp/terraform-plugin-framework/schema/validator"

	"github.com/deltastreaminc/terraform-provider-snowflake-objects/internal/snowflake/sqlexec"
	"github.com/deltastreaminc/terraform-provider-snowflake-objects/internal/util"
)

const randomSuffixLength = 7

// Inputs are the declared values of one object. Nil values count as absent.
type Inputs map[string]any

func (in Inputs) Lookup(key string) (any, bool) {
	v, ok := in[key]
	if !ok || v == nil {
		return nil, false
	}
	return v, true
}

func (in Inputs) String(key string) (string, bool) {
	v, ok := in.Lookup(key)
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

func (in Inputs) with(key string, value any) Inputs {
	out := make(Inputs, len(in)+1)
	for k, v := range in {
		out[k] = v
	}
	out[key] = value
	return out
}

// Parameter is an input consumed by the header or footer of a CREATE
// statement rather than by an attribute clause.
type Parameter struct {
	Name        string
	Description string
	Kind        Kind
	Required    bool
	// Validators apply to the value, or to each element of a list.
	Validators []validator.String
}

type (
	// LinesFunc renders the header or footer lines of a CREATE statement.
	LinesFunc func(name, fullName string, inputs Inputs) ([]string, error)
	// OutputsFunc may add, remove or override outputs.
	OutputsFunc func(name string, inputs Inputs, outs map[string]any) (map[string]any, error)
)

// Definition describes one kind of Snowflake object. It is not modified after
// a Provider is built from it.
type Definition struct {
	// TypeName is the Terraform resource suffix, e.g. "file_format".
	TypeName    string
	SQLName     string
	Description string
	Scope       Scope
	Attributes  []Attribute
	Parameters  []Parameter

	// Header defaults to "CREATE {SQLName} {full name}".
	Header  LinesFunc
	Footer  LinesFunc
	Outputs OutputsFunc
	// IdentityKey names the input used as the object's ID instead of its name.
	IdentityKey string
}

type IDGenerator interface {
	Generate(length int) string
}

type CreateResult struct {
	ID      string
	Outputs map[string]any
}

type DiffResult struct {
	Changes     bool
	ReplaceKeys []string
}

// Provider creates, compares and drops objects of one Definition.
type Provider struct {
	def      Definition
	executor sqlexec.Executor
	ids      IDGenerator
}

func NewProvider(def Definition, executor sqlexec.Executor, ids IDGenerator) (*Provider, error) {
	if _, err := util.ValidateObjectName(def.SQLName); err != nil {
		return nil, err
	}
	if def.Scope == nil {
		return nil, fmt.Errorf("%w: %s has no scope", ErrMissingScope, def.SQLName)
	}
	seen := map[string]bool{"name": true, "resource_name": true, "id": true}
	for _, k := range def.Scope.Keys() {
		seen[k] = true
	}
	for _, a := range def.Attributes {
		if seen[a.Name()] {
			return nil, fmt.Errorf("%w: %q in %s", ErrDuplicateAttribute, a.Name(), def.SQLName)
		}
		seen[a.Name()] = true
	}
	for _, p := range def.Parameters {
		if seen[p.Name] {
			return nil, fmt.Errorf("%w: %q in %s", ErrDuplicateAttribute, p.Name, def.SQLName)
		}
		seen[p.Name] = true
	}
	if ids == nil {
		ids = util.DefaultRandomID()
	}
	return &Provider{def: def, executor: executor, ids: ids}, nil
}

func (p *Provider) Definition() Definition {
	return p.def
}

// Create validates inputs, issues one CREATE statement and shapes the outputs.
// Nothing is executed unless every validation passes.
func (p *Provider) Create(ctx context.Context, inputs Inputs) (*CreateResult, error) {
	if err := p.checkRequiredAttributes(inputs); err != nil {
		return nil, err
	}
	name, err := p.validatedName(inputs)
	if err != nil {
		return nil, err
	}
	fullName, err := p.def.Scope.FullName(name, inputs)
	if err != nil {
		return nil, err
	}

	attributes := p.attributesWithValues(inputs)
	lines, err := p.createStatement(attributes, name, fullName, inputs)
	if err != nil {
		return nil, err
	}
	st := sqlexec.Statement{
		Lines:    lines,
		Bindings: p.createBindings(attributes, inputs),
		Database: p.def.Scope.Database(inputs),
	}
	if err := p.executor.Execute(ctx, st); err != nil {
		return nil, err
	}

	outs := map[string]any{"name": name}
	for _, a := range p.def.Attributes {
		outs[a.Name()], _ = inputs.Lookup(a.Name())
	}
	p.def.Scope.Outputs(inputs, outs)
	if p.def.Outputs != nil {
		if outs, err = p.def.Outputs(name, inputs, outs); err != nil {
			return nil, err
		}
	}

	id := name
	if p.def.IdentityKey != "" {
		id, _ = inputs.String(p.def.IdentityKey)
	}
	return &CreateResult{ID: id, Outputs: outs}, nil
}

// Delete drops the object identified by id and its last known outputs.
func (p *Provider) Delete(ctx context.Context, id string, props Inputs) error {
	name, props, err := p.identify(id, props)
	if err != nil {
		return err
	}
	fullName, err := p.def.Scope.FullName(name, props)
	if err != nil {
		return err
	}
	return p.executor.Execute(ctx, sqlexec.Statement{
		Lines:    []string{fmt.Sprintf("DROP %s %s", p.def.SQLName, fullName)},
		Database: p.def.Scope.Database(props),
	})
}

// Exists reports whether the object is still present in Snowflake.
func (p *Provider) Exists(ctx context.Context, id string, props Inputs) (bool, error) {
	name, props, err := p.identify(id, props)
	if err != nil {
		return false, err
	}
	in, err := p.def.Scope.ShowIn(props)
	if err != nil {
		return false, err
	}
	return p.executor.Exists(ctx, sqlexec.Statement{
		Lines:    []string{fmt.Sprintf("SHOW %sS LIKE %s%s", p.def.SQLName, util.LikePattern(name), in)},
		Database: p.def.Scope.Database(props),
	})
}

// Diff compares prior outputs with new inputs. Objects have no in-place
// update, so every changed key forces a replacement. A name that is absent
// from the new inputs was generated and is not a change.
func (p *Provider) Diff(olds, news Inputs) DiffResult {
	var keys []string
	if newName, ok := news.Lookup("name"); ok {
		if oldName, _ := olds.Lookup("name"); !cmp.Equal(oldName, newName) {
			keys = append(keys, "name")
		}
	}
	for _, k := range p.inputKeys() {
		oldValue, _ := olds.Lookup(k)
		newValue, _ := news.Lookup(k)
		if !cmp.Equal(oldValue, newValue) {
			keys = append(keys, k)
		}
	}
	return DiffResult{Changes: len(keys) > 0, ReplaceKeys: keys}
}

func (p *Provider) inputKeys() []string {
	keys := []string{"resource_name"}
	keys = append(keys, p.def.Scope.Keys()...)
	for _, a := range p.def.Attributes {
		keys = append(keys, a.Name())
	}
	for _, param := range p.def.Parameters {
		keys = append(keys, param.Name)
	}
	return keys
}

func (p *Provider) checkRequiredAttributes(inputs Inputs) error {
	for _, a := range p.def.Attributes {
		if _, ok := inputs.Lookup(a.Name()); a.Required() && !ok {
			return fmt.Errorf("%w: %q", ErrMissingRequiredAttribute, a.Name())
		}
	}
	for _, param := range p.def.Parameters {
		if _, ok := inputs.Lookup(param.Name); param.Required && !ok {
			return fmt.Errorf("%w: %q", ErrMissingRequiredAttribute, param.Name)
		}
	}
	_, hasName := inputs.Lookup("name")
	_, hasResourceName := inputs.Lookup("resource_name")
	if !hasName && !hasResourceName {
		return ErrMissingNameAttribute
	}
	return nil
}

// validatedName uses the given name, or derives one from resource_name with a
// random suffix. Either way the result must be a valid identifier.
func (p *Provider) validatedName(inputs Inputs) (string, error) {
	name, ok := inputs.Lookup("name")
	if !ok {
		resourceName, _ := inputs.Lookup("resource_name")
		name = fmt.Sprintf("%v_%s", resourceName, p.ids.Generate(randomSuffixLength))
	}
	s, ok := name.(string)
	if !ok {
		return "", fmt.Errorf("%w: name must be a string, got %T", ErrInvalidValue, name)
	}
	return util.ValidateIdentifier(s)
}

// identify recovers the object name from stored outputs, falling back to id,
// and restores the identity input when the id stands for it.
func (p *Provider) identify(id string, props Inputs) (string, Inputs, error) {
	if p.def.IdentityKey != "" {
		if _, ok := props.Lookup(p.def.IdentityKey); !ok {
			props = props.with(p.def.IdentityKey, id)
		}
	}
	name, ok := props.String("name")
	if !ok {
		if p.def.IdentityKey != "" {
			return "", props, ErrMissingNameAttribute
		}
		name = id
	}
	name, err := util.ValidateIdentifier(name)
	return name, props, err
}

func (p *Provider) attributesWithValues(inputs Inputs) []Attribute {
	var attributes []Attribute
	for _, a := range p.def.Attributes {
		if _, ok := inputs.Lookup(a.Name()); ok {
			attributes = append(attributes, a)
		}
	}
	return attributes
}

func (p *Provider) createStatement(attributes []Attribute, name, fullName string, inputs Inputs) ([]string, error) {
	var lines []string
	if p.def.Header != nil {
		header, err := p.def.Header(name, fullName, inputs)
		if err != nil {
			return nil, err
		}
		lines = append(lines, header...)
	} else {
		lines = append(lines, fmt.Sprintf("CREATE %s %s", p.def.SQLName, fullName))
	}

	for _, a := range attributes {
		value, _ := inputs.Lookup(a.Name())
		clause, err := a.GenerateSQL(value)
		if err != nil {
			return nil, err
		}
		lines = append(lines, clause)
	}

	if p.def.Footer != nil {
		footer, err := p.def.Footer(name, fullName, inputs)
		if err != nil {
			return nil, err
		}
		lines = append(lines, footer...)
	}
	return lines, nil
}

func (p *Provider) createBindings(attributes []Attribute, inputs Inputs) []any {
	var bindings []any
	for _, a := range attributes {
		value, _ := inputs.Lookup(a.Name())
		bindings = append(bindings, a.GenerateBindings(value)...)
	}
	return bindings
}
