// Copyright (c) DeltaStream, Inc.
// SPDX-License-Identifier: Apache-2.0

package object

import (
	"context"
	"errors"
	"regexp"
	"testing"

	. "github.com/onsi/gomega"
	"github.com/stretchr/testify/mock"

	"github.com/deltastreaminc/terraform-provider-snowflake-objects/internal/snowflake/sqlexec"
	"github.com/deltastreaminc/terraform-provider-snowflake-objects/internal/snowflake/sqlexec/sqlexectest"
	"github.com/deltastreaminc/terraform-provider-snowflake-objects/internal/util"
)

type fixedID string

func (f fixedID) Generate(length int) string { return string(f)[:length] }

var fileFormat = Definition{
	TypeName:    "file_format",
	SQLName:     "FILE FORMAT",
	Scope:       DatabaseScope{},
	IdentityKey: "database",
	Attributes: []Attribute{
		NewIdentifierAttribute("type", IsRequired()),
	},
}

var stage = Definition{
	TypeName: "stage",
	SQLName:  "STAGE",
	Scope:    SchemaScope{},
	Attributes: []Attribute{
		NewValueAttribute("url"),
		NewValueOrTokenAttribute(NewValueAttribute("escape"), TokenNone),
		NewBooleanAttribute("temporary"),
		NewListAttribute("null_if"),
	},
}

var warehouse = Definition{
	TypeName: "warehouse",
	SQLName:  "WAREHOUSE",
	Scope:    AccountScope{},
	Attributes: []Attribute{
		NewValueAttribute("comment"),
	},
}

func newTestProvider(t *testing.T, def Definition, ids IDGenerator) (*Provider, *sqlexectest.Executor) {
	t.Helper()
	executor := &sqlexectest.Executor{}
	p, err := NewProvider(def, executor, ids)
	if err != nil {
		t.Fatalf("NewProvider: %v", err)
	}
	return p, executor
}

func TestCreateFileFormat(t *testing.T) {
	g := NewGomegaWithT(t)
	ctx := context.Background()
	def := fileFormat
	def.Outputs = func(name string, inputs Inputs, outs map[string]any) (map[string]any, error) {
		return map[string]any{"name": outs["name"], "type": outs["type"]}, nil
	}
	p, executor := newTestProvider(t, def, nil)

	executor.On("Execute", mock.Anything, sqlexec.Statement{
		Lines:    []string{"CREATE FILE FORMAT test_file_format", "TYPE = CSV"},
		Database: "test_database_name",
	}).Return(nil).Once()

	result, err := p.Create(ctx, Inputs{
		"database": "test_database_name",
		"type":     "CSV",
		"name":     "test_file_format",
	})
	g.Expect(err).To(BeNil())
	g.Expect(result.ID).To(Equal("test_database_name"))
	g.Expect(result.Outputs).To(Equal(map[string]any{"name": "test_file_format", "type": "CSV"}))
	executor.AssertExpectations(t)
}

func TestCreateStatementAndBindings(t *testing.T) {
	g := NewGomegaWithT(t)
	ctx := context.Background()
	p, executor := newTestProvider(t, stage, nil)

	statements := executor.Capture()

	result, err := p.Create(ctx, Inputs{
		"database":  "db",
		"schema":    "public",
		"name":      "s1",
		"url":       "s3://bucket/path",
		"escape":    TokenNone,
		"temporary": true,
		"null_if":   []string{"", "NULL"},
	})
	g.Expect(err).To(BeNil())
	g.Expect(statements()).To(HaveLen(1))
	got := statements()[0]
	g.Expect(got.SQL()).To(Equal("CREATE STAGE db.public.s1\nURL = ?\nESCAPE = NONE\nTEMPORARY = TRUE\nNULL_IF = (?, ?)"))
	g.Expect(got.Bindings).To(Equal([]any{"s3://bucket/path", "", "NULL"}))
	g.Expect(got.Database).To(BeEmpty())

	g.Expect(result.ID).To(Equal("s1"))
	g.Expect(result.Outputs).To(HaveKeyWithValue("name", "s1"))
	g.Expect(result.Outputs).To(HaveKeyWithValue("database", "db"))
	g.Expect(result.Outputs).To(HaveKeyWithValue("schema", "public"))
	g.Expect(result.Outputs).To(HaveKeyWithValue("escape", TokenNone))
	g.Expect(result.Outputs).To(HaveKeyWithValue("url", "s3://bucket/path"))
}

func TestCreateGeneratesName(t *testing.T) {
	g := NewGomegaWithT(t)
	ctx := context.Background()
	p, executor := newTestProvider(t, warehouse, util.NewSeededRandomID(7))
	executor.On("Execute", mock.Anything, mock.Anything).Return(nil)

	result, err := p.Create(ctx, Inputs{"name": nil, "resource_name": "tf_test_x"})
	g.Expect(err).To(BeNil())
	g.Expect(result.Outputs["name"]).To(MatchRegexp(`^tf_test_x_[a-f0-9]{7}$`))
	g.Expect(result.ID).To(Equal(result.Outputs["name"]))

	p, executor = newTestProvider(t, warehouse, fixedID("abcdef0123"))
	executor.On("Execute", mock.Anything, sqlexec.Statement{
		Lines: []string{"CREATE WAREHOUSE wh_abcdef0"},
	}).Return(nil).Once()
	result, err = p.Create(ctx, Inputs{"resource_name": "wh"})
	g.Expect(err).To(BeNil())
	g.Expect(result.ID).To(Equal("wh_abcdef0"))
	executor.AssertExpectations(t)
}

func TestCreateValidationIssuesNoSQL(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name   string
		def    Definition
		inputs Inputs
		err    error
	}{
		{
			name:   "missing name and resource_name",
			def:    warehouse,
			inputs: Inputs{"comment": "x"},
			err:    ErrMissingNameAttribute,
		},
		{
			name:   "missing required attribute",
			def:    fileFormat,
			inputs: Inputs{"database": "db", "name": "ff"},
			err:    ErrMissingRequiredAttribute,
		},
		{
			name:   "required attribute set to nil",
			def:    fileFormat,
			inputs: Inputs{"database": "db", "name": "ff", "type": nil},
			err:    ErrMissingRequiredAttribute,
		},
		{
			name:   "invalid name",
			def:    warehouse,
			inputs: Inputs{"name": "wh; DROP DATABASE prod"},
			err:    ErrInvalidIdentifier,
		},
		{
			name:   "invalid generated name",
			def:    warehouse,
			inputs: Inputs{"resource_name": "bad-prefix"},
			err:    ErrInvalidIdentifier,
		},
		{
			name:   "missing scope",
			def:    stage,
			inputs: Inputs{"name": "s1", "database": "db"},
			err:    ErrMissingScope,
		},
		{
			name:   "invalid identifier value",
			def:    fileFormat,
			inputs: Inputs{"database": "db", "name": "ff", "type": "CSV'"},
			err:    ErrInvalidIdentifier,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := NewGomegaWithT(t)
			p, executor := newTestProvider(t, tt.def, nil)

			_, err := p.Create(ctx, tt.inputs)
			g.Expect(errors.Is(err, tt.err)).To(BeTrue(), "got %v", err)
			executor.AssertNotCalled(t, "Execute", mock.Anything, mock.Anything)
		})
	}
}

func TestCreateExecutionError(t *testing.T) {
	g := NewGomegaWithT(t)
	ctx := context.Background()
	p, executor := newTestProvider(t, warehouse, nil)

	failure := &sqlexec.ExecutionError{SQL: "CREATE WAREHOUSE wh", Err: errors.New("boom")}
	executor.On("Execute", mock.Anything, mock.Anything).Return(failure)

	result, err := p.Create(ctx, Inputs{"name": "wh"})
	g.Expect(result).To(BeNil())
	g.Expect(errors.Is(err, ErrSQLExecution)).To(BeTrue())
}

func TestNewProviderRejectsBadDefinitions(t *testing.T) {
	g := NewGomegaWithT(t)

	_, err := NewProvider(Definition{SQLName: "FILE-FORMAT", Scope: AccountScope{}}, nil, nil)
	g.Expect(errors.Is(err, ErrInvalidObjectName)).To(BeTrue())

	_, err = NewProvider(Definition{SQLName: "TABLE"}, nil, nil)
	g.Expect(errors.Is(err, ErrMissingScope)).To(BeTrue())

	_, err = NewProvider(Definition{
		SQLName:    "TABLE",
		Scope:      AccountScope{},
		Attributes: []Attribute{NewValueAttribute("comment"), NewBooleanAttribute("comment")},
	}, nil, nil)
	g.Expect(errors.Is(err, ErrDuplicateAttribute)).To(BeTrue())

	_, err = NewProvider(Definition{
		SQLName:    "TABLE",
		Scope:      SchemaScope{},
		Attributes: []Attribute{NewValueAttribute("schema")},
	}, nil, nil)
	g.Expect(errors.Is(err, ErrDuplicateAttribute)).To(BeTrue())

	_, err = NewProvider(Definition{
		SQLName:    "TABLE",
		Scope:      AccountScope{},
		Parameters: []Parameter{{Name: "name"}},
	}, nil, nil)
	g.Expect(errors.Is(err, ErrDuplicateAttribute)).To(BeTrue())
}

func TestCreateHeaderAndFooter(t *testing.T) {
	g := NewGomegaWithT(t)
	ctx := context.Background()
	def := Definition{
		SQLName: "PIPE",
		Scope:   SchemaScope{},
		Header: func(name, fullName string, inputs Inputs) ([]string, error) {
			return []string{"CREATE OR REPLACE PIPE " + fullName}, nil
		},
		Footer: func(name, fullName string, inputs Inputs) ([]string, error) {
			code, _ := inputs.String("code")
			return []string{"AS " + code}, nil
		},
		Parameters: []Parameter{{Name: "code", Kind: KindString, Required: true}},
		Attributes: []Attribute{NewBooleanAttribute("auto_ingest")},
	}
	p, executor := newTestProvider(t, def, nil)
	executor.On("Execute", mock.Anything, sqlexec.Statement{
		Lines: []string{"CREATE OR REPLACE PIPE db.sc.p1", "AUTO_INGEST = TRUE", "AS COPY INTO t FROM @s"},
	}).Return(nil).Once()

	_, err := p.Create(ctx, Inputs{"database": "db", "schema": "sc", "name": "p1", "auto_ingest": true, "code": "COPY INTO t FROM @s"})
	g.Expect(err).To(BeNil())
	executor.AssertExpectations(t)

	_, err = p.Create(ctx, Inputs{"database": "db", "schema": "sc", "name": "p1"})
	g.Expect(errors.Is(err, ErrMissingRequiredAttribute)).To(BeTrue())

	def.Header = func(name, fullName string, inputs Inputs) ([]string, error) {
		return nil, ErrInvalidValue
	}
	p, executor = newTestProvider(t, def, nil)
	_, err = p.Create(ctx, Inputs{"database": "db", "schema": "sc", "name": "p1", "code": "x"})
	g.Expect(errors.Is(err, ErrInvalidValue)).To(BeTrue())
	executor.AssertNotCalled(t, "Execute", mock.Anything, mock.Anything)
}

func TestDelete(t *testing.T) {
	g := NewGomegaWithT(t)
	ctx := context.Background()

	p, executor := newTestProvider(t, stage, nil)
	executor.On("Execute", mock.Anything, sqlexec.Statement{
		Lines: []string{"DROP STAGE db.public.s1"},
	}).Return(nil).Once()
	g.Expect(p.Delete(ctx, "s1", Inputs{"name": "s1", "database": "db", "schema": "public"})).To(Succeed())
	executor.AssertExpectations(t)

	// the database is recovered from the id
	p, executor = newTestProvider(t, fileFormat, nil)
	executor.On("Execute", mock.Anything, sqlexec.Statement{
		Lines:    []string{"DROP FILE FORMAT ff"},
		Database: "db",
	}).Return(nil).Once()
	g.Expect(p.Delete(ctx, "db", Inputs{"name": "ff"})).To(Succeed())
	executor.AssertExpectations(t)

	err := p.Delete(ctx, "db", Inputs{})
	g.Expect(errors.Is(err, ErrMissingNameAttribute)).To(BeTrue())

	// account objects fall back to the id
	p, executor = newTestProvider(t, warehouse, nil)
	executor.On("Execute", mock.Anything, sqlexec.Statement{
		Lines: []string{"DROP WAREHOUSE wh1"},
	}).Return(nil).Once()
	g.Expect(p.Delete(ctx, "wh1", Inputs{})).To(Succeed())
	executor.AssertExpectations(t)

	err = p.Delete(ctx, "wh1; DROP DATABASE x", Inputs{})
	g.Expect(errors.Is(err, ErrInvalidIdentifier)).To(BeTrue())
}

func TestExists(t *testing.T) {
	g := NewGomegaWithT(t)
	ctx := context.Background()

	p, executor := newTestProvider(t, stage, nil)
	executor.On("Exists", mock.Anything, sqlexec.Statement{
		Lines: []string{"SHOW STAGES LIKE 's1' IN SCHEMA db.public"},
	}).Return(true, nil).Once()
	found, err := p.Exists(ctx, "s1", Inputs{"name": "s1", "database": "db", "schema": "public"})
	g.Expect(err).To(BeNil())
	g.Expect(found).To(BeTrue())

	p, executor = newTestProvider(t, fileFormat, nil)
	executor.On("Exists", mock.Anything, sqlexec.Statement{
		Lines:    []string{"SHOW FILE FORMATS LIKE 'ff' IN DATABASE db"},
		Database: "db",
	}).Return(false, nil).Once()
	found, err = p.Exists(ctx, "db", Inputs{"name": "ff"})
	g.Expect(err).To(BeNil())
	g.Expect(found).To(BeFalse())
	executor.AssertExpectations(t)
}

func TestExistsMatchesUnderscoreLiterally(t *testing.T) {
	g := NewGomegaWithT(t)

	p, executor := newTestProvider(t, stage, nil)
	executor.On("Exists", mock.Anything, sqlexec.Statement{
		Lines: []string{`SHOW STAGES LIKE 'landing\\_a1b2c3d' IN SCHEMA db.public`},
	}).Return(false, nil).Once()
	found, err := p.Exists(context.Background(), "landing_a1b2c3d", Inputs{"name": "landing_a1b2c3d", "database": "db", "schema": "public"})
	g.Expect(err).To(BeNil())
	g.Expect(found).To(BeFalse())
	executor.AssertExpectations(t)
}

func TestDiff(t *testing.T) {
	g := NewGomegaWithT(t)
	p, _ := newTestProvider(t, stage, nil)

	olds := Inputs{"name": "s1", "database": "db", "schema": "public", "url": "s3://a", "null_if": []string{"x"}}

	diff := p.Diff(olds, Inputs{"database": "db", "schema": "public", "url": "s3://a", "null_if": []string{"x"}})
	g.Expect(diff.Changes).To(BeFalse())
	g.Expect(diff.ReplaceKeys).To(BeEmpty())

	diff = p.Diff(olds, Inputs{"name": "s2", "database": "db", "schema": "public", "url": "s3://b", "null_if": []string{"x", "y"}})
	g.Expect(diff.Changes).To(BeTrue())
	g.Expect(diff.ReplaceKeys).To(Equal([]string{"name", "url", "null_if"}))

	diff = p.Diff(olds, Inputs{"name": "s1", "database": "db2", "schema": "public", "url": "s3://a", "null_if": []string{"x"}})
	g.Expect(diff.ReplaceKeys).To(Equal([]string{"database"}))

	diff = p.Diff(olds, Inputs{"database": "db", "schema": "public", "url": "s3://a", "null_if": []string{"x"}, "escape": TokenNone})
	g.Expect(diff.ReplaceKeys).To(Equal([]string{"escape"}))
}

func TestDefaultIDGenerator(t *testing.T) {
	g := NewGomegaWithT(t)
	p, executor := newTestProvider(t, warehouse, nil)
	executor.On("Execute", mock.Anything, mock.Anything).Return(nil)

	result, err := p.Create(context.Background(), Inputs{"resource_name": "wh"})
	g.Expect(err).To(BeNil())
	g.Expect(regexp.MustCompile(`^wh_[a-f0-9]{7}$`).MatchString(result.ID)).To(BeTrue())
}
