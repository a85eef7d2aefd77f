// Copyright (c) DeltaStream, Inc.
// SPDX-License-Identifier: Apache-2.0

// Package sqlexectest provides a mock sqlexec.Executor.
package sqlexectest

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/deltastreaminc/terraform-provider-snowflake-objects/internal/snowflake/sqlexec"
)

var _ sqlexec.Executor = &Executor{}
var _ sqlexec.Querier = &Executor{}

type Executor struct {
	mock.Mock
}

func (m *Executor) Execute(ctx context.Context, st sqlexec.Statement) error {
	args := m.Called(ctx, st)
	return args.Error(0)
}

func (m *Executor) Exists(ctx context.Context, st sqlexec.Statement) (bool, error) {
	args := m.Called(ctx, st)
	return args.Bool(0), args.Error(1)
}

func (m *Executor) Query(ctx context.Context, st sqlexec.Statement) ([]map[string]string, error) {
	args := m.Called(ctx, st)
	rows, _ := args.Get(0).([]map[string]string)
	return rows, args.Error(1)
}

// Capture accepts every Execute call and returns the statements seen so far.
func (m *Executor) Capture() func() []sqlexec.Statement {
	var statements []sqlexec.Statement
	m.On("Execute", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		statements = append(statements, args.Get(1).(sqlexec.Statement))
	}).Return(nil)
	return func() []sqlexec.Statement { return statements }
}
