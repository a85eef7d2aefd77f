// Copyright (c) DeltaStream, Inc.
// SPDX-License-Identifier: Apache-2.0

package util

import (
	"context"
	"errors"
	"testing"

	"github.com/hashicorp/terraform-plugin-framework/schema/validator"
	"github.com/hashicorp/terraform-plugin-framework/types"
	. "github.com/onsi/gomega"
)

func TestSplitColumn(t *testing.T) {
	g := NewGomegaWithT(t)

	name, typ, err := SplitColumn("id NUMBER(38,0)")
	g.Expect(err).To(BeNil())
	g.Expect(name).To(Equal("id"))
	g.Expect(typ).To(Equal("NUMBER(38,0)"))

	name, typ, err = SplitColumn("  created_at  TIMESTAMP_NTZ ")
	g.Expect(err).To(BeNil())
	g.Expect(name).To(Equal("created_at"))
	g.Expect(typ).To(Equal("TIMESTAMP_NTZ"))

	_, _, err = SplitColumn("id")
	g.Expect(err).ToNot(BeNil())

	_, _, err = SplitColumn("bad-name VARCHAR")
	g.Expect(errors.Is(err, ErrInvalidIdentifier)).To(BeTrue())

	_, _, err = SplitColumn("id VARCHAR; DROP TABLE x")
	g.Expect(err).ToNot(BeNil())
}

func TestColumnsValidator(t *testing.T) {
	g := NewGomegaWithT(t)
	ctx := context.Background()

	resp := &validator.StringResponse{}
	ColumnsValidator{}.ValidateString(ctx, validator.StringRequest{ConfigValue: types.StringValue("id INT")}, resp)
	g.Expect(resp.Diagnostics.HasError()).To(BeFalse())

	resp = &validator.StringResponse{}
	ColumnsValidator{}.ValidateString(ctx, validator.StringRequest{ConfigValue: types.StringValue("id")}, resp)
	g.Expect(resp.Diagnostics.HasError()).To(BeTrue())

	resp = &validator.StringResponse{}
	ColumnsValidator{}.ValidateString(ctx, validator.StringRequest{ConfigValue: types.StringUnknown()}, resp)
	g.Expect(resp.Diagnostics.HasError()).To(BeFalse())
}
