// Copyright (c) DeltaStream, Inc.
// SPDX-License-Identifier: Apache-2.0

package util

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/hashicorp/terraform-plugin-framework-validators/stringvalidator"
	"github.com/hashicorp/terraform-plugin-framework/schema/validator"
)

var IdentifierValidators = []validator.String{stringvalidator.RegexMatches(
	identifierPattern,
	"must contain only alphanumeric characters, $ and _",
)}

var OnErrorValidators = []validator.String{stringvalidator.RegexMatches(
	regexp.MustCompile(`^(CONTINUE|SKIP_FILE|SKIP_FILE_[0-9]+%?|ABORT_STATEMENT)$`),
	"must be CONTINUE, SKIP_FILE, SKIP_FILE_<n>, SKIP_FILE_<n>% or ABORT_STATEMENT",
)}

// ColumnsValidator checks "<identifier> <type>" column definitions.
type ColumnsValidator struct{}

func (v ColumnsValidator) Description(ctx context.Context) string {
	return "validates a column definition of the form \"<name> <type>\""
}

func (v ColumnsValidator) MarkdownDescription(ctx context.Context) string {
	return v.Description(ctx)
}

func (v ColumnsValidator) ValidateString(ctx context.Context, req validator.StringRequest, resp *validator.StringResponse) {
	if req.ConfigValue.IsUnknown() || req.ConfigValue.IsNull() {
		return
	}

	if _, _, err := SplitColumn(req.ConfigValue.ValueString()); err != nil {
		resp.Diagnostics = LogError(ctx, resp.Diagnostics, fmt.Sprintf("%s is not a valid column", req.ConfigValue.ValueString()), err)
	}
}

var columnTypePattern = regexp.MustCompile(`^[A-Za-z0-9_ (),]+$`)

// SplitColumn validates a column definition and returns its name and type.
func SplitColumn(col string) (name, typ string, err error) {
	name, typ, ok := strings.Cut(strings.TrimSpace(col), " ")
	if !ok {
		return "", "", fmt.Errorf("column %q has no type", col)
	}
	if name, err = ValidateIdentifier(name); err != nil {
		return "", "", err
	}
	typ = strings.TrimSpace(typ)
	if !columnTypePattern.MatchString(typ) {
		return "", "", fmt.Errorf("column %q has an invalid type %q", name, typ)
	}
	return name, typ, nil
}
