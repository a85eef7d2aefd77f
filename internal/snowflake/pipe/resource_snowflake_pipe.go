// Copyright (c) DeltaStream, Inc.
// SPDX-License-Identifier: Apache-2.0

package pipe

import (
	"fmt"
	"strings"

	"github.com/hashicorp/terraform-plugin-framework/resource"

	"github.com/deltastreaminc/terraform-provider-snowflake-objects/internal/snowflake/object"
)

var Definition = object.Definition{
	TypeName:    "pipe",
	SQLName:     "PIPE",
	Description: "Pipe resource",
	Scope:       object.SchemaScope{},
	Footer:      copyStatement,
	Parameters: []object.Parameter{
		{
			Name:        "code",
			Description: "COPY INTO statement run by the pipe",
			Kind:        object.KindString,
			Required:    true,
		},
	},
	Attributes: []object.Attribute{
		object.NewBooleanAttribute("auto_ingest", object.WithDescription("Load files on event notifications")),
		object.NewValueAttribute("error_integration", object.WithDescription("Notification integration for load errors")),
		object.NewValueAttribute("aws_sns_topic", object.WithDescription("ARN of the SNS topic for S3 notifications")),
		object.NewValueAttribute("integration", object.WithDescription("Notification integration for Azure or GCS events")),
		object.NewValueAttribute("comment", object.WithDescription("Comment on the pipe")),
	},
}

func NewPipeResource() resource.Resource {
	return object.NewResource(Definition)()
}

func copyStatement(name, fullName string, inputs object.Inputs) ([]string, error) {
	code, ok := inputs.String("code")
	if !ok || strings.TrimSpace(code) == "" {
		return nil, fmt.Errorf("%w: %q", object.ErrMissingRequiredAttribute, "code")
	}
	return []string{"AS " + strings.TrimSpace(code)}, nil
}
