// Copyright (c) DeltaStream, Inc.
// SPDX-License-Identifier: Apache-2.0

package stage

import (
	"github.com/hashicorp/terraform-plugin-framework/resource"

	"github.com/deltastreaminc/terraform-provider-snowflake-objects/internal/snowflake/object"
	"github.com/deltastreaminc/terraform-provider-snowflake-objects/internal/util"
)

var Definition = object.Definition{
	TypeName:    "stage",
	SQLName:     "STAGE",
	Description: "Stage resource",
	Scope:       object.SchemaScope{},
	Attributes: []object.Attribute{
		object.NewValueAttribute("url", object.WithDescription("URL of the external location")),
		object.NewIdentifierAttribute("storage_integration",
			object.WithDescription("Storage integration used to access the external location"),
			object.WithValidators(util.IdentifierValidators...),
		),
		object.NewNestedAttribute("FILE_FORMAT", object.NewValueAttribute("file_format",
			object.WithSQLName("FORMAT_NAME"),
			object.WithDescription("Name of the file format used by the stage"),
		)),
		object.NewNestedAttribute("COPY_OPTIONS", object.NewIdentifierAttribute("on_error",
			object.WithDescription("Error handling for loads from the stage. (Valid values: CONTINUE, SKIP_FILE, SKIP_FILE_<n>, SKIP_FILE_<n>%, ABORT_STATEMENT)"),
			object.WithValidator(object.ValidateOnError),
			object.WithValidators(util.OnErrorValidators...),
		)),
		object.NewValueAttribute("comment", object.WithDescription("Comment on the stage")),
	},
}

func NewStageResource() resource.Resource {
	return object.NewResource(Definition)()
}
