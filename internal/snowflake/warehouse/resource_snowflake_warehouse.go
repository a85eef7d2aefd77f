// Copyright (c) DeltaStream, Inc.
// SPDX-License-Identifier: Apache-2.0

package warehouse

import (
	"github.com/hashicorp/terraform-plugin-framework-validators/stringvalidator"
	"github.com/hashicorp/terraform-plugin-framework/resource"

	"github.com/deltastreaminc/terraform-provider-snowflake-objects/internal/snowflake/object"
)

var Definition = object.Definition{
	TypeName:    "warehouse",
	SQLName:     "WAREHOUSE",
	Description: "Warehouse resource",
	Scope:       object.AccountScope{},
	Attributes: []object.Attribute{
		object.NewIdentifierAttribute("warehouse_size",
			object.WithDescription("Size of the warehouse, e.g. XSMALL"),
			object.WithValidators(stringvalidator.OneOf(
				"XSMALL", "SMALL", "MEDIUM", "LARGE", "XLARGE", "XXLARGE", "XXXLARGE", "X4LARGE", "X5LARGE", "X6LARGE",
			)),
		),
		object.NewValueAttribute("max_cluster_count", object.WithKind(object.KindInt), object.WithDescription("Maximum number of clusters")),
		object.NewValueAttribute("min_cluster_count", object.WithKind(object.KindInt), object.WithDescription("Minimum number of clusters")),
		object.NewIdentifierAttribute("scaling_policy",
			object.WithDescription("Scaling policy. (Valid values: STANDARD, ECONOMY)"),
			object.WithValidators(stringvalidator.OneOf("STANDARD", "ECONOMY")),
		),
		object.NewValueAttribute("auto_suspend", object.WithKind(object.KindInt), object.WithDescription("Seconds of inactivity before suspending")),
		object.NewBooleanAttribute("auto_resume", object.WithDescription("Resume when a statement is submitted")),
		object.NewBooleanAttribute("initially_suspended", object.WithDescription("Create the warehouse suspended")),
		object.NewValueAttribute("comment", object.WithDescription("Comment on the warehouse")),
	},
}

func NewWarehouseResource() resource.Resource {
	return object.NewResource(Definition)()
}
