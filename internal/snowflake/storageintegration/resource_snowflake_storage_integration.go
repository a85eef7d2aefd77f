// Copyright (c) DeltaStream, Inc.
// SPDX-License-Identifier: Apache-2.0

package storageintegration

import (
	"github.com/hashicorp/terraform-plugin-framework-validators/stringvalidator"
	"github.com/hashicorp/terraform-plugin-framework/resource"

	"github.com/deltastreaminc/terraform-provider-snowflake-objects/internal/snowflake/object"
)

var Definition = object.Definition{
	TypeName:    "storage_integration",
	SQLName:     "STORAGE INTEGRATION",
	Description: "Storage integration resource",
	Scope:       object.AccountScope{},
	Attributes: []object.Attribute{
		object.NewIdentifierAttribute("type",
			object.IsRequired(),
			object.WithDescription("Integration type. (Valid values: EXTERNAL_STAGE)"),
			object.WithValidators(stringvalidator.OneOf("EXTERNAL_STAGE")),
		),
		object.NewValueAttribute("storage_provider",
			object.IsRequired(),
			object.WithDescription("Cloud storage provider. (Valid values: S3, GCS, AZURE)"),
			object.WithValidators(stringvalidator.OneOf("S3", "S3GOV", "GCS", "AZURE")),
		),
		object.NewBooleanAttribute("enabled",
			object.IsRequired(),
			object.WithDescription("Whether the integration can be used in stages"),
		),
		object.NewValueAttribute("storage_aws_role_arn", object.WithDescription("IAM role granting access to the S3 buckets")),
		object.NewValueAttribute("azure_tenant_id", object.WithDescription("Azure tenant owning the storage accounts")),
		object.NewListAttribute("storage_allowed_locations",
			object.IsRequired(),
			object.WithDescription("Locations stages may reference"),
		),
		object.NewListAttribute("storage_blocked_locations", object.WithDescription("Locations stages may not reference")),
		object.NewValueAttribute("comment", object.WithDescription("Comment on the integration")),
	},
}

func NewStorageIntegrationResource() resource.Resource {
	return object.NewResource(Definition)()
}
