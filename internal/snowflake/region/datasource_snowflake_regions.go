// Copyright (c) DeltaStream, Inc.
// SPDX-License-Identifier: Apache-2.0

package region

import (
	"context"

	"github.com/hashicorp/terraform-plugin-framework/datasource"
	"github.com/hashicorp/terraform-plugin-framework/datasource/schema"
	"github.com/hashicorp/terraform-plugin-framework/diag"
	"github.com/hashicorp/terraform-plugin-framework/types/basetypes"

	"github.com/deltastreaminc/terraform-provider-snowflake-objects/internal/snowflake/sqlexec"
	"github.com/deltastreaminc/terraform-provider-snowflake-objects/internal/util"
)

var _ datasource.DataSource = &RegionsDataSource{}
var _ datasource.DataSourceWithConfigure = &RegionsDataSource{}

func NewRegionsDataSource() datasource.DataSource {
	return &RegionsDataSource{}
}

type RegionsDataSource struct {
	querier sqlexec.Querier
}

func (d *RegionsDataSource) Configure(ctx context.Context, req datasource.ConfigureRequest, resp *datasource.ConfigureResponse) {
	d.querier = configureQuerier(ctx, req, resp)
}

func (d *RegionsDataSource) Schema(ctx context.Context, req datasource.SchemaRequest, resp *datasource.SchemaResponse) {
	regionAttributes := getRegionSchema().Attributes
	itemAttributes := make(map[string]schema.Attribute, len(regionAttributes))
	for k, a := range regionAttributes {
		itemAttributes[k] = schema.StringAttribute{Description: a.GetDescription(), Computed: true}
	}

	resp.Schema = schema.Schema{
		MarkdownDescription: "Regions data source",

		Attributes: map[string]schema.Attribute{
			"items": schema.ListNestedAttribute{
				Description: "List of regions",
				Computed:    true,
				NestedObject: schema.NestedAttributeObject{
					Attributes: itemAttributes,
				},
			},
		},
	}
}

func (d *RegionsDataSource) Metadata(ctx context.Context, req datasource.MetadataRequest, resp *datasource.MetadataResponse) {
	resp.TypeName = req.ProviderTypeName + "_regions"
}

type RegionsDataSourceData struct {
	Items basetypes.ListValue `tfsdk:"items"`
}

func (d *RegionsDataSource) Read(ctx context.Context, req datasource.ReadRequest, resp *datasource.ReadResponse) {
	regions := RegionsDataSourceData{}
	resp.Diagnostics.Append(req.Config.Get(ctx, &regions)...)
	if resp.Diagnostics.HasError() {
		return
	}

	rows, err := d.querier.Query(ctx, showRegions)
	if err != nil {
		resp.Diagnostics = util.LogError(ctx, resp.Diagnostics, "failed to list regions", err)
		return
	}

	var dg diag.Diagnostics
	regions.Items, dg = basetypes.NewListValueFrom(ctx, regions.Items.ElementType(ctx), regionsFromRows(rows))
	resp.Diagnostics.Append(dg...)
	if resp.Diagnostics.HasError() {
		return
	}

	resp.Diagnostics.Append(resp.State.Set(ctx, &regions)...)
}
