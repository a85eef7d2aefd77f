// Copyright (c) DeltaStream, Inc.
// SPDX-License-Identifier: Apache-2.0

package region

import (
	"context"
	"fmt"

	"github.com/hashicorp/terraform-plugin-framework/datasource"
	"github.com/hashicorp/terraform-plugin-framework/datasource/schema"
	"github.com/hashicorp/terraform-plugin-framework/types"
	"github.com/hashicorp/terraform-plugin-framework/types/basetypes"

	"github.com/deltastreaminc/terraform-provider-snowflake-objects/internal/provider/config"
	"github.com/deltastreaminc/terraform-provider-snowflake-objects/internal/snowflake/sqlexec"
	"github.com/deltastreaminc/terraform-provider-snowflake-objects/internal/util"
)

var _ datasource.DataSource = &RegionDataSource{}
var _ datasource.DataSourceWithConfigure = &RegionDataSource{}

var showRegions = sqlexec.Statement{Lines: []string{"SHOW REGIONS"}}

func NewRegionDataSource() datasource.DataSource {
	return &RegionDataSource{}
}

type RegionDataSource struct {
	querier sqlexec.Querier
}

func configureQuerier(ctx context.Context, req datasource.ConfigureRequest, resp *datasource.ConfigureResponse) sqlexec.Querier {
	if req.ProviderData == nil {
		return nil
	}

	cfg, ok := req.ProviderData.(*config.SnowflakeProviderCfg)
	if !ok {
		resp.Diagnostics = util.LogError(ctx, resp.Diagnostics, "provider error", fmt.Errorf("invalid provider data"))
		return nil
	}
	return cfg.Querier
}

func (d *RegionDataSource) Configure(ctx context.Context, req datasource.ConfigureRequest, resp *datasource.ConfigureResponse) {
	d.querier = configureQuerier(ctx, req, resp)
}

type RegionDataSourceData struct {
	SnowflakeRegion types.String `tfsdk:"snowflake_region"`
	RegionGroup     types.String `tfsdk:"region_group"`
	Cloud           types.String `tfsdk:"cloud"`
	Region          types.String `tfsdk:"region"`
	DisplayName     types.String `tfsdk:"display_name"`
}

func (d *RegionDataSource) Schema(ctx context.Context, req datasource.SchemaRequest, resp *datasource.SchemaResponse) {
	resp.Schema = getRegionSchema()
}

func getRegionSchema() schema.Schema {
	return schema.Schema{
		MarkdownDescription: "Region data source",

		Attributes: map[string]schema.Attribute{
			"snowflake_region": schema.StringAttribute{
				Description: "Snowflake name of the region, e.g. AWS_US_WEST_2",
				Required:    true,
				Validators:  util.IdentifierValidators,
			},
			"region_group": schema.StringAttribute{
				Description: "Region group the region belongs to",
				Computed:    true,
			},
			"cloud": schema.StringAttribute{
				Description: "Cloud provider of the region",
				Computed:    true,
			},
			"region": schema.StringAttribute{
				Description: "Cloud provider region",
				Computed:    true,
			},
			"display_name": schema.StringAttribute{
				Description: "Human readable name of the region",
				Computed:    true,
			},
		},
	}
}

func (d *RegionDataSource) Metadata(ctx context.Context, req datasource.MetadataRequest, resp *datasource.MetadataResponse) {
	resp.TypeName = req.ProviderTypeName + "_region"
}

func (d *RegionDataSource) Read(ctx context.Context, req datasource.ReadRequest, resp *datasource.ReadResponse) {
	sfRegion := RegionDataSourceData{}
	resp.Diagnostics.Append(req.Config.Get(ctx, &sfRegion)...)
	if resp.Diagnostics.HasError() {
		return
	}

	rows, err := d.querier.Query(ctx, showRegions)
	if err != nil {
		resp.Diagnostics = util.LogError(ctx, resp.Diagnostics, "failed to list regions", err)
		return
	}

	found, ok := findRegion(regionsFromRows(rows), sfRegion.SnowflakeRegion.ValueString())
	if !ok {
		resp.Diagnostics = util.LogError(ctx, resp.Diagnostics, "region not found", fmt.Errorf("no region named %q", sfRegion.SnowflakeRegion.ValueString()))
		return
	}
	resp.Diagnostics.Append(resp.State.Set(ctx, &found)...)
}

func regionsFromRows(rows []map[string]string) []RegionDataSourceData {
	items := make([]RegionDataSourceData, 0, len(rows))
	for _, row := range rows {
		items = append(items, RegionDataSourceData{
			SnowflakeRegion: basetypes.NewStringValue(row["snowflake_region"]),
			RegionGroup:     optionalString(row, "region_group"),
			Cloud:           optionalString(row, "cloud"),
			Region:          optionalString(row, "region"),
			DisplayName:     optionalString(row, "display_name"),
		})
	}
	return items
}

// findRegion matches case-insensitively, as Snowflake does for unquoted names.
func findRegion(items []RegionDataSourceData, name string) (RegionDataSourceData, bool) {
	for _, item := range items {
		if util.ParseIdentifier(item.SnowflakeRegion.ValueString()) == util.ParseIdentifier(name) {
			return item, true
		}
	}
	return RegionDataSourceData{}, false
}

func optionalString(row map[string]string, key string) types.String {
	if v, ok := row[key]; ok {
		return basetypes.NewStringValue(v)
	}
	return basetypes.NewStringNull()
}
