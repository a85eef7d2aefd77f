// Copyright (c) DeltaStream, Inc.
// SPDX-License-Identifier: Apache-2.0

package object

import (
	"context"
	"errors"
	"fmt"

	"github.com/hashicorp/terraform-plugin-framework-validators/listvalidator"
	"github.com/hashicorp/terraform-plugin-framework/path"
	"github.com/hashicorp/terraform-plugin-framework/resource"
	"github.com/hashicorp/terraform-plugin-framework/resource/schema"
	"github.com/hashicorp/terraform-plugin-framework/resource/schema/planmodifier"
	"github.com/hashicorp/terraform-plugin-framework/resource/schema/stringplanmodifier"
	"github.com/hashicorp/terraform-plugin-framework/schema/validator"
	"github.com/hashicorp/terraform-plugin-framework/types"
	"github.com/hashicorp/terraform-plugin-log/tflog"
	"github.com/snowflakedb/gosnowflake"

	"github.com/deltastreaminc/terraform-provider-snowflake-objects/internal/provider/config"
	"github.com/deltastreaminc/terraform-provider-snowflake-objects/internal/util"
)

// Snowflake error number for "Object does not exist or not authorized".
const sqlCodeObjectDoesNotExist = 2003

var _ resource.Resource = &Resource{}
var _ resource.ResourceWithConfigure = &Resource{}
var _ resource.ResourceWithModifyPlan = &Resource{}

// NewResource returns a Terraform resource constructor for def.
func NewResource(def Definition) func() resource.Resource {
	return func() resource.Resource {
		return &Resource{def: def}
	}
}

// Resource is the Terraform resource for any object Definition. Its schema
// and lifecycle are derived from the definition.
type Resource struct {
	def      Definition
	provider *Provider
}

func (d *Resource) Metadata(ctx context.Context, req resource.MetadataRequest, resp *resource.MetadataResponse) {
	resp.TypeName = req.ProviderTypeName + "_" + d.def.TypeName
}

func (d *Resource) Schema(ctx context.Context, req resource.SchemaRequest, resp *resource.SchemaResponse) {
	resp.Schema = resourceSchema(d.def)
}

func (d *Resource) Configure(ctx context.Context, req resource.ConfigureRequest, resp *resource.ConfigureResponse) {
	// Prevent panic if the provider has not been configured.
	if req.ProviderData == nil {
		return
	}

	cfg, ok := req.ProviderData.(*config.SnowflakeProviderCfg)
	if !ok {
		resp.Diagnostics = util.LogError(ctx, resp.Diagnostics, "internal error", fmt.Errorf("invalid provider data"))
		return
	}

	var ids IDGenerator
	if cfg.IDs != nil {
		ids = cfg.IDs
	}
	p, err := NewProvider(d.def, cfg.Executor, ids)
	if err != nil {
		resp.Diagnostics = util.LogError(ctx, resp.Diagnostics, "invalid object definition", err)
		return
	}
	d.provider = p
}

func resourceSchema(def Definition) schema.Schema {
	attributes := map[string]schema.Attribute{
		"id": schema.StringAttribute{
			Description: "Identifier of the " + def.SQLName,
			Computed:    true,
			PlanModifiers: []planmodifier.String{
				stringplanmodifier.UseStateForUnknown(),
			},
		},
		"name": schema.StringAttribute{
			Description: "Name of the " + def.SQLName + ". Generated from resource_name when omitted",
			Optional:    true,
			Computed:    true,
			Validators:  util.IdentifierValidators,
			PlanModifiers: []planmodifier.String{
				stringplanmodifier.UseStateForUnknown(),
			},
		},
		"resource_name": schema.StringAttribute{
			Description: "Prefix of the generated name, used when name is omitted",
			Optional:    true,
			Validators:  util.IdentifierValidators,
		},
	}
	for _, k := range def.Scope.Keys() {
		attributes[k] = schema.StringAttribute{
			Description: fmt.Sprintf("Name of the %s containing the %s", k, def.SQLName),
			Required:    true,
			Validators:  util.IdentifierValidators,
		}
	}
	for _, a := range def.Attributes {
		attributes[a.Name()] = schemaAttribute(a.Kind(), a.Description(), a.Required(), a.Validators())
	}
	for _, p := range def.Parameters {
		attributes[p.Name] = schemaAttribute(p.Kind, p.Description, p.Required, p.Validators)
	}

	return schema.Schema{
		MarkdownDescription: def.Description,
		Attributes:          attributes,
	}
}

func schemaAttribute(kind Kind, description string, required bool, validators []validator.String) schema.Attribute {
	switch kind {
	case KindBool:
		return schema.BoolAttribute{Description: description, Required: required, Optional: !required}
	case KindInt:
		return schema.Int64Attribute{Description: description, Required: required, Optional: !required}
	case KindStringList:
		attr := schema.ListAttribute{
			Description: description,
			ElementType: types.StringType,
			Required:    required,
			Optional:    !required,
		}
		if len(validators) > 0 {
			attr.Validators = []validator.List{listvalidator.ValueStringsAre(validators...)}
		}
		return attr
	default:
		return schema.StringAttribute{Description: description, Required: required, Optional: !required, Validators: validators}
	}
}

// Create implements resource.Resource.
func (d *Resource) Create(ctx context.Context, req resource.CreateRequest, resp *resource.CreateResponse) {
	inputs, err := inputsFromValue(d.def, req.Plan.Raw)
	if err != nil {
		resp.Diagnostics = util.LogError(ctx, resp.Diagnostics, "failed to read plan", err)
		return
	}

	result, err := d.provider.Create(ctx, inputs)
	if err != nil {
		resp.Diagnostics = util.LogError(ctx, resp.Diagnostics, "failed to create "+d.def.SQLName, err)
		return
	}

	resp.State.Raw = req.Plan.Raw
	resp.Diagnostics.Append(resp.State.SetAttribute(ctx, path.Root("id"), types.StringValue(result.ID))...)
	resp.Diagnostics.Append(setOutputs(ctx, d.def, &resp.State, result.Outputs)...)
	if resp.Diagnostics.HasError() {
		return
	}
	tflog.Info(ctx, "Object created", map[string]any{"type": d.def.SQLName, "id": result.ID, "name": result.Outputs["name"]})
}

func (d *Resource) Read(ctx context.Context, req resource.ReadRequest, resp *resource.ReadResponse) {
	var id types.String
	resp.Diagnostics.Append(req.State.GetAttribute(ctx, path.Root("id"), &id)...)
	if resp.Diagnostics.HasError() {
		return
	}
	props, err := inputsFromValue(d.def, req.State.Raw)
	if err != nil {
		resp.Diagnostics = util.LogError(ctx, resp.Diagnostics, "failed to read state", err)
		return
	}

	exists, err := d.provider.Exists(ctx, id.ValueString(), props)
	if err != nil {
		resp.Diagnostics = util.LogError(ctx, resp.Diagnostics, "failed to look up "+d.def.SQLName, err)
		return
	}
	if !exists {
		tflog.Warn(ctx, "Object no longer exists", map[string]any{"type": d.def.SQLName, "id": id.ValueString()})
		resp.State.RemoveResource(ctx)
	}
}

// ModifyPlan forces replacement for every changed input: objects are never
// altered in place.
func (d *Resource) ModifyPlan(ctx context.Context, req resource.ModifyPlanRequest, resp *resource.ModifyPlanResponse) {
	if req.State.Raw.IsNull() || req.Plan.Raw.IsNull() {
		return
	}

	olds, err := inputsFromValue(d.def, req.State.Raw)
	if err != nil {
		resp.Diagnostics = util.LogError(ctx, resp.Diagnostics, "failed to read state", err)
		return
	}
	news, err := inputsFromValue(d.def, req.Plan.Raw)
	if err != nil {
		resp.Diagnostics = util.LogError(ctx, resp.Diagnostics, "failed to read plan", err)
		return
	}

	p := d.provider
	if p == nil {
		if p, err = NewProvider(d.def, nil, nil); err != nil {
			resp.Diagnostics = util.LogError(ctx, resp.Diagnostics, "invalid object definition", err)
			return
		}
	}
	for _, k := range p.Diff(olds, news).ReplaceKeys {
		resp.RequiresReplace = append(resp.RequiresReplace, path.Root(k))
	}
}

// Update only sees plans without replacements, which carry nothing to apply.
func (d *Resource) Update(ctx context.Context, req resource.UpdateRequest, resp *resource.UpdateResponse) {
	resp.State.Raw = req.Plan.Raw
}

func (d *Resource) Delete(ctx context.Context, req resource.DeleteRequest, resp *resource.DeleteResponse) {
	var id types.String
	resp.Diagnostics.Append(req.State.GetAttribute(ctx, path.Root("id"), &id)...)
	if resp.Diagnostics.HasError() {
		return
	}
	props, err := inputsFromValue(d.def, req.State.Raw)
	if err != nil {
		resp.Diagnostics = util.LogError(ctx, resp.Diagnostics, "failed to read state", err)
		return
	}

	if err := d.provider.Delete(ctx, id.ValueString(), props); err != nil {
		var sfErr *gosnowflake.SnowflakeError
		if !errors.As(err, &sfErr) || sfErr.Number != sqlCodeObjectDoesNotExist {
			resp.Diagnostics = util.LogError(ctx, resp.Diagnostics, "failed to drop "+d.def.SQLName, err)
			return
		}
	}
	tflog.Info(ctx, "Object deleted", map[string]any{"type": d.def.SQLName, "id": id.ValueString()})
}
