// Copyright (c) DeltaStream, Inc.
// SPDX-License-Identifier: Apache-2.0

package provider

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/http/httputil"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/terraform-plugin-framework/datasource"
	"github.com/hashicorp/terraform-plugin-framework/function"
	"github.com/hashicorp/terraform-plugin-framework/path"
	"github.com/hashicorp/terraform-plugin-framework/provider"
	"github.com/hashicorp/terraform-plugin-framework/provider/schema"
	"github.com/hashicorp/terraform-plugin-framework/resource"
	"github.com/hashicorp/terraform-plugin-framework/types"
	"github.com/hashicorp/terraform-plugin-log/tflog"
	"github.com/snowflakedb/gosnowflake"
	"k8s.io/utils/ptr"

	"github.com/deltastreaminc/terraform-provider-snowflake-objects/internal/provider/config"
	"github.com/deltastreaminc/terraform-provider-snowflake-objects/internal/snowflake/fileformat"
	"github.com/deltastreaminc/terraform-provider-snowflake-objects/internal/snowflake/pipe"
	"github.com/deltastreaminc/terraform-provider-snowflake-objects/internal/snowflake/region"
	"github.com/deltastreaminc/terraform-provider-snowflake-objects/internal/snowflake/sqlexec"
	"github.com/deltastreaminc/terraform-provider-snowflake-objects/internal/snowflake/stage"
	"github.com/deltastreaminc/terraform-provider-snowflake-objects/internal/snowflake/storageintegration"
	"github.com/deltastreaminc/terraform-provider-snowflake-objects/internal/snowflake/table"
	"github.com/deltastreaminc/terraform-provider-snowflake-objects/internal/snowflake/warehouse"
	"github.com/deltastreaminc/terraform-provider-snowflake-objects/internal/util"
)

const applicationName = "terraform-provider-snowflake-objects"

var _ provider.Provider = &SnowflakeProvider{}
var _ provider.ProviderWithFunctions = &SnowflakeProvider{}

// SnowflakeProvider defines the provider implementation.
type SnowflakeProvider struct {
	// version is the provider version. set by goreleaser.
	version string
}

// SnowflakeProviderModel describes the provider data model.
type SnowflakeProviderModel struct {
	Account      types.String `tfsdk:"account"`
	User         types.String `tfsdk:"user"`
	Password     types.String `tfsdk:"password"`
	Role         types.String `tfsdk:"role"`
	Warehouse    types.String `tfsdk:"warehouse"`
	Region       types.String `tfsdk:"region"`
	InsecureMode types.Bool   `tfsdk:"insecure_mode"`
}

func (p *SnowflakeProvider) Metadata(ctx context.Context, req provider.MetadataRequest, resp *provider.MetadataResponse) {
	resp.TypeName = "snowflake"
	resp.Version = p.version
}

func providerSchema() schema.Schema {
	return schema.Schema{
		Attributes: map[string]schema.Attribute{
			"account": schema.StringAttribute{
				Description: "Snowflake account identifier. Can also be set via the SNOWFLAKE_ACCOUNT environment variable",
				Optional:    true,
			},
			"user": schema.StringAttribute{
				Description: "Login name. Can also be set via the SNOWFLAKE_USER environment variable",
				Optional:    true,
			},
			"password": schema.StringAttribute{
				Description: "Password. Can also be set via the SNOWFLAKE_PASSWORD environment variable",
				Optional:    true,
				Sensitive:   true,
			},
			"role": schema.StringAttribute{
				Description: "Role used to manage objects. Can also be set via the SNOWFLAKE_ROLE environment variable",
				Optional:    true,
				Validators:  util.IdentifierValidators,
			},
			"warehouse": schema.StringAttribute{
				Description: "Warehouse used to run statements. Can also be set via the SNOWFLAKE_WAREHOUSE environment variable",
				Optional:    true,
				Validators:  util.IdentifierValidators,
			},
			"region": schema.StringAttribute{
				Description: "Snowflake region, for accounts that do not embed it. Can also be set via the SNOWFLAKE_REGION environment variable",
				Optional:    true,
			},
			"insecure_mode": schema.BoolAttribute{
				Description: "Skip OCSP certificate revocation checks",
				Optional:    true,
			},
		},
	}
}

func (p *SnowflakeProvider) Schema(ctx context.Context, req provider.SchemaRequest, resp *provider.SchemaResponse) {
	resp.Schema = providerSchema()
}

type debugTransport struct {
	r         http.RoundTripper
	stderr    io.Writer
	sessionID *string
}

func (d *debugTransport) RoundTrip(h *http.Request) (*http.Response, error) {
	requestID := uuid.New().String()
	h.Header.Set("User-Agent", userAgent(d.sessionID)+" request/"+requestID)

	dump, _ := httputil.DumpRequestOut(h, true)
	fmt.Fprintf(d.stderr, "request (request %s) (session %s): %s\n", requestID, ptr.Deref(d.sessionID, ""), string(dump))
	resp, err := d.r.RoundTrip(h)
	if resp != nil {
		dump, _ = httputil.DumpResponse(resp, true)
		fmt.Fprintf(d.stderr, "response (request %s) (session %s): %s\n", requestID, ptr.Deref(d.sessionID, ""), string(dump))
	} else {
		fmt.Fprintf(d.stderr, "response is nil (request %s) (session %s)\n", requestID, ptr.Deref(d.sessionID, ""))
	}
	return resp, err
}

type httpTransport struct {
	r         http.RoundTripper
	sessionID *string
}

func (d *httpTransport) RoundTrip(h *http.Request) (*http.Response, error) {
	h.Header.Set("User-Agent", userAgent(d.sessionID))
	return d.r.RoundTrip(h)
}

func userAgent(sessionID *string) string {
	ua := applicationName
	if sessionID != nil {
		ua += " session/" + *sessionID
	}
	return ua
}

// sessionIDFromEnv reads SNOWFLAKE_SESSION_ID. RANDOM yields a fresh uuid.
func sessionIDFromEnv() *string {
	v := os.Getenv("SNOWFLAKE_SESSION_ID")
	if v == "" {
		return nil
	}
	if v == "RANDOM" {
		v = uuid.NewString()
	}
	return ptr.To(v)
}

// stringOr returns the configured value, or fallback when it is null.
func stringOr(v types.String, fallback string) string {
	if v.IsNull() || v.IsUnknown() {
		return fallback
	}
	return v.ValueString()
}

func (p *SnowflakeProvider) Configure(ctx context.Context, req provider.ConfigureRequest, resp *provider.ConfigureResponse) {
	var data SnowflakeProviderModel

	resp.Diagnostics.Append(req.Config.Get(ctx, &data)...)
	if resp.Diagnostics.HasError() {
		return
	}

	sfCfg := gosnowflake.Config{
		Account:     stringOr(data.Account, os.Getenv("SNOWFLAKE_ACCOUNT")),
		User:        stringOr(data.User, os.Getenv("SNOWFLAKE_USER")),
		Password:    stringOr(data.Password, os.Getenv("SNOWFLAKE_PASSWORD")),
		Role:        stringOr(data.Role, os.Getenv("SNOWFLAKE_ROLE")),
		Warehouse:   stringOr(data.Warehouse, os.Getenv("SNOWFLAKE_WAREHOUSE")),
		Region:      stringOr(data.Region, os.Getenv("SNOWFLAKE_REGION")),
		Application: applicationName,
	}
	debug := os.Getenv("SNOWFLAKE_DEBUG") != ""
	sfCfg.InsecureMode = os.Getenv("SNOWFLAKE_INSECURE_MODE") != ""
	if !data.InsecureMode.IsNull() {
		sfCfg.InsecureMode = data.InsecureMode.ValueBool()
	}

	if sfCfg.Account == "" {
		resp.Diagnostics.AddAttributeError(path.Root("account"), "Account not specified", "Account must be specified in the configuration or via the SNOWFLAKE_ACCOUNT environment variable")
	}
	if sfCfg.User == "" {
		resp.Diagnostics.AddAttributeError(path.Root("user"), "User not specified", "User must be specified in the configuration or via the SNOWFLAKE_USER environment variable")
	}
	if sfCfg.Password == "" {
		resp.Diagnostics.AddAttributeError(path.Root("password"), "Password not specified", "Password must be specified in the configuration or via the SNOWFLAKE_PASSWORD environment variable")
	}
	if sfCfg.Role == "" {
		resp.Diagnostics.AddAttributeWarning(path.Root("role"), "Role not specified", "Role not specified in the configuration or via the SNOWFLAKE_ROLE environment variable, using the user's default role")
	}
	if resp.Diagnostics.HasError() {
		return
	}

	sessionID := sessionIDFromEnv()
	if sessionID != nil {
		sfCfg.Params = map[string]*string{"query_tag": ptr.To(userAgent(sessionID))}
	}

	t := &http.Transport{
		Dial: (&net.Dialer{
			Timeout:   30 * time.Second,
			KeepAlive: 20 * time.Second,
		}).Dial,
		TLSHandshakeTimeout:   10 * time.Second,
		ResponseHeaderTimeout: 1 * time.Minute,
		ExpectContinueTimeout: 1 * time.Second,
		IdleConnTimeout:       5 * time.Minute,
		MaxIdleConnsPerHost:   -1,
	}

	sfCfg.Transporter = &httpTransport{
		r:         t,
		sessionID: sessionID,
	}
	if debug {
		sfCfg.Transporter = &debugTransport{
			r:         t,
			stderr:    os.Stderr,
			sessionID: sessionID,
		}
	}

	connector := gosnowflake.NewConnector(gosnowflake.SnowflakeDriver{}, sfCfg)
	db := sql.OpenDB(connector)
	executor := sqlexec.New(db, sqlexec.WithSessionID(sessionID))

	tflog.Info(ctx, "Configured Snowflake connection", map[string]any{
		"account":    sfCfg.Account,
		"user":       sfCfg.User,
		"role":       sfCfg.Role,
		"warehouse":  sfCfg.Warehouse,
		"session_id": ptr.Deref(sessionID, ""),
	})

	cfg := &config.SnowflakeProviderCfg{
		Executor: executor,
		Querier:  executor,
		IDs:      util.DefaultRandomID(),
	}

	resp.ResourceData = cfg
	resp.DataSourceData = cfg
}

func (p *SnowflakeProvider) Resources(ctx context.Context) []func() resource.Resource {
	return []func() resource.Resource{
		fileformat.NewFileFormatResource,
		table.NewTableResource,
		stage.NewStageResource,
		pipe.NewPipeResource,
		storageintegration.NewStorageIntegrationResource,
		warehouse.NewWarehouseResource,
	}
}

func (p *SnowflakeProvider) DataSources(ctx context.Context) []func() datasource.DataSource {
	return []func() datasource.DataSource{
		region.NewRegionDataSource,
		region.NewRegionsDataSource,
	}
}

func (p *SnowflakeProvider) Functions(ctx context.Context) []func() function.Function {
	return []func() function.Function{}
}

func New(version string) func() provider.Provider {
	return func() provider.Provider {
		return &SnowflakeProvider{
			version: version,
		}
	}
}
