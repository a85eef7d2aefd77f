package util

import (
	"context"
	"os"

	"github.com/hashicorp/terraform-plugin-framework/diag"
	"github.com/hashicorp/terraform-plugin-log/tflog"
	"sigs.k8s.io/yaml"
)

func LogError(ctx context.Context, d diag.Diagnostics, summary string, err error) diag.Diagnostics {
	tflog.Error(ctx, summary, map[string]any{"error": err.Error()})
	d.AddError(summary, err.Error())
	return d
}

func LoadTestEnv() (map[string]string, error) {
	fdata, err := os.ReadFile(os.Getenv("SNOWFLAKE_CRED_FILE"))
	if err != nil {
		return nil, err
	}
	creds := map[string]string{}
	if err = yaml.Unmarshal(fdata, &creds); err != nil {
		return nil, err
	}
	os.Setenv("SNOWFLAKE_ACCOUNT", creds["account"])
	os.Setenv("SNOWFLAKE_USER", creds["user"])
	os.Setenv("SNOWFLAKE_PASSWORD", creds["password"])
	os.Setenv("SNOWFLAKE_ROLE", creds["role"])
	os.Setenv("SNOWFLAKE_WAREHOUSE", creds["warehouse"])
	// os.Setenv("SNOWFLAKE_DEBUG", "1")
	return creds, err
}
