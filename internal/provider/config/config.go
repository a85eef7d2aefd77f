// Copyright (c) DeltaStream, Inc.
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"github.com/deltastreaminc/terraform-provider-snowflake-objects/internal/snowflake/sqlexec"
	"github.com/deltastreaminc/terraform-provider-snowflake-objects/internal/util"
)

type SnowflakeProviderCfg struct {
	Executor sqlexec.Executor
	Querier  sqlexec.Querier
	IDs      *util.RandomID
}
