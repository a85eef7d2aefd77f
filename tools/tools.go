// Copyright (c) DeltaStream, Inc.
// SPDX-License-Identifier: Apache-2.0

//go:build tools

package tools

import (
	// Documentation generation
	_ "github.com/hashicorp/terraform-plugin-docs/cmd/tfplugindocs"
)
