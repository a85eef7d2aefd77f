// Copyright (c) DeltaStream, Inc.
// SPDX-License-Identifier: Apache-2.0

package table

import (
	"fmt"
	"strings"

	"github.com/hashicorp/terraform-plugin-framework/resource"
	"github.com/hashicorp/terraform-plugin-framework/schema/validator"

	"github.com/deltastreaminc/terraform-provider-snowflake-objects/internal/snowflake/object"
	"github.com/deltastreaminc/terraform-provider-snowflake-objects/internal/util"
)

var Definition = object.Definition{
	TypeName:    "table",
	SQLName:     "TABLE",
	Description: "Table resource",
	Scope:       object.SchemaScope{},
	Header:      createHeader,
	Parameters: []object.Parameter{
		{
			Name:        "columns",
			Description: `Column definitions, each of the form "<name> <type>"`,
			Kind:        object.KindStringList,
			Required:    true,
			Validators:  []validator.String{util.ColumnsValidator{}},
		},
		{
			Name:        "temporary",
			Description: "Create a temporary table",
			Kind:        object.KindBool,
		},
		{
			Name:        "cluster_by",
			Description: "Clustering key columns",
			Kind:        object.KindStringList,
			Validators:  util.IdentifierValidators,
		},
	},
	Attributes: []object.Attribute{
		object.NewValueAttribute("data_retention_time_in_days",
			object.WithKind(object.KindInt),
			object.WithDescription("Time Travel retention period in days"),
		),
		object.NewBooleanAttribute("change_tracking", object.WithDescription("Enable change tracking")),
		object.NewValueAttribute("comment", object.WithDescription("Comment on the table")),
	},
}

func NewTableResource() resource.Resource {
	return object.NewResource(Definition)()
}

// createHeader renders
//
//	CREATE [TEMPORARY] TABLE db.schema.name (col type, ...)
//	[CLUSTER BY ( a,b )]
func createHeader(name, fullName string, inputs object.Inputs) ([]string, error) {
	columns, err := stringList(inputs, "columns")
	if err != nil {
		return nil, err
	}
	defs := make([]string, len(columns))
	for i, col := range columns {
		colName, colType, err := util.SplitColumn(col)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", object.ErrInvalidValue, err)
		}
		defs[i] = colName + " " + colType
	}

	create := "CREATE"
	if temporary, _ := inputs.Lookup("temporary"); temporary == true {
		create += " TEMPORARY"
	}
	lines := []string{fmt.Sprintf("%s TABLE %s (%s)", create, fullName, strings.Join(defs, ", "))}

	clusterBy, err := stringList(inputs, "cluster_by")
	if err != nil {
		return nil, err
	}
	if len(clusterBy) > 0 {
		for _, col := range clusterBy {
			if _, err := util.ValidateIdentifier(col); err != nil {
				return nil, err
			}
		}
		lines = append(lines, fmt.Sprintf("CLUSTER BY ( %s )", strings.Join(clusterBy, ",")))
	}
	return lines, nil
}

func stringList(inputs object.Inputs, key string) ([]string, error) {
	v, ok := inputs.Lookup(key)
	if !ok {
		return nil, nil
	}
	switch items := v.(type) {
	case []string:
		return items, nil
	case []any:
		strs := make([]string, len(items))
		for i, item := range items {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("%w: %s must contain strings, got %T", object.ErrInvalidValue, key, item)
			}
			strs[i] = s
		}
		return strs, nil
	default:
		return nil, fmt.Errorf("%w: %s must be a list, got %T", object.ErrInvalidValue, key, v)
	}
}
