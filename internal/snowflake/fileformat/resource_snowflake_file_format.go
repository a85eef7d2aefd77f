// Copyright (c) DeltaStream, Inc.
// SPDX-License-Identifier: Apache-2.0

package fileformat

import (
	"github.com/hashicorp/terraform-plugin-framework-validators/stringvalidator"
	"github.com/hashicorp/terraform-plugin-framework/resource"
	"github.com/hashicorp/terraform-plugin-framework/schema/validator"

	"github.com/deltastreaminc/terraform-provider-snowflake-objects/internal/snowflake/object"
)

const (
	TypeCSV     = "CSV"
	TypeJSON    = "JSON"
	TypeAvro    = "AVRO"
	TypeORC     = "ORC"
	TypeParquet = "PARQUET"
	TypeXML     = "XML"
)

// Definition describes FILE FORMAT objects. They are created by bare name in
// the session database, and their ID is the database name.
var Definition = object.Definition{
	TypeName:    "file_format",
	SQLName:     "FILE FORMAT",
	Description: "File format resource",
	Scope:       object.DatabaseScope{},
	IdentityKey: "database",
	Outputs:     dropNullOutputs,
	Attributes: []object.Attribute{
		object.NewIdentifierAttribute("type",
			object.IsRequired(),
			object.WithDescription("Type of the files. (Valid values: CSV, JSON, AVRO, ORC, PARQUET, XML)"),
			object.WithValidators(stringvalidator.OneOf(TypeCSV, TypeJSON, TypeAvro, TypeORC, TypeParquet, TypeXML)),
		),
		object.NewValueOrTokenAttribute(
			object.NewIdentifierAttribute("compression", object.WithDescription("Compression algorithm of the files, or AUTO")),
			object.TokenAuto,
		),
		noneOr("record_delimiter", "Characters separating records, or NONE"),
		noneOr("field_delimiter", "Characters separating fields, or NONE"),
		noneOr("file_extension", "Extension of unloaded files, or NONE"),
		object.NewValueAttribute("skip_header",
			object.WithKind(object.KindInt),
			object.WithDescription("Number of header lines to skip"),
		),
		object.NewBooleanAttribute("skip_blank_lines", object.WithDescription("Skip blank lines")),
		autoOr("date_format", "Format of date values, or AUTO"),
		autoOr("time_format", "Format of time values, or AUTO"),
		autoOr("timestamp_format", "Format of timestamp values, or AUTO"),
		object.NewIdentifierAttribute("binary_format",
			object.WithDescription("Encoding of binary values. (Valid values: HEX, BASE64, UTF8)"),
			object.WithValidators(binaryFormatValidators...),
		),
		noneOr("escape", "Escape character for enclosed fields, or NONE"),
		noneOr("escape_unenclosed_field", "Escape character for unenclosed fields, or NONE"),
		object.NewBooleanAttribute("trim_space", object.WithDescription("Remove white space from fields")),
		noneOr("field_optionally_enclosed_by", "Character used to enclose strings, or NONE"),
		object.NewListAttribute("null_if", object.WithDescription("Strings converted to SQL NULL")),
		object.NewBooleanAttribute("error_on_column_count_mismatch", object.WithDescription("Fail when the column count differs from the table")),
		object.NewBooleanAttribute("empty_field_as_null", object.WithDescription("Load empty fields as SQL NULL")),
		object.NewBooleanAttribute("skip_byte_order_mark", object.WithDescription("Skip a BOM at the start of files")),
		object.NewValueAttribute("encoding", object.WithDescription("Character set of the files")),
		object.NewValueAttribute("comment", object.WithDescription("Comment on the file format")),
	},
}

var binaryFormatValidators = []validator.String{stringvalidator.OneOf("HEX", "BASE64", "UTF8")}

func NewFileFormatResource() resource.Resource {
	return object.NewResource(Definition)()
}

func noneOr(name, description string) object.Attribute {
	return object.NewValueOrTokenAttribute(
		object.NewValueAttribute(name, object.WithDescription(description)),
		object.TokenNone,
	)
}

func autoOr(name, description string) object.Attribute {
	return object.NewValueOrTokenAttribute(
		object.NewValueAttribute(name, object.WithDescription(description)),
		object.TokenAuto,
	)
}

// dropNullOutputs keeps only the options that were set.
func dropNullOutputs(name string, inputs object.Inputs, outs map[string]any) (map[string]any, error) {
	shaped := make(map[string]any, len(outs))
	for k, v := range outs {
		if v != nil {
			shaped[k] = v
		}
	}
	return shaped, nil
}
