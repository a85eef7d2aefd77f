package object

import (
	"errors"

	"github.com/deltastreaminc/terraform-provider-snowflake-objects/internal/snowflake/sqlexec"
	"github.com/deltastreaminc/terraform-provider-snowflake-objects/internal/util"
)

var (
	ErrInvalidIdentifier        = util.ErrInvalidIdentifier
	ErrInvalidObjectName        = util.ErrInvalidObjectName
	ErrSQLExecution             = sqlexec.ErrSQLExecution
	ErrMissingRequiredAttribute = errors.New("required input attribute is not present")
	ErrMissingNameAttribute     = errors.New("at least one of 'name' or 'resource_name' must be provided")
	ErrMissingScope             = errors.New("missing scope")
	ErrDuplicateAttribute       = errors.New("duplicate attribute")
	ErrInvalidValue             = errors.New("invalid attribute value")
)
