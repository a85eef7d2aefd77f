package object

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/deltastreaminc/terraform-provider-snowflake-objects/internal/util"
)

// Token is a SQL keyword that can stand in for an attribute value. A Token is
// only ever equal to another Token: the string "NONE" is an ordinary value.
type Token string

const (
	TokenNone Token = "NONE"
	TokenAuto Token = "AUTO"
)

func (t Token) SQL() string {
	return string(t)
}

// Copy option ON_ERROR values.
const (
	OnErrorContinue       = "CONTINUE"
	OnErrorSkipFile       = "SKIP_FILE"
	OnErrorAbortStatement = "ABORT_STATEMENT"
)

var onErrorPattern = regexp.MustCompile(`^(CONTINUE|SKIP_FILE|SKIP_FILE_[0-9]+%?|ABORT_STATEMENT)$`)

// SkipFile skips a file once n errors are found in it.
func SkipFile(n int) (string, error) {
	if n < 0 {
		return "", fmt.Errorf("%w: SKIP_FILE count must not be negative, got %d", ErrInvalidValue, n)
	}
	return fmt.Sprintf("SKIP_FILE_%d", n), nil
}

// SkipFilePercent skips a file once n percent of its rows have errors.
func SkipFilePercent(n int) (string, error) {
	if n < 0 {
		return "", fmt.Errorf("%w: SKIP_FILE percentage must not be negative, got %d", ErrInvalidValue, n)
	}
	return fmt.Sprintf("SKIP_FILE_%d%%", n), nil
}

// ValidateOnError checks an ON_ERROR value and renders it for inlining.
// Snowflake only accepts the percentage form as a string literal.
func ValidateOnError(s string) (string, error) {
	if !onErrorPattern.MatchString(s) {
		return "", fmt.Errorf("%w: invalid ON_ERROR value %q", ErrInvalidValue, s)
	}
	if strings.HasSuffix(s, "%") {
		return util.Literal(s), nil
	}
	return s, nil
}
