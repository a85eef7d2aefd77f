package util

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var (
	ErrInvalidIdentifier = errors.New("invalid Snowflake identifier")
	ErrInvalidObjectName = errors.New("invalid Snowflake object name")
)

var (
	identifierPattern = regexp.MustCompile(`^[A-Za-z0-9$_]+$`)
	objectNamePattern = regexp.MustCompile(`^[A-Za-z0-9$_ ]+$`)
)

// ValidateIdentifier returns id unchanged if it is an unquoted Snowflake
// identifier. See https://docs.snowflake.com/en/sql-reference/identifiers-syntax
func ValidateIdentifier(id string) (string, error) {
	if !identifierPattern.MatchString(id) {
		return "", fmt.Errorf("%w: %q", ErrInvalidIdentifier, id)
	}
	return id, nil
}

// ValidateObjectName is ValidateIdentifier for SQL object kinds such as
// "STORAGE INTEGRATION", which may contain spaces.
func ValidateObjectName(name string) (string, error) {
	if !objectNamePattern.MatchString(name) {
		return "", fmt.Errorf("%w: %q", ErrInvalidObjectName, name)
	}
	return name, nil
}

func ParseIdentifier(id string) string {
	id = strings.TrimSpace(id)
	if len(id) > 1 && strings.HasPrefix(id, `"`) {
		return strings.ReplaceAll(id[1:len(id)-1], `""`, `"`)
	}
	return strings.ToUpper(id)
}

var likeEscaper = strings.NewReplacer(`\`, `\\\\`, `_`, `\\_`, `%`, `\\%`)

// LikePattern renders a SHOW ... LIKE pattern that matches name exactly.
// Snowflake unescapes backslashes in string literals before the pattern is
// applied, so each LIKE escape is written twice.
func LikePattern(name string) string {
	return Literal(likeEscaper.Replace(name))
}

// Literal renders v for inline use in SQL text. Prefer bindings; this is only
// for statements where Snowflake does not accept placeholders.
func Literal(v any) string {
	switch t := v.(type) {
	case nil:
		return "NULL"
	case string:
		return "'" + strings.ReplaceAll(t, "'", "''") + "'"
	case bool:
		if t {
			return "TRUE"
		}
		return "FALSE"
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case fmt.Stringer:
		return Literal(t.String())
	default:
		return Literal(fmt.Sprint(t))
	}
}
