/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package gridstore

import (
	"fmt"
	"strconv"
	"strings"
)

// FormatColumnName prepares a column name for use in a filter formula.
// Names containing spaces must be wrapped in braces; bare names and the
// empty string pass through unchanged.
func FormatColumnName(column string) string {
	if strings.Contains(column, " ") {
		return "{" + column + "}"
	}
	return column
}

// EqualsFormula builds a filter formula matching one column against one
// value: strings are single-quoted with embedded quotes escaped,
// booleans map to the TRUE()/FALSE() literals, numbers stay bare.
func EqualsFormula(column string, value any) string {
	return fmt.Sprintf("%s = %s", FormatColumnName(column), formulaLiteral(value))
}

func formulaLiteral(value any) string {
	switch v := value.(type) {
	case nil:
		return "BLANK()"
	case bool:
		if v {
			return "TRUE()"
		}
		return "FALSE()"
	case string:
		return "'" + strings.ReplaceAll(v, "'", `\'`) + "'"
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32)
	default:
		return "'" + strings.ReplaceAll(fmt.Sprintf("%v", v), "'", `\'`) + "'"
	}
}
