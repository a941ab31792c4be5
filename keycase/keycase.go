/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

// Package keycase converts record field keys between naming styles.
package keycase

import (
	"github.com/iancoleman/strcase"
)

// CamelKeys returns a copy of fields with every map key converted to
// lowerCamelCase, recursing into nested maps and slices. Values are
// never modified, only keys; the input map is left untouched.
func CamelKeys(fields map[string]any) map[string]any {
	if fields == nil {
		return nil
	}
	out := make(map[string]any, len(fields))
	for k, v := range fields {
		out[strcase.ToLowerCamel(k)] = camelValue(v)
	}
	return out
}

func camelValue(v any) any {
	switch tv := v.(type) {
	case map[string]any:
		return CamelKeys(tv)
	case []any:
		out := make([]any, len(tv))
		for i, e := range tv {
			out[i] = camelValue(e)
		}
		return out
	default:
		return v
	}
}
