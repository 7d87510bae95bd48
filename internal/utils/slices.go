package utils

import "slices"

// FilterSliceString returns slice without any of the given values.
func FilterSliceString(slice []string, filters ...string) []string {
	var out = make([]string, 0, len(slice))
	for _, v := range slice {
		if slices.Contains(filters, v) {
			continue
		}
		out = append(out, v)
	}
	return out
}
