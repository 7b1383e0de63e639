package category

import "strings"

// Register adds name to categories unless a case-insensitive match exists.
// The name is trimmed; blank names are ignored. added reports a change.
func Register(categories []string, name string) (out []string, added bool) {
	name = strings.TrimSpace(name)
	if name == "" {
		return categories, false
	}
	for _, c := range categories {
		if strings.EqualFold(c, name) {
			return categories, false
		}
	}
	return append(categories, name), true
}
