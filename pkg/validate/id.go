package validate

import "github.com/cuemby/hacfg/pkg/reports"

// ID checks that candidate is a valid XML id (NCName subset used by
// pacemaker). It returns nil for a valid id.
func ID(candidate, description string) *reports.Item {
	if candidate == "" {
		item := reports.NewEmptyID(description)
		return &item
	}
	runes := []rune(candidate)
	if !isIDFirstChar(runes[0]) {
		item := reports.NewInvalidID(candidate, description, string(runes[0]), true)
		return &item
	}
	for _, r := range runes[1:] {
		if !isIDChar(r) {
			item := reports.NewInvalidID(candidate, description, string(r), false)
			return &item
		}
	}
	return nil
}

// isIDFirstChar reports whether r may start an id
func isIDFirstChar(r rune) bool {
	return r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

func isIDChar(r rune) bool {
	return isIDFirstChar(r) || (r >= '0' && r <= '9') || r == '.' || r == '-'
}

// SanitizeID drops characters that cannot appear in an id
func SanitizeID(candidate string) string {
	out := make([]rune, 0, len(candidate))
	for _, r := range candidate {
		if len(out) == 0 {
			if isIDFirstChar(r) {
				out = append(out, r)
			}
			continue
		}
		if isIDChar(r) {
			out = append(out, r)
		}
	}
	return string(out)
}
