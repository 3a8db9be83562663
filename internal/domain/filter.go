package domain

import (
	"strings"
)

// FilterRule selects files by extension and by keywords found in the
// extension-stripped file name. Build it with NewFilterRule; the zero value
// accepts every file.
type FilterRule struct {
	Extensions []string
	Include    []string
	Exclude    []string
}

// NewFilterRule normalizes extensions to lowercase with a leading dot and
// drops empty or repeated entries. Keyword order is kept.
func NewFilterRule(extensions, include, exclude []string) FilterRule {
	rule := FilterRule{}
	seen := map[string]bool{}
	for _, ext := range extensions {
		norm := NormalizeExtension(ext)
		if norm == "" || seen[norm] {
			continue
		}
		seen[norm] = true
		rule.Extensions = append(rule.Extensions, norm)
	}
	rule.Include = compactKeywords(include)
	rule.Exclude = compactKeywords(exclude)
	return rule
}

// NormalizeExtension turns "TXT", ".Txt" or " txt " into ".txt".
func NormalizeExtension(ext string) string {
	ext = strings.ToLower(strings.TrimSpace(ext))
	if ext == "" || ext == "." {
		return ""
	}
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return ext
}

func compactKeywords(keywords []string) []string {
	var out []string
	for _, kw := range keywords {
		if kw == "" {
			continue
		}
		out = append(out, kw)
	}
	return out
}

// Qualifies reports whether filename passes rule.
func Qualifies(filename string, rule FilterRule) bool {
	return rule.Qualifies(filename)
}

// Qualifies applies the extension check, then exclude keywords, then include
// keywords. Extensions compare case-insensitively; keywords are plain
// case-sensitive substring matches, so short keywords match broadly.
func (r FilterRule) Qualifies(filename string) bool {
	stem, ext := SplitExt(filename)

	if len(r.Extensions) > 0 {
		if ext == "" {
			return false
		}
		lower := strings.ToLower(filename)
		matched := false
		for _, want := range r.Extensions {
			if strings.HasSuffix(lower, want) {
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}

	for _, kw := range r.Exclude {
		if strings.Contains(stem, kw) {
			return false
		}
	}

	if len(r.Include) > 0 {
		for _, kw := range r.Include {
			if strings.Contains(stem, kw) {
				return true
			}
		}
		return false
	}
	return true
}

// IsZero reports whether the rule accepts everything.
func (r FilterRule) IsZero() bool {
	return len(r.Extensions) == 0 && len(r.Include) == 0 && len(r.Exclude) == 0
}

// SplitExt splits name into stem and extension. Leading dots belong to the
// stem, so ".bashrc" has no extension.
func SplitExt(name string) (stem, ext string) {
	trimmed := strings.TrimLeft(name, ".")
	i := strings.LastIndex(trimmed, ".")
	if i < 0 {
		return name, ""
	}
	cut := len(name) - len(trimmed) + i
	return name[:cut], name[cut:]
}
