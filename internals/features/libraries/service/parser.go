// file: internals/features/libraries/service/parser.go
package service

import (
	"regexp"
	"strings"
)

// Library display names encode stage / section / subject, e.g.
//
//	"S1-AR-P0046-Zakaria"            → stage S1, common subject AR
//	"S1-ISC-AR-P0022-Mohamed Sakr"   → stage S1, section GEN, subject ISC
//	"S1-MATH-EN-Teacher"             → stage S1, section LANG, subject MATH
//	"(0LD)S1-MATH-EN--Shady"         → prefix stripped, then as above
//
// The token after the stage is ambiguous: a known-common code there IS the
// subject (no section); anything else is the subject code, and a following
// AR or EN token is a medium-of-instruction marker naming the section.

// Codes that are subjects in their own right and always common.
var commonSubjectCodes = map[string]bool{
	"AR": true, "EN": true, "HX": true, "SS": true, "S.S": true,
	"HIST": true, "GEO": true, "SOC": true,
}

// AR/EN after a non-common subject code marks the section, not a subject.
var sectionIndicatorToSection = map[string]string{
	"AR": "GEN",  // taught in Arabic
	"EN": "LANG", // taught in English
}

var (
	leadingQualifierRe = regexp.MustCompile(`^\s*[\(\[][^\)\]]*[\)\]]\s*`)
	hyphenRunRe        = regexp.MustCompile(`-+`)
	stageCodeRe        = regexp.MustCompile(`^[A-Z]\d+$`)
)

// ParsedName holds best-effort codes extracted from a display name. Empty
// fields mean the token was absent or unrecognizable; parsing never fails.
type ParsedName struct {
	StageCode   string
	SectionCode string // empty for common subjects
	SubjectCode string
}

// ParseLibraryName is purely lexical: it does no taxonomy lookups.
func ParseLibraryName(name string) ParsedName {
	name = strings.TrimSpace(name)
	if name == "" {
		return ParsedName{}
	}

	// Strip leading qualifiers like "(OLD)", "(0LD)", "[OLD]".
	name = leadingQualifierRe.ReplaceAllString(name, "")

	// Split on hyphen runs; double dashes collapse.
	var parts []string
	for _, p := range hyphenRunRe.Split(name, -1) {
		p = strings.ToUpper(strings.TrimSpace(p))
		if p != "" {
			parts = append(parts, p)
		}
	}
	if len(parts) < 2 {
		return ParsedName{}
	}

	if !stageCodeRe.MatchString(parts[0]) {
		return ParsedName{}
	}
	out := ParsedName{StageCode: parts[0]}

	second := parts[1]
	if commonSubjectCodes[second] {
		// e.g. S1-AR-… : the code IS the subject, common, no section.
		out.SubjectCode = second
		return out
	}

	// e.g. S1-ISC-AR-… : second token is the subject code.
	out.SubjectCode = second
	if len(parts) >= 3 {
		if sec, ok := sectionIndicatorToSection[parts[2]]; ok {
			out.SectionCode = sec
		}
	}
	return out
}
