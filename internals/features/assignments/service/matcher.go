// file: internals/features/assignments/service/matcher.go
package service

import (
	"fmt"
	"strings"

	"gorm.io/gorm"

	assignment "edupay_backend/internals/features/assignments/model"
	libService "edupay_backend/internals/features/libraries/service"
	taxonomy "edupay_backend/internals/features/taxonomy/model"
)

/* ===============================
   Taxonomy snapshot
=================================*/

type sectionKey struct {
	StageID int
	Code    string
}

// TaxonomySnapshot is an immutable code-indexed view of the taxonomy taken
// once per matcher run. Lookups are exact and case-insensitive.
type TaxonomySnapshot struct {
	Stages   map[string]taxonomy.Stage
	Subjects map[string]taxonomy.Subject
	sections map[sectionKey]taxonomy.Section
}

func NewTaxonomySnapshot(stages []taxonomy.Stage, sections []taxonomy.Section, subjects []taxonomy.Subject) TaxonomySnapshot {
	snap := TaxonomySnapshot{
		Stages:   make(map[string]taxonomy.Stage, len(stages)),
		Subjects: make(map[string]taxonomy.Subject, len(subjects)),
		sections: make(map[sectionKey]taxonomy.Section, len(sections)),
	}
	for _, s := range stages {
		snap.Stages[strings.ToUpper(s.Code)] = s
	}
	for _, s := range subjects {
		snap.Subjects[strings.ToUpper(s.Code)] = s
	}
	for _, s := range sections {
		snap.sections[sectionKey{StageID: s.StageID, Code: strings.ToUpper(s.Code)}] = s
	}
	return snap
}

func (t TaxonomySnapshot) Section(stageID int, code string) (taxonomy.Section, bool) {
	s, ok := t.sections[sectionKey{StageID: stageID, Code: strings.ToUpper(code)}]
	return s, ok
}

func LoadTaxonomySnapshot(db *gorm.DB) (TaxonomySnapshot, error) {
	var (
		stages   []taxonomy.Stage
		sections []taxonomy.Section
		subjects []taxonomy.Subject
	)
	if err := db.Find(&stages).Error; err != nil {
		return TaxonomySnapshot{}, err
	}
	if err := db.Find(&sections).Error; err != nil {
		return TaxonomySnapshot{}, err
	}
	if err := db.Find(&subjects).Error; err != nil {
		return TaxonomySnapshot{}, err
	}
	return NewTaxonomySnapshot(stages, sections, subjects), nil
}

/* ===============================
   Matcher
=================================*/

// Candidate is one roster entry to reconcile.
type Candidate struct {
	LibraryID   int
	LibraryName string
}

type MatchResult struct {
	LibraryID   int    `json:"library_id"`
	LibraryName string `json:"library_name"`
	StageCode   string `json:"stage_code"`
	SectionCode string `json:"section_code"`
	SubjectCode string `json:"subject_code"`
	Matched     bool   `json:"matched"`
	Message     string `json:"message"`
}

type AutoMatchSummary struct {
	TotalLibraries int           `json:"total_libraries"`
	Matched        int           `json:"matched"`
	Unmatched      int           `json:"unmatched"`
	Results        []MatchResult `json:"results"`
}

// MatchOne resolves one candidate against the snapshot. A non-nil assignment
// is returned only when the candidate fully matched; section resolution is
// required only for non-common subjects that parsed a section marker.
func MatchOne(cand Candidate, snap TaxonomySnapshot) (*assignment.TeacherAssignment, MatchResult) {
	parsed := libService.ParseLibraryName(cand.LibraryName)
	res := MatchResult{
		LibraryID:   cand.LibraryID,
		LibraryName: cand.LibraryName,
		StageCode:   parsed.StageCode,
		SectionCode: parsed.SectionCode,
		SubjectCode: parsed.SubjectCode,
	}

	if parsed.StageCode == "" || parsed.SubjectCode == "" {
		res.Message = "could not parse library name"
		return nil, res
	}

	stage, ok := snap.Stages[strings.ToUpper(parsed.StageCode)]
	if !ok {
		res.Message = fmt.Sprintf("stage %s not found", parsed.StageCode)
		return nil, res
	}

	subject, ok := snap.Subjects[strings.ToUpper(parsed.SubjectCode)]
	if !ok {
		res.Message = fmt.Sprintf("subject %s not found", parsed.SubjectCode)
		return nil, res
	}

	var sectionID *int
	if parsed.SectionCode != "" && !subject.IsCommon {
		section, ok := snap.Section(stage.ID, parsed.SectionCode)
		if !ok {
			res.Message = fmt.Sprintf("section %s not found for stage %s", parsed.SectionCode, parsed.StageCode)
			return nil, res
		}
		id := section.ID
		sectionID = &id
	}

	res.Matched = true
	return &assignment.TeacherAssignment{
		LibraryID:         cand.LibraryID,
		LibraryName:       cand.LibraryName,
		StageID:           stage.ID,
		SectionID:         sectionID,
		SubjectID:         subject.ID,
		TaxRate:           0.0,
		RevenuePercentage: 1.0,
	}, res
}

// RunAutoMatch processes every candidate exactly once. Matched candidates go
// through the idempotent upsert (already-assigned counts as matched); nothing
// is ever deleted. Unmatched candidates carry their raw parsed codes back for
// the reconciliation workspace.
func RunAutoMatch(cands []Candidate, snap TaxonomySnapshot, ledger Upserter) (AutoMatchSummary, error) {
	out := AutoMatchSummary{
		TotalLibraries: len(cands),
		Results:        make([]MatchResult, 0, len(cands)),
	}

	for _, cand := range cands {
		a, res := MatchOne(cand, snap)
		if a != nil {
			created, err := ledger.Upsert(*a)
			if err != nil {
				return out, err
			}
			if created {
				res.Message = "successfully matched"
			} else {
				res.Message = "already assigned"
			}
		}
		if res.Matched {
			out.Matched++
		} else {
			out.Unmatched++
		}
		out.Results = append(out.Results, res)
	}
	return out, nil
}
