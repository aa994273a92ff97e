// file: internals/features/assignments/dto/assignment_dto.go
package dto

import (
	assignment "edupay_backend/internals/features/assignments/model"
)

/* ===============================
   CREATE / UPDATE
=================================*/

type AssignmentCreateDTO struct {
	LibraryID         int      `json:"library_id" validate:"required,min=1"`
	LibraryName       string   `json:"library_name" validate:"required,max=255"`
	StageID           int      `json:"stage_id" validate:"required,min=1"`
	SectionID         *int     `json:"section_id,omitempty"` // nil = applies to all sections
	SubjectID         int      `json:"subject_id" validate:"required,min=1"`
	TaxRate           float64  `json:"tax_rate" validate:"min=0,max=1"`
	RevenuePercentage *float64 `json:"revenue_percentage,omitempty" validate:"omitempty,min=0,max=1"`
}

func AssignmentCreateDTOToModel(d AssignmentCreateDTO) assignment.TeacherAssignment {
	revenue := 0.95 // default teacher share
	if d.RevenuePercentage != nil {
		revenue = *d.RevenuePercentage
	}
	return assignment.TeacherAssignment{
		LibraryID:         d.LibraryID,
		LibraryName:       d.LibraryName,
		StageID:           d.StageID,
		SectionID:         d.SectionID,
		SubjectID:         d.SubjectID,
		TaxRate:           d.TaxRate,
		RevenuePercentage: revenue,
	}
}

// AssignmentUpdateDTO is a partial patch. ClearSection lets an update move a
// row to the common (all-sections) shape, since a nil SectionID alone cannot
// distinguish "leave as is" from "set to NULL".
type AssignmentUpdateDTO struct {
	LibraryID         *int     `json:"library_id,omitempty" validate:"omitempty,min=1"`
	LibraryName       *string  `json:"library_name,omitempty" validate:"omitempty,max=255"`
	StageID           *int     `json:"stage_id,omitempty" validate:"omitempty,min=1"`
	SectionID         *int     `json:"section_id,omitempty"`
	ClearSection      bool     `json:"clear_section,omitempty"`
	SubjectID         *int     `json:"subject_id,omitempty" validate:"omitempty,min=1"`
	TaxRate           *float64 `json:"tax_rate,omitempty" validate:"omitempty,min=0,max=1"`
	RevenuePercentage *float64 `json:"revenue_percentage,omitempty" validate:"omitempty,min=0,max=1"`
}

func ApplyAssignmentUpdate(m *assignment.TeacherAssignment, d AssignmentUpdateDTO) {
	if d.LibraryID != nil {
		m.LibraryID = *d.LibraryID
	}
	if d.LibraryName != nil {
		m.LibraryName = *d.LibraryName
	}
	if d.StageID != nil {
		m.StageID = *d.StageID
	}
	if d.ClearSection {
		m.SectionID = nil
	} else if d.SectionID != nil {
		m.SectionID = d.SectionID
	}
	if d.SubjectID != nil {
		m.SubjectID = *d.SubjectID
	}
	if d.TaxRate != nil {
		m.TaxRate = *d.TaxRate
	}
	if d.RevenuePercentage != nil {
		m.RevenuePercentage = *d.RevenuePercentage
	}
}

/* ===============================
   BULK OPS
=================================*/

type BulkUpdateDTO struct {
	IDs               []int    `json:"ids" validate:"required,min=1,dive,min=1"`
	TaxRate           *float64 `json:"tax_rate,omitempty" validate:"omitempty,min=0,max=1"`
	RevenuePercentage *float64 `json:"revenue_percentage,omitempty" validate:"omitempty,min=0,max=1"`
}

type BulkDeleteDTO struct {
	IDs []int `json:"ids" validate:"required,min=1,dive,min=1"`
}

// BulkOutcome summarizes a never-atomic batch: each id succeeds or fails on
// its own.
type BulkOutcome struct {
	Succeeded []int             `json:"succeeded"`
	Failed    []BulkItemFailure `json:"failed"`
}

type BulkItemFailure struct {
	ID    int    `json:"id"`
	Error string `json:"error"`
}

/* ===============================
   READ SHAPES
=================================*/

// AssignmentWithDetails joins the display names onto a raw row.
type AssignmentWithDetails struct {
	assignment.TeacherAssignment
	StageName       string  `json:"stage_name"`
	SectionName     *string `json:"section_name"`
	SubjectName     string  `json:"subject_name"`
	SubjectIsCommon bool    `json:"subject_is_common"`
}

// GroupedAssignment is the operator-facing row: one per distinct
// (library, stage, subject) engagement, listing every associated section.
type GroupedAssignment struct {
	LibraryID         int      `json:"library_id"`
	LibraryName       string   `json:"library_name"`
	StageID           int      `json:"stage_id"`
	StageName         string   `json:"stage_name"`
	SubjectID         int      `json:"subject_id"`
	SubjectName       string   `json:"subject_name"`
	SubjectIsCommon   bool     `json:"subject_is_common"`
	AssignmentIDs     []int    `json:"assignment_ids"`
	SectionNames      []string `json:"section_names"` // empty = all sections
	TaxRate           float64  `json:"tax_rate"`
	RevenuePercentage float64  `json:"revenue_percentage"`
}
