// file: internals/features/assignments/model/teacher_assignment_model.go
package model

import "time"

// TeacherAssignment: one confirmed (library, stage, section?, subject)
// teaching engagement with its payment parameters. section_id NULL means the
// engagement applies to every section of the stage (common subjects).
//
// At most one row may exist per (library_id, stage_id, section_id,
// subject_id); the ledger enforces this with a lookup-then-create upsert
// because a NULL section_id defeats a plain unique index.
type TeacherAssignment struct {
	ID                int       `json:"id" gorm:"column:id;primaryKey;autoIncrement"`
	LibraryID         int       `json:"library_id" gorm:"column:library_id;not null;index:idx_assignments_library"`
	LibraryName       string    `json:"library_name" gorm:"column:library_name;type:varchar(255);not null"` // denormalized from the catalog
	StageID           int       `json:"stage_id" gorm:"column:stage_id;not null;index:idx_assignments_stage"`
	SectionID         *int      `json:"section_id" gorm:"column:section_id"`
	SubjectID         int       `json:"subject_id" gorm:"column:subject_id;not null"`
	TaxRate           float64   `json:"tax_rate" gorm:"column:tax_rate;not null;default:0"`
	RevenuePercentage float64   `json:"revenue_percentage" gorm:"column:revenue_percentage;not null;default:0.95"`
	CreatedAt         time.Time `json:"created_at" gorm:"column:created_at;autoCreateTime"`
	UpdatedAt         time.Time `json:"updated_at" gorm:"column:updated_at;autoUpdateTime"`
}

func (TeacherAssignment) TableName() string { return "teacher_assignments" }

// SameTuple reports whether two rows share the identity 4-tuple.
func (a TeacherAssignment) SameTuple(b TeacherAssignment) bool {
	if a.LibraryID != b.LibraryID || a.StageID != b.StageID || a.SubjectID != b.SubjectID {
		return false
	}
	if (a.SectionID == nil) != (b.SectionID == nil) {
		return false
	}
	return a.SectionID == nil || *a.SectionID == *b.SectionID
}
