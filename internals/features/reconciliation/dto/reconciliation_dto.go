// file: internals/features/reconciliation/dto/reconciliation_dto.go
package dto

// ItemEditDTO carries operator corrections for one workspace item. Nil fields
// are left untouched; section_ids replaces the whole set when present.
type ItemEditDTO struct {
	StageID    *int  `json:"stage_id"`
	SectionIDs []int `json:"section_ids"`
	SubjectID  *int  `json:"subject_id"`
	Selected   *bool `json:"selected"`
}

type ApplySectionsDTO struct {
	LibraryIDs []int `json:"library_ids" validate:"required,min=1"`
	SectionIDs []int `json:"section_ids" validate:"required"`
}
