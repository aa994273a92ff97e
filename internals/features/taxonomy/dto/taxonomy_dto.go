// file: internals/features/taxonomy/dto/taxonomy_dto.go
package dto

import (
	taxonomy "edupay_backend/internals/features/taxonomy/model"
)

/* ===============================
   STAGE
=================================*/

type StageCreateDTO struct {
	Code         string `json:"code" validate:"required,max=10"`
	Name         string `json:"name" validate:"required,max=100"`
	DisplayOrder int    `json:"display_order"`
}

type StageUpdateDTO struct {
	Code         *string `json:"code,omitempty" validate:"omitempty,max=10"`
	Name         *string `json:"name,omitempty" validate:"omitempty,max=100"`
	DisplayOrder *int    `json:"display_order,omitempty"`
}

func StageCreateDTOToModel(d StageCreateDTO) taxonomy.Stage {
	return taxonomy.Stage{
		Code:         d.Code,
		Name:         d.Name,
		DisplayOrder: d.DisplayOrder,
	}
}

func ApplyStageUpdate(m *taxonomy.Stage, d StageUpdateDTO) {
	if d.Code != nil {
		m.Code = *d.Code
	}
	if d.Name != nil {
		m.Name = *d.Name
	}
	if d.DisplayOrder != nil {
		m.DisplayOrder = *d.DisplayOrder
	}
}

/* ===============================
   SECTION
=================================*/

type SectionCreateDTO struct {
	StageID int    `json:"stage_id" validate:"required,min=1"`
	Code    string `json:"code" validate:"required,max=10"`
	Name    string `json:"name" validate:"required,max=100"`
}

func SectionCreateDTOToModel(d SectionCreateDTO) taxonomy.Section {
	return taxonomy.Section{
		StageID: d.StageID,
		Code:    d.Code,
		Name:    d.Name,
	}
}

/* ===============================
   SUBJECT
=================================*/

type SubjectCreateDTO struct {
	Code     string `json:"code" validate:"required,max=20"`
	Name     string `json:"name" validate:"required,max=100"`
	IsCommon bool   `json:"is_common"`
}

func SubjectCreateDTOToModel(d SubjectCreateDTO) taxonomy.Subject {
	return taxonomy.Subject{
		Code:     d.Code,
		Name:     d.Name,
		IsCommon: d.IsCommon,
	}
}
