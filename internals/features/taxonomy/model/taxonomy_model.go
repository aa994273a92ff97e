// file: internals/features/taxonomy/model/taxonomy_model.go
package model

import "time"

// Stage: top-level educational level (Senior 1, Middle 2, Junior 4 ...)
type Stage struct {
	ID           int       `json:"id" gorm:"column:id;primaryKey;autoIncrement"`
	Code         string    `json:"code" gorm:"column:code;type:varchar(10);uniqueIndex;not null"` // S1, M2, J4
	Name         string    `json:"name" gorm:"column:name;type:varchar(100);not null"`
	DisplayOrder int       `json:"display_order" gorm:"column:display_order;not null;default:0"`
	CreatedAt    time.Time `json:"created_at" gorm:"column:created_at;autoCreateTime"`
}

func (Stage) TableName() string { return "stages" }

// Section: sub-track within a stage (GEN, LANG)
type Section struct {
	ID        int       `json:"id" gorm:"column:id;primaryKey;autoIncrement"`
	StageID   int       `json:"stage_id" gorm:"column:stage_id;not null;index:idx_sections_stage_code,priority:1"`
	Code      string    `json:"code" gorm:"column:code;type:varchar(10);not null;index:idx_sections_stage_code,priority:2"`
	Name      string    `json:"name" gorm:"column:name;type:varchar(100);not null"`
	CreatedAt time.Time `json:"created_at" gorm:"column:created_at;autoCreateTime"`
}

func (Section) TableName() string { return "sections" }

// Subject: a taught course. Common subjects apply to every section of a stage
// implicitly; non-common subjects require a specific section.
type Subject struct {
	ID        int       `json:"id" gorm:"column:id;primaryKey;autoIncrement"`
	Code      string    `json:"code" gorm:"column:code;type:varchar(20);uniqueIndex;not null"` // MATH, AR, ISC, BIO
	Name      string    `json:"name" gorm:"column:name;type:varchar(100);not null"`
	IsCommon  bool      `json:"is_common" gorm:"column:is_common;not null;default:false"`
	CreatedAt time.Time `json:"created_at" gorm:"column:created_at;autoCreateTime"`
}

func (Subject) TableName() string { return "subjects" }
