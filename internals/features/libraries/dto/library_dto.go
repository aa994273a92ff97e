// file: internals/features/libraries/dto/library_dto.go
package dto

import (
	library "edupay_backend/internals/features/libraries/model"
)

type LibraryUpsertDTO struct {
	ID   int    `json:"id" validate:"required,min=1"`
	Name string `json:"name" validate:"required,max=255"`
}

func LibraryUpsertDTOToModel(d LibraryUpsertDTO) library.Library {
	return library.Library{ID: d.ID, Name: d.Name}
}

type MonthlyStatUpsertDTO struct {
	Month            string `json:"month" validate:"required,len=7"` // YYYY-MM
	WatchTimeSeconds int64  `json:"watch_time_seconds" validate:"min=0"`
	Views            int64  `json:"views" validate:"min=0"`
}
