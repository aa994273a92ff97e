// file: internals/features/libraries/controller/library_controller.go
package controller

import (
	"net/http"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	dto "edupay_backend/internals/features/libraries/dto"
	library "edupay_backend/internals/features/libraries/model"
	helper "edupay_backend/internals/helpers"
)

type LibraryController struct {
	DB *gorm.DB
}

// GET /libraries/
func (h *LibraryController) List(c *fiber.Ctx) error {
	var libs []library.Library
	if err := h.DB.Order("id").Find(&libs).Error; err != nil {
		return helper.JsonError(c, http.StatusInternalServerError, err.Error())
	}
	return helper.JsonList(c, "", libs)
}

// POST /libraries/
//
// Roster sync entry point for the stats collaborator: upsert by CDN id,
// renames overwrite the cached name.
func (h *LibraryController) Upsert(c *fiber.Ctx) error {
	var in dto.LibraryUpsertDTO
	if err := c.BodyParser(&in); err != nil {
		return helper.JsonError(c, http.StatusBadRequest, "invalid json")
	}
	if fieldErrs := helper.ValidateStruct(in); fieldErrs != nil {
		return helper.JsonValidationError(c, fieldErrs)
	}

	m := dto.LibraryUpsertDTOToModel(in)
	err := h.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"name", "updated_at"}),
	}).Create(&m).Error
	if err != nil {
		return helper.JsonError(c, http.StatusInternalServerError, err.Error())
	}
	return helper.JsonOK(c, "library upserted", m)
}

// GET /libraries/:id/monthly-stats
func (h *LibraryController) MonthlyStats(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, http.StatusBadRequest, "invalid id")
	}

	var stats []library.LibraryMonthlyStat
	if err := h.DB.Where("library_id = ?", id).Order("month").Find(&stats).Error; err != nil {
		return helper.JsonError(c, http.StatusInternalServerError, err.Error())
	}
	return helper.JsonList(c, "", stats)
}

// POST /libraries/:id/monthly-stats
func (h *LibraryController) UpsertMonthlyStat(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, http.StatusBadRequest, "invalid id")
	}

	var in dto.MonthlyStatUpsertDTO
	if err := c.BodyParser(&in); err != nil {
		return helper.JsonError(c, http.StatusBadRequest, "invalid json")
	}
	if fieldErrs := helper.ValidateStruct(in); fieldErrs != nil {
		return helper.JsonValidationError(c, fieldErrs)
	}

	var lib library.Library
	if err := h.DB.First(&lib, "id = ?", id).Error; err != nil {
		if helper.IsNotFound(err) {
			return helper.JsonError(c, http.StatusNotFound, "library not found")
		}
		return helper.JsonError(c, http.StatusInternalServerError, err.Error())
	}

	m := library.LibraryMonthlyStat{
		LibraryID:        id,
		Month:            in.Month,
		WatchTimeSeconds: in.WatchTimeSeconds,
		Views:            in.Views,
	}
	err = h.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "library_id"}, {Name: "month"}},
		DoUpdates: clause.AssignmentColumns([]string{"watch_time_seconds", "views"}),
	}).Create(&m).Error
	if err != nil {
		return helper.JsonError(c, http.StatusInternalServerError, err.Error())
	}
	return helper.JsonOK(c, "monthly stat upserted", m)
}
