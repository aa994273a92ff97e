// file: internals/features/taxonomy/controller/stage_controller.go
package controller

import (
	"net/http"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	dto "edupay_backend/internals/features/taxonomy/dto"
	taxonomy "edupay_backend/internals/features/taxonomy/model"
	helper "edupay_backend/internals/helpers"
)

type StageController struct {
	DB *gorm.DB
}

func parseIntParam(c *fiber.Ctx, name string) (int, error) {
	return strconv.Atoi(c.Params(name))
}

// GET /stages/
func (h *StageController) List(c *fiber.Ctx) error {
	var stages []taxonomy.Stage
	if err := h.DB.Order("display_order, id").Find(&stages).Error; err != nil {
		return helper.JsonError(c, http.StatusInternalServerError, err.Error())
	}
	return helper.JsonList(c, "", stages)
}

// POST /stages/
func (h *StageController) Create(c *fiber.Ctx) error {
	var in dto.StageCreateDTO
	if err := c.BodyParser(&in); err != nil {
		return helper.JsonError(c, http.StatusBadRequest, "invalid json")
	}
	if fieldErrs := helper.ValidateStruct(in); fieldErrs != nil {
		return helper.JsonValidationError(c, fieldErrs)
	}

	var existing taxonomy.Stage
	if err := h.DB.First(&existing, "UPPER(code) = UPPER(?)", in.Code).Error; err == nil {
		return helper.JsonError(c, http.StatusConflict, "stage with code "+in.Code+" already exists")
	}

	m := dto.StageCreateDTOToModel(in)
	if err := h.DB.Create(&m).Error; err != nil {
		if helper.IsDuplicate(err) {
			return helper.JsonError(c, http.StatusConflict, "stage with code "+in.Code+" already exists")
		}
		return helper.JsonError(c, http.StatusInternalServerError, err.Error())
	}
	return helper.JsonCreated(c, "stage created", m)
}

// PUT /stages/:id
func (h *StageController) Update(c *fiber.Ctx) error {
	id, err := parseIntParam(c, "id")
	if err != nil {
		return helper.JsonError(c, http.StatusBadRequest, "invalid id")
	}

	var in dto.StageUpdateDTO
	if err := c.BodyParser(&in); err != nil {
		return helper.JsonError(c, http.StatusBadRequest, "invalid json")
	}
	if fieldErrs := helper.ValidateStruct(in); fieldErrs != nil {
		return helper.JsonValidationError(c, fieldErrs)
	}

	var m taxonomy.Stage
	if err := h.DB.First(&m, "id = ?", id).Error; err != nil {
		if helper.IsNotFound(err) {
			return helper.JsonError(c, http.StatusNotFound, "stage not found")
		}
		return helper.JsonError(c, http.StatusInternalServerError, err.Error())
	}

	dto.ApplyStageUpdate(&m, in)
	if err := h.DB.Save(&m).Error; err != nil {
		if helper.IsDuplicate(err) {
			return helper.JsonError(c, http.StatusConflict, "stage code already in use")
		}
		return helper.JsonError(c, http.StatusInternalServerError, err.Error())
	}
	return helper.JsonUpdated(c, "stage updated", m)
}

// DELETE /stages/:id
//
// Cascades: sections of the stage, teacher assignments, and section revenues.
// Payments stay as historical records of past calculation runs.
func (h *StageController) Delete(c *fiber.Ctx) error {
	id, err := parseIntParam(c, "id")
	if err != nil {
		return helper.JsonError(c, http.StatusBadRequest, "invalid id")
	}

	var m taxonomy.Stage
	if err := h.DB.First(&m, "id = ?", id).Error; err != nil {
		if helper.IsNotFound(err) {
			return helper.JsonError(c, http.StatusNotFound, "stage not found")
		}
		return helper.JsonError(c, http.StatusInternalServerError, err.Error())
	}

	err = h.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM teacher_assignments WHERE stage_id = ?", id).Error; err != nil {
			return err
		}
		if err := tx.Exec("DELETE FROM section_revenues WHERE stage_id = ?", id).Error; err != nil {
			return err
		}
		if err := tx.Exec("DELETE FROM sections WHERE stage_id = ?", id).Error; err != nil {
			return err
		}
		return tx.Delete(&m).Error
	})
	if err != nil {
		return helper.JsonError(c, http.StatusInternalServerError, err.Error())
	}
	return helper.JsonDeleted(c, "stage deleted", fiber.Map{"id": id})
}
