// file: internals/features/taxonomy/controller/section_controller.go
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

type SectionController struct {
	DB *gorm.DB
}

// GET /sections/?stage_id=
func (h *SectionController) List(c *fiber.Ctx) error {
	q := h.DB.Model(&taxonomy.Section{})
	if raw := c.Query("stage_id"); raw != "" {
		stageID, err := strconv.Atoi(raw)
		if err != nil {
			return helper.JsonError(c, http.StatusBadRequest, "invalid stage_id")
		}
		q = q.Where("stage_id = ?", stageID)
	}

	var sections []taxonomy.Section
	if err := q.Order("stage_id, code").Find(&sections).Error; err != nil {
		return helper.JsonError(c, http.StatusInternalServerError, err.Error())
	}
	return helper.JsonList(c, "", sections)
}

// POST /sections/
func (h *SectionController) Create(c *fiber.Ctx) error {
	var in dto.SectionCreateDTO
	if err := c.BodyParser(&in); err != nil {
		return helper.JsonError(c, http.StatusBadRequest, "invalid json")
	}
	if fieldErrs := helper.ValidateStruct(in); fieldErrs != nil {
		return helper.JsonValidationError(c, fieldErrs)
	}

	// section belongs to exactly one existing stage
	var stage taxonomy.Stage
	if err := h.DB.First(&stage, "id = ?", in.StageID).Error; err != nil {
		if helper.IsNotFound(err) {
			return helper.JsonError(c, http.StatusBadRequest, "stage not found")
		}
		return helper.JsonError(c, http.StatusInternalServerError, err.Error())
	}

	m := dto.SectionCreateDTOToModel(in)
	if err := h.DB.Create(&m).Error; err != nil {
		return helper.JsonError(c, http.StatusInternalServerError, err.Error())
	}
	return helper.JsonCreated(c, "section created", m)
}

// DELETE /sections/:id
func (h *SectionController) Delete(c *fiber.Ctx) error {
	id, err := parseIntParam(c, "id")
	if err != nil {
		return helper.JsonError(c, http.StatusBadRequest, "invalid id")
	}

	var m taxonomy.Section
	if err := h.DB.First(&m, "id = ?", id).Error; err != nil {
		if helper.IsNotFound(err) {
			return helper.JsonError(c, http.StatusNotFound, "section not found")
		}
		return helper.JsonError(c, http.StatusInternalServerError, err.Error())
	}

	if err := h.DB.Delete(&m).Error; err != nil {
		return helper.JsonError(c, http.StatusInternalServerError, err.Error())
	}
	return helper.JsonDeleted(c, "section deleted", fiber.Map{"id": id})
}
