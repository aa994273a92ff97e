// file: internals/features/taxonomy/controller/subject_controller.go
package controller

import (
	"net/http"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	dto "edupay_backend/internals/features/taxonomy/dto"
	taxonomy "edupay_backend/internals/features/taxonomy/model"
	helper "edupay_backend/internals/helpers"
)

type SubjectController struct {
	DB *gorm.DB
}

// GET /subjects/
func (h *SubjectController) List(c *fiber.Ctx) error {
	var subjects []taxonomy.Subject
	if err := h.DB.Order("code").Find(&subjects).Error; err != nil {
		return helper.JsonError(c, http.StatusInternalServerError, err.Error())
	}
	return helper.JsonList(c, "", subjects)
}

// POST /subjects/
func (h *SubjectController) Create(c *fiber.Ctx) error {
	var in dto.SubjectCreateDTO
	if err := c.BodyParser(&in); err != nil {
		return helper.JsonError(c, http.StatusBadRequest, "invalid json")
	}
	if fieldErrs := helper.ValidateStruct(in); fieldErrs != nil {
		return helper.JsonValidationError(c, fieldErrs)
	}

	var existing taxonomy.Subject
	if err := h.DB.First(&existing, "UPPER(code) = UPPER(?)", in.Code).Error; err == nil {
		return helper.JsonError(c, http.StatusConflict, "subject with code "+in.Code+" already exists")
	}

	m := dto.SubjectCreateDTOToModel(in)
	if err := h.DB.Create(&m).Error; err != nil {
		if helper.IsDuplicate(err) {
			return helper.JsonError(c, http.StatusConflict, "subject with code "+in.Code+" already exists")
		}
		return helper.JsonError(c, http.StatusInternalServerError, err.Error())
	}
	return helper.JsonCreated(c, "subject created", m)
}

// DELETE /subjects/:id
func (h *SubjectController) Delete(c *fiber.Ctx) error {
	id, err := parseIntParam(c, "id")
	if err != nil {
		return helper.JsonError(c, http.StatusBadRequest, "invalid id")
	}

	var m taxonomy.Subject
	if err := h.DB.First(&m, "id = ?", id).Error; err != nil {
		if helper.IsNotFound(err) {
			return helper.JsonError(c, http.StatusNotFound, "subject not found")
		}
		return helper.JsonError(c, http.StatusInternalServerError, err.Error())
	}

	if err := h.DB.Delete(&m).Error; err != nil {
		return helper.JsonError(c, http.StatusInternalServerError, err.Error())
	}
	return helper.JsonDeleted(c, "subject deleted", fiber.Map{"id": id})
}
