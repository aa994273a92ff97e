// file: internals/features/finance/controller/period_controller.go
package controller

import (
	"net/http"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	dto "edupay_backend/internals/features/finance/dto"
	model "edupay_backend/internals/features/finance/model"
	helper "edupay_backend/internals/helpers"
)

type PeriodController struct {
	DB *gorm.DB
}

func NewPeriodController(db *gorm.DB) *PeriodController {
	return &PeriodController{DB: db}
}

// GET /financial-periods/
func (h *PeriodController) List(c *fiber.Ctx) error {
	var rows []model.FinancialPeriod
	if err := h.DB.Order("year DESC, name").Find(&rows).Error; err != nil {
		return helper.JsonError(c, http.StatusInternalServerError, err.Error())
	}
	return helper.JsonList(c, "", rows)
}

// POST /financial-periods/
func (h *PeriodController) Create(c *fiber.Ctx) error {
	var in dto.PeriodCreateDTO
	if err := c.BodyParser(&in); err != nil {
		return helper.JsonError(c, http.StatusBadRequest, "invalid json")
	}
	if fieldErrs := helper.ValidateStruct(in); fieldErrs != nil {
		return helper.JsonValidationError(c, fieldErrs)
	}

	m, err := dto.PeriodCreateDTOToModel(in)
	if err != nil {
		return helper.JsonError(c, http.StatusBadRequest, err.Error())
	}
	if err := h.DB.Create(&m).Error; err != nil {
		if helper.IsDuplicate(err) {
			return helper.JsonError(c, http.StatusConflict, "period name already exists")
		}
		return helper.JsonError(c, http.StatusInternalServerError, err.Error())
	}
	return helper.JsonCreated(c, "period created", m)
}

// PUT /financial-periods/:id
func (h *PeriodController) Update(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, http.StatusBadRequest, "invalid id")
	}

	var in dto.PeriodUpdateDTO
	if err := c.BodyParser(&in); err != nil {
		return helper.JsonError(c, http.StatusBadRequest, "invalid json")
	}
	if fieldErrs := helper.ValidateStruct(in); fieldErrs != nil {
		return helper.JsonValidationError(c, fieldErrs)
	}

	var m model.FinancialPeriod
	if err := h.DB.First(&m, "id = ?", id).Error; err != nil {
		if helper.IsNotFound(err) {
			return helper.JsonError(c, http.StatusNotFound, "period not found")
		}
		return helper.JsonError(c, http.StatusInternalServerError, err.Error())
	}

	if err := dto.ApplyPeriodUpdate(&m, in); err != nil {
		return helper.JsonError(c, http.StatusBadRequest, err.Error())
	}
	if err := h.DB.Save(&m).Error; err != nil {
		if helper.IsDuplicate(err) {
			return helper.JsonError(c, http.StatusConflict, "period name already exists")
		}
		return helper.JsonError(c, http.StatusInternalServerError, err.Error())
	}
	return helper.JsonUpdated(c, "period updated", m)
}

// DELETE /financial-periods/:id
//
// Drops the period with everything derived from it: its revenue rows and its
// calculated payments.
func (h *PeriodController) Delete(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, http.StatusBadRequest, "invalid id")
	}

	err = h.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec(`DELETE FROM teacher_payments WHERE period_id = ?`, id).Error; err != nil {
			return err
		}
		if err := tx.Exec(`DELETE FROM section_revenues WHERE period_id = ?`, id).Error; err != nil {
			return err
		}
		res := tx.Delete(&model.FinancialPeriod{}, "id = ?", id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
	if err != nil {
		if helper.IsNotFound(err) {
			return helper.JsonError(c, http.StatusNotFound, "period not found")
		}
		return helper.JsonError(c, http.StatusInternalServerError, err.Error())
	}
	return helper.JsonDeleted(c, "period deleted", fiber.Map{"id": id})
}
