// file: internals/features/finance/controller/revenue_controller.go
package controller

import (
	"net/http"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	dto "edupay_backend/internals/features/finance/dto"
	model "edupay_backend/internals/features/finance/model"
	helper "edupay_backend/internals/helpers"
)

type RevenueController struct {
	DB *gorm.DB
}

func NewRevenueController(db *gorm.DB) *RevenueController {
	return &RevenueController{DB: db}
}

// GET /section-revenues/?period_id=&stage_id=
func (h *RevenueController) List(c *fiber.Ctx) error {
	q := h.DB.Model(&model.SectionRevenue{})
	if raw := c.Query("period_id"); raw != "" {
		periodID, err := strconv.Atoi(raw)
		if err != nil {
			return helper.JsonError(c, http.StatusBadRequest, "invalid period_id")
		}
		q = q.Where("period_id = ?", periodID)
	}
	if raw := c.Query("stage_id"); raw != "" {
		stageID, err := strconv.Atoi(raw)
		if err != nil {
			return helper.JsonError(c, http.StatusBadRequest, "invalid stage_id")
		}
		q = q.Where("stage_id = ?", stageID)
	}

	var rows []model.SectionRevenue
	if err := q.Order("period_id, stage_id, section_id").Find(&rows).Error; err != nil {
		return helper.JsonError(c, http.StatusInternalServerError, err.Error())
	}
	return helper.JsonList(c, "", rows)
}

// POST /section-revenues/
//
// Upsert on (period_id, stage_id, section_id): re-posting the same tuple
// overwrites the figures instead of erroring.
func (h *RevenueController) Upsert(c *fiber.Ctx) error {
	var in dto.SectionRevenueUpsertDTO
	if err := c.BodyParser(&in); err != nil {
		return helper.JsonError(c, http.StatusBadRequest, "invalid json")
	}
	if fieldErrs := helper.ValidateStruct(in); fieldErrs != nil {
		return helper.JsonValidationError(c, fieldErrs)
	}

	m := dto.SectionRevenueUpsertDTOToModel(in)
	err := h.DB.Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "period_id"}, {Name: "stage_id"}, {Name: "section_id"},
		},
		DoUpdates: clause.AssignmentColumns([]string{"total_orders", "total_revenue_egp", "updated_at"}),
	}).Create(&m).Error
	if err != nil {
		if helper.Classify(err) == helper.KindValidation {
			return helper.JsonError(c, http.StatusBadRequest, "unknown period, stage or section")
		}
		return helper.JsonError(c, http.StatusInternalServerError, err.Error())
	}
	return helper.JsonCreated(c, "section revenue saved", m)
}
