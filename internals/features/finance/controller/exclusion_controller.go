// file: internals/features/finance/controller/exclusion_controller.go
package controller

import (
	"net/http"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	dto "edupay_backend/internals/features/finance/dto"
	service "edupay_backend/internals/features/finance/service"
	helper "edupay_backend/internals/helpers"
	"edupay_backend/internals/kv"
)

// ExclusionController edits the per-(period, stage) exclusion sets. Purely a
// calculation filter: nothing here ever touches the assignment ledger.
type ExclusionController struct {
	Ledger *service.ExclusionLedger
}

func NewExclusionController(db *gorm.DB) *ExclusionController {
	return &ExclusionController{Ledger: service.NewExclusionLedger(kv.NewGormStore(db))}
}

func scopeParams(c *fiber.Ctx) (periodID, stageID int, ok bool) {
	periodID, err := strconv.Atoi(c.Params("period_id"))
	if err != nil {
		return 0, 0, false
	}
	stageID, err = strconv.Atoi(c.Params("stage_id"))
	if err != nil {
		return 0, 0, false
	}
	return periodID, stageID, true
}

// GET /exclusions/:period_id/:stage_id
func (h *ExclusionController) Read(c *fiber.Ctx) error {
	periodID, stageID, ok := scopeParams(c)
	if !ok {
		return helper.JsonError(c, http.StatusBadRequest, "invalid period_id or stage_id")
	}

	ids, err := h.Ledger.Read(periodID, stageID)
	if err != nil {
		return helper.JsonError(c, http.StatusInternalServerError, err.Error())
	}
	return helper.JsonOK(c, "", fiber.Map{"excluded_library_ids": ids})
}

// POST /exclusions/:period_id/:stage_id/toggle
func (h *ExclusionController) Toggle(c *fiber.Ctx) error {
	periodID, stageID, ok := scopeParams(c)
	if !ok {
		return helper.JsonError(c, http.StatusBadRequest, "invalid period_id or stage_id")
	}

	var in dto.ExclusionToggleDTO
	if err := c.BodyParser(&in); err != nil {
		return helper.JsonError(c, http.StatusBadRequest, "invalid json")
	}
	if fieldErrs := helper.ValidateStruct(in); fieldErrs != nil {
		return helper.JsonValidationError(c, fieldErrs)
	}

	excluded, err := h.Ledger.Toggle(periodID, stageID, in.LibraryID)
	if err != nil {
		return helper.JsonError(c, http.StatusInternalServerError, err.Error())
	}
	return helper.JsonUpdated(c, "exclusion toggled", fiber.Map{
		"library_id": in.LibraryID,
		"excluded":   excluded,
	})
}

// PUT /exclusions/:period_id/:stage_id
func (h *ExclusionController) BulkSet(c *fiber.Ctx) error {
	periodID, stageID, ok := scopeParams(c)
	if !ok {
		return helper.JsonError(c, http.StatusBadRequest, "invalid period_id or stage_id")
	}

	var in dto.ExclusionBulkSetDTO
	if err := c.BodyParser(&in); err != nil {
		return helper.JsonError(c, http.StatusBadRequest, "invalid json")
	}
	if fieldErrs := helper.ValidateStruct(in); fieldErrs != nil {
		return helper.JsonValidationError(c, fieldErrs)
	}

	ids, err := h.Ledger.BulkSet(periodID, stageID, in.LibraryIDs, *in.Excluded)
	if err != nil {
		return helper.JsonError(c, http.StatusInternalServerError, err.Error())
	}
	return helper.JsonUpdated(c, "exclusions updated", fiber.Map{"excluded_library_ids": ids})
}

// DELETE /exclusions/:period_id/:stage_id
func (h *ExclusionController) ClearAll(c *fiber.Ctx) error {
	periodID, stageID, ok := scopeParams(c)
	if !ok {
		return helper.JsonError(c, http.StatusBadRequest, "invalid period_id or stage_id")
	}

	if err := h.Ledger.ClearAll(periodID, stageID); err != nil {
		return helper.JsonError(c, http.StatusInternalServerError, err.Error())
	}
	return helper.JsonDeleted(c, "exclusions cleared", fiber.Map{"excluded_library_ids": []int{}})
}
