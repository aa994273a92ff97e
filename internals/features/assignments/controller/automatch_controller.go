// file: internals/features/assignments/controller/automatch_controller.go
package controller

import (
	"net/http"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	service "edupay_backend/internals/features/assignments/service"
	library "edupay_backend/internals/features/libraries/model"
	helper "edupay_backend/internals/helpers"
)

type AutoMatchController struct {
	DB     *gorm.DB
	Ledger *service.Ledger
}

func NewAutoMatchController(db *gorm.DB) *AutoMatchController {
	return &AutoMatchController{DB: db, Ledger: service.NewLedger(db)}
}

// POST /teacher-assignments/auto-match
//
// Processes the whole cached roster against the current taxonomy. Matches go
// through the idempotent upsert; unmatched candidates come back with their
// raw parsed codes for the reconciliation workspace. Existing ledger rows are
// never deleted.
func (h *AutoMatchController) Run(c *fiber.Ctx) error {
	var libs []library.Library
	if err := h.DB.Order("id").Find(&libs).Error; err != nil {
		return helper.JsonError(c, http.StatusInternalServerError, err.Error())
	}

	snap, err := service.LoadTaxonomySnapshot(h.DB)
	if err != nil {
		return helper.JsonError(c, http.StatusInternalServerError, err.Error())
	}

	cands := make([]service.Candidate, 0, len(libs))
	for _, lib := range libs {
		cands = append(cands, service.Candidate{LibraryID: lib.ID, LibraryName: lib.Name})
	}

	sum, err := service.RunAutoMatch(cands, snap, h.Ledger)
	if err != nil {
		return helper.JsonError(c, http.StatusInternalServerError, err.Error())
	}
	return helper.JsonOK(c, "auto-match finished", sum)
}
