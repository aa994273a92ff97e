// file: internals/features/reconciliation/controller/reconciliation_controller.go
package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	assignmentService "edupay_backend/internals/features/assignments/service"
	library "edupay_backend/internals/features/libraries/model"
	dto "edupay_backend/internals/features/reconciliation/dto"
	service "edupay_backend/internals/features/reconciliation/service"
	taxonomy "edupay_backend/internals/features/taxonomy/model"
	helper "edupay_backend/internals/helpers"
	"edupay_backend/internals/kv"
)

// ReconciliationController owns one process-wide workspace. Edits live in
// memory only; the kv store is touched by load and defer alone.
type ReconciliationController struct {
	DB *gorm.DB
	WS *service.Workspace
}

func NewReconciliationController(db *gorm.DB) *ReconciliationController {
	subj := func(subjectID int) (bool, error) {
		var s taxonomy.Subject
		if err := db.First(&s, "id = ?", subjectID).Error; err != nil {
			if helper.IsNotFound(err) {
				return false, errors.New("subject not found")
			}
			return false, err
		}
		return s.IsCommon, nil
	}
	ws := service.NewWorkspace(kv.NewGormStore(db), assignmentService.NewLedger(db), subj)
	return &ReconciliationController{DB: db, WS: ws}
}

// GET /reconciliation/
func (h *ReconciliationController) List(c *fiber.Ctx) error {
	return helper.JsonList(c, "", h.WS.Items())
}

// POST /reconciliation/load
//
// Rebuilds the workspace: evaluates every catalog library against the current
// taxonomy without writing anything, then merges the still-unmatched ones with
// the deferred set. Deferred edits win over fresh candidates.
func (h *ReconciliationController) Load(c *fiber.Ctx) error {
	var libs []library.Library
	if err := h.DB.Order("id").Find(&libs).Error; err != nil {
		return helper.JsonError(c, http.StatusInternalServerError, err.Error())
	}

	snap, err := assignmentService.LoadTaxonomySnapshot(h.DB)
	if err != nil {
		return helper.JsonError(c, http.StatusInternalServerError, err.Error())
	}

	results := make([]assignmentService.MatchResult, 0, len(libs))
	for _, lib := range libs {
		_, res := assignmentService.MatchOne(assignmentService.Candidate{LibraryID: lib.ID, LibraryName: lib.Name}, snap)
		results = append(results, res)
	}

	if err := h.WS.Load(results); err != nil {
		return helper.JsonError(c, http.StatusInternalServerError, err.Error())
	}
	items := h.WS.Items()
	return helper.JsonOK(c, "workspace loaded", fiber.Map{
		"total_items": len(items),
		"items":       items,
	})
}

// PATCH /reconciliation/:library_id
func (h *ReconciliationController) Edit(c *fiber.Ctx) error {
	libraryID, err := strconv.Atoi(c.Params("library_id"))
	if err != nil {
		return helper.JsonError(c, http.StatusBadRequest, "invalid library_id")
	}

	var in dto.ItemEditDTO
	if err := c.BodyParser(&in); err != nil {
		return helper.JsonError(c, http.StatusBadRequest, "invalid json")
	}

	if in.StageID != nil || in.SectionIDs != nil || in.SubjectID != nil {
		if err := h.WS.Edit(libraryID, in.StageID, in.SectionIDs, in.SubjectID); err != nil {
			if errors.Is(err, service.ErrItemNotFound) {
				return helper.JsonError(c, http.StatusNotFound, "item not found")
			}
			return helper.JsonError(c, http.StatusInternalServerError, err.Error())
		}
	}
	if in.Selected != nil {
		h.WS.Select([]int{libraryID}, *in.Selected)
	}
	return helper.JsonUpdated(c, "item updated", fiber.Map{"library_id": libraryID})
}

// POST /reconciliation/:library_id/save
func (h *ReconciliationController) SaveOne(c *fiber.Ctx) error {
	libraryID, err := strconv.Atoi(c.Params("library_id"))
	if err != nil {
		return helper.JsonError(c, http.StatusBadRequest, "invalid library_id")
	}

	rep, err := h.WS.SaveOne(libraryID)
	if err != nil {
		if errors.Is(err, service.ErrItemNotFound) {
			return helper.JsonError(c, http.StatusNotFound, "item not found")
		}
		return helper.JsonError(c, http.StatusInternalServerError, err.Error())
	}
	if !rep.Saved {
		return helper.JsonError(c, http.StatusUnprocessableEntity, firstProblem(rep))
	}
	return helper.JsonOK(c, "item saved", rep)
}

// POST /reconciliation/save-selected
func (h *ReconciliationController) SaveSelected(c *fiber.Ctx) error {
	reports, err := h.WS.SaveSelected()
	if err != nil {
		return helper.JsonError(c, http.StatusInternalServerError, err.Error())
	}
	saved := 0
	for _, r := range reports {
		if r.Saved {
			saved++
		}
	}
	return helper.JsonOK(c, "save-selected finished", fiber.Map{
		"saved":   saved,
		"skipped": len(reports) - saved,
		"reports": reports,
	})
}

// POST /reconciliation/apply-sections
func (h *ReconciliationController) ApplySections(c *fiber.Ctx) error {
	var in dto.ApplySectionsDTO
	if err := c.BodyParser(&in); err != nil {
		return helper.JsonError(c, http.StatusBadRequest, "invalid json")
	}
	if fieldErrs := helper.ValidateStruct(in); fieldErrs != nil {
		return helper.JsonValidationError(c, fieldErrs)
	}

	h.WS.ApplySections(in.LibraryIDs, in.SectionIDs)
	return helper.JsonUpdated(c, "sections applied", fiber.Map{"library_ids": in.LibraryIDs})
}

// DELETE /reconciliation/:library_id
func (h *ReconciliationController) Remove(c *fiber.Ctx) error {
	libraryID, err := strconv.Atoi(c.Params("library_id"))
	if err != nil {
		return helper.JsonError(c, http.StatusBadRequest, "invalid library_id")
	}

	if err := h.WS.Remove(libraryID); err != nil {
		if errors.Is(err, service.ErrItemNotFound) {
			return helper.JsonError(c, http.StatusNotFound, "item not found")
		}
		return helper.JsonError(c, http.StatusInternalServerError, err.Error())
	}
	return helper.JsonDeleted(c, "item removed", fiber.Map{"library_id": libraryID})
}

// POST /reconciliation/defer
func (h *ReconciliationController) Defer(c *fiber.Ctx) error {
	n, err := h.WS.Defer()
	if err != nil {
		return helper.JsonError(c, http.StatusInternalServerError, err.Error())
	}
	return helper.JsonOK(c, "workspace deferred", fiber.Map{"deferred": n})
}

func firstProblem(rep service.SaveReport) string {
	if rep.Skipped != "" {
		return rep.Skipped
	}
	if len(rep.Failures) > 0 {
		return rep.Failures[0].Error
	}
	return "could not save item"
}
