// file: internals/features/assignments/controller/assignment_controller.go
package controller

import (
	"net/http"
	"sort"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	dto "edupay_backend/internals/features/assignments/dto"
	assignment "edupay_backend/internals/features/assignments/model"
	service "edupay_backend/internals/features/assignments/service"
	helper "edupay_backend/internals/helpers"
)

type AssignmentController struct {
	DB     *gorm.DB
	Ledger *service.Ledger
}

func NewAssignmentController(db *gorm.DB) *AssignmentController {
	return &AssignmentController{DB: db, Ledger: service.NewLedger(db)}
}

const assignmentDetailsSelect = `
SELECT a.*,
       st.name  AS stage_name,
       sec.name AS section_name,
       sub.name AS subject_name,
       sub.is_common AS subject_is_common
FROM teacher_assignments a
JOIN stages st   ON st.id  = a.stage_id
LEFT JOIN sections sec ON sec.id = a.section_id
JOIN subjects sub ON sub.id = a.subject_id`

// GET /teacher-assignments/?stage_id=
func (h *AssignmentController) List(c *fiber.Ctx) error {
	query := assignmentDetailsSelect
	args := []any{}
	if raw := c.Query("stage_id"); raw != "" {
		stageID, err := strconv.Atoi(raw)
		if err != nil {
			return helper.JsonError(c, http.StatusBadRequest, "invalid stage_id")
		}
		query += " WHERE a.stage_id = ?"
		args = append(args, stageID)
	}
	query += " ORDER BY a.library_name, a.id"

	var rows []dto.AssignmentWithDetails
	if err := h.DB.Raw(query, args...).Scan(&rows).Error; err != nil {
		return helper.JsonError(c, http.StatusInternalServerError, err.Error())
	}
	return helper.JsonList(c, "", rows)
}

// GET /teacher-assignments/grouped?stage_id=
//
// Collapses raw rows into one operator-facing row per distinct
// (library, stage, subject) engagement with all its sections.
func (h *AssignmentController) ListGrouped(c *fiber.Ctx) error {
	query := assignmentDetailsSelect
	args := []any{}
	if raw := c.Query("stage_id"); raw != "" {
		stageID, err := strconv.Atoi(raw)
		if err != nil {
			return helper.JsonError(c, http.StatusBadRequest, "invalid stage_id")
		}
		query += " WHERE a.stage_id = ?"
		args = append(args, stageID)
	}

	var rows []dto.AssignmentWithDetails
	if err := h.DB.Raw(query, args...).Scan(&rows).Error; err != nil {
		return helper.JsonError(c, http.StatusInternalServerError, err.Error())
	}

	type groupKey struct{ LibraryID, StageID, SubjectID int }
	groups := map[groupKey]*dto.GroupedAssignment{}
	order := []groupKey{}

	for _, r := range rows {
		key := groupKey{r.LibraryID, r.StageID, r.SubjectID}
		g, ok := groups[key]
		if !ok {
			g = &dto.GroupedAssignment{
				LibraryID:         r.LibraryID,
				LibraryName:       r.LibraryName,
				StageID:           r.StageID,
				StageName:         r.StageName,
				SubjectID:         r.SubjectID,
				SubjectName:       r.SubjectName,
				SubjectIsCommon:   r.SubjectIsCommon,
				TaxRate:           r.TaxRate,
				RevenuePercentage: r.RevenuePercentage,
			}
			groups[key] = g
			order = append(order, key)
		}
		g.AssignmentIDs = append(g.AssignmentIDs, r.ID)
		if r.SectionName != nil {
			g.SectionNames = append(g.SectionNames, *r.SectionName)
		}
	}

	out := make([]dto.GroupedAssignment, 0, len(order))
	for _, key := range order {
		g := groups[key]
		sort.Strings(g.SectionNames)
		out = append(out, *g)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].LibraryName != out[j].LibraryName {
			return out[i].LibraryName < out[j].LibraryName
		}
		return out[i].SubjectID < out[j].SubjectID
	})
	return helper.JsonList(c, "", out)
}

// POST /teacher-assignments/
//
// Idempotent upsert: an existing identical tuple is a success, not an error.
func (h *AssignmentController) Create(c *fiber.Ctx) error {
	var in dto.AssignmentCreateDTO
	if err := c.BodyParser(&in); err != nil {
		return helper.JsonError(c, http.StatusBadRequest, "invalid json")
	}
	if fieldErrs := helper.ValidateStruct(in); fieldErrs != nil {
		return helper.JsonValidationError(c, fieldErrs)
	}

	m := dto.AssignmentCreateDTOToModel(in)
	created, err := h.Ledger.Upsert(m)
	if err != nil {
		return helper.JsonError(c, http.StatusInternalServerError, err.Error())
	}
	if !created {
		return helper.JsonOK(c, "assignment already exists", fiber.Map{"created": false})
	}
	return helper.JsonCreated(c, "assignment created", m)
}

// PUT /teacher-assignments/:id
func (h *AssignmentController) Update(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, http.StatusBadRequest, "invalid id")
	}

	var in dto.AssignmentUpdateDTO
	if err := c.BodyParser(&in); err != nil {
		return helper.JsonError(c, http.StatusBadRequest, "invalid json")
	}
	if fieldErrs := helper.ValidateStruct(in); fieldErrs != nil {
		return helper.JsonValidationError(c, fieldErrs)
	}

	var m assignment.TeacherAssignment
	if err := h.DB.First(&m, "id = ?", id).Error; err != nil {
		if helper.IsNotFound(err) {
			return helper.JsonError(c, http.StatusNotFound, "assignment not found")
		}
		return helper.JsonError(c, http.StatusInternalServerError, err.Error())
	}

	dto.ApplyAssignmentUpdate(&m, in)
	if err := h.DB.Save(&m).Error; err != nil {
		return helper.JsonError(c, http.StatusInternalServerError, err.Error())
	}
	return helper.JsonUpdated(c, "assignment updated", m)
}

// DELETE /teacher-assignments/:id
func (h *AssignmentController) Delete(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, http.StatusBadRequest, "invalid id")
	}

	res := h.DB.Delete(&assignment.TeacherAssignment{}, "id = ?", id)
	if res.Error != nil {
		return helper.JsonError(c, http.StatusInternalServerError, res.Error.Error())
	}
	if res.RowsAffected == 0 {
		return helper.JsonError(c, http.StatusNotFound, "assignment not found")
	}
	return helper.JsonDeleted(c, "assignment deleted", fiber.Map{"id": id})
}

// PATCH /teacher-assignments/bulk
//
// Applies the tax/revenue patch independently per id; the batch is never
// atomic and per-id failures are collected, not raised.
func (h *AssignmentController) BulkUpdate(c *fiber.Ctx) error {
	var in dto.BulkUpdateDTO
	if err := c.BodyParser(&in); err != nil {
		return helper.JsonError(c, http.StatusBadRequest, "invalid json")
	}
	if fieldErrs := helper.ValidateStruct(in); fieldErrs != nil {
		return helper.JsonValidationError(c, fieldErrs)
	}
	if in.TaxRate == nil && in.RevenuePercentage == nil {
		return helper.JsonError(c, http.StatusBadRequest, "nothing to update")
	}

	patch := map[string]any{}
	if in.TaxRate != nil {
		patch["tax_rate"] = *in.TaxRate
	}
	if in.RevenuePercentage != nil {
		patch["revenue_percentage"] = *in.RevenuePercentage
	}

	out := dto.BulkOutcome{Succeeded: []int{}, Failed: []dto.BulkItemFailure{}}
	for _, id := range in.IDs {
		res := h.DB.Model(&assignment.TeacherAssignment{}).Where("id = ?", id).Updates(patch)
		switch {
		case res.Error != nil:
			out.Failed = append(out.Failed, dto.BulkItemFailure{ID: id, Error: res.Error.Error()})
		case res.RowsAffected == 0:
			out.Failed = append(out.Failed, dto.BulkItemFailure{ID: id, Error: "assignment not found"})
		default:
			out.Succeeded = append(out.Succeeded, id)
		}
	}
	return helper.JsonUpdated(c, "bulk update finished", out)
}

// DELETE /teacher-assignments/bulk
func (h *AssignmentController) BulkDelete(c *fiber.Ctx) error {
	var in dto.BulkDeleteDTO
	if err := c.BodyParser(&in); err != nil {
		return helper.JsonError(c, http.StatusBadRequest, "invalid json")
	}
	if fieldErrs := helper.ValidateStruct(in); fieldErrs != nil {
		return helper.JsonValidationError(c, fieldErrs)
	}

	out := dto.BulkOutcome{Succeeded: []int{}, Failed: []dto.BulkItemFailure{}}
	for _, id := range in.IDs {
		res := h.DB.Delete(&assignment.TeacherAssignment{}, "id = ?", id)
		switch {
		case res.Error != nil:
			out.Failed = append(out.Failed, dto.BulkItemFailure{ID: id, Error: res.Error.Error()})
		case res.RowsAffected == 0:
			out.Failed = append(out.Failed, dto.BulkItemFailure{ID: id, Error: "assignment not found"})
		default:
			out.Succeeded = append(out.Succeeded, id)
		}
	}
	return helper.JsonDeleted(c, "bulk delete finished", out)
}
