// file: internals/features/finance/controller/payment_controller.go
package controller

import (
	"net/http"
	"sort"
	"strconv"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	assignmentDto "edupay_backend/internals/features/assignments/dto"
	assignment "edupay_backend/internals/features/assignments/model"
	dto "edupay_backend/internals/features/finance/dto"
	model "edupay_backend/internals/features/finance/model"
	service "edupay_backend/internals/features/finance/service"
	library "edupay_backend/internals/features/libraries/model"
	taxonomy "edupay_backend/internals/features/taxonomy/model"
	helper "edupay_backend/internals/helpers"
	"edupay_backend/internals/kv"
)

type PaymentController struct {
	DB         *gorm.DB
	Exclusions *service.ExclusionLedger
}

func NewPaymentController(db *gorm.DB) *PaymentController {
	return &PaymentController{
		DB:         db,
		Exclusions: service.NewExclusionLedger(kv.NewGormStore(db)),
	}
}

/* ===============================
   Scope loading
=================================*/

// calcScope is everything one (period, stage) run reads from the database.
type calcScope struct {
	Period      model.FinancialPeriod
	Stage       taxonomy.Stage
	Months      []string
	Sections    []taxonomy.Section
	RevenueRows []model.SectionRevenue
	Revenues    map[int]float64
	Assignments []assignment.TeacherAssignment
	Watch       map[int]map[string]int64
}

// loadScope resolves the period and stage (the only 404s the calculator
// raises) and gathers the run inputs. Missing revenue rows or stats are not
// errors; they just narrow the result.
func (h *PaymentController) loadScope(periodID, stageID int) (*calcScope, string, error) {
	sc := &calcScope{Revenues: map[int]float64{}, Watch: map[int]map[string]int64{}}

	if err := h.DB.First(&sc.Period, "id = ?", periodID).Error; err != nil {
		if helper.IsNotFound(err) {
			return nil, "period not found", nil
		}
		return nil, "", err
	}
	if err := h.DB.First(&sc.Stage, "id = ?", stageID).Error; err != nil {
		if helper.IsNotFound(err) {
			return nil, "stage not found", nil
		}
		return nil, "", err
	}

	months, err := dto.PeriodMonths(sc.Period)
	if err != nil {
		return nil, "", err
	}
	sc.Months = months

	if err := h.DB.Order("id").Find(&sc.Sections, "stage_id = ?", stageID).Error; err != nil {
		return nil, "", err
	}

	if err := h.DB.Order("section_id").Find(&sc.RevenueRows, "period_id = ? AND stage_id = ?", periodID, stageID).Error; err != nil {
		return nil, "", err
	}
	for _, r := range sc.RevenueRows {
		sc.Revenues[r.SectionID] = r.TotalRevenueEGP
	}

	if err := h.DB.Order("library_name, id").Find(&sc.Assignments, "stage_id = ?", stageID).Error; err != nil {
		return nil, "", err
	}

	libIDs := make([]int, 0, len(sc.Assignments))
	seen := map[int]bool{}
	for _, a := range sc.Assignments {
		if !seen[a.LibraryID] {
			seen[a.LibraryID] = true
			libIDs = append(libIDs, a.LibraryID)
		}
	}
	if len(libIDs) > 0 && len(months) > 0 {
		var stats []library.LibraryMonthlyStat
		if err := h.DB.Find(&stats, "library_id IN ? AND month IN ?", libIDs, months).Error; err != nil {
			return nil, "", err
		}
		for _, s := range stats {
			if sc.Watch[s.LibraryID] == nil {
				sc.Watch[s.LibraryID] = map[string]int64{}
			}
			sc.Watch[s.LibraryID][s.Month] = s.WatchTimeSeconds
		}
	}
	return sc, "", nil
}

func (sc *calcScope) calcInput(excluded map[int]bool) service.CalcInput {
	sectionIDs := make([]int, 0, len(sc.Sections))
	for _, s := range sc.Sections {
		sectionIDs = append(sectionIDs, s.ID)
	}
	assignments := make([]service.AssignmentInput, 0, len(sc.Assignments))
	for _, a := range sc.Assignments {
		assignments = append(assignments, service.AssignmentInput{
			AssignmentID:      a.ID,
			LibraryID:         a.LibraryID,
			LibraryName:       a.LibraryName,
			SubjectID:         a.SubjectID,
			SectionID:         a.SectionID,
			TaxRate:           a.TaxRate,
			RevenuePercentage: a.RevenuePercentage,
		})
	}
	return service.CalcInput{
		PeriodID:    sc.Period.ID,
		StageID:     sc.Stage.ID,
		Months:      sc.Months,
		SectionIDs:  sectionIDs,
		Revenues:    sc.Revenues,
		Assignments: assignments,
		Watch:       sc.Watch,
		Excluded:    excluded,
	}
}

func (h *PaymentController) persistedExclusions(periodID, stageID int) (map[int]bool, []int, error) {
	ids, err := h.Exclusions.Read(periodID, stageID)
	if err != nil {
		return nil, nil, err
	}
	set := make(map[int]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set, ids, nil
}

/* ===============================
   Read views
=================================*/

const assignmentOverviewSelect = `
SELECT a.*,
       st.name  AS stage_name,
       sec.name AS section_name,
       sub.name AS subject_name,
       sub.is_common AS subject_is_common
FROM teacher_assignments a
JOIN stages st   ON st.id  = a.stage_id
LEFT JOIN sections sec ON sec.id = a.section_id
JOIN subjects sub ON sub.id = a.subject_id
WHERE a.stage_id = ?
ORDER BY a.library_name, a.id`

const paymentOverviewSelect = `
SELECT p.*,
       sub.name AS subject_name,
       sub.is_common AS subject_is_common
FROM teacher_payments p
JOIN subjects sub ON sub.id = p.subject_id
WHERE p.period_id = ? AND p.stage_id = ?
ORDER BY p.section_id, p.final_payment DESC`

// GET /financials/:period_id/:stage_id
//
// Whole read state for the scope: sections, entered revenues, the assignment
// ledger with joined names, and the stored payments with subject details.
func (h *PaymentController) Overview(c *fiber.Ctx) error {
	periodID, stageID, ok := scopeParams(c)
	if !ok {
		return helper.JsonError(c, http.StatusBadRequest, "invalid period_id or stage_id")
	}

	sc, notFound, err := h.loadScope(periodID, stageID)
	if err != nil {
		return helper.JsonError(c, http.StatusInternalServerError, err.Error())
	}
	if notFound != "" {
		return helper.JsonError(c, http.StatusNotFound, notFound)
	}

	var assignments []assignmentDto.AssignmentWithDetails
	if err := h.DB.Raw(assignmentOverviewSelect, stageID).Scan(&assignments).Error; err != nil {
		return helper.JsonError(c, http.StatusInternalServerError, err.Error())
	}

	var payments []dto.PaymentWithDetails
	if err := h.DB.Raw(paymentOverviewSelect, periodID, stageID).Scan(&payments).Error; err != nil {
		return helper.JsonError(c, http.StatusInternalServerError, err.Error())
	}

	_, excludedIDs, err := h.persistedExclusions(periodID, stageID)
	if err != nil {
		return helper.JsonError(c, http.StatusInternalServerError, err.Error())
	}

	out := dto.NewFinancialOverview(
		sc.Period, sc.Stage, sc.Months,
		sc.Sections, sc.RevenueRows, assignments, payments, excludedIDs,
	)
	return helper.JsonOK(c, "", out)
}

// GET /financials/:period_id/:stage_id/libraries-preview
//
// What the next calculation run would see: every assigned library with its
// watch totals over the period's months and its exclusion flag. Nothing is
// written.
func (h *PaymentController) LibrariesPreview(c *fiber.Ctx) error {
	periodID, stageID, ok := scopeParams(c)
	if !ok {
		return helper.JsonError(c, http.StatusBadRequest, "invalid period_id or stage_id")
	}

	sc, notFound, err := h.loadScope(periodID, stageID)
	if err != nil {
		return helper.JsonError(c, http.StatusInternalServerError, err.Error())
	}
	if notFound != "" {
		return helper.JsonError(c, http.StatusNotFound, notFound)
	}

	excluded, _, err := h.persistedExclusions(periodID, stageID)
	if err != nil {
		return helper.JsonError(c, http.StatusInternalServerError, err.Error())
	}

	type libraryPreview struct {
		LibraryID             int              `json:"library_id"`
		LibraryName           string           `json:"library_name"`
		Assignments           int              `json:"assignments"`
		TotalWatchTimeSeconds int64            `json:"total_watch_time_seconds"`
		MonthlyWatchBreakdown map[string]int64 `json:"monthly_watch_breakdown"`
		Excluded              bool             `json:"excluded"`
	}

	byLibrary := map[int]*libraryPreview{}
	order := []int{}
	for _, a := range sc.Assignments {
		p, ok := byLibrary[a.LibraryID]
		if !ok {
			breakdown := make(map[string]int64, len(sc.Months))
			var total int64
			for _, m := range sc.Months {
				breakdown[m] = sc.Watch[a.LibraryID][m]
				total += breakdown[m]
			}
			p = &libraryPreview{
				LibraryID:             a.LibraryID,
				LibraryName:           a.LibraryName,
				TotalWatchTimeSeconds: total,
				MonthlyWatchBreakdown: breakdown,
				Excluded:              excluded[a.LibraryID],
			}
			byLibrary[a.LibraryID] = p
			order = append(order, a.LibraryID)
		}
		p.Assignments++
	}

	out := make([]libraryPreview, 0, len(order))
	for _, id := range order {
		out = append(out, *byLibrary[id])
	}
	sort.Slice(out, func(i, j int) bool { return out[i].LibraryName < out[j].LibraryName })
	return helper.JsonList(c, "", out)
}

/* ===============================
   Calculation run
=================================*/

// POST /calculate-payments/:period_id/:stage_id
//
// Runs the distribution and replaces the stored payment set for the scope in
// one transaction. Ad-hoc exclusions from the body are merged with the
// persisted set for this run only.
func (h *PaymentController) Calculate(c *fiber.Ctx) error {
	periodID, stageID, ok := scopeParams(c)
	if !ok {
		return helper.JsonError(c, http.StatusBadRequest, "invalid period_id or stage_id")
	}

	var in dto.CalculateDTO
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&in); err != nil {
			return helper.JsonError(c, http.StatusBadRequest, "invalid json")
		}
	}

	sc, notFound, err := h.loadScope(periodID, stageID)
	if err != nil {
		return helper.JsonError(c, http.StatusInternalServerError, err.Error())
	}
	if notFound != "" {
		return helper.JsonError(c, http.StatusNotFound, notFound)
	}

	excluded, _, err := h.persistedExclusions(periodID, stageID)
	if err != nil {
		return helper.JsonError(c, http.StatusInternalServerError, err.Error())
	}
	for _, id := range in.ExcludedLibraryIDs {
		excluded[id] = true
	}

	res := service.CalculatePayments(sc.calcInput(excluded))

	rows := make([]model.TeacherPayment, 0, len(res.Payments))
	for _, p := range res.Payments {
		breakdown, err := sonic.Marshal(p.MonthlyWatchBreakdown)
		if err != nil {
			return helper.JsonError(c, http.StatusInternalServerError, err.Error())
		}
		rows = append(rows, model.TeacherPayment{
			PeriodID:                 p.PeriodID,
			AssignmentID:             p.AssignmentID,
			StageID:                  p.StageID,
			SectionID:                p.SectionID,
			LibraryID:                p.LibraryID,
			LibraryName:              p.LibraryName,
			SubjectID:                p.SubjectID,
			TotalWatchTimeSeconds:    p.TotalWatchTimeSeconds,
			MonthlyWatchBreakdown:    datatypes.JSON(breakdown),
			WatchTimePercentage:      p.WatchTimePercentage,
			RevenuePercentageApplied: p.RevenuePercentageApplied,
			CalculatedRevenue:        p.CalculatedRevenue,
			TaxRateApplied:           p.TaxRateApplied,
			TaxAmount:                p.TaxAmount,
			FinalPayment:             p.FinalPayment,
		})
	}

	err = h.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec(`DELETE FROM teacher_payments WHERE period_id = ? AND stage_id = ?`, periodID, stageID).Error; err != nil {
			return err
		}
		if len(rows) == 0 {
			return nil
		}
		return tx.Create(&rows).Error
	})
	if err != nil {
		return helper.JsonError(c, http.StatusInternalServerError, err.Error())
	}

	return helper.JsonOK(c, "payments calculated", fiber.Map{
		"payments_calculated": len(res.Payments),
		"total_payment":       res.TotalPayment,
		"payments":            res.Payments,
	})
}

// GET /teacher-payments/:period_id?page=&per_page=
func (h *PaymentController) ListByPeriod(c *fiber.Ctx) error {
	periodID, err := strconv.Atoi(c.Params("period_id"))
	if err != nil {
		return helper.JsonError(c, http.StatusBadRequest, "invalid period_id")
	}
	page := helper.ParsePage(c)

	var total int64
	if err := h.DB.Model(&model.TeacherPayment{}).
		Where("period_id = ?", periodID).Count(&total).Error; err != nil {
		return helper.JsonError(c, http.StatusInternalServerError, err.Error())
	}

	var rows []model.TeacherPayment
	if err := h.DB.Order("stage_id, section_id, final_payment DESC").
		Offset(page.Offset()).Limit(page.PerPage).
		Find(&rows, "period_id = ?", periodID).Error; err != nil {
		return helper.JsonError(c, http.StatusInternalServerError, err.Error())
	}
	return helper.JsonPage(c, "", rows, page.Meta(total))
}
