// file: internals/features/finance/dto/finance_dto.go
package dto

import (
	"github.com/bytedance/sonic"
	"gorm.io/datatypes"

	assignmentDto "edupay_backend/internals/features/assignments/dto"
	model "edupay_backend/internals/features/finance/model"
	taxonomy "edupay_backend/internals/features/taxonomy/model"
)

/* ===============================
   Financial periods
=================================*/

// PeriodCreateDTO validates months up front: at least one entry, each in
// "YYYY-MM" form, before anything reaches the database.
type PeriodCreateDTO struct {
	Name   string   `json:"name" validate:"required,min=1,max=120"`
	Year   int      `json:"year" validate:"required,gte=2000,lte=2100"`
	Months []string `json:"months" validate:"required,min=1,dive,len=7"`
	Notes  string   `json:"notes"`
}

type PeriodUpdateDTO struct {
	Name   *string   `json:"name" validate:"omitempty,min=1,max=120"`
	Year   *int      `json:"year" validate:"omitempty,gte=2000,lte=2100"`
	Months *[]string `json:"months" validate:"omitempty,min=1,dive,len=7"`
	Notes  *string   `json:"notes"`
}

func PeriodCreateDTOToModel(in PeriodCreateDTO) (model.FinancialPeriod, error) {
	months, err := sonic.Marshal(in.Months)
	if err != nil {
		return model.FinancialPeriod{}, err
	}
	return model.FinancialPeriod{
		Name:   in.Name,
		Year:   in.Year,
		Months: datatypes.JSON(months),
		Notes:  in.Notes,
	}, nil
}

func ApplyPeriodUpdate(m *model.FinancialPeriod, in PeriodUpdateDTO) error {
	if in.Name != nil {
		m.Name = *in.Name
	}
	if in.Year != nil {
		m.Year = *in.Year
	}
	if in.Months != nil {
		months, err := sonic.Marshal(*in.Months)
		if err != nil {
			return err
		}
		m.Months = datatypes.JSON(months)
	}
	if in.Notes != nil {
		m.Notes = *in.Notes
	}
	return nil
}

// PeriodMonths decodes the stored JSON array back into month strings.
func PeriodMonths(m model.FinancialPeriod) ([]string, error) {
	var months []string
	if err := sonic.Unmarshal([]byte(m.Months), &months); err != nil {
		return nil, err
	}
	return months, nil
}

/* ===============================
   Section revenues
=================================*/

type SectionRevenueUpsertDTO struct {
	PeriodID        int     `json:"period_id" validate:"required,gt=0"`
	StageID         int     `json:"stage_id" validate:"required,gt=0"`
	SectionID       int     `json:"section_id" validate:"required,gt=0"`
	TotalOrders     int     `json:"total_orders" validate:"gte=0"`
	TotalRevenueEGP float64 `json:"total_revenue_egp" validate:"gte=0"`
}

func SectionRevenueUpsertDTOToModel(in SectionRevenueUpsertDTO) model.SectionRevenue {
	return model.SectionRevenue{
		PeriodID:        in.PeriodID,
		StageID:         in.StageID,
		SectionID:       in.SectionID,
		TotalOrders:     in.TotalOrders,
		TotalRevenueEGP: in.TotalRevenueEGP,
	}
}

/* ===============================
   Exclusions and calculation
=================================*/

type ExclusionToggleDTO struct {
	LibraryID int `json:"library_id" validate:"required,gt=0"`
}

// ExclusionBulkSetDTO marks or unmarks the listed libraries; ids outside the
// list keep their current state. Excluded is a pointer so a missing flag is a
// validation error rather than a silent unmark.
type ExclusionBulkSetDTO struct {
	LibraryIDs []int `json:"library_ids" validate:"required,min=1,dive,gt=0"`
	Excluded   *bool `json:"excluded" validate:"required"`
}

// CalculateDTO carries the ad-hoc exclusions for one run; they are merged
// with the persisted exclusion set, never written back.
type CalculateDTO struct {
	ExcludedLibraryIDs []int `json:"excluded_library_ids"`
}

/* ===============================
   READ SHAPES
=================================*/

// PaymentWithDetails joins the subject display fields onto a payment row.
type PaymentWithDetails struct {
	model.TeacherPayment
	SubjectName     string `json:"subject_name"`
	SubjectIsCommon bool   `json:"subject_is_common"`
}

// FinancialOverviewDTO is the whole read state for one (period, stage):
// the stage's sections, the entered revenues, the assignment ledger with
// joined names, and the currently stored payments with subject details.
type FinancialOverviewDTO struct {
	Period             model.FinancialPeriod                 `json:"period"`
	Stage              taxonomy.Stage                        `json:"stage"`
	Months             []string                              `json:"months"`
	Sections           []taxonomy.Section                    `json:"sections"`
	SectionRevenues    []model.SectionRevenue                `json:"section_revenues"`
	TeacherAssignments []assignmentDto.AssignmentWithDetails `json:"teacher_assignments"`
	TeacherPayments    []PaymentWithDetails                  `json:"teacher_payments"`
	TotalPaid          float64                               `json:"total_paid"`
	ExcludedLibraryIDs []int                                 `json:"excluded_library_ids"`
}

// NewFinancialOverview assembles the overview, normalizing nil collections to
// empty ones and totalling the stored payments.
func NewFinancialOverview(
	period model.FinancialPeriod,
	stage taxonomy.Stage,
	months []string,
	sections []taxonomy.Section,
	revenues []model.SectionRevenue,
	assignments []assignmentDto.AssignmentWithDetails,
	payments []PaymentWithDetails,
	excludedIDs []int,
) FinancialOverviewDTO {
	out := FinancialOverviewDTO{
		Period:             period,
		Stage:              stage,
		Months:             months,
		Sections:           sections,
		SectionRevenues:    revenues,
		TeacherAssignments: assignments,
		TeacherPayments:    payments,
		ExcludedLibraryIDs: excludedIDs,
	}
	if out.Months == nil {
		out.Months = []string{}
	}
	if out.Sections == nil {
		out.Sections = []taxonomy.Section{}
	}
	if out.SectionRevenues == nil {
		out.SectionRevenues = []model.SectionRevenue{}
	}
	if out.TeacherAssignments == nil {
		out.TeacherAssignments = []assignmentDto.AssignmentWithDetails{}
	}
	if out.TeacherPayments == nil {
		out.TeacherPayments = []PaymentWithDetails{}
	}
	if out.ExcludedLibraryIDs == nil {
		out.ExcludedLibraryIDs = []int{}
	}
	for _, p := range out.TeacherPayments {
		out.TotalPaid += p.FinalPayment
	}
	return out
}
