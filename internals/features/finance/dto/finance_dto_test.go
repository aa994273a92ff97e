package dto

import (
	"testing"

	"github.com/stretchr/testify/require"

	assignmentDto "edupay_backend/internals/features/assignments/dto"
	model "edupay_backend/internals/features/finance/model"
	taxonomy "edupay_backend/internals/features/taxonomy/model"
	helper "edupay_backend/internals/helpers"
)

func TestPeriodCreateDTOValidation(t *testing.T) {
	t.Run("empty months is rejected before persistence", func(t *testing.T) {
		in := PeriodCreateDTO{Name: "Q1 2026", Year: 2026, Months: []string{}}
		fieldErrs := helper.ValidateStruct(in)
		require.NotNil(t, fieldErrs)
		require.Contains(t, fieldErrs, "months")
	})

	t.Run("missing months is rejected", func(t *testing.T) {
		in := PeriodCreateDTO{Name: "Q1 2026", Year: 2026}
		fieldErrs := helper.ValidateStruct(in)
		require.NotNil(t, fieldErrs)
		require.Contains(t, fieldErrs, "months")
	})

	t.Run("malformed month entry is rejected", func(t *testing.T) {
		in := PeriodCreateDTO{Name: "Q1 2026", Year: 2026, Months: []string{"2026-1"}}
		fieldErrs := helper.ValidateStruct(in)
		require.NotNil(t, fieldErrs)
	})

	t.Run("well-formed period passes", func(t *testing.T) {
		in := PeriodCreateDTO{Name: "Q1 2026", Year: 2026, Months: []string{"2026-01", "2026-02"}}
		require.Nil(t, helper.ValidateStruct(in))
	})
}

func TestNewFinancialOverview(t *testing.T) {
	t.Run("carries all four collections with subject details", func(t *testing.T) {
		sections := []taxonomy.Section{{ID: 10, StageID: 1, Code: "GEN", Name: "General"}}
		revenues := []model.SectionRevenue{{PeriodID: 1, StageID: 1, SectionID: 10, TotalRevenueEGP: 10000}}
		assignments := []assignmentDto.AssignmentWithDetails{{
			SubjectName: "Math", SubjectIsCommon: false,
		}}
		payments := []PaymentWithDetails{
			{TeacherPayment: model.TeacherPayment{SectionID: 10, FinalPayment: 7125}, SubjectName: "Math"},
			{TeacherPayment: model.TeacherPayment{SectionID: 10, FinalPayment: 2375}, SubjectName: "Math", SubjectIsCommon: true},
		}

		out := NewFinancialOverview(
			model.FinancialPeriod{ID: 1}, taxonomy.Stage{ID: 1},
			[]string{"2026-01"}, sections, revenues, assignments, payments, []int{42},
		)

		require.Equal(t, sections, out.Sections)
		require.Equal(t, revenues, out.SectionRevenues)
		require.Equal(t, assignments, out.TeacherAssignments)
		require.Equal(t, payments, out.TeacherPayments)
		require.Equal(t, "Math", out.TeacherPayments[0].SubjectName)
		require.True(t, out.TeacherPayments[1].SubjectIsCommon)
		require.Equal(t, 9500.00, out.TotalPaid)
		require.Equal(t, []int{42}, out.ExcludedLibraryIDs)
	})

	t.Run("nil collections come back empty, never null", func(t *testing.T) {
		out := NewFinancialOverview(
			model.FinancialPeriod{ID: 1}, taxonomy.Stage{ID: 1},
			nil, nil, nil, nil, nil, nil,
		)
		require.NotNil(t, out.Months)
		require.NotNil(t, out.Sections)
		require.NotNil(t, out.SectionRevenues)
		require.NotNil(t, out.TeacherAssignments)
		require.NotNil(t, out.TeacherPayments)
		require.NotNil(t, out.ExcludedLibraryIDs)
		require.Zero(t, out.TotalPaid)
	})
}
