package service

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func sectionPtr(v int) *int { return &v }

func genInput() CalcInput {
	return CalcInput{
		PeriodID:   1,
		StageID:    1,
		Months:     []string{"2026-01", "2026-02"},
		SectionIDs: []int{10},
		Revenues:   map[int]float64{10: 10000},
		Assignments: []AssignmentInput{
			{AssignmentID: 1, LibraryID: 100, LibraryName: "A", SubjectID: 5, SectionID: sectionPtr(10), TaxRate: 0, RevenuePercentage: 0.95},
			{AssignmentID: 2, LibraryID: 200, LibraryName: "B", SubjectID: 5, SectionID: sectionPtr(10), TaxRate: 0, RevenuePercentage: 0.95},
		},
		Watch: map[int]map[string]int64{
			100: {"2026-01": 2000, "2026-02": 1000},
			200: {"2026-01": 1000},
		},
		Excluded: map[int]bool{},
	}
}

func TestCalculatePayments(t *testing.T) {
	t.Run("splits section revenue by watch share", func(t *testing.T) {
		res := CalculatePayments(genInput())

		require.Len(t, res.Payments, 2)
		require.InDelta(t, 0.75, res.Payments[0].WatchTimePercentage, 1e-9)
		require.Equal(t, 7125.00, res.Payments[0].FinalPayment)
		require.Equal(t, 2375.00, res.Payments[1].FinalPayment)
		require.Equal(t, 9500.00, res.TotalPayment)
	})

	t.Run("watch shares always sum to one per section", func(t *testing.T) {
		res := CalculatePayments(genInput())
		var sum float64
		for _, p := range res.Payments {
			sum += p.WatchTimePercentage
		}
		require.InDelta(t, 1.0, sum, 1e-9)
	})

	t.Run("tax is applied after the revenue split", func(t *testing.T) {
		in := genInput()
		in.Assignments[0].TaxRate = 0.10

		res := CalculatePayments(in)
		require.Equal(t, 7125.00, res.Payments[0].CalculatedRevenue)
		require.Equal(t, 712.50, res.Payments[0].TaxAmount)
		require.Equal(t, 6412.50, res.Payments[0].FinalPayment)
	})

	t.Run("excluded library leaves denominator and output", func(t *testing.T) {
		in := genInput()
		in.Excluded = map[int]bool{200: true}

		res := CalculatePayments(in)
		require.Len(t, res.Payments, 1)
		require.Equal(t, 100, res.Payments[0].LibraryID)
		require.InDelta(t, 1.0, res.Payments[0].WatchTimePercentage, 1e-9)
		require.Equal(t, 9500.00, res.TotalPayment)
	})

	t.Run("all-sections assignment expands per section", func(t *testing.T) {
		in := genInput()
		in.SectionIDs = []int{10, 11}
		in.Revenues[11] = 4000
		in.Assignments = []AssignmentInput{
			{AssignmentID: 1, LibraryID: 100, LibraryName: "A", SubjectID: 5, SectionID: nil, TaxRate: 0, RevenuePercentage: 1.0},
		}

		res := CalculatePayments(in)
		require.Len(t, res.Payments, 2)
		require.Equal(t, 10, res.Payments[0].SectionID)
		require.Equal(t, 11, res.Payments[1].SectionID)
		require.Equal(t, 10000.00, res.Payments[0].FinalPayment)
		require.Equal(t, 4000.00, res.Payments[1].FinalPayment)
	})

	t.Run("section without a revenue row produces no payments", func(t *testing.T) {
		in := genInput()
		in.SectionIDs = []int{10, 99}

		res := CalculatePayments(in)
		require.Len(t, res.Payments, 2)
		for _, p := range res.Payments {
			require.Equal(t, 10, p.SectionID)
		}
	})

	t.Run("zero total watch pays everyone zero", func(t *testing.T) {
		in := genInput()
		in.Watch = map[int]map[string]int64{}

		res := CalculatePayments(in)
		require.Len(t, res.Payments, 2)
		for _, p := range res.Payments {
			require.Zero(t, p.WatchTimePercentage)
			require.Zero(t, p.FinalPayment)
		}
		require.Zero(t, res.TotalPayment)
	})

	t.Run("only the period's months count", func(t *testing.T) {
		in := genInput()
		in.Watch[200]["2025-12"] = 50000 // outside the period

		res := CalculatePayments(in)
		require.InDelta(t, 0.25, res.Payments[1].WatchTimePercentage, 1e-9)
		require.NotContains(t, res.Payments[1].MonthlyWatchBreakdown, "2025-12")
	})
}
