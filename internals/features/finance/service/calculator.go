// file: internals/features/finance/service/calculator.go
package service

import (
	"math"
	"sort"
)

/* ===============================
   Calculation inputs
=================================*/

// AssignmentInput is one ledger row as the calculator sees it. A nil SectionID
// means the engagement spans every section of the stage and expands into each
// section's run with that section's own figures.
type AssignmentInput struct {
	AssignmentID      int
	LibraryID         int
	LibraryName       string
	SubjectID         int
	SectionID         *int
	TaxRate           float64
	RevenuePercentage float64
}

// CalcInput carries everything one (period, stage) run needs. Watch maps
// library id to per-month watched seconds; only the listed months count.
type CalcInput struct {
	PeriodID int
	StageID  int
	Months   []string

	SectionIDs  []int
	Revenues    map[int]float64
	Assignments []AssignmentInput
	Watch       map[int]map[string]int64
	Excluded    map[int]bool
}

/* ===============================
   Calculation outputs
=================================*/

// Payment is one computed payout line before persistence.
type Payment struct {
	AssignmentID int              `json:"assignment_id"`
	LibraryID    int              `json:"library_id"`
	LibraryName  string           `json:"library_name"`
	SubjectID    int              `json:"subject_id"`
	SectionID    int              `json:"section_id"`
	StageID      int              `json:"stage_id"`
	PeriodID     int              `json:"period_id"`

	TotalWatchTimeSeconds    int64            `json:"total_watch_time_seconds"`
	MonthlyWatchBreakdown    map[string]int64 `json:"monthly_watch_breakdown"`
	WatchTimePercentage      float64          `json:"watch_time_percentage"`
	RevenuePercentageApplied float64          `json:"revenue_percentage_applied"`
	CalculatedRevenue        float64          `json:"calculated_revenue"`
	TaxRateApplied           float64          `json:"tax_rate_applied"`
	TaxAmount                float64          `json:"tax_amount"`
	FinalPayment             float64          `json:"final_payment"`
}

type CalcResult struct {
	Payments     []Payment `json:"payments"`
	TotalPayment float64   `json:"total_payment"`
}

/* ===============================
   Calculator
=================================*/

// CalculatePayments runs the revenue distribution for one (period, stage).
// Each section is fully independent: the section's revenue is split across its
// participating libraries in proportion to watched seconds over the period's
// months. Excluded libraries are dropped entirely, from the denominator and
// from the output. A section with no revenue row produces no payments; a
// section whose participants watched nothing in total pays everyone zero.
func CalculatePayments(in CalcInput) CalcResult {
	out := CalcResult{Payments: []Payment{}}

	sectionIDs := append([]int(nil), in.SectionIDs...)
	sort.Ints(sectionIDs)

	for _, sectionID := range sectionIDs {
		revenue, ok := in.Revenues[sectionID]
		if !ok {
			continue
		}

		participants := make([]AssignmentInput, 0)
		for _, a := range in.Assignments {
			if in.Excluded[a.LibraryID] {
				continue
			}
			if a.SectionID != nil && *a.SectionID != sectionID {
				continue
			}
			participants = append(participants, a)
		}

		var sectionTotal int64
		watched := make([]int64, len(participants))
		for i, a := range participants {
			watched[i] = watchOverMonths(in.Watch[a.LibraryID], in.Months)
			sectionTotal += watched[i]
		}

		for i, a := range participants {
			pct := 0.0
			if sectionTotal > 0 {
				pct = float64(watched[i]) / float64(sectionTotal)
			}
			calculated := roundEGP(revenue * pct * a.RevenuePercentage)
			tax := roundEGP(calculated * a.TaxRate)

			p := Payment{
				AssignmentID:             a.AssignmentID,
				LibraryID:                a.LibraryID,
				LibraryName:              a.LibraryName,
				SubjectID:                a.SubjectID,
				SectionID:                sectionID,
				StageID:                  in.StageID,
				PeriodID:                 in.PeriodID,
				TotalWatchTimeSeconds:    watched[i],
				MonthlyWatchBreakdown:    breakdown(in.Watch[a.LibraryID], in.Months),
				WatchTimePercentage:      pct,
				RevenuePercentageApplied: a.RevenuePercentage,
				CalculatedRevenue:        calculated,
				TaxRateApplied:           a.TaxRate,
				TaxAmount:                tax,
				FinalPayment:             roundEGP(calculated - tax),
			}
			out.Payments = append(out.Payments, p)
			out.TotalPayment = roundEGP(out.TotalPayment + p.FinalPayment)
		}
	}
	return out
}

func watchOverMonths(byMonth map[string]int64, months []string) int64 {
	var total int64
	for _, m := range months {
		total += byMonth[m]
	}
	return total
}

func breakdown(byMonth map[string]int64, months []string) map[string]int64 {
	out := make(map[string]int64, len(months))
	for _, m := range months {
		out[m] = byMonth[m]
	}
	return out
}

func roundEGP(v float64) float64 {
	return math.Round(v*100) / 100
}
