// file: internals/features/finance/model/finance_model.go
package model

import (
	"time"

	"gorm.io/datatypes"
)

// --- MODEL financial_periods -------------------------------------------------

// FinancialPeriod groups one or more "YYYY-MM" months under a named billing
// window. Months are stored as a JSON array; a period must cover at least one
// month, enforced at the DTO layer before anything is persisted.
type FinancialPeriod struct {
	ID        int            `json:"id" gorm:"column:id;primaryKey;autoIncrement"`
	Name      string         `json:"name" gorm:"column:name;type:varchar(120);uniqueIndex;not null"`
	Year      int            `json:"year" gorm:"column:year;not null"`
	Months    datatypes.JSON `json:"months" gorm:"column:months;type:jsonb;not null"`
	Notes     string         `json:"notes" gorm:"column:notes;type:text"`
	CreatedAt time.Time      `json:"created_at" gorm:"column:created_at;autoCreateTime"`
}

func (FinancialPeriod) TableName() string { return "financial_periods" }

// --- MODEL section_revenues --------------------------------------------------

// SectionRevenue is the operator-entered revenue for one (period, stage,
// section). One row per tuple; POST upserts.
type SectionRevenue struct {
	ID              int       `json:"id" gorm:"column:id;primaryKey;autoIncrement"`
	PeriodID        int       `json:"period_id" gorm:"column:period_id;not null;uniqueIndex:uq_period_stage_section"`
	StageID         int       `json:"stage_id" gorm:"column:stage_id;not null;uniqueIndex:uq_period_stage_section"`
	SectionID       int       `json:"section_id" gorm:"column:section_id;not null;uniqueIndex:uq_period_stage_section"`
	TotalOrders     int       `json:"total_orders" gorm:"column:total_orders;not null;default:0"`
	TotalRevenueEGP float64   `json:"total_revenue_egp" gorm:"column:total_revenue_egp;not null;default:0"`
	CreatedAt       time.Time `json:"created_at" gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time `json:"updated_at" gorm:"column:updated_at;autoUpdateTime"`
}

func (SectionRevenue) TableName() string { return "section_revenues" }

// --- MODEL teacher_payments --------------------------------------------------

// TeacherPayment is one calculated payout line. The whole set for a
// (period, stage) is regenerated on every calculation run, so rows carry the
// inputs that produced them for auditability.
type TeacherPayment struct {
	ID           int    `json:"id" gorm:"column:id;primaryKey;autoIncrement"`
	PeriodID     int    `json:"period_id" gorm:"column:period_id;not null;index"`
	AssignmentID int    `json:"assignment_id" gorm:"column:assignment_id;not null"`
	StageID      int    `json:"stage_id" gorm:"column:stage_id;not null;index"`
	SectionID    int    `json:"section_id" gorm:"column:section_id;not null"`
	LibraryID    int    `json:"library_id" gorm:"column:library_id;not null"`
	LibraryName  string `json:"library_name" gorm:"column:library_name;type:varchar(255);not null"`
	SubjectID    int    `json:"subject_id" gorm:"column:subject_id;not null"`

	TotalWatchTimeSeconds    int64          `json:"total_watch_time_seconds" gorm:"column:total_watch_time_seconds;not null;default:0"`
	MonthlyWatchBreakdown    datatypes.JSON `json:"monthly_watch_breakdown" gorm:"column:monthly_watch_breakdown;type:jsonb"`
	WatchTimePercentage      float64        `json:"watch_time_percentage" gorm:"column:watch_time_percentage;not null;default:0"`
	RevenuePercentageApplied float64        `json:"revenue_percentage_applied" gorm:"column:revenue_percentage_applied;not null;default:0"`
	CalculatedRevenue        float64        `json:"calculated_revenue" gorm:"column:calculated_revenue;not null;default:0"`
	TaxRateApplied           float64        `json:"tax_rate_applied" gorm:"column:tax_rate_applied;not null;default:0"`
	TaxAmount                float64        `json:"tax_amount" gorm:"column:tax_amount;not null;default:0"`
	FinalPayment             float64        `json:"final_payment" gorm:"column:final_payment;not null;default:0"`

	CreatedAt time.Time `json:"created_at" gorm:"column:created_at;autoCreateTime"`
}

func (TeacherPayment) TableName() string { return "teacher_payments" }
