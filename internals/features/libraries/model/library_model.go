// file: internals/features/libraries/model/library_model.go
package model

import "time"

// Library: cached roster row for a content library on the CDN. The id is the
// CDN's own id, so no autoincrement. The stats collaborator upserts this
// table; the matcher and the calculator only read it.
type Library struct {
	ID        int       `json:"id" gorm:"column:id;primaryKey"`
	Name      string    `json:"name" gorm:"column:name;type:varchar(255);not null"`
	CreatedAt time.Time `json:"created_at" gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"column:updated_at;autoUpdateTime"`
}

func (Library) TableName() string { return "libraries" }

// LibraryMonthlyStat: one library's watch-time total for one calendar month.
type LibraryMonthlyStat struct {
	ID               int       `json:"id" gorm:"column:id;primaryKey;autoIncrement"`
	LibraryID        int       `json:"library_id" gorm:"column:library_id;not null;uniqueIndex:uq_library_month,priority:1"`
	Month            string    `json:"month" gorm:"column:month;type:varchar(7);not null;uniqueIndex:uq_library_month,priority:2"` // YYYY-MM
	WatchTimeSeconds int64     `json:"watch_time_seconds" gorm:"column:watch_time_seconds;not null;default:0"`
	Views            int64     `json:"views" gorm:"column:views;not null;default:0"`
	CreatedAt        time.Time `json:"created_at" gorm:"column:created_at;autoCreateTime"`
}

func (LibraryMonthlyStat) TableName() string { return "library_monthly_stats" }
