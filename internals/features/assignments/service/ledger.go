// file: internals/features/assignments/service/ledger.go
package service

import (
	"errors"

	"gorm.io/gorm"

	assignment "edupay_backend/internals/features/assignments/model"
	helper "edupay_backend/internals/helpers"
)

// Upserter is the write side of the assignment ledger. The matcher and the
// reconciliation workspace both emit through it; tests swap in a fake.
type Upserter interface {
	// Upsert creates the row unless an identical (library, stage, section,
	// subject) tuple already exists. A duplicate is a no-op success; created
	// reports whether a new row was written.
	Upsert(a assignment.TeacherAssignment) (created bool, err error)
}

// Ledger is the gorm-backed Upserter.
type Ledger struct {
	DB *gorm.DB
}

func NewLedger(db *gorm.DB) *Ledger { return &Ledger{DB: db} }

func (l *Ledger) Upsert(a assignment.TeacherAssignment) (bool, error) {
	q := l.DB.Where("library_id = ? AND stage_id = ? AND subject_id = ?",
		a.LibraryID, a.StageID, a.SubjectID)
	if a.SectionID == nil {
		q = q.Where("section_id IS NULL")
	} else {
		q = q.Where("section_id = ?", *a.SectionID)
	}

	var existing assignment.TeacherAssignment
	err := q.First(&existing).Error
	if err == nil {
		// Identical tuple: no-op, but refresh a stale denormalized name.
		if a.LibraryName != "" && a.LibraryName != existing.LibraryName {
			if err := l.DB.Model(&existing).Update("library_name", a.LibraryName).Error; err != nil {
				return false, err
			}
		}
		return false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return false, err
	}

	if err := l.DB.Create(&a).Error; err != nil {
		// Concurrent insert of the same tuple still counts as success.
		if helper.IsDuplicate(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
