// file: internals/features/reconciliation/service/workspace.go
package service

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/bytedance/sonic"

	assignment "edupay_backend/internals/features/assignments/model"
	assignmentService "edupay_backend/internals/features/assignments/service"
	"edupay_backend/internals/kv"
)

// DeferredKey is the single global slot for parked reconciliation items.
const DeferredKey = "reconciliation:deferred"

var ErrItemNotFound = errors.New("reconciliation: item not found")

/* ===============================
   Item state machine
=================================*/

// State: unresolved → editing → {saved, removed, deferred}. Saved and removed
// items leave the workspace immediately; deferred items are written to the kv
// store and restored on the next load.
type State string

const (
	StateUnresolved State = "unresolved"
	StateEditing    State = "editing"
	StateSaved      State = "saved"
	StateRemoved    State = "removed"
)

// Item is one unmatched candidate under reconciliation. The raw parsed codes
// stay visible for operator reference; the ID fields hold the operator's
// corrections.
type Item struct {
	LibraryID   int    `json:"library_id"`
	LibraryName string `json:"library_name"`

	StageCode   string `json:"stage_code"`
	SectionCode string `json:"section_code"`
	SubjectCode string `json:"subject_code"`

	StageID    *int  `json:"stage_id"`
	SectionIDs []int `json:"section_ids"`
	SubjectID  *int  `json:"subject_id"`

	Selected  bool   `json:"selected"`
	State     State  `json:"state"`
	LastError string `json:"last_error,omitempty"`
}

/* ===============================
   Save reporting
=================================*/

type EmissionFailure struct {
	SectionID *int   `json:"section_id"`
	Error     string `json:"error"`
}

// SaveReport describes one item's save attempt. Partial per-section failures
// are reported, never blocking: the item leaves the workspace as long as at
// least one emission went through.
type SaveReport struct {
	LibraryID  int               `json:"library_id"`
	Saved      bool              `json:"saved"`
	Created    int               `json:"created"`
	Duplicates int               `json:"duplicates"`
	Failures   []EmissionFailure `json:"failures,omitempty"`
	Skipped    string            `json:"skipped,omitempty"` // reason when the required-fields check failed
}

// SubjectLookup answers whether a subject is common (stage-wide).
type SubjectLookup func(subjectID int) (isCommon bool, err error)

/* ===============================
   Workspace
=================================*/

// Workspace is the per-process editor for unmatched candidates. Selection and
// edits live only in memory; the kv store is touched exclusively by Defer and
// Load.
type Workspace struct {
	mu     sync.Mutex
	store  kv.Store
	ledger assignmentService.Upserter
	subj   SubjectLookup

	items map[int]*Item
	order []int
}

func NewWorkspace(store kv.Store, ledger assignmentService.Upserter, subj SubjectLookup) *Workspace {
	return &Workspace{
		store:  store,
		ledger: ledger,
		subj:   subj,
		items:  map[int]*Item{},
	}
}

// Load merges the deferred set from durable storage with newly unmatched
// candidates. A deferred item wins over a fresh candidate for the same
// library so operator edits survive a matcher re-run.
func (w *Workspace) Load(candidates []assignmentService.MatchResult) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.items = map[int]*Item{}
	w.order = nil

	raw, err := w.store.Get(DeferredKey)
	if err != nil && !errors.Is(err, kv.ErrKeyNotFound) {
		return err
	}
	if raw != nil {
		var deferred []Item
		if err := sonic.Unmarshal(raw, &deferred); err != nil {
			return fmt.Errorf("corrupt deferred set: %w", err)
		}
		for i := range deferred {
			it := deferred[i]
			it.Selected = false
			if it.State != StateEditing {
				it.State = StateUnresolved
			}
			w.insert(&it)
		}
	}

	for _, cand := range candidates {
		if cand.Matched {
			continue
		}
		if _, exists := w.items[cand.LibraryID]; exists {
			// keep the deferred edits, refresh the display name
			w.items[cand.LibraryID].LibraryName = cand.LibraryName
			continue
		}
		w.insert(&Item{
			LibraryID:   cand.LibraryID,
			LibraryName: cand.LibraryName,
			StageCode:   cand.StageCode,
			SectionCode: cand.SectionCode,
			SubjectCode: cand.SubjectCode,
			State:       StateUnresolved,
		})
	}
	return nil
}

func (w *Workspace) insert(it *Item) {
	w.items[it.LibraryID] = it
	w.order = append(w.order, it.LibraryID)
}

// Items returns a stable-ordered copy of the current set.
func (w *Workspace) Items() []Item {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make([]Item, 0, len(w.order))
	for _, id := range w.order {
		if it, ok := w.items[id]; ok {
			out = append(out, *it)
		}
	}
	return out
}

// Edit records the operator's corrections. Changing the stage clears any
// previously chosen sections, since they belonged to the old stage.
func (w *Workspace) Edit(libraryID int, stageID *int, sectionIDs []int, subjectID *int) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	it, ok := w.items[libraryID]
	if !ok {
		return ErrItemNotFound
	}

	if stageID != nil {
		if it.StageID == nil || *it.StageID != *stageID {
			it.SectionIDs = nil
		}
		it.StageID = stageID
	}
	if sectionIDs != nil {
		it.SectionIDs = append([]int(nil), sectionIDs...)
	}
	if subjectID != nil {
		it.SubjectID = subjectID
	}
	it.State = StateEditing
	it.LastError = ""
	return nil
}

// Select flags or unflags items for bulk operations. Never persisted.
func (w *Workspace) Select(libraryIDs []int, selected bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	for _, id := range libraryIDs {
		if it, ok := w.items[id]; ok {
			it.Selected = selected
		}
	}
}

// ApplySections assigns one chosen section set to every given item without
// saving. Pre-save convenience for bulk edits.
func (w *Workspace) ApplySections(libraryIDs []int, sectionIDs []int) {
	w.mu.Lock()
	defer w.mu.Unlock()
	for _, id := range libraryIDs {
		if it, ok := w.items[id]; ok {
			it.SectionIDs = append([]int(nil), sectionIDs...)
			it.State = StateEditing
		}
	}
}

// SaveOne validates and emits assignments for a single item. A common
// subject, or an empty section choice, emits one all-sections row
// (section_id NULL); otherwise one row per selected section. Duplicates are
// successes per the upsert contract.
func (w *Workspace) SaveOne(libraryID int) (SaveReport, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.saveLocked(libraryID)
}

func (w *Workspace) saveLocked(libraryID int) (SaveReport, error) {
	rep := SaveReport{LibraryID: libraryID}

	it, ok := w.items[libraryID]
	if !ok {
		return rep, ErrItemNotFound
	}
	if it.StageID == nil || it.SubjectID == nil {
		it.LastError = "stage and subject are required"
		rep.Skipped = it.LastError
		return rep, nil
	}

	isCommon, err := w.subj(*it.SubjectID)
	if err != nil {
		it.LastError = err.Error()
		rep.Failures = append(rep.Failures, EmissionFailure{Error: err.Error()})
		return rep, nil
	}

	var emissions []*int
	if isCommon || len(it.SectionIDs) == 0 {
		emissions = []*int{nil}
	} else {
		for _, sid := range it.SectionIDs {
			id := sid
			emissions = append(emissions, &id)
		}
	}

	for _, sectionID := range emissions {
		created, err := w.ledger.Upsert(assignment.TeacherAssignment{
			LibraryID:         it.LibraryID,
			LibraryName:       it.LibraryName,
			StageID:           *it.StageID,
			SectionID:         sectionID,
			SubjectID:         *it.SubjectID,
			TaxRate:           0.0,
			RevenuePercentage: 0.95,
		})
		switch {
		case err != nil:
			rep.Failures = append(rep.Failures, EmissionFailure{SectionID: sectionID, Error: err.Error()})
		case created:
			rep.Created++
		default:
			rep.Duplicates++
		}
	}

	if rep.Created+rep.Duplicates > 0 {
		rep.Saved = true
		it.State = StateSaved
		delete(w.items, libraryID)
	} else if len(rep.Failures) > 0 {
		it.LastError = rep.Failures[0].Error
	}
	return rep, nil
}

// SaveSelected saves every flagged item that passes the required-fields
// check; failing items are skipped and reported, never aborting the batch.
func (w *Workspace) SaveSelected() ([]SaveReport, error) {
	w.mu.Lock()
	ids := make([]int, 0)
	for _, id := range w.order {
		if it, ok := w.items[id]; ok && it.Selected {
			ids = append(ids, id)
		}
	}
	w.mu.Unlock()
	sort.Ints(ids)

	reports := make([]SaveReport, 0, len(ids))
	for _, id := range ids {
		w.mu.Lock()
		rep, err := w.saveLocked(id)
		w.mu.Unlock()
		if err != nil {
			return reports, err
		}
		reports = append(reports, rep)
	}
	return reports, nil
}

// Remove discards an item without creating any assignment.
func (w *Workspace) Remove(libraryID int) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if _, ok := w.items[libraryID]; !ok {
		return ErrItemNotFound
	}
	delete(w.items, libraryID)
	return nil
}

// Defer serializes every remaining item to durable storage under the fixed
// global key. Selection flags are not persisted.
func (w *Workspace) Defer() (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	remaining := make([]Item, 0, len(w.order))
	for _, id := range w.order {
		if it, ok := w.items[id]; ok {
			cp := *it
			cp.Selected = false
			remaining = append(remaining, cp)
		}
	}

	if len(remaining) == 0 {
		if err := w.store.Delete(DeferredKey); err != nil {
			return 0, err
		}
		return 0, nil
	}

	raw, err := sonic.Marshal(remaining)
	if err != nil {
		return 0, err
	}
	if err := w.store.Set(DeferredKey, raw); err != nil {
		return 0, err
	}
	return len(remaining), nil
}
