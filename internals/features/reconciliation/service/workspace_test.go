package service

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	assignment "edupay_backend/internals/features/assignments/model"
	assignmentService "edupay_backend/internals/features/assignments/service"
	"edupay_backend/internals/kv"
)

type memLedger struct {
	rows    []assignment.TeacherAssignment
	failFor map[int]error // section id → error (0 = nil section)
}

func sectionKeyOf(sectionID *int) int {
	if sectionID == nil {
		return 0
	}
	return *sectionID
}

func (m *memLedger) Upsert(a assignment.TeacherAssignment) (bool, error) {
	if err, ok := m.failFor[sectionKeyOf(a.SectionID)]; ok {
		return false, err
	}
	for _, r := range m.rows {
		if r.SameTuple(a) {
			return false, nil
		}
	}
	m.rows = append(m.rows, a)
	return true, nil
}

func subjectsFixture(common map[int]bool) SubjectLookup {
	return func(id int) (bool, error) {
		isCommon, ok := common[id]
		if !ok {
			return false, errors.New("subject not found")
		}
		return isCommon, nil
	}
}

func unmatched(libraryID int, name string) assignmentService.MatchResult {
	return assignmentService.MatchResult{LibraryID: libraryID, LibraryName: name}
}

func intPtr(v int) *int { return &v }

func newTestWorkspace(ledger assignmentService.Upserter) (*Workspace, *kv.MemoryStore) {
	store := kv.NewMemoryStore()
	subj := subjectsFixture(map[int]bool{20: true, 21: false})
	return NewWorkspace(store, ledger, subj), store
}

func TestWorkspaceLoadAndEdit(t *testing.T) {
	t.Run("load seeds unresolved items from unmatched candidates only", func(t *testing.T) {
		ws, _ := newTestWorkspace(&memLedger{})
		matched := assignmentService.MatchResult{LibraryID: 9, LibraryName: "S1-AR-X", Matched: true}
		require.NoError(t, ws.Load([]assignmentService.MatchResult{unmatched(1, "X1-??-A"), matched}))

		items := ws.Items()
		require.Len(t, items, 1)
		require.Equal(t, 1, items[0].LibraryID)
		require.Equal(t, StateUnresolved, items[0].State)
	})

	t.Run("changing stage clears chosen sections", func(t *testing.T) {
		ws, _ := newTestWorkspace(&memLedger{})
		require.NoError(t, ws.Load([]assignmentService.MatchResult{unmatched(1, "A")}))

		require.NoError(t, ws.Edit(1, intPtr(1), []int{10, 11}, intPtr(21)))
		require.Equal(t, []int{10, 11}, ws.Items()[0].SectionIDs)

		require.NoError(t, ws.Edit(1, intPtr(2), nil, nil))
		require.Empty(t, ws.Items()[0].SectionIDs)
		require.Equal(t, 2, *ws.Items()[0].StageID)
	})

	t.Run("editing a missing item errors", func(t *testing.T) {
		ws, _ := newTestWorkspace(&memLedger{})
		require.ErrorIs(t, ws.Edit(99, intPtr(1), nil, nil), ErrItemNotFound)
	})
}

func TestWorkspaceSaveOne(t *testing.T) {
	t.Run("missing required fields is skipped not errored", func(t *testing.T) {
		ws, _ := newTestWorkspace(&memLedger{})
		require.NoError(t, ws.Load([]assignmentService.MatchResult{unmatched(1, "A")}))

		rep, err := ws.SaveOne(1)
		require.NoError(t, err)
		require.False(t, rep.Saved)
		require.NotEmpty(t, rep.Skipped)
		require.Len(t, ws.Items(), 1, "item stays in the workspace")
	})

	t.Run("common subject emits one all-sections row", func(t *testing.T) {
		ledger := &memLedger{}
		ws, _ := newTestWorkspace(ledger)
		require.NoError(t, ws.Load([]assignmentService.MatchResult{unmatched(1, "A")}))
		require.NoError(t, ws.Edit(1, intPtr(1), []int{10, 11}, intPtr(20))) // 20 is common

		rep, err := ws.SaveOne(1)
		require.NoError(t, err)
		require.True(t, rep.Saved)
		require.Equal(t, 1, rep.Created)
		require.Len(t, ledger.rows, 1)
		require.Nil(t, ledger.rows[0].SectionID)
		require.Empty(t, ws.Items(), "saved item leaves the workspace")
	})

	t.Run("no chosen section also emits one all-sections row", func(t *testing.T) {
		ledger := &memLedger{}
		ws, _ := newTestWorkspace(ledger)
		require.NoError(t, ws.Load([]assignmentService.MatchResult{unmatched(1, "A")}))
		require.NoError(t, ws.Edit(1, intPtr(1), nil, intPtr(21))) // non-common, no sections

		rep, err := ws.SaveOne(1)
		require.NoError(t, err)
		require.True(t, rep.Saved)
		require.Len(t, ledger.rows, 1)
		require.Nil(t, ledger.rows[0].SectionID)
	})

	t.Run("non-common subject emits one row per selected section", func(t *testing.T) {
		ledger := &memLedger{}
		ws, _ := newTestWorkspace(ledger)
		require.NoError(t, ws.Load([]assignmentService.MatchResult{unmatched(1, "A")}))
		require.NoError(t, ws.Edit(1, intPtr(1), []int{10, 11}, intPtr(21)))

		rep, err := ws.SaveOne(1)
		require.NoError(t, err)
		require.True(t, rep.Saved)
		require.Equal(t, 2, rep.Created)
		require.Len(t, ledger.rows, 2)
	})

	t.Run("duplicate counts as success", func(t *testing.T) {
		ledger := &memLedger{rows: []assignment.TeacherAssignment{{
			LibraryID: 1, StageID: 1, SectionID: nil, SubjectID: 20,
		}}}
		ws, _ := newTestWorkspace(ledger)
		require.NoError(t, ws.Load([]assignmentService.MatchResult{unmatched(1, "A")}))
		require.NoError(t, ws.Edit(1, intPtr(1), nil, intPtr(20)))

		rep, err := ws.SaveOne(1)
		require.NoError(t, err)
		require.True(t, rep.Saved)
		require.Equal(t, 0, rep.Created)
		require.Equal(t, 1, rep.Duplicates)
		require.Empty(t, ws.Items())
	})

	t.Run("partial per-section failure reported but not blocking", func(t *testing.T) {
		ledger := &memLedger{failFor: map[int]error{11: errors.New("connection reset")}}
		ws, _ := newTestWorkspace(ledger)
		require.NoError(t, ws.Load([]assignmentService.MatchResult{unmatched(1, "A")}))
		require.NoError(t, ws.Edit(1, intPtr(1), []int{10, 11}, intPtr(21)))

		rep, err := ws.SaveOne(1)
		require.NoError(t, err)
		require.True(t, rep.Saved)
		require.Equal(t, 1, rep.Created)
		require.Len(t, rep.Failures, 1)
		require.Equal(t, 11, *rep.Failures[0].SectionID)
		require.Empty(t, ws.Items())
	})

	t.Run("total failure keeps the item with its error", func(t *testing.T) {
		ledger := &memLedger{failFor: map[int]error{0: errors.New("db down")}}
		ws, _ := newTestWorkspace(ledger)
		require.NoError(t, ws.Load([]assignmentService.MatchResult{unmatched(1, "A")}))
		require.NoError(t, ws.Edit(1, intPtr(1), nil, intPtr(21)))

		rep, err := ws.SaveOne(1)
		require.NoError(t, err)
		require.False(t, rep.Saved)
		require.Len(t, ws.Items(), 1)
		require.Equal(t, "db down", ws.Items()[0].LastError)
	})
}

func TestWorkspaceBulk(t *testing.T) {
	t.Run("save selected skips invalid items and reports them", func(t *testing.T) {
		ledger := &memLedger{}
		ws, _ := newTestWorkspace(ledger)
		require.NoError(t, ws.Load([]assignmentService.MatchResult{
			unmatched(1, "A"), unmatched(2, "B"), unmatched(3, "C"),
		}))
		require.NoError(t, ws.Edit(1, intPtr(1), nil, intPtr(20)))
		// item 2 stays incomplete
		ws.Select([]int{1, 2}, true)

		reports, err := ws.SaveSelected()
		require.NoError(t, err)
		require.Len(t, reports, 2)

		byID := map[int]SaveReport{}
		for _, r := range reports {
			byID[r.LibraryID] = r
		}
		require.True(t, byID[1].Saved)
		require.False(t, byID[2].Saved)
		require.NotEmpty(t, byID[2].Skipped)

		require.Len(t, ws.Items(), 2, "unsaved and unselected items remain")
	})

	t.Run("apply sections patches every target without saving", func(t *testing.T) {
		ledger := &memLedger{}
		ws, _ := newTestWorkspace(ledger)
		require.NoError(t, ws.Load([]assignmentService.MatchResult{unmatched(1, "A"), unmatched(2, "B")}))

		ws.ApplySections([]int{1, 2}, []int{10})
		for _, it := range ws.Items() {
			require.Equal(t, []int{10}, it.SectionIDs)
		}
		require.Empty(t, ledger.rows)
	})

	t.Run("remove discards without emitting", func(t *testing.T) {
		ledger := &memLedger{}
		ws, _ := newTestWorkspace(ledger)
		require.NoError(t, ws.Load([]assignmentService.MatchResult{unmatched(1, "A")}))
		require.NoError(t, ws.Remove(1))
		require.Empty(t, ws.Items())
		require.Empty(t, ledger.rows)
	})
}

func TestWorkspaceDefer(t *testing.T) {
	t.Run("defer and restore round-trip with merge", func(t *testing.T) {
		store := kv.NewMemoryStore()
		subj := subjectsFixture(map[int]bool{20: true})
		ws := NewWorkspace(store, &memLedger{}, subj)

		require.NoError(t, ws.Load([]assignmentService.MatchResult{unmatched(1, "A"), unmatched(2, "B")}))
		require.NoError(t, ws.Edit(1, intPtr(1), nil, intPtr(20)))
		n, err := ws.Defer()
		require.NoError(t, err)
		require.Equal(t, 2, n)

		// new session, same store: restores the deferred set merged with a
		// newly unmatched candidate
		ws2 := NewWorkspace(store, &memLedger{}, subj)
		require.NoError(t, ws2.Load([]assignmentService.MatchResult{unmatched(3, "C"), unmatched(1, "A renamed")}))

		items := ws2.Items()
		require.Len(t, items, 3)

		byID := map[int]Item{}
		for _, it := range items {
			byID[it.LibraryID] = it
		}
		require.Equal(t, 1, *byID[1].StageID, "deferred edits survive")
		require.Equal(t, "A renamed", byID[1].LibraryName, "display name refreshed")
		require.False(t, byID[1].Selected, "selection is never persisted")
	})

	t.Run("defer with nothing left clears the key", func(t *testing.T) {
		store := kv.NewMemoryStore()
		ws := NewWorkspace(store, &memLedger{}, subjectsFixture(nil))
		require.NoError(t, ws.Load(nil))
		n, err := ws.Defer()
		require.NoError(t, err)
		require.Zero(t, n)
		_, err = store.Get(DeferredKey)
		require.ErrorIs(t, err, kv.ErrKeyNotFound)
	})
}
