package service

import (
	"testing"

	"github.com/stretchr/testify/require"

	assignment "edupay_backend/internals/features/assignments/model"
	taxonomy "edupay_backend/internals/features/taxonomy/model"
)

// fakeLedger keeps rows in memory with the same uniqueness contract as the
// real ledger.
type fakeLedger struct {
	rows []assignment.TeacherAssignment
}

func (f *fakeLedger) Upsert(a assignment.TeacherAssignment) (bool, error) {
	for i, r := range f.rows {
		if r.SameTuple(a) {
			f.rows[i].LibraryName = a.LibraryName
			return false, nil
		}
	}
	a.ID = len(f.rows) + 1
	f.rows = append(f.rows, a)
	return true, nil
}

func testSnapshot() TaxonomySnapshot {
	stages := []taxonomy.Stage{
		{ID: 1, Code: "S1", Name: "Senior 1"},
		{ID: 2, Code: "S2", Name: "Senior 2"},
	}
	sections := []taxonomy.Section{
		{ID: 10, StageID: 1, Code: "GEN", Name: "General"},
		{ID: 11, StageID: 1, Code: "LANG", Name: "Languages"},
		{ID: 12, StageID: 2, Code: "GEN", Name: "General"},
	}
	subjects := []taxonomy.Subject{
		{ID: 20, Code: "AR", Name: "Arabic", IsCommon: true},
		{ID: 21, Code: "MATH", Name: "Mathematics"},
		{ID: 22, Code: "BIO", Name: "Biology"},
	}
	return NewTaxonomySnapshot(stages, sections, subjects)
}

func TestMatchOne(t *testing.T) {
	snap := testSnapshot()

	t.Run("common subject resolves without a section", func(t *testing.T) {
		a, res := MatchOne(Candidate{LibraryID: 1, LibraryName: "S1-AR-P0046-Zakaria"}, snap)
		require.True(t, res.Matched)
		require.NotNil(t, a)
		require.Equal(t, 1, a.StageID)
		require.Equal(t, 20, a.SubjectID)
		require.Nil(t, a.SectionID)
	})

	t.Run("non-common subject resolves its section", func(t *testing.T) {
		a, res := MatchOne(Candidate{LibraryID: 2, LibraryName: "S1-MATH-EN-Teacher"}, snap)
		require.True(t, res.Matched)
		require.NotNil(t, a.SectionID)
		require.Equal(t, 11, *a.SectionID)
		require.Equal(t, "LANG", res.SectionCode)
	})

	t.Run("section lookup scoped to the parsed stage", func(t *testing.T) {
		a, res := MatchOne(Candidate{LibraryID: 3, LibraryName: "S2-BIO-AR-Menna"}, snap)
		require.True(t, res.Matched)
		require.Equal(t, 2, a.StageID)
		require.Equal(t, 12, *a.SectionID)
	})

	t.Run("unrecognized stage token yields matched=false with empty stage_code", func(t *testing.T) {
		a, res := MatchOne(Candidate{LibraryID: 4, LibraryName: "Promo-Video-2024"}, snap)
		require.Nil(t, a)
		require.False(t, res.Matched)
		require.Empty(t, res.StageCode)
	})

	t.Run("stage code not in taxonomy", func(t *testing.T) {
		a, res := MatchOne(Candidate{LibraryID: 5, LibraryName: "J4-AR-P0001"}, snap)
		require.Nil(t, a)
		require.False(t, res.Matched)
		require.Equal(t, "J4", res.StageCode)
	})

	t.Run("subject code not in taxonomy", func(t *testing.T) {
		a, res := MatchOne(Candidate{LibraryID: 6, LibraryName: "S1-CHEM-AR-Teacher"}, snap)
		require.Nil(t, a)
		require.False(t, res.Matched)
		require.Equal(t, "CHEM", res.SubjectCode)
	})

	t.Run("non-common subject with unresolvable section is unmatched", func(t *testing.T) {
		// S2 has no LANG section in the fixture.
		a, res := MatchOne(Candidate{LibraryID: 7, LibraryName: "S2-BIO-EN-Teacher"}, snap)
		require.Nil(t, a)
		require.False(t, res.Matched)
	})

	t.Run("non-common subject without a section marker matches with null section", func(t *testing.T) {
		a, res := MatchOne(Candidate{LibraryID: 8, LibraryName: "S1-MATH-Teacher"}, snap)
		require.True(t, res.Matched)
		require.Nil(t, a.SectionID)
	})
}

func TestRunAutoMatch(t *testing.T) {
	snap := testSnapshot()
	cands := []Candidate{
		{LibraryID: 1, LibraryName: "S1-AR-P0046-Zakaria"},
		{LibraryID: 2, LibraryName: "S1-MATH-EN-Teacher"},
		{LibraryID: 3, LibraryName: "Promo-Video-2024"},
	}

	t.Run("summary counts", func(t *testing.T) {
		ledger := &fakeLedger{}
		sum, err := RunAutoMatch(cands, snap, ledger)
		require.NoError(t, err)
		require.Equal(t, 3, sum.TotalLibraries)
		require.Equal(t, 2, sum.Matched)
		require.Equal(t, 1, sum.Unmatched)
		require.Len(t, ledger.rows, 2)
	})

	t.Run("re-run is idempotent", func(t *testing.T) {
		ledger := &fakeLedger{}
		first, err := RunAutoMatch(cands, snap, ledger)
		require.NoError(t, err)
		second, err := RunAutoMatch(cands, snap, ledger)
		require.NoError(t, err)

		require.Equal(t, first.Matched, second.Matched)
		require.Equal(t, first.Unmatched, second.Unmatched)
		require.Len(t, ledger.rows, 2, "no duplicate ledger rows on re-run")

		for _, r := range second.Results {
			if r.Matched {
				require.Equal(t, "already assigned", r.Message)
			}
		}
	})

	t.Run("upsert uniqueness after arbitrary repeats", func(t *testing.T) {
		ledger := &fakeLedger{}
		for i := 0; i < 5; i++ {
			_, err := RunAutoMatch(cands, snap, ledger)
			require.NoError(t, err)
		}
		seen := map[[4]int]bool{}
		for _, r := range ledger.rows {
			sec := -1
			if r.SectionID != nil {
				sec = *r.SectionID
			}
			key := [4]int{r.LibraryID, r.StageID, sec, r.SubjectID}
			require.False(t, seen[key], "duplicate tuple %v", key)
			seen[key] = true
		}
	})

	t.Run("rename refreshes the denormalized name", func(t *testing.T) {
		ledger := &fakeLedger{}
		_, err := RunAutoMatch([]Candidate{{LibraryID: 1, LibraryName: "S1-AR-P0046-Zakaria"}}, snap, ledger)
		require.NoError(t, err)
		_, err = RunAutoMatch([]Candidate{{LibraryID: 1, LibraryName: "S1-AR-P0046-Zakaria Renamed"}}, snap, ledger)
		require.NoError(t, err)
		require.Len(t, ledger.rows, 1)
		require.Equal(t, "S1-AR-P0046-Zakaria Renamed", ledger.rows[0].LibraryName)
	})
}
