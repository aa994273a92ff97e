// file: internals/features/finance/service/exclusions.go
package service

import (
	"errors"
	"fmt"
	"sort"

	"github.com/bytedance/sonic"

	"edupay_backend/internals/kv"
)

// ExclusionKey names the durable slot holding the excluded library ids for one
// (period, stage) calculation scope.
func ExclusionKey(periodID, stageID int) string {
	return fmt.Sprintf("exclusions:%d:%d", periodID, stageID)
}

// ExclusionLedger keeps per-scope sets of library ids excluded from payment
// calculation. Pure set semantics over the kv port; assignments are never
// touched.
type ExclusionLedger struct {
	Store kv.Store
}

func NewExclusionLedger(store kv.Store) *ExclusionLedger {
	return &ExclusionLedger{Store: store}
}

// Read returns the sorted exclusion set. A missing key is an empty set.
func (l *ExclusionLedger) Read(periodID, stageID int) ([]int, error) {
	raw, err := l.Store.Get(ExclusionKey(periodID, stageID))
	if err != nil {
		if errors.Is(err, kv.ErrKeyNotFound) {
			return []int{}, nil
		}
		return nil, err
	}
	var ids []int
	if err := sonic.Unmarshal(raw, &ids); err != nil {
		return nil, fmt.Errorf("corrupt exclusion set: %w", err)
	}
	sort.Ints(ids)
	return ids, nil
}

// Toggle flips one library in or out of the set and reports whether it is
// excluded afterwards.
func (l *ExclusionLedger) Toggle(periodID, stageID, libraryID int) (bool, error) {
	ids, err := l.Read(periodID, stageID)
	if err != nil {
		return false, err
	}

	set := make(map[int]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	excluded := !set[libraryID]
	if excluded {
		set[libraryID] = true
	} else {
		delete(set, libraryID)
	}

	if err := l.write(periodID, stageID, set); err != nil {
		return false, err
	}
	return excluded, nil
}

// BulkSet marks or unmarks the given ids, leaving the rest of the set alone.
// Duplicates collapse; unmarking ids that were never excluded is a no-op.
func (l *ExclusionLedger) BulkSet(periodID, stageID int, libraryIDs []int, excluded bool) ([]int, error) {
	ids, err := l.Read(periodID, stageID)
	if err != nil {
		return nil, err
	}

	set := make(map[int]bool, len(ids)+len(libraryIDs))
	for _, id := range ids {
		set[id] = true
	}
	for _, id := range libraryIDs {
		if excluded {
			set[id] = true
		} else {
			delete(set, id)
		}
	}

	if err := l.write(periodID, stageID, set); err != nil {
		return nil, err
	}
	return l.Read(periodID, stageID)
}

// ClearAll drops the whole scope.
func (l *ExclusionLedger) ClearAll(periodID, stageID int) error {
	return l.Store.Delete(ExclusionKey(periodID, stageID))
}

func (l *ExclusionLedger) write(periodID, stageID int, set map[int]bool) error {
	if len(set) == 0 {
		return l.Store.Delete(ExclusionKey(periodID, stageID))
	}
	ids := make([]int, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	raw, err := sonic.Marshal(ids)
	if err != nil {
		return err
	}
	return l.Store.Set(ExclusionKey(periodID, stageID), raw)
}
