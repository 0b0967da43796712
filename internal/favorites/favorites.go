package favorites

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"proffy-mobile/internal/model"
	"proffy-mobile/internal/store"
)

// StorageKey is the store key holding the JSON array of favorited teachers.
const StorageKey = "favorites"

// ErrMalformed is returned when the stored collection is not a JSON array of teachers.
var ErrMalformed = errors.New("malformed favorites collection")

// Repository reads and writes the favorites collection of one device.
type Repository struct {
	store store.Store
	// mu serialises Toggle's read-modify-write within this process.
	mu sync.Mutex
}

// NewRepository creates a repository over s.
func NewRepository(s store.Store) *Repository {
	return &Repository{store: s}
}

// Load reads the whole collection. found is false when nothing has ever been
// stored; a stored null or empty array is found and empty.
func (r *Repository) Load(ctx context.Context) (teachers []model.Teacher, found bool, err error) {
	raw, ok, err := r.store.Get(ctx, StorageKey)
	if err != nil {
		return nil, false, err
	}
	if !ok {
		return nil, false, nil
	}

	teachers, err = decode(raw)
	if err != nil {
		return nil, true, err
	}
	return teachers, true, nil
}

// Toggle adds teacher to the collection, or removes every entry with its id if
// it is already there. It reports whether the teacher is favorited afterwards.
func (r *Repository) Toggle(ctx context.Context, teacher model.Teacher) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, _, err := r.Load(ctx)
	if err != nil {
		return false, err
	}

	next := make([]model.Teacher, 0, len(current)+1)
	removed := false
	for _, t := range current {
		if t.ID == teacher.ID {
			removed = true
			continue
		}
		next = append(next, t)
	}
	if !removed {
		next = append(next, teacher)
	}

	if err := r.save(ctx, next); err != nil {
		return false, err
	}
	return !removed, nil
}

func (r *Repository) save(ctx context.Context, teachers []model.Teacher) error {
	raw, err := json.Marshal(Dedupe(teachers))
	if err != nil {
		return fmt.Errorf("failed to encode favorites: %w", err)
	}
	return r.store.Set(ctx, StorageKey, string(raw))
}

func decode(raw string) ([]model.Teacher, error) {
	var teachers []model.Teacher
	if err := json.Unmarshal([]byte(raw), &teachers); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if teachers == nil {
		teachers = []model.Teacher{}
	}
	return teachers, nil
}

// IDs projects the id of every teacher, in order.
func IDs(teachers []model.Teacher) []int64 {
	ids := make([]int64, len(teachers))
	for i, t := range teachers {
		ids[i] = t.ID
	}
	return ids
}

// Dedupe keeps the first record for every id.
func Dedupe(teachers []model.Teacher) []model.Teacher {
	seen := make(map[int64]struct{}, len(teachers))
	out := make([]model.Teacher, 0, len(teachers))
	for _, t := range teachers {
		if _, dup := seen[t.ID]; dup {
			continue
		}
		seen[t.ID] = struct{}{}
		out = append(out, t)
	}
	return out
}
