package favorites

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"proffy-mobile/internal/model"
	"proffy-mobile/internal/store"
)

// failingStore is a store whose every call fails.
type failingStore struct{}

func (failingStore) Get(context.Context, string) (string, bool, error) {
	return "", false, errors.New("disk unavailable")
}
func (failingStore) Set(context.Context, string, string) error { return errors.New("disk unavailable") }
func (failingStore) Remove(context.Context, string) error      { return errors.New("disk unavailable") }

func seed(t *testing.T, raw string) (*Repository, store.Store) {
	t.Helper()
	s := store.NewMemoryStore()
	require.NoError(t, s.Set(context.Background(), StorageKey, raw))
	return NewRepository(s), s
}

func TestRepository_Load(t *testing.T) {
	testCases := []struct {
		name          string
		raw           *string
		expected      string
		expectedFound bool
		expectErr     bool
	}{
		{
			name:     "Absent",
			raw:      nil,
			expected: `null`,
		},
		{
			name:          "One teacher",
			raw:           ptr(`[{"id":1,"name":"Diego","subject":"Math","cost":80}]`),
			expected:      `[{"id":1,"name":"Diego","subject":"Math","cost":80}]`,
			expectedFound: true,
		},
		{
			name:          "Extra and oddly typed fields survive",
			raw:           ptr(`[{"id":1,"user_id":9,"cost":"80.00","subject":"Math"}]`),
			expected:      `[{"id":1,"user_id":9,"cost":"80.00","subject":"Math"}]`,
			expectedFound: true,
		},
		{
			name:          "Empty array",
			raw:           ptr(`[]`),
			expected:      `[]`,
			expectedFound: true,
		},
		{
			name:          "JSON null",
			raw:           ptr(`null`),
			expected:      `[]`,
			expectedFound: true,
		},
		{
			name:          "Duplicates are preserved on read",
			raw:           ptr(`[{"id":2},{"id":2}]`),
			expected:      `[{"id":2},{"id":2}]`,
			expectedFound: true,
		},
		{
			name:          "Malformed",
			raw:           ptr(`{"id":1`),
			expectedFound: true,
			expectErr:     true,
		},
		{
			name:          "Object instead of array",
			raw:           ptr(`{"id":1}`),
			expectedFound: true,
			expectErr:     true,
		},
		{
			name:          "Element is not an object",
			raw:           ptr(`[1,2]`),
			expectedFound: true,
			expectErr:     true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			repo := NewRepository(store.NewMemoryStore())
			if tc.raw != nil {
				repo, _ = seed(t, *tc.raw)
			}

			teachers, found, err := repo.Load(context.Background())
			assert.Equal(t, tc.expectedFound, found)
			if tc.expectErr {
				assert.ErrorIs(t, err, ErrMalformed)
				return
			}
			assert.NoError(t, err)
			assertJSON(t, tc.expected, teachers)
		})
	}
}

func TestRepository_LoadStoreFailure(t *testing.T) {
	_, _, err := NewRepository(failingStore{}).Load(context.Background())
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrMalformed)
}

func TestRepository_Toggle(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository(store.NewMemoryStore())
	diego := mustTeacher(t, `{"id":1,"name":"Diego"}`)
	mayk := mustTeacher(t, `{"id":2,"name":"Mayk"}`)

	favorited, err := repo.Toggle(ctx, diego)
	require.NoError(t, err)
	assert.True(t, favorited)

	favorited, err = repo.Toggle(ctx, mayk)
	require.NoError(t, err)
	assert.True(t, favorited)

	teachers, found, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.True(t, found)
	assertJSON(t, `[{"id":1,"name":"Diego"},{"id":2,"name":"Mayk"}]`, teachers)

	favorited, err = repo.Toggle(ctx, diego)
	require.NoError(t, err)
	assert.False(t, favorited)

	teachers, _, err = repo.Load(ctx)
	require.NoError(t, err)
	assertJSON(t, `[{"id":2,"name":"Mayk"}]`, teachers)
}

func TestRepository_ToggleKeepsRecordsVerbatim(t *testing.T) {
	repo, s := seed(t, `[{"id":1,"user_id":9,"cost":80,"subject":"Math"}]`)

	favorited, err := repo.Toggle(context.Background(), mustTeacher(t, `{"id":2,"user_id":4,"cost":"50"}`))
	require.NoError(t, err)
	assert.True(t, favorited)

	raw, _, err := s.Get(context.Background(), StorageKey)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"id":1,"user_id":9,"cost":80,"subject":"Math"},{"id":2,"user_id":4,"cost":"50"}]`, raw)
}

func TestRepository_ToggleCollapsesDuplicates(t *testing.T) {
	repo, _ := seed(t, `[{"id":3},{"id":4},{"id":4},{"id":3}]`)

	favorited, err := repo.Toggle(context.Background(), model.Teacher{ID: 5})
	require.NoError(t, err)
	assert.True(t, favorited)

	teachers, _, err := repo.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []int64{3, 4, 5}, IDs(teachers))
}

func TestRepository_ToggleRemovesEveryCopy(t *testing.T) {
	repo, _ := seed(t, `[{"id":3},{"id":4},{"id":3}]`)

	favorited, err := repo.Toggle(context.Background(), model.Teacher{ID: 3})
	require.NoError(t, err)
	assert.False(t, favorited)

	teachers, _, err := repo.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []int64{4}, IDs(teachers))
}

func TestRepository_ToggleMalformed(t *testing.T) {
	repo, s := seed(t, `not json`)

	_, err := repo.Toggle(context.Background(), model.Teacher{ID: 1})
	assert.ErrorIs(t, err, ErrMalformed)

	raw, _, _ := s.Get(context.Background(), StorageKey)
	assert.Equal(t, "not json", raw, "a malformed collection must not be overwritten")
}

func TestIDs(t *testing.T) {
	assert.Equal(t, []int64{}, IDs(nil))
	assert.Equal(t, []int64{9, 1, 9}, IDs([]model.Teacher{{ID: 9}, {ID: 1}, {ID: 9}}))
}

func ptr(s string) *string { return &s }

func mustTeacher(t *testing.T, raw string) model.Teacher {
	t.Helper()
	teacher, err := model.TeacherFromJSON(raw)
	require.NoError(t, err)
	return teacher
}

func assertJSON(t *testing.T, expected string, teachers []model.Teacher) {
	t.Helper()
	got, err := json.Marshal(teachers)
	require.NoError(t, err)
	assert.JSONEq(t, expected, string(got))
}
