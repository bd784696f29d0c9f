package inmemdb

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/cgpa/core"
	"github.com/trezcool/cgpa/core/result"
	"github.com/trezcool/cgpa/core/user"
)

func TestUserRepository(t *testing.T) {
	ctx := context.Background()
	db := Open()
	repo := NewUserRepository(db)

	ada, err := repo.CreateUser(ctx, user.User{Name: "Ada", Email: "ada@test.ng"})
	require.NoError(t, err)
	assert.NotEmpty(t, ada.ID)

	_, err = repo.CreateUser(ctx, user.User{Name: "Ada 2", Email: "ada@test.ng"})
	assert.Equal(t, user.ErrEmailExists, err)

	assert.Equal(t, user.ErrEmailExists, repo.CheckEmailUniqueness(ctx, "ada@test.ng"))
	assert.NoError(t, repo.CheckEmailUniqueness(ctx, "ada@test.ng", ada))
	assert.NoError(t, repo.CheckEmailUniqueness(ctx, "bob@test.ng"))

	tests := []struct {
		name    string
		filter  user.GetFilter
		wantErr error
	}{
		{name: "empty filter", wantErr: user.ErrNotFound},
		{name: "by ID", filter: user.GetFilter{ID: ada.ID}},
		{name: "by email", filter: user.GetFilter{Email: "ada@test.ng"}},
		{name: "by ID & email", filter: user.GetFilter{ID: ada.ID, Email: "ada@test.ng"}},
		{name: "mismatch", filter: user.GetFilter{ID: ada.ID, Email: "bob@test.ng"}, wantErr: user.ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			usr, err := repo.GetUser(ctx, tt.filter)
			assert.Equal(t, tt.wantErr, err)
			if tt.wantErr == nil {
				assert.Equal(t, ada, usr)
			}
		})
	}

	t.Run("update keeps createdAt", func(t *testing.T) {
		updated := ada
		updated.Name = "Ada Lovelace"
		updated.CreatedAt = time.Now()
		updated, err := repo.UpdateUser(ctx, updated)
		require.NoError(t, err)
		assert.Equal(t, "Ada Lovelace", updated.Name)
		assert.Equal(t, ada.CreatedAt, updated.CreatedAt)

		_, err = repo.UpdateUser(ctx, user.User{ID: "lol"})
		assert.Equal(t, user.ErrNotFound, err)
	})

	db.Reset()
	_, err = repo.GetUser(ctx, user.GetFilter{ID: ada.ID})
	assert.Equal(t, user.ErrNotFound, err)
}

func TestSortResults(t *testing.T) {
	tstamp := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
	a := result.Result{ID: "a", Session: "2022/2023", Level: 100, Semester: result.FirstSemester, TotalScore: 70, CreatedAt: tstamp}
	b := result.Result{ID: "b", Session: "2022/2023", Level: 100, Semester: result.SecondSemester, TotalScore: 45, CreatedAt: tstamp.Add(time.Hour)}
	c := result.Result{ID: "c", Session: "2023/2024", Level: 200, Semester: result.FirstSemester, TotalScore: 45, CreatedAt: tstamp.Add(2 * time.Hour)}

	ids := func(results []result.Result) []string {
		out := make([]string, 0, len(results))
		for _, r := range results {
			out = append(out, r.ID)
		}
		return out
	}

	tests := []struct {
		name     string
		ordering []core.DBOrdering
		want     []string
	}{
		{name: "no ordering sorts by ID", want: []string{"a", "b", "c"}},
		{name: "default", ordering: result.DefaultOrdering, want: []string{"c", "a", "b"}},
		{name: "total score then ID", ordering: []core.DBOrdering{{Field: result.OrderTotalScore, Ascending: true}}, want: []string{"b", "c", "a"}},
		{name: "created_at desc", ordering: []core.DBOrdering{{Field: result.OrderCreatedAt}}, want: []string{"c", "b", "a"}},
		{name: "unknown field is ignored", ordering: []core.DBOrdering{{Field: "lol"}}, want: []string{"a", "b", "c"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			results := []result.Result{c, b, a}
			sortResults(results, tt.ordering)
			assert.Equal(t, tt.want, ids(results))
		})
	}
}
