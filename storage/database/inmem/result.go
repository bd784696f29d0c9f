package inmemdb

import (
	"context"
	"sort"
	"strings"

	"github.com/trezcool/cgpa/core"
	"github.com/trezcool/cgpa/core/result"
)

type resultRepository struct {
	db *resultTable
}

var _ result.Repository = (*resultRepository)(nil)

func NewResultRepository(db *DB) result.Repository {
	return &resultRepository{db: db.result}
}

func (repo *resultRepository) getCourse(code, session string, level int) (*result.Course, bool) {
	for _, c := range repo.db.courses {
		if c.Code == code && c.Session == session && c.Level == level {
			return c, true
		}
	}
	return nil, false
}

func (repo *resultRepository) GetCourse(_ context.Context, code, session string, level int) (result.Course, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if c, ok := repo.getCourse(code, session, level); ok {
		return *c, nil
	}
	return result.Course{}, result.ErrCourseNotFound
}

func (repo *resultRepository) CreateCourse(_ context.Context, course result.Course) (result.Course, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.getCourse(course.Code, course.Session, course.Level); ok {
		return result.Course{}, result.ErrCourseExists
	}
	course.ID = newID()
	repo.db.courses[course.ID] = &course
	return course, nil
}

// join returns res with its Course.
func (repo *resultRepository) join(res result.Result) result.Result {
	if c, ok := repo.db.courses[res.Course.ID]; ok {
		res.Course = *c
	}
	return res
}

func (repo *resultRepository) findResult(userID, courseID, session string, semester result.Semester) (*result.Result, bool) {
	for _, res := range repo.db.table {
		if res.UserID == userID && res.Course.ID == courseID && res.Session == session && res.Semester == semester {
			return res, true
		}
	}
	return nil, false
}

func (repo *resultRepository) FindResult(
	_ context.Context,
	userID, courseID, session string,
	semester result.Semester,
) (result.Result, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if res, ok := repo.findResult(userID, courseID, session, semester); ok {
		return repo.join(*res), nil
	}
	return result.Result{}, result.ErrNotFound
}

func (repo *resultRepository) CreateResult(_ context.Context, res result.Result) (result.Result, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.findResult(res.UserID, res.Course.ID, res.Session, res.Semester); ok {
		return result.Result{}, result.ErrResultExists
	}
	res.ID = newID()
	repo.db.table[res.ID] = &res
	return repo.join(res), nil
}

func (repo *resultRepository) UpdateResult(_ context.Context, res result.Result) (result.Result, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	orig, ok := repo.db.table[res.ID]
	if !ok || orig.UserID != res.UserID {
		return result.Result{}, result.ErrNotFound
	}
	// only scores & level change
	orig.CAScore = res.CAScore
	orig.ExamScore = res.ExamScore
	orig.TotalScore = res.TotalScore
	orig.Grade = res.Grade
	orig.GradePoint = res.GradePoint
	orig.Level = res.Level
	orig.UpdatedAt = res.UpdatedAt
	return repo.join(*orig), nil
}

func (repo *resultRepository) GetResult(_ context.Context, userID, id string) (result.Result, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if res, ok := repo.db.table[id]; ok && res.UserID == userID {
		return repo.join(*res), nil
	}
	return result.Result{}, result.ErrNotFound
}

func (repo *resultRepository) QueryResults(
	_ context.Context,
	userID string,
	filter *result.QueryFilter,
	ordering []core.DBOrdering,
) ([]result.Result, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	results := make([]result.Result, 0)
	for _, res := range repo.db.table {
		if res.UserID == userID && filter.Match(*res) {
			results = append(results, repo.join(*res))
		}
	}
	sortResults(results, ordering)
	return results, nil
}

func (repo *resultRepository) DeleteResult(_ context.Context, userID, id string) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	if res, ok := repo.db.table[id]; ok && res.UserID == userID {
		delete(repo.db.table, id)
		return nil
	}
	return result.ErrNotFound
}

// sortResults sorts results by ordering, then by ID for a stable order.
func sortResults(results []result.Result, ordering []core.DBOrdering) {
	sort.SliceStable(results, func(i, j int) bool {
		a, b := results[i], results[j]
		for _, ord := range ordering {
			c := compareResults(a, b, ord.Field)
			if c == 0 {
				continue
			}
			if ord.Ascending {
				return c < 0
			}
			return c > 0
		}
		return a.ID < b.ID
	})
}

func compareResults(a, b result.Result, field string) int {
	switch field {
	case result.OrderSession:
		return strings.Compare(a.Session, b.Session)
	case result.OrderLevel:
		return a.Level - b.Level
	case result.OrderSemester:
		return strings.Compare(string(a.Semester), string(b.Semester))
	case result.OrderTotalScore:
		return compareFloats(a.TotalScore, b.TotalScore)
	case result.OrderCreatedAt:
		return a.CreatedAt.Compare(b.CreatedAt)
	}
	return 0
}

func compareFloats(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}
