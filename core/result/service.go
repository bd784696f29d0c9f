package result

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/cgpa/core"
)

var (
	NowFunc = time.Now // mockable

	// errors
	ErrNotFound       = errors.New("result not found")
	ErrCourseNotFound = errors.New("course not found")
	ErrResultExists   = errors.New("result already exists for this course")
	ErrCourseExists   = errors.New("course already exists for this session and level")
)

type (
	Repository interface {
		GetCourse(ctx context.Context, code, session string, level int) (Course, error)
		CreateCourse(ctx context.Context, course Course) (Course, error)
		// FindResult finds the Result of a user in a course for a session & semester.
		FindResult(ctx context.Context, userID, courseID, session string, semester Semester) (Result, error)
		CreateResult(ctx context.Context, res Result) (Result, error)
		UpdateResult(ctx context.Context, res Result) (Result, error)
		GetResult(ctx context.Context, userID, id string) (Result, error)
		// QueryResults applies AND operation on available QueryFilter fields.
		QueryResults(ctx context.Context, userID string, filter *QueryFilter, ordering []core.DBOrdering) ([]Result, error)
		DeleteResult(ctx context.Context, userID, id string) error
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func now() time.Time { return NowFunc().UTC() }

// getOrCreateCourse finds the Course offered for (code, session, level), creating it on first reference.
func (svc *Service) getOrCreateCourse(ctx context.Context, nr NewResult) (Course, error) {
	course, err := svc.repo.GetCourse(ctx, nr.CourseCode, nr.Session, nr.Level)
	if err == nil {
		return course, nil
	}
	if errors.Cause(err) != ErrCourseNotFound {
		return Course{}, errors.Wrap(err, "finding course")
	}

	tstamp := now()
	course, err = svc.repo.CreateCourse(ctx, Course{
		Code:        nr.CourseCode,
		Name:        nr.CourseName,
		CreditHours: nr.CreditHours,
		Level:       nr.Level,
		Semester:    nr.Semester,
		Session:     nr.Session,
		CreatedAt:   tstamp,
		UpdatedAt:   tstamp,
	})
	if errors.Cause(err) == ErrCourseExists { // created concurrently
		course, err = svc.repo.GetCourse(ctx, nr.CourseCode, nr.Session, nr.Level)
	}
	return course, errors.Wrap(err, "creating course")
}

// Upload adds a Result for the user, or replaces the scores of their existing Result
// for the same course, session & semester.
func (svc *Service) Upload(ctx context.Context, userID string, nr NewResult) (Result, error) {
	course, err := svc.getOrCreateCourse(ctx, nr)
	if err != nil {
		return Result{}, err
	}

	exists := true
	res, err := svc.repo.FindResult(ctx, userID, course.ID, nr.Session, nr.Semester)
	if err != nil {
		if errors.Cause(err) != ErrNotFound {
			return Result{}, errors.Wrap(err, "finding result")
		}
		exists = false
		res = Result{
			UserID:    userID,
			Course:    course,
			Semester:  nr.Semester,
			Session:   nr.Session,
			CreatedAt: now(),
		}
	}

	res.Level = nr.Level
	if nr.CAScore != nil {
		res.CAScore = nr.CAScore
	}
	if nr.ExamScore != nil {
		res.ExamScore = nr.ExamScore
	}
	if nr.TotalScore != nil {
		res.TotalScore = *nr.TotalScore
	}
	res.Normalize()
	res.UpdatedAt = now()

	if exists {
		res, err = svc.repo.UpdateResult(ctx, res)
		return res, errors.Wrap(err, "updating result")
	}
	res, err = svc.repo.CreateResult(ctx, res)
	if errors.Cause(err) == ErrResultExists {
		return Result{}, core.NewValidationError(ErrResultExists)
	}
	return res, errors.Wrap(err, "creating result")
}

// Update applies score corrections to one of the user's Results.
func (svc *Service) Update(ctx context.Context, userID, id string, ur UpdateResult) (Result, error) {
	res, err := svc.repo.GetResult(ctx, userID, id)
	if err != nil {
		return Result{}, errors.Wrap(err, "finding result")
	}
	if ur.CAScore != nil {
		res.CAScore = ur.CAScore
	}
	if ur.ExamScore != nil {
		res.ExamScore = ur.ExamScore
	}
	if ur.TotalScore != nil {
		res.TotalScore = *ur.TotalScore
	}
	res.Normalize()
	res.UpdatedAt = now()

	res, err = svc.repo.UpdateResult(ctx, res)
	return res, errors.Wrap(err, "updating result")
}

func (svc *Service) GetByID(ctx context.Context, userID, id string) (Result, error) {
	return svc.repo.GetResult(ctx, userID, id)
}

// Query lists the user's Results; DefaultOrdering applies when ordering is empty.
func (svc *Service) Query(ctx context.Context, userID string, filter *QueryFilter, ordering []core.DBOrdering) ([]Result, error) {
	if len(ordering) == 0 {
		ordering = DefaultOrdering
	}
	return svc.repo.QueryResults(ctx, userID, filter, ordering)
}

// QueryAll lists all the user's Results, for aggregation.
func (svc *Service) QueryAll(ctx context.Context, userID string) ([]Result, error) {
	return svc.Query(ctx, userID, nil, nil)
}

func (svc *Service) Delete(ctx context.Context, userID, id string) error {
	return svc.repo.DeleteResult(ctx, userID, id)
}
