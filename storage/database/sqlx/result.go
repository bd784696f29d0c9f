package sqlxrepos

import (
	"context"
	"database/sql"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/cgpa/core"
	"github.com/trezcool/cgpa/core/grading"
	"github.com/trezcool/cgpa/core/result"
	"github.com/trezcool/cgpa/storage/database"
)

const (
	courseColumns = "id, code, name, credit_hours, level, semester, session, created_at, updated_at"

	selectResults = `SELECT
		r.id, r.user_id, r.ca_score, r.exam_score, r.total_score, r.grade, r.grade_point,
		r.level, r.semester, r.session, r.created_at, r.updated_at,
		c.id "course.id", c.code "course.code", c.name "course.name", c.credit_hours "course.credit_hours",
		c.level "course.level", c.semester "course.semester", c.session "course.session",
		c.created_at "course.created_at", c.updated_at "course.updated_at"
		FROM results r JOIN courses c ON c.id = r.course_id`

	coursesCodeSessionLevelKey          = "courses_code_session_level_key"
	resultsUserCourseSessionSemesterKey = "results_user_course_session_semester_key"
)

// orderColumns maps the orderable fields to their column.
var orderColumns = map[string]string{
	result.OrderSession:    "r.session",
	result.OrderLevel:      "r.level",
	result.OrderSemester:   "r.semester",
	result.OrderTotalScore: "r.total_score",
	result.OrderCreatedAt:  "r.created_at",
}

func newID() string { return uuid.New().String() }

type resultRow struct {
	ID         string          `db:"id"`
	UserID     string          `db:"user_id"`
	CourseID   string          `db:"course_id"`
	CAScore    null.Float64    `db:"ca_score"`
	ExamScore  null.Float64    `db:"exam_score"`
	TotalScore float64         `db:"total_score"`
	Grade      grading.Grade   `db:"grade"`
	GradePoint float64         `db:"grade_point"`
	Level      int             `db:"level"`
	Semester   result.Semester `db:"semester"`
	Session    string          `db:"session"`
	CreatedAt  time.Time       `db:"created_at"`
	UpdatedAt  time.Time       `db:"updated_at"`
	Course     result.Course   `db:"course"`
}

func newResultRow(res result.Result) resultRow {
	return resultRow{
		ID:         res.ID,
		UserID:     res.UserID,
		CourseID:   res.Course.ID,
		CAScore:    null.Float64FromPtr(res.CAScore),
		ExamScore:  null.Float64FromPtr(res.ExamScore),
		TotalScore: res.TotalScore,
		Grade:      res.Grade,
		GradePoint: res.GradePoint,
		Level:      res.Level,
		Semester:   res.Semester,
		Session:    res.Session,
		CreatedAt:  res.CreatedAt.UTC(),
		UpdatedAt:  res.UpdatedAt.UTC(),
	}
}

func (row resultRow) result() result.Result {
	course := row.Course
	course.CreatedAt = course.CreatedAt.UTC()
	course.UpdatedAt = course.UpdatedAt.UTC()
	return result.Result{
		ID:         row.ID,
		UserID:     row.UserID,
		Course:     course,
		CAScore:    row.CAScore.Ptr(),
		ExamScore:  row.ExamScore.Ptr(),
		TotalScore: row.TotalScore,
		Grade:      row.Grade,
		GradePoint: row.GradePoint,
		Level:      row.Level,
		Semester:   row.Semester,
		Session:    row.Session,
		CreatedAt:  row.CreatedAt.UTC(),
		UpdatedAt:  row.UpdatedAt.UTC(),
	}
}

type resultRepository struct {
	db *sqlx.DB
}

var _ result.Repository = (*resultRepository)(nil)

func NewResultRepository(db *sqlx.DB) result.Repository {
	return &resultRepository{db: db}
}

func (repo *resultRepository) GetCourse(ctx context.Context, code, session string, level int) (result.Course, error) {
	var course result.Course
	q := "SELECT " + courseColumns + " FROM courses WHERE code = $1 AND session = $2 AND level = $3"
	if err := repo.db.GetContext(ctx, &course, q, code, session, level); err != nil {
		if err == sql.ErrNoRows {
			return result.Course{}, result.ErrCourseNotFound
		}
		return result.Course{}, errors.Wrap(err, "selecting course")
	}
	return course, nil
}

func (repo *resultRepository) CreateCourse(ctx context.Context, course result.Course) (result.Course, error) {
	course.ID = newID()
	q := "INSERT INTO courses (" + courseColumns + ") VALUES " +
		"(:id, :code, :name, :credit_hours, :level, :semester, :session, :created_at, :updated_at)"
	if _, err := repo.db.NamedExecContext(ctx, q, course); err != nil {
		if database.IsUniqueViolation(err, coursesCodeSessionLevelKey) {
			return result.Course{}, result.ErrCourseExists
		}
		return result.Course{}, errors.Wrap(err, "inserting course")
	}
	return course, nil
}

func (repo *resultRepository) getResult(ctx context.Context, where string, args ...interface{}) (result.Result, error) {
	var row resultRow
	if err := repo.db.GetContext(ctx, &row, selectResults+" WHERE "+where, args...); err != nil {
		if err == sql.ErrNoRows {
			return result.Result{}, result.ErrNotFound
		}
		return result.Result{}, errors.Wrap(err, "selecting result")
	}
	return row.result(), nil
}

func (repo *resultRepository) FindResult(
	ctx context.Context,
	userID, courseID, session string,
	semester result.Semester,
) (result.Result, error) {
	return repo.getResult(ctx,
		"r.user_id = $1 AND r.course_id = $2 AND r.session = $3 AND r.semester = $4",
		userID, courseID, session, semester)
}

func (repo *resultRepository) CreateResult(ctx context.Context, res result.Result) (result.Result, error) {
	res.ID = newID()
	q := `INSERT INTO results (
		id, user_id, course_id, ca_score, exam_score, total_score, grade, grade_point,
		level, semester, session, created_at, updated_at
	) VALUES (
		:id, :user_id, :course_id, :ca_score, :exam_score, :total_score, :grade, :grade_point,
		:level, :semester, :session, :created_at, :updated_at
	)`
	if _, err := repo.db.NamedExecContext(ctx, q, newResultRow(res)); err != nil {
		if database.IsUniqueViolation(err, resultsUserCourseSessionSemesterKey) {
			return result.Result{}, result.ErrResultExists
		}
		return result.Result{}, errors.Wrap(err, "inserting result")
	}
	return res, nil
}

func (repo *resultRepository) UpdateResult(ctx context.Context, res result.Result) (result.Result, error) {
	q := `UPDATE results SET
		ca_score = :ca_score, exam_score = :exam_score, total_score = :total_score,
		grade = :grade, grade_point = :grade_point, level = :level, updated_at = :updated_at
		WHERE id = :id AND user_id = :user_id`
	out, err := repo.db.NamedExecContext(ctx, q, newResultRow(res))
	if err != nil {
		return result.Result{}, errors.Wrap(err, "updating result")
	}
	if n, err := out.RowsAffected(); err != nil {
		return result.Result{}, errors.Wrap(err, "updating result")
	} else if n == 0 {
		return result.Result{}, result.ErrNotFound
	}
	return repo.GetResult(ctx, res.UserID, res.ID)
}

func (repo *resultRepository) GetResult(ctx context.Context, userID, id string) (result.Result, error) {
	if _, err := uuid.Parse(id); err != nil {
		return result.Result{}, result.ErrNotFound
	}
	return repo.getResult(ctx, "r.user_id = $1 AND r.id = $2", userID, id)
}

func (repo *resultRepository) QueryResults(
	ctx context.Context,
	userID string,
	filter *result.QueryFilter,
	ordering []core.DBOrdering,
) ([]result.Result, error) {
	where, args := resultsWhere(userID, filter)
	q := selectResults + where + orderBy(ordering)
	var rows []resultRow
	if err := repo.db.SelectContext(ctx, &rows, q, args...); err != nil {
		return nil, errors.Wrap(err, "selecting results")
	}

	results := make([]result.Result, 0, len(rows))
	for _, row := range rows {
		results = append(results, row.result())
	}
	return results, nil
}

func (repo *resultRepository) DeleteResult(ctx context.Context, userID, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return result.ErrNotFound
	}
	out, err := repo.db.ExecContext(ctx, "DELETE FROM results WHERE user_id = $1 AND id = $2", userID, id)
	if err != nil {
		return errors.Wrap(err, "deleting result")
	}
	if n, err := out.RowsAffected(); err != nil {
		return errors.Wrap(err, "deleting result")
	} else if n == 0 {
		return result.ErrNotFound
	}
	return nil
}

// resultsWhere builds the WHERE clause of the results of userID passing filter, with its args.
func resultsWhere(userID string, filter *result.QueryFilter) (string, []interface{}) {
	args := []interface{}{userID}
	conds := []string{"r.user_id = $1"}
	where := func(cond string, arg interface{}) {
		args = append(args, arg)
		conds = append(conds, cond+" = $"+strconv.Itoa(len(args)))
	}
	if filter != nil {
		if filter.Level != 0 {
			where("r.level", filter.Level)
		}
		if filter.Semester != "" {
			where("r.semester", filter.Semester)
		}
		if filter.Session != "" {
			where("r.session", filter.Session)
		}
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

// orderBy builds the ORDER BY clause of ordering, ending with the ID for a stable order.
func orderBy(ordering []core.DBOrdering) string {
	clauses := make([]string, 0, len(ordering)+1)
	for _, ord := range ordering {
		if col, ok := orderColumns[ord.Field]; ok {
			clauses = append(clauses, core.DBOrdering{Field: col, Ascending: ord.Ascending}.String())
		}
	}
	clauses = append(clauses, "r.id ASC")
	return " ORDER BY " + strings.Join(clauses, ", ")
}
