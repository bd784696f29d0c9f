// Package testutil provides fixtures shared by the tests of the apps & services.
package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/trezcool/cgpa/core/result"
	"github.com/trezcool/cgpa/core/user"
)

func CreateUser(
	t *testing.T,
	repo user.Repository,
	name, email, pwd string,
	isActive bool,
	createdAt ...time.Time,
) user.User {
	t.Helper()
	tstamp := time.Now().UTC()
	if len(createdAt) > 0 {
		tstamp = createdAt[0].UTC()
	}
	usr := user.User{
		Name:      name,
		Email:     email,
		IsActive:  isActive,
		CreatedAt: tstamp,
		UpdatedAt: tstamp,
	}
	if pwd != "" {
		if err := usr.SetPassword(pwd); err != nil {
			t.Fatalf("CreateUser() failed: %v", err)
		}
	}
	usr, err := repo.CreateUser(context.Background(), usr)
	if err != nil {
		t.Fatalf("CreateUser() failed: %v", err)
	}
	return usr
}

// Score returns a pointer to s.
func Score(s float64) *float64 { return &s }

// NewResult returns a valid NewResult scored total.
func NewResult(code string, creditHours, level int, semester result.Semester, session string, total float64) result.NewResult {
	return result.NewResult{
		CourseCode:  code,
		CourseName:  code + " course",
		CreditHours: creditHours,
		Level:       level,
		Semester:    semester,
		Session:     session,
		TotalScore:  Score(total),
	}
}

func UploadResult(t *testing.T, svc *result.Service, usr user.User, nr result.NewResult) result.Result {
	t.Helper()
	res, err := svc.Upload(context.Background(), usr.ID, nr)
	if err != nil {
		t.Fatalf("UploadResult() failed: %v", err)
	}
	return res
}
