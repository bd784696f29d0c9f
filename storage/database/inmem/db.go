// Package inmemdb implements the repositories in memory, for debug runs & tests.
package inmemdb

import (
	"sync"

	"github.com/google/uuid"

	"github.com/trezcool/cgpa/core/result"
	"github.com/trezcool/cgpa/core/user"
)

type (
	DB struct {
		user   *userTable
		result *resultTable
	}

	userTable struct {
		sync.RWMutex
		table map[string]*user.User
	}

	// resultTable holds courses & results under the same lock.
	resultTable struct {
		sync.RWMutex
		courses map[string]*result.Course
		table   map[string]*result.Result
	}
)

func Open() *DB {
	return &DB{
		user: &userTable{table: make(map[string]*user.User)},
		result: &resultTable{
			courses: make(map[string]*result.Course),
			table:   make(map[string]*result.Result),
		},
	}
}

// Reset empties all the tables.
func (db *DB) Reset() {
	db.user.Lock()
	db.user.table = make(map[string]*user.User)
	db.user.Unlock()

	db.result.Lock()
	db.result.courses = make(map[string]*result.Course)
	db.result.table = make(map[string]*result.Result)
	db.result.Unlock()
}

func newID() string { return uuid.New().String() }
