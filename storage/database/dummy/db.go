// Package dummydb provides in-memory repositories for tests and local development.
package dummydb

import (
	"sync"

	"github.com/CoderPush/pulse-sub001/core/project"
	"github.com/CoderPush/pulse-sub001/core/submission"
	"github.com/CoderPush/pulse-sub001/core/user"
	"github.com/CoderPush/pulse-sub001/core/week"
)

type (
	DB struct {
		user       *userTable
		week       *weekTable
		submission *submissionTable
		project    *projectTable
	}

	userTable struct {
		sync.RWMutex
		table map[string]*user.User
	}

	weekTable struct {
		sync.RWMutex
		table map[weekKey]*week.Window
	}

	weekKey struct {
		year, weekNum int
	}

	submissionTable struct {
		sync.RWMutex
		table map[string]*submission.Submission
		daily map[string]*submission.DailyReport
	}

	projectTable struct {
		sync.RWMutex
		table map[string]*project.Project
	}
)

func Open() (*DB, error) {
	db := &DB{
		user: &userTable{table: make(map[string]*user.User)},
		week: &weekTable{table: make(map[weekKey]*week.Window)},
		submission: &submissionTable{
			table: make(map[string]*submission.Submission),
			daily: make(map[string]*submission.DailyReport),
		},
		project: &projectTable{table: make(map[string]*project.Project)},
	}
	return db, nil
}
