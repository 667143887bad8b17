package dummydb

import (
	"context"
	"sort"

	"github.com/CoderPush/pulse-sub001/core/week"
)

type weekRepository struct {
	db *weekTable
}

var _ week.Repository = (*weekRepository)(nil) // interface compliance check

func NewWeekRepository(db *DB) week.Repository {
	return &weekRepository{db: db.week}
}

func (repo *weekRepository) CreateWeeks(ctx context.Context, windows ...week.Window) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	for _, win := range windows {
		win := win
		key := weekKey{win.Year, win.WeekNumber}
		if _, ok := repo.db.table[key]; ok {
			continue // weeks are immutable once generated
		}
		repo.db.table[key] = &win
	}
	return nil
}

func (repo *weekRepository) GetWeek(ctx context.Context, year, weekNum int) (week.Window, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if win, ok := repo.db.table[weekKey{year, weekNum}]; ok {
		return *win, nil
	}
	return week.Window{}, week.ErrNotFound
}

func (repo *weekRepository) QueryWeeksByYear(ctx context.Context, year int) ([]week.Window, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	var windows []week.Window
	for key, win := range repo.db.table {
		if key.year == year {
			windows = append(windows, *win)
		}
	}
	sort.Slice(windows, func(i, j int) bool { return windows[i].WeekNumber < windows[j].WeekNumber })
	return windows, nil
}
