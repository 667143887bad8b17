package week

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("week not found")

// Repository stores generated weeks. Weeks are immutable once generated;
// generation happens in an admin batch (see apps/admin genweeks).
type Repository interface {
	CreateWeeks(ctx context.Context, windows ...Window) error
	GetWeek(ctx context.Context, year, weekNum int) (Window, error)
	QueryWeeksByYear(ctx context.Context, year int) ([]Window, error)
}
