package main

import (
	"context"
	"fmt"
	"time"

	"github.com/CoderPush/pulse-sub001/core/week"
)

// genWeeks generates the reporting week rows for a whole year. Existing
// weeks are left untouched, so re-running is safe.
func (cli *commandLine) genWeeks(year int) error {
	// December 28 is always in the last ISO week of its year
	last := week.Number(time.Date(year, time.December, 28, 0, 0, 0, 0, time.UTC))

	windows := make([]week.Window, 0, last)
	for n := 1; n <= last; n++ {
		win, err := week.NewWindow(year, n)
		if err != nil {
			return err
		}
		windows = append(windows, win)
	}
	if err := cli.weekRepo.CreateWeeks(context.Background(), windows...); err != nil {
		return err
	}
	fmt.Printf("generated %d weeks for %d\n", last, year)
	return nil
}
