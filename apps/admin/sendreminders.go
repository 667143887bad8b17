package main

import (
	"context"
	"fmt"
)

func (cli *commandLine) sendReminders() error {
	res, err := cli.remSvc.SendReminders(context.Background())
	if err != nil {
		return err
	}
	fmt.Printf("reminded %d users for %d-W%02d\n", len(res.Reminded), res.Year, res.WeekNumber)
	return nil
}
