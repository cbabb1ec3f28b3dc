package views

import (
	"time"

	"github.com/rpggio/backoffice/internal/domain/task"
)

// Day is one cell of a month calendar.
type Day struct {
	Date    string      `json:"date"`
	InMonth bool        `json:"in_month"`
	Tasks   []task.Task `json:"tasks"`
}

// Calendar is a month laid out in whole weeks starting on Sunday.
type Calendar struct {
	Year  int     `json:"year"`
	Month string  `json:"month"`
	Weeks [][]Day `json:"weeks"`
}

// CalendarMonth lays out the month with each day's due tasks. The grid
// starts on the Sunday on or before the first and ends on the Saturday on
// or after the last day of the month.
func CalendarMonth(year int, month time.Month, tasks []task.Task) Calendar {
	byDate := GroupByDueDate(tasks)

	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	last := first.AddDate(0, 1, -1)
	start := first.AddDate(0, 0, -int(first.Weekday()))
	end := last.AddDate(0, 0, 6-int(last.Weekday()))

	cal := Calendar{Year: first.Year(), Month: first.Month().String()}
	var week []Day
	for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
		key := day.Format(task.DateLayout)
		due := byDate[key]
		if due == nil {
			due = []task.Task{}
		}
		week = append(week, Day{Date: key, InMonth: day.Month() == first.Month(), Tasks: due})
		if len(week) == 7 {
			cal.Weeks = append(cal.Weeks, week)
			week = nil
		}
	}
	return cal
}
