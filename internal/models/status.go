package models

import (
	"errors"
	"time"
)

// MaintenanceStatus classifies how urgent a scheduled task is relative
// to its service interval.
type MaintenanceStatus string

const (
	StatusPastDue    MaintenanceStatus = "past_due"
	StatusComingDue  MaintenanceStatus = "coming_due"
	StatusOnSchedule MaintenanceStatus = "on_schedule"
)

// ComingDueWindowDays is how many days ahead of the due date a task is
// flagged as coming due.
const ComingDueWindowDays = 7

var ErrInvalidInterval = errors.New("interval days must be a positive integer")

// IsValidMaintenanceStatus checks if a maintenance status is valid
func IsValidMaintenanceStatus(s MaintenanceStatus) bool {
	switch s {
	case StatusPastDue, StatusComingDue, StatusOnSchedule:
		return true
	default:
		return false
	}
}

// startOfDay truncates a timestamp to its calendar date. Status is a
// whole-day calculation; time of day never matters.
func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// DaysUntilDue returns the whole number of days until the task is next
// due: (lastCompleted + intervalDays) - now. Negative means overdue.
func DaysUntilDue(lastCompleted time.Time, intervalDays int, now time.Time) int {
	due := startOfDay(lastCompleted).AddDate(0, 0, intervalDays)
	return int(due.Sub(startOfDay(now)).Hours() / 24)
}

// EvaluateStatus derives the maintenance status of a task from its last
// completion date and service interval. A nil lastCompleted means the
// task has never been serviced and is treated as the most urgent state.
// The caller supplies now so the result stays deterministic.
func EvaluateStatus(lastCompleted *time.Time, intervalDays int, now time.Time) (MaintenanceStatus, error) {
	if intervalDays <= 0 {
		return "", ErrInvalidInterval
	}
	if lastCompleted == nil {
		return StatusPastDue, nil
	}
	days := DaysUntilDue(*lastCompleted, intervalDays, now)
	switch {
	case days < 0:
		return StatusPastDue, nil
	case days <= ComingDueWindowDays:
		return StatusComingDue, nil
	default:
		return StatusOnSchedule, nil
	}
}
