package dtr

import (
	"time"

	"github.com/bpohub/workforce/internal"
	"github.com/bpohub/workforce/internal/core/common/clock"
	"github.com/bpohub/workforce/internal/core/common/stats"
)

// Punches are the raw clock events for one employee-day, "HH:MM" strings.
// Break punches are optional and only subtracted when both are present.
type Punches struct {
	TimeIn   *string
	TimeOut  *string
	BreakIn  *string
	BreakOut *string
}

// Classification is the derived outcome for one employee-day. Pending marks
// rows whose hours are not final because the employee is still clocked in.
type Classification struct {
	Status        DTRStatus
	TotalHours    float64
	OvertimeHours float64
	Pending       bool
}

// Classify derives the attendance outcome for one employee-day. It is pure:
// the same shift, punches and leave marker always produce the same result.
//
// A punch or break end that reads earlier than its start is taken as a
// next-day event and adjusted by a day; the shift window gets the same
// treatment. A duration that is still negative after adjustment means the
// punches contradict each other and the row is rejected.
func Classify(shift string, punches Punches, onLeave bool, grace time.Duration) (*Classification, error) {
	if shift == "" {
		return &Classification{Status: StatusRestDay}, nil
	}

	shiftStart, shiftEnd, err := clock.ParseShiftLabel(shift)
	if err != nil {
		return nil, err
	}
	if shiftEnd <= shiftStart {
		shiftEnd += clock.MinutesPerDay
	}
	scheduledMinutes := shiftEnd - shiftStart

	if punches.TimeIn == nil {
		if onLeave {
			return &Classification{Status: StatusOnLeave}, nil
		}
		return &Classification{Status: StatusAbsent}, nil
	}

	timeIn, err := clock.ParseLabel(*punches.TimeIn)
	if err != nil {
		return nil, err
	}

	status := StatusPresent
	if timeIn > shiftStart+int(grace.Minutes()) {
		status = StatusLate
	}

	if punches.TimeOut == nil {
		return &Classification{Status: StatusIncomplete, Pending: true}, nil
	}

	timeOut, err := clock.ParseLabel(*punches.TimeOut)
	if err != nil {
		return nil, err
	}
	if timeOut < timeIn {
		timeOut += clock.MinutesPerDay
	}

	worked := timeOut - timeIn
	breakMinutes, err := breakDuration(punches)
	if err != nil {
		return nil, err
	}
	worked -= breakMinutes
	if worked < 0 {
		return nil, internal.NewValidationError(
			"break exceeds the worked span", internal.ErrCodeInvalidTimeRange)
	}

	overtime := worked - scheduledMinutes
	if overtime < 0 {
		overtime = 0
	}

	return &Classification{
		Status:        status,
		TotalHours:    stats.Round2(float64(worked) / 60),
		OvertimeHours: stats.Round2(float64(overtime) / 60),
	}, nil
}

func breakDuration(punches Punches) (int, error) {
	if punches.BreakIn == nil || punches.BreakOut == nil {
		return 0, nil
	}

	breakIn, err := clock.ParseLabel(*punches.BreakIn)
	if err != nil {
		return 0, err
	}
	breakOut, err := clock.ParseLabel(*punches.BreakOut)
	if err != nil {
		return 0, err
	}
	if breakOut < breakIn {
		breakOut += clock.MinutesPerDay
	}
	return breakOut - breakIn, nil
}
