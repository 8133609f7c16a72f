package progress

import "time"

// HeatLevel buckets a day percentage for the calendar heat-map.
type HeatLevel int

const (
	LevelFuture HeatLevel = iota
	LevelEmpty
	LevelLow
	LevelMedium
	LevelHigh
	LevelPerfect
)

func (l HeatLevel) String() string {
	switch l {
	case LevelFuture:
		return "future"
	case LevelEmpty:
		return "empty"
	case LevelLow:
		return "low"
	case LevelMedium:
		return "medium"
	case LevelHigh:
		return "high"
	case LevelPerfect:
		return "perfect"
	}
	return "unknown"
}

// LevelFor maps a percentage in [0, 100] to its heat level.
func LevelFor(pct int) HeatLevel {
	switch {
	case pct >= 100:
		return LevelPerfect
	case pct >= 70:
		return LevelHigh
	case pct >= 40:
		return LevelMedium
	case pct > 0:
		return LevelLow
	default:
		return LevelEmpty
	}
}

// CalendarDay is one cell of the heat-map.
type CalendarDay struct {
	Day        int
	Date       time.Time
	Percentage int
	Level      HeatLevel
	Today      bool
}

// CalendarDays returns a cell for every challenge day. Days after current are
// LevelFuture and carry no percentage.
func (e *Engine) CalendarDays(current int) []CalendarDay {
	cells := make([]CalendarDay, e.challenge.Duration)
	for d := 1; d <= e.challenge.Duration; d++ {
		cell := CalendarDay{
			Day:   d,
			Date:  e.DateForDay(d),
			Level: LevelFuture,
			Today: d == current,
		}
		if d <= current {
			cell.Percentage = e.DayPercentage(d)
			cell.Level = LevelFor(cell.Percentage)
		}
		cells[d-1] = cell
	}
	return cells
}
