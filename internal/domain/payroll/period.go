package payroll

import (
	"fmt"
	"time"
)

// DateLayout is the calendar-date format used on the wire and in batch
// report lines.
const DateLayout = "2006-01-02"

type Frequency string

const (
	FrequencyWeekly   Frequency = "weekly"
	FrequencyBiweekly Frequency = "biweekly"
	FrequencyMonthly  Frequency = "monthly"
)

type Half string

const (
	HalfFirst  Half = "first"
	HalfSecond Half = "second"
)

const (
	MinYear = 2000
	MaxYear = 2100
)

// Period is a closed calendar-date range. Both bounds are UTC midnights
// and the range never crosses a month boundary.
type Period struct {
	Start time.Time
	End   time.Time
}

func (p Period) String() string {
	return p.Start.Format(DateLayout) + " to " + p.End.Format(DateLayout)
}

// MonthPeriods decomposes a calendar month into pay periods.
//
// Monthly yields the whole month. Biweekly yields day 1 through 15 or
// day 16 through the last day, picked by half. Weekly partitions the
// month into consecutive 7-day windows, truncating the final window at
// the month end; windows never spill into the next month.
func MonthPeriods(year, month int, freq Frequency, half Half) ([]Period, error) {
	if year < MinYear || year > MaxYear {
		return nil, fmt.Errorf("%w: year %d out of range [%d, %d]", ErrInvalidPeriodSpec, year, MinYear, MaxYear)
	}
	if month < 1 || month > 12 {
		return nil, fmt.Errorf("%w: month %d out of range [1, 12]", ErrInvalidPeriodSpec, month)
	}

	first := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	last := first.AddDate(0, 1, -1)

	switch freq {
	case FrequencyMonthly:
		return []Period{{Start: first, End: last}}, nil

	case FrequencyBiweekly:
		switch half {
		case HalfFirst:
			return []Period{{Start: first, End: first.AddDate(0, 0, 14)}}, nil
		case HalfSecond:
			return []Period{{Start: first.AddDate(0, 0, 15), End: last}}, nil
		default:
			return nil, fmt.Errorf("%w: biweekly runs need half %q or %q", ErrInvalidPeriodSpec, HalfFirst, HalfSecond)
		}

	case FrequencyWeekly:
		var periods []Period
		for start := first; !start.After(last); start = start.AddDate(0, 0, 7) {
			end := start.AddDate(0, 0, 6)
			if end.After(last) {
				end = last
			}
			periods = append(periods, Period{Start: start, End: end})
		}
		return periods, nil

	default:
		return nil, fmt.Errorf("%w: unknown frequency %q", ErrInvalidPeriodSpec, freq)
	}
}
