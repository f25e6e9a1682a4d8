package booking

import (
	"fmt"
	"time"
)

const DateLayout = "2006-01-02"

// Period is a closed range of calendar days. Both ends are inclusive.
type Period struct {
	Start time.Time
	End   time.Time
}

// NewPeriod truncates both bounds to UTC calendar days.
func NewPeriod(start, end time.Time) Period {
	return Period{Start: Day(start), End: Day(end)}
}

// ParsePeriod reads two YYYY-MM-DD dates.
func ParsePeriod(start, end string) (Period, error) {
	s, err := time.Parse(DateLayout, start)
	if err != nil {
		return Period{}, fmt.Errorf("invalid start date %q, use YYYY-MM-DD", start)
	}
	e, err := time.Parse(DateLayout, end)
	if err != nil {
		return Period{}, fmt.Errorf("invalid end date %q, use YYYY-MM-DD", end)
	}
	return NewPeriod(s, e), nil
}

// Day drops the clock part, keeping the calendar date the value has in its own zone.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func (p Period) Overlaps(o Period) bool {
	return Overlaps(p.Start, p.End, o.Start, o.End)
}

// Ordered reports start <= end.
func (p Period) Ordered() bool {
	return !p.Start.After(p.End)
}

func (p Period) String() string {
	return p.Start.Format(DateLayout) + ".." + p.End.Format(DateLayout)
}

// Overlaps is closed-interval overlap: touching endpoints overlap.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return !aStart.After(bEnd) && !bStart.After(aEnd)
}

// UnderMaintenance reports whether a maintenance window ending at
// maintenanceEnd still blocks a request starting at requestedStart.
// A variant without a maintenance end is never blocked.
func UnderMaintenance(requestedStart time.Time, maintenanceEnd *time.Time) bool {
	return maintenanceEnd != nil && Day(*maintenanceEnd).After(Day(requestedStart))
}
