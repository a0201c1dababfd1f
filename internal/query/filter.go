package query

import (
	"time"

	"trends-gateway/internal/domain"
)

// dateFormat is the calendar-date layout accepted for from/to bounds.
const dateFormat = "2006-01-02"

// Filter is a WHERE-clause fragment plus the parameters it references.
type Filter struct {
	Clause string
	Params []Parameter
}

// BuildWeekFilter translates optional from/to date bounds into a filter over
// the weekly table. Weeks begin on Sunday; with no bounds the filter covers
// the current calendar week onward.
func BuildWeekFilter(now time.Time, from, to string) (Filter, error) {
	switch {
	case from == "" && to == "":
		return Filter{Clause: "week >= DATE_TRUNC(CURRENT_DATE(), week)"}, nil

	case from != "" && to == "":
		if _, err := time.Parse(dateFormat, from); err != nil {
			return Filter{}, domain.ErrRange("query string `from`: %s is not a valid date", from)
		}
		return Filter{
			Clause: "week >= @from",
			Params: []Parameter{{Name: "from", Type: TypeDate, Value: from}},
		}, nil

	case from == "" && to != "":
		toDate, err := time.Parse(dateFormat, to)
		if err != nil {
			return Filter{}, domain.ErrRange("query string `to`: %s is not a valid date", to)
		}
		if toDate.Before(weekStart(now)) {
			return Filter{}, domain.ErrRange("query string `to`: %s is not valid", to)
		}
		return Filter{
			Clause: "week >= DATE_TRUNC(CURRENT_DATE(), week) AND week <= @to",
			Params: []Parameter{{Name: "to", Type: TypeDate, Value: to}},
		}, nil

	default:
		fromDate, err := time.Parse(dateFormat, from)
		if err != nil {
			return Filter{}, domain.ErrRange("query string `from`: %s is not a valid date", from)
		}
		toDate, err := time.Parse(dateFormat, to)
		if err != nil {
			return Filter{}, domain.ErrRange("query string `to`: %s is not a valid date", to)
		}
		if toDate.Before(fromDate) {
			return Filter{}, domain.ErrRange("query string `from`: %s or `to`: %s is not valid", from, to)
		}
		return Filter{
			Clause: "date >= @from AND date <= @to",
			Params: []Parameter{
				{Name: "from", Type: TypeDate, Value: from},
				{Name: "to", Type: TypeDate, Value: to},
			},
		}, nil
	}
}

// weekStart returns midnight UTC of the most recent Sunday.
func weekStart(now time.Time) time.Time {
	t := now.UTC()
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	return day.AddDate(0, 0, -int(day.Weekday()))
}
