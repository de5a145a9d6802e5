package transform

import (
	"FinCrawl/internal/domain/models"
	"FinCrawl/pkg/util"
)

// ExpandDates returns every calendar day from start to end inclusive, in order.
func ExpandDates(start, end string) ([]string, error) {
	from, ok := util.ParseDate(start)
	if !ok {
		return nil, &models.InvalidRangeError{Start: start, End: end, Reason: "start_date is not a calendar date"}
	}
	to, ok := util.ParseDate(end)
	if !ok {
		return nil, &models.InvalidRangeError{Start: start, End: end, Reason: "end_date is not a calendar date"}
	}
	if from.After(to) {
		return nil, &models.InvalidRangeError{Start: start, End: end, Reason: "start_date is after end_date"}
	}

	days := int(to.Sub(from).Hours()/24) + 1
	dates := make([]string, 0, days)
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		dates = append(dates, d.Format(util.DateFormat))
	}
	return dates, nil
}
