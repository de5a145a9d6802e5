package transform

import "FinCrawl/internal/domain/models"

// GenerateTasks expands dates x sources, date-major. Weekends and holidays are
// kept; a closed market shows up later as an empty table.
func GenerateTasks(dates []string, sources []models.SourceID) []models.FetchTask {
	tasks := make([]models.FetchTask, 0, len(dates)*len(sources))
	for _, d := range dates {
		for _, s := range sources {
			tasks = append(tasks, models.FetchTask{Date: d, Source: s})
		}
	}
	return tasks
}
