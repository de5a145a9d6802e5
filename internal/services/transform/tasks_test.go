package transform

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"FinCrawl/internal/domain/models"
)

func TestGenerateTasksDateMajor(t *testing.T) {
	dates := []string{"2021-01-01", "2021-01-02", "2021-01-03"}
	sources := models.Markets["stock"]

	tasks := GenerateTasks(dates, sources)

	assert.Equal(t, []models.FetchTask{
		{Date: "2021-01-01", Source: models.SourceTWSE},
		{Date: "2021-01-01", Source: models.SourceTPEX},
		{Date: "2021-01-02", Source: models.SourceTWSE},
		{Date: "2021-01-02", Source: models.SourceTPEX},
		{Date: "2021-01-03", Source: models.SourceTWSE},
		{Date: "2021-01-03", Source: models.SourceTPEX},
	}, tasks)
}

func TestGenerateTasksCount(t *testing.T) {
	dates, err := ExpandDates("2021-01-01", "2021-01-31")
	if err != nil {
		t.Fatalf("expand: %v", err)
	}
	sources := []models.SourceID{models.SourceTWSE, models.SourceTPEX, models.SourceTAIFEX}
	tasks := GenerateTasks(dates, sources)
	if len(tasks) != len(dates)*len(sources) {
		t.Fatalf("expected %d tasks, got %d", len(dates)*len(sources), len(tasks))
	}
	for i, task := range tasks {
		if task.Date != dates[i/len(sources)] || task.Source != sources[i%len(sources)] {
			t.Fatalf("task %d out of order: %v", i, task)
		}
	}
}
