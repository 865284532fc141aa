package runner

import (
	"fmt"

	"github.com/use-agent/shelf/extract"
	"github.com/use-agent/shelf/models"
)

// classifyRenderError maps a renderer failure to a terminal status. Only an
// ACCESS_BLOCKED error is reported as blocked; every other cause is an error.
func classifyRenderError(err error) (models.Status, *models.ScrapeError) {
	se := models.AsScrapeError(err)
	if se.Code == models.ErrCodeBlocked {
		return models.StatusBlocked, se
	}
	return models.StatusError, se
}

// classifyOutcome decides the status of a run whose render succeeded. A nil
// error means success.
func classifyOutcome(out *extract.Outcome) (models.Status, *models.ScrapeError) {
	switch {
	case out.Matched == 0:
		return models.StatusError, models.NewScrapeError(
			models.ErrCodeNoContainers,
			"no products found: no container selector matched",
			nil,
		)
	case len(out.Records) == 0:
		return models.StatusError, models.NewScrapeError(
			models.ErrCodeNoRecords,
			fmt.Sprintf("no products found: %d containers matched %q but none had a title and price",
				out.Matched, out.SelectorUsed),
			nil,
		)
	default:
		return models.StatusSuccess, nil
	}
}
