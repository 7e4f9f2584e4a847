package isomorph

import (
	"context"
	"sync"
)

// Item is one document queued for a batch round-trip check.
type Item struct {
	Name string
	Data []byte
}

// BatchReport aggregates per-item reports with summary rates.
type BatchReport struct {
	Total                 int       `json:"total_files"`
	SuccessfulConversions int       `json:"successful_conversions"`
	IsomorphicFiles       int       `json:"isomorphic_files"`
	ConversionRate        float64   `json:"conversion_success_rate"`
	IsomorphismRate       float64   `json:"isomorphism_rate"`
	Reports               []*Report `json:"file_results"`
}

// CheckAll runs the round-trip check over every item with a bounded worker
// pool. Items are independent, so one failure never stops the batch; reports
// come back in input order.
func (c *Checker) CheckAll(ctx context.Context, items []Item, workers int) *BatchReport {
	if workers <= 0 {
		workers = 4
	}
	if workers > len(items) {
		workers = len(items)
	}

	reports := make([]*Report, len(items))
	jobs := make(chan int)

	var wg sync.WaitGroup
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				reports[idx] = c.Check(ctx, items[idx].Name, items[idx].Data)
			}
		}()
	}

	for i := range items {
		select {
		case <-ctx.Done():
		case jobs <- i:
			continue
		}
		break
	}
	close(jobs)
	wg.Wait()

	batch := &BatchReport{Total: len(items)}
	for i, r := range reports {
		if r == nil {
			// Context cancelled before this item was picked up.
			r = &Report{Input: items[i].Name, Steps: map[string]string{}, Error: ctx.Err().Error()}
			reports[i] = r
		}
		if r.Steps[StepHTMLToTEI] == StepSuccess && r.Steps[StepTEIToHTML] == StepSuccess {
			batch.SuccessfulConversions++
		}
		if r.Isomorphic {
			batch.IsomorphicFiles++
		}
	}
	batch.Reports = reports
	if batch.Total > 0 {
		batch.ConversionRate = float64(batch.SuccessfulConversions) / float64(batch.Total)
		batch.IsomorphismRate = float64(batch.IsomorphicFiles) / float64(batch.Total)
	}
	return batch
}
