package services

import (
	"context"
	"fmt"
	"sync"

	"astro-chart-service/internal/domain"
	"astro-chart-service/internal/ports"
)

type positionResult struct {
	body string
	pos  ports.BodyLongitude
	err  error
}

// fetchPositions retrieves raw longitudes for all bodies, preferring a
// single batched lookup when the provider supports it.
//
// Failures are collected per body and never abort sibling lookups: a chart
// with one unavailable body is still a useful chart.
func fetchPositions(
	ctx context.Context,
	birth domain.BirthDetails,
	coords domain.Coordinates,
	provider ports.EphemerisProvider,
	bodies []string,
) (map[string]ports.BodyLongitude, map[string]string, error) {
	positions := make(map[string]ports.BodyLongitude, len(bodies))
	failures := make(map[string]string)

	// Prefer a single batched lookup when supported to reduce external API calls.
	if bp, ok := provider.(ports.EphemerisBatchProvider); ok {
		results, err := bp.GetPositions(ctx, birth, coords, bodies)
		if err != nil {
			return nil, nil, fmt.Errorf("fetch positions: batched lookup: %w", err)
		}

		for _, b := range bodies {
			r, ok := results[b]
			if !ok {
				failures[b] = "ephemeris returned no position"
				continue
			}
			positions[b] = r
		}

		return positions, failures, nil
	}

	sem := make(chan struct{}, 4)
	resultsCh := make(chan positionResult, len(bodies))
	var wg sync.WaitGroup

	for _, body := range bodies {
		wg.Add(1)
		go func(b string) {
			sem <- struct{}{}
			defer wg.Done()
			defer func() { <-sem }()

			pos, err := provider.GetPosition(ctx, birth, coords, b)
			resultsCh <- positionResult{body: b, pos: pos, err: err}
		}(body)
	}

	wg.Wait()
	close(resultsCh)

	for res := range resultsCh {
		if res.err != nil {
			failures[res.body] = res.err.Error()
			continue
		}
		positions[res.body] = res.pos
	}

	return positions, failures, nil
}
