package service

import (
	"context"
	"errors"
	"sync"
)

var (
	ErrNotFound         = errors.New("not found")
	ErrInvalidInput     = errors.New("invalid input")
	ErrConflict         = errors.New("conflict")
	ErrUnauthorized     = errors.New("unauthorized")
	ErrPermissionDenied = errors.New("permission denied")
)

// distinctFanOut runs one distinct-values lookup per field concurrently and
// joins the results. Any single failure fails the whole request.
func distinctFanOut(ctx context.Context, fields []string, fetch func(ctx context.Context, field string) ([]string, error)) (map[string][]string, error) {
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		firstErr error
	)
	results := make(map[string][]string, len(fields))

	for _, field := range fields {
		wg.Add(1)
		go func(field string) {
			defer wg.Done()
			values, err := fetch(ctx, field)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				if firstErr == nil {
					firstErr = err
				}
				return
			}
			filtered := make([]string, 0, len(values))
			for _, v := range values {
				if v != "" {
					filtered = append(filtered, v)
				}
			}
			results[field] = filtered
		}(field)
	}

	wg.Wait()
	if firstErr != nil {
		return nil, firstErr
	}
	return results, nil
}
