package pagination

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// Config holds batch fetcher configuration.
type Config struct {
	// MaxConcurrency is the maximum number of parallel page requests.
	// Helpdesk accounts share a per-account rate budget, so keep this low.
	MaxConcurrency int
	// Timeout per page fetch.
	Timeout time.Duration
	// BufferSize for the page queue and result channels.
	BufferSize int
}

// DefaultConfig returns safe defaults for a helpdesk account.
func DefaultConfig() Config {
	return Config{
		MaxConcurrency: 4,
		Timeout:        15 * time.Second,
		BufferSize:     100,
	}
}

// PageFetcher fetches a single page of a list endpoint. The helpdesk
// Service implements it.
type PageFetcher interface {
	// FetchPage returns the raw page body and the total page count the
	// response envelope reported.
	FetchPage(ctx context.Context, path string, page int) (data []byte, totalPages int, err error)
}

// PageResult is the outcome of fetching one page.
type PageResult struct {
	Page  int
	Data  []byte
	Error error
}

// BatchFetcher fetches every page of a list endpoint in parallel.
type BatchFetcher struct {
	fetcher PageFetcher
	config  Config
}

// NewBatchFetcher creates a new batch fetcher.
func NewBatchFetcher(fetcher PageFetcher, config Config) *BatchFetcher {
	if config.MaxConcurrency <= 0 {
		config.MaxConcurrency = 4
	}
	if config.Timeout <= 0 {
		config.Timeout = 15 * time.Second
	}
	if config.BufferSize <= 0 {
		config.BufferSize = 100
	}

	return &BatchFetcher{
		fetcher: fetcher,
		config:  config,
	}
}

// FetchAllPages fetches all pages of a list endpoint using a worker pool.
// Returns a map of page number to raw body for the pages that succeeded.
func (bf *BatchFetcher) FetchAllPages(ctx context.Context, path string) (map[int][]byte, error) {
	start := time.Now()

	// The first page tells us how many there are.
	firstPage, totalPages, err := bf.fetcher.FetchPage(ctx, path, 1)
	if err != nil {
		return nil, fmt.Errorf("fetch first page: %w", err)
	}

	log.Info().
		Str("path", path).
		Int("total_pages", totalPages).
		Msg("Starting parallel page fetch")

	if totalPages <= 1 {
		log.Info().
			Str("path", path).
			Dur("duration", time.Since(start)).
			Msg("Fetch complete (single page)")
		return map[int][]byte{1: firstPage}, nil
	}

	results := map[int][]byte{1: firstPage}

	pageQueue := make(chan int, bf.config.BufferSize)
	pageResults := make(chan PageResult, bf.config.BufferSize)
	workerErrs := make(chan error, bf.config.MaxConcurrency)

	go func() {
		for page := 2; page <= totalPages; page++ {
			pageQueue <- page
		}
		close(pageQueue)
	}()

	var wg sync.WaitGroup
	for i := 0; i < bf.config.MaxConcurrency; i++ {
		wg.Add(1)
		go bf.worker(ctx, path, pageQueue, pageResults, workerErrs, &wg, i)
	}

	go func() {
		wg.Wait()
		close(pageResults)
		close(workerErrs)
	}()

	fetched := 1
	for result := range pageResults {
		if result.Error != nil {
			log.Warn().
				Err(result.Error).
				Int("page", result.Page).
				Msg("Page fetch failed")
			continue
		}
		results[result.Page] = result.Data
		fetched++

		if fetched%50 == 0 {
			log.Info().
				Int("fetched", fetched).
				Int("total", totalPages).
				Msg("Fetch progress")
		}
	}

	select {
	case err := <-workerErrs:
		if err != nil {
			log.Warn().
				Err(err).
				Int("fetched_pages", fetched).
				Int("total_pages", totalPages).
				Msg("Worker error - returning partial results")
			return results, fmt.Errorf("worker error (partial data: %d/%d pages): %w", fetched, totalPages, err)
		}
	default:
	}

	log.Info().
		Str("path", path).
		Int("pages", fetched).
		Int("total", totalPages).
		Dur("duration", time.Since(start)).
		Msg("Fetch complete")

	return results, nil
}

// worker drains the page queue until it closes or the context cancels.
func (bf *BatchFetcher) worker(ctx context.Context, path string, pageQueue <-chan int, results chan<- PageResult, errs chan<- error, wg *sync.WaitGroup, workerID int) {
	defer wg.Done()

	for page := range pageQueue {
		select {
		case <-ctx.Done():
			log.Debug().
				Int("worker_id", workerID).
				Msg("Worker stopping (context cancelled)")
			return
		default:
		}

		pageCtx, cancel := context.WithTimeout(ctx, bf.config.Timeout)
		data, _, err := bf.fetcher.FetchPage(pageCtx, path, page)
		cancel()

		if err != nil {
			log.Warn().
				Err(err).
				Int("worker_id", workerID).
				Int("page", page).
				Msg("Page fetch failed")

			select {
			case errs <- err:
			default:
			}
			return
		}

		select {
		case results <- PageResult{Page: page, Data: data}:
		case <-ctx.Done():
			return
		}
	}
}
