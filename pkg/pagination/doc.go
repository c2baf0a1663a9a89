// Package pagination provides parallel batch fetching for paginated
// helpdesk list endpoints.
//
// List responses carry a total_pages field in the body. This package
// fetches page 1 to learn the page count, then distributes the remaining
// pages across a worker pool.
//
// Example usage:
//
//	fetcher := pagination.NewBatchFetcher(svc, pagination.DefaultConfig())
//	pages, err := fetcher.FetchAllPages(ctx, "/api/v2/tickets")
//
// The batch fetcher:
//   - Fetches the first page to determine total pages
//   - Spawns a worker pool (default 4 workers)
//   - Distributes remaining pages across workers
//   - Collects results with progress logging
//   - Handles errors gracefully (returns partial data)
package pagination
