package directory

import (
	"context"
	"errors"
	"log"
	"time"

	"golang.org/x/time/rate"
)

// maxSearchPages bounds traversal cost and latency regardless of the
// requested result count.
const maxSearchPages = 10

// DefaultPageInterval keeps page fetches under informal rate limits even
// when the API does not throttle explicitly.
const DefaultPageInterval = 300 * time.Millisecond

// PeopleSearcher runs a single page of a people search.
type PeopleSearcher interface {
	SearchPeople(ctx context.Context, filters SearchFilters) (*PageResult, error)
}

// Traversal drives a PeopleSearcher across pages until a target count or
// page limit is reached, producing a flat candidate list.
type Traversal struct {
	searcher PeopleSearcher
	limiter  *rate.Limiter
}

// NewTraversal builds a traversal pacing page fetches at the given
// interval. A non-positive interval disables pacing (used in tests).
func NewTraversal(searcher PeopleSearcher, interval time.Duration) *Traversal {
	limiter := rate.NewLimiter(rate.Inf, 1)
	if interval > 0 {
		limiter = rate.NewLimiter(rate.Every(interval), 1)
	}
	return &Traversal{searcher: searcher, limiter: limiter}
}

// Collect fetches pages until one comes back empty, the accumulated count
// reaches maxResults, the API-reported total pages is exhausted, or the
// hard page ceiling is hit. A failure mid-traversal returns whatever was
// accumulated so far: partial results beat none for best-effort discovery.
// Authentication failures and cancellation are the exceptions and
// propagate.
func (t *Traversal) Collect(ctx context.Context, filters SearchFilters, maxResults int) ([]Person, error) {
	var people []Person

	for page := 1; page <= maxSearchPages; page++ {
		if err := t.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		filters.Page = page
		result, err := t.searcher.SearchPeople(ctx, filters)
		if err != nil {
			if errors.Is(err, ErrAuthentication) || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return nil, err
			}
			log.Printf("people search aborted on page %d: %v", page, err)
			return people, nil
		}

		if len(result.People) == 0 {
			break
		}
		people = append(people, result.People...)

		if maxResults > 0 && len(people) >= maxResults {
			people = people[:maxResults]
			break
		}
		if result.Pagination.TotalPages > 0 && page >= result.Pagination.TotalPages {
			break
		}
	}

	return people, nil
}
