package pypi

import (
	"context"
	"fmt"
	"sync"

	"github.com/mindw/pipshow/pkg/inspect"
	"github.com/mindw/pipshow/pkg/pep503"
)

const prefetchWorkers = 8

// Versions is a completed batch of latest-version lookups. It implements
// [inspect.VersionSource] from memory, so report assembly never waits on
// the network. Asking for a name that was not prefetched is an error.
type Versions struct {
	m map[string]lookup
}

type lookup struct {
	version string
	err     error
}

// LatestVersion implements [inspect.VersionSource].
func (v *Versions) LatestVersion(_ context.Context, name string) (string, error) {
	l, ok := v.m[pep503.Normalize(name)]
	if !ok {
		return "", fmt.Errorf("no prefetched version for %s", name)
	}
	return l.version, l.err
}

// Prefetch resolves the latest version of every name through src with a
// worker pool and returns the answers as a batch. Names are deduplicated
// by normalized form; per-name failures are stored, not returned, so one
// unknown package never fails the batch. A cancelled context stops the
// remaining lookups, which then resolve as failed.
func Prefetch(ctx context.Context, src inspect.VersionSource, names []string, workers int) *Versions {
	if workers <= 0 {
		workers = prefetchWorkers
	}

	seen := make(map[string]bool, len(names))
	unique := make([]string, 0, len(names))
	for _, name := range names {
		norm := pep503.Normalize(name)
		if norm == "" || seen[norm] {
			continue
		}
		seen[norm] = true
		unique = append(unique, name)
	}

	v := &Versions{m: make(map[string]lookup, len(unique))}
	if len(unique) == 0 {
		return v
	}
	if workers > len(unique) {
		workers = len(unique)
	}

	jobs := make(chan string)
	var mu sync.Mutex
	var wg sync.WaitGroup
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for name := range jobs {
				version, err := src.LatestVersion(ctx, name)
				mu.Lock()
				v.m[pep503.Normalize(name)] = lookup{version: version, err: err}
				mu.Unlock()
			}
		}()
	}

feed:
	for _, name := range unique {
		select {
		case jobs <- name:
		case <-ctx.Done():
			break feed
		}
	}
	close(jobs)
	wg.Wait()
	return v
}
