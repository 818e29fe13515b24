package fetch

import (
	"sync"

	"golang.org/x/sync/singleflight"
)

// FlightTable guarantees that each distinct URI is fetched at most once
// per run, no matter how many renditions reference it. The first caller
// claims the URI and performs the fetch; concurrent callers block on the
// in-flight request, and later callers observe the memoized result,
// success or failure alike.
//
// This is the only structure shared across concurrent pipelines; it is
// discarded when the run ends.
type FlightTable struct {
	group singleflight.Group

	mutex   sync.RWMutex
	results map[string]flightResult
}

type flightResult struct {
	data []byte
	err  error
}

// NewFlightTable creates an empty flight table.
func NewFlightTable() *FlightTable {
	return &FlightTable{results: make(map[string]flightResult)}
}

// Do returns the bytes for uri, invoking fn at most once per table
// lifetime for that uri.
func (t *FlightTable) Do(uri string, fn func() ([]byte, error)) ([]byte, error) {
	t.mutex.RLock()
	res, done := t.results[uri]
	t.mutex.RUnlock()
	if done {
		return res.data, res.err
	}

	data, err, _ := t.group.Do(uri, func() (interface{}, error) {
		body, fetchErr := fn()

		t.mutex.Lock()
		t.results[uri] = flightResult{data: body, err: fetchErr}
		t.mutex.Unlock()

		return body, fetchErr
	})
	if err != nil {
		return nil, err
	}
	return data.([]byte), nil
}

// Len reports how many URIs have a resolved result.
func (t *FlightTable) Len() int {
	t.mutex.RLock()
	defer t.mutex.RUnlock()
	return len(t.results)
}
