package fetch

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlightTable_MemoizesResults(t *testing.T) {
	table := NewFlightTable()
	calls := 0

	fn := func() ([]byte, error) {
		calls++
		return []byte("payload"), nil
	}

	data, err := table.Do("uri-1", fn)
	require.NoError(t, err)
	assert.Equal(t, "payload", string(data))

	data, err = table.Do("uri-1", fn)
	require.NoError(t, err)
	assert.Equal(t, "payload", string(data))
	assert.Equal(t, 1, calls, "second call must be served from the memo")
	assert.Equal(t, 1, table.Len())
}

func TestFlightTable_MemoizesFailures(t *testing.T) {
	table := NewFlightTable()
	calls := 0
	failure := errors.New("boom")

	fn := func() ([]byte, error) {
		calls++
		return nil, failure
	}

	_, err := table.Do("uri-1", fn)
	require.ErrorIs(t, err, failure)

	_, err = table.Do("uri-1", fn)
	require.ErrorIs(t, err, failure)
	assert.Equal(t, 1, calls, "a failed fetch is not silently repeated")
}
