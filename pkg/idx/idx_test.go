package idx_test

import (
	"testing"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/require"

	"github.com/OolalaDXB/outrenational/pkg/idx"
)

func TestNewIsAStrictULID(t *testing.T) {
	before := time.Now()
	id := idx.New()

	u, err := ulid.ParseStrict(id.String())
	require.NoError(t, err)
	require.WithinDuration(t, before, ulid.Time(u.Time()), time.Second)
}

func TestNewIsMonotonic(t *testing.T) {
	prev := idx.New()
	for range 1000 {
		next := idx.New()
		require.Less(t, prev.String(), next.String())
		prev = next
	}
}
