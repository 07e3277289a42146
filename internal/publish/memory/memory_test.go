package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublisherRecordsPayloads(t *testing.T) {
	t.Parallel()

	pub := New()
	id1, err := pub.Publish(context.Background(), map[string]string{"run_id": "abc"})
	require.NoError(t, err)
	assert.Equal(t, "memory-1", id1)

	id2, err := pub.Publish(context.Background(), "second")
	require.NoError(t, err)
	assert.Equal(t, "memory-2", id2)

	got := pub.Payloads()
	require.Len(t, got, 2)
	assert.Equal(t, "second", got[1])

	got[1] = "modified"
	assert.Equal(t, "second", pub.Payloads()[1])
}
