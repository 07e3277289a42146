package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPutAndGet(t *testing.T) {
	t.Parallel()

	sink := New()
	uri, err := sink.Put(context.Background(), "runs/1.json", "application/json", []byte("data"))
	require.NoError(t, err)
	assert.Equal(t, "mem://runs/1.json", uri)

	obj, ok := sink.Get("runs/1.json")
	require.True(t, ok)
	assert.Equal(t, "application/json", obj.ContentType)
	assert.Equal(t, "data", string(obj.Data))
	assert.Equal(t, 1, sink.Len())
}

func TestPutCopiesData(t *testing.T) {
	t.Parallel()

	sink := New()
	data := []byte("original")
	_, err := sink.Put(context.Background(), "a", "", data)
	require.NoError(t, err)

	data[0] = 'X'
	obj, _ := sink.Get("a")
	assert.Equal(t, "original", string(obj.Data))
}

func TestPutRequiresPath(t *testing.T) {
	t.Parallel()

	_, err := New().Put(context.Background(), "", "", nil)
	assert.Error(t, err)
}
