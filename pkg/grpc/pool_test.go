package grpc_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	grpcpool "github.com/JoeShih716/go-pix-ledger/pkg/grpc"
)

func TestPool_ReusesConnectionPerTarget(t *testing.T) {
	pool := grpcpool.NewPool()
	defer pool.Close()

	a1, err := pool.Get("localhost:50051")
	require.NoError(t, err)
	a2, err := pool.Get("localhost:50051")
	require.NoError(t, err)
	b, err := pool.Get("localhost:50052")
	require.NoError(t, err)

	assert.Same(t, a1, a2)
	assert.NotSame(t, a1, b)
	assert.Equal(t, 2, pool.Len())
}

func TestPool_ReplacesClosedConnection(t *testing.T) {
	pool := grpcpool.NewPool()
	defer pool.Close()

	first, err := pool.Get("localhost:50051")
	require.NoError(t, err)
	require.NoError(t, first.Close())

	second, err := pool.Get("localhost:50051")
	require.NoError(t, err)
	assert.NotSame(t, first, second)
	assert.Equal(t, 1, pool.Len())
}

func TestPool_Close(t *testing.T) {
	pool := grpcpool.NewPool()
	_, err := pool.Get("localhost:50051")
	require.NoError(t, err)

	require.NoError(t, pool.Close())
	assert.Zero(t, pool.Len())
}
