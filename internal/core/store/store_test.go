package store

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_Ping(t *testing.T) {
	mr := miniredis.RunT(t)

	s, err := New("redis://" + mr.Addr())
	require.NoError(t, err)
	defer s.Close()

	assert.NoError(t, s.Ping(context.Background()))
	assert.NotNil(t, s.Client())
}

func TestStore_InvalidURL(t *testing.T) {
	_, err := New("invalid://url")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse Redis URL")
}
