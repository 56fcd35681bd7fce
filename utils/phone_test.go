package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizePhone(t *testing.T) {
	got, err := NormalizePhone("98765 43210", "IN")
	require.NoError(t, err)
	assert.Equal(t, "+919876543210", got)

	got, err = NormalizePhone("+91 98765-43210", "IN")
	require.NoError(t, err)
	assert.Equal(t, "+919876543210", got)

	got, err = NormalizePhone("   ", "IN")
	require.NoError(t, err)
	assert.Empty(t, got)

	_, err = NormalizePhone("12", "IN")
	assert.Error(t, err)

	_, err = NormalizePhone("not a phone", "IN")
	assert.Error(t, err)
}
