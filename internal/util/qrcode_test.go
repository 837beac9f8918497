package util

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQRCodeDataURI(t *testing.T) {
	uri, err := QRCodeDataURI("ORDER-42", 120)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(uri, "data:image/png;base64,"))
}

func TestEnsureDataURI(t *testing.T) {
	assert.Equal(t, "", EnsureDataURI("", ""))
	assert.Equal(t, "data:image/png;base64,abc", EnsureDataURI("abc", ""))
	assert.Equal(t, "data:image/jpeg;base64,abc", EnsureDataURI("abc", "image/jpeg"))
	assert.Equal(t, "data:image/png;base64,xyz", EnsureDataURI("data:image/png;base64,xyz", "image/jpeg"))
}
