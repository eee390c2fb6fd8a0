package identity

import (
	"testing"

	"github.com/haierkeys/fast-note-offline-client/pkg/code"
	xerrors "github.com/haierkeys/fast-note-offline-client/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignAndParseToken(t *testing.T) {
	token, err := SignToken(42, "unit-secret")
	require.NoError(t, err)

	p, err := New(token, "unit-secret")
	require.NoError(t, err)
	assert.Equal(t, int64(42), p.UID())

	got, err := p.Token()
	require.NoError(t, err)
	assert.Equal(t, token, got)
	assert.NotEmpty(t, p.ClientName())
}

func TestParseWithWrongSecret(t *testing.T) {
	token, err := SignToken(42, "right-secret")
	require.NoError(t, err)

	_, err = New(token, "wrong-secret")
	require.Error(t, err)
	assert.True(t, xerrors.IsCode(err, code.ErrorAuthToken))
}

func TestParseUnverifiedWhenNoSecret(t *testing.T) {
	token, err := SignToken(7, "whatever")
	require.NoError(t, err)

	p, err := New(token, "")
	require.NoError(t, err)
	assert.Equal(t, int64(7), p.UID())
}

func TestEmptyTokenRunsLocalOnly(t *testing.T) {
	p, err := New("", "")
	require.NoError(t, err)
	assert.Equal(t, int64(0), p.UID())
	assert.NotEmpty(t, p.ClientName())

	_, err = p.Token()
	require.Error(t, err)
	assert.True(t, xerrors.IsCode(err, code.ErrorAuthToken))
}

func TestParseGarbageToken(t *testing.T) {
	_, err := New("not-a-jwt", "secret")
	require.Error(t, err)
	assert.True(t, xerrors.IsCode(err, code.ErrorAuthToken))
}
