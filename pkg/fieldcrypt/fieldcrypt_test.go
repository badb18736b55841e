package fieldcrypt

import (
	"bytes"
	"encoding/base64"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testKey() string {
	return base64.StdEncoding.EncodeToString(bytes.Repeat([]byte{7}, 32))
}

func TestAEAD_RoundTrip(t *testing.T) {
	s, err := New(testKey())
	require.NoError(t, err)
	assert.True(t, s.Enabled())

	sealed, err := s.Seal("123412341234")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(sealed, prefix))
	assert.NotContains(t, sealed, "123412341234")

	plain, err := s.Open(sealed)
	require.NoError(t, err)
	assert.Equal(t, "123412341234", plain)
}

func TestAEAD_FreshNoncePerValue(t *testing.T) {
	s, err := New(testKey())
	require.NoError(t, err)

	a, err := s.Seal("same")
	require.NoError(t, err)
	b, err := s.Seal("same")
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestAEAD_TamperedValueRejected(t *testing.T) {
	s, err := New(testKey())
	require.NoError(t, err)

	sealed, err := s.Seal("address")
	require.NoError(t, err)

	raw, err := base64.RawStdEncoding.DecodeString(strings.TrimPrefix(sealed, prefix))
	require.NoError(t, err)
	raw[len(raw)-1] ^= 0xff

	_, err = s.Open(prefix + base64.RawStdEncoding.EncodeToString(raw))
	assert.ErrorIs(t, err, ErrAuthenticationTag)

	_, err = s.Open(prefix + "!!")
	assert.ErrorIs(t, err, ErrMalformedSealed)
}

func TestAEAD_LegacyPlaintextPassesThrough(t *testing.T) {
	s, err := New(testKey())
	require.NoError(t, err)

	plain, err := s.Open("12 MG Road")
	require.NoError(t, err)
	assert.Equal(t, "12 MG Road", plain)
}

func TestNew_KeyValidation(t *testing.T) {
	s, err := New("")
	require.NoError(t, err)
	assert.False(t, s.Enabled())

	_, err = New(base64.StdEncoding.EncodeToString([]byte("short")))
	assert.ErrorIs(t, err, ErrInvalidKey)

	_, err = New("not base64 !")
	assert.Error(t, err)
}

func TestPlaintext(t *testing.T) {
	p := Plaintext{}

	sealed, err := p.Seal("x")
	require.NoError(t, err)
	assert.Equal(t, "v0:x", sealed)

	plain, err := p.Open(sealed)
	require.NoError(t, err)
	assert.Equal(t, "x", plain)

	legacy, err := p.Open("12 MG Road")
	require.NoError(t, err)
	assert.Equal(t, "12 MG Road", legacy)

	_, err = p.Open(prefix + "abc")
	assert.ErrorIs(t, err, ErrMalformedSealed)
}

func TestPlaintext_ValuesThatLookSealedRoundTrip(t *testing.T) {
	for _, value := range []string{"v1: Block C, 12 MG Road", "v0:already", "v1:"} {
		sealed, err := Plaintext{}.Seal(value)
		require.NoError(t, err)

		plain, err := Plaintext{}.Open(sealed)
		require.NoError(t, err, value)
		assert.Equal(t, value, plain)
	}
}

func TestAEAD_OpensValuesWrittenWithoutKey(t *testing.T) {
	s, err := New(testKey())
	require.NoError(t, err)

	stored, err := Plaintext{}.Seal("v1: Block C")
	require.NoError(t, err)

	plain, err := s.Open(stored)
	require.NoError(t, err)
	assert.Equal(t, "v1: Block C", plain)
}

func TestAEAD_SealedValueThatLooksSealedRoundTrips(t *testing.T) {
	s, err := New(testKey())
	require.NoError(t, err)

	sealed, err := s.Seal("v1: Block C")
	require.NoError(t, err)

	plain, err := s.Open(sealed)
	require.NoError(t, err)
	assert.Equal(t, "v1: Block C", plain)
}
