package nonce

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueAndValidate(t *testing.T) {
	issuer := NewIssuer("test-secret")

	nonce, session, err := issuer.Issue("")
	require.NoError(t, err)
	assert.NotEmpty(t, nonce)
	assert.NotEmpty(t, session)

	got, err := issuer.Validate(nonce)
	require.NoError(t, err)
	assert.Equal(t, session, got)
}

func TestIssueKeepsExistingSession(t *testing.T) {
	issuer := NewIssuer("test-secret")

	nonce, session, err := issuer.Issue("widget-session-1")
	require.NoError(t, err)
	assert.Equal(t, "widget-session-1", session)

	got, err := issuer.Validate(nonce)
	require.NoError(t, err)
	assert.Equal(t, "widget-session-1", got)
}

func TestValidateRejectsTamperedNonce(t *testing.T) {
	issuer := NewIssuer("test-secret")
	other := NewIssuer("different-secret")

	nonce, _, err := other.Issue("s1")
	require.NoError(t, err)

	_, err = issuer.Validate(nonce)
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestValidateRejectsExpiredNonce(t *testing.T) {
	issuer := NewIssuer("test-secret")

	nonce, _, err := issuer.Issue("s1")
	require.NoError(t, err)

	issuer.now = func() time.Time { return time.Now().Add(Validity + time.Minute) }
	_, err = issuer.Validate(nonce)
	assert.ErrorIs(t, err, ErrExpired)
}

func TestValidateRejectsGarbage(t *testing.T) {
	issuer := NewIssuer("test-secret")
	_, err := issuer.Validate("not-a-token")
	assert.ErrorIs(t, err, ErrInvalid)
}
