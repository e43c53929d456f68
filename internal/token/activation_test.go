package token

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestJWTActivator_IssueAndVerify(t *testing.T) {
	a := NewJWTActivator("secret", time.Hour, nil)

	tok, err := a.Issue(42)
	require.NoError(t, err)

	userID, err := a.Verify(tok)
	require.NoError(t, err)
	require.Equal(t, uint64(42), userID)
}

func TestJWTActivator_TokenReusableWithinWindow(t *testing.T) {
	a := NewJWTActivator("secret", time.Hour, nil)

	tok, err := a.Issue(7)
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		userID, err := a.Verify(tok)
		require.NoError(t, err)
		require.Equal(t, uint64(7), userID)
	}
}

func TestJWTActivator_Expired(t *testing.T) {
	issued := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	issuer := NewJWTActivator("secret", time.Hour, fixedClock(issued))
	tok, err := issuer.Issue(1)
	require.NoError(t, err)

	later := NewJWTActivator("secret", time.Hour, fixedClock(issued.Add(2*time.Hour)))
	_, err = later.Verify(tok)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestJWTActivator_WrongSecret(t *testing.T) {
	tok, err := NewJWTActivator("secret", time.Hour, nil).Issue(1)
	require.NoError(t, err)

	_, err = NewJWTActivator("other", time.Hour, nil).Verify(tok)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestJWTActivator_RejectsOtherPurpose(t *testing.T) {
	claims := activationClaims{
		Purpose: "password_reset",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("secret"))
	require.NoError(t, err)

	_, err = NewJWTActivator("secret", time.Hour, nil).Verify(tok)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestJWTActivator_Garbage(t *testing.T) {
	_, err := NewJWTActivator("secret", time.Hour, nil).Verify("not-a-token")
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestUID_RoundTrip(t *testing.T) {
	encoded := EncodeUID(1234)
	require.Equal(t, "MTIzNA", encoded)

	id, err := DecodeUID(encoded)
	require.NoError(t, err)
	require.Equal(t, uint64(1234), id)

	id, err = DecodeUID("MTIzNA==")
	require.NoError(t, err)
	require.Equal(t, uint64(1234), id)
}

func TestUID_Invalid(t *testing.T) {
	_, err := DecodeUID("!!!")
	require.ErrorIs(t, err, ErrInvalidToken)

	// "abc" is valid base64 but not a number
	_, err = DecodeUID("YWJj")
	require.ErrorIs(t, err, ErrInvalidToken)
}
