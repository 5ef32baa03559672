package session

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"pah-access/internal/model"
)

func TestSigner_SealOpen(t *testing.T) {
	t.Parallel()

	signer := NewSigner("test-secret")
	sealed, err := signer.Seal(`{"username":"bob"}`)
	require.NoError(t, err)

	value, err := signer.Open(sealed)
	require.NoError(t, err)
	require.Equal(t, `{"username":"bob"}`, value)

	_, err = NewSigner("other-secret").Open(sealed)
	require.ErrorIs(t, err, ErrTampered)

	_, err = signer.Open(sealed + "x")
	require.ErrorIs(t, err, ErrTampered)

	_, err = signer.Open("not-a-token")
	require.ErrorIs(t, err, ErrTampered)
}

func TestSigner_RejectsUnsignedToken(t *testing.T) {
	t.Parallel()

	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{"v": "x"}).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = NewSigner("test-secret").Open(unsigned)
	require.ErrorIs(t, err, ErrTampered)
}

func TestCookieStorage_RoundTripAcrossRequests(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	signer := NewSigner("test-secret")

	// first request: login writes the cookie
	rec := httptest.NewRecorder()
	st := NewCookieStorage(rec, httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", nil), signer, true)
	require.NoError(t, st.Set(ctx, StorageKey, "token-text"))

	got, err := st.Get(ctx, StorageKey)
	require.NoError(t, err)
	require.Equal(t, "token-text", got)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	require.Equal(t, StorageKey, cookies[0].Name)
	require.True(t, cookies[0].HttpOnly)
	require.True(t, cookies[0].Secure)
	require.Zero(t, cookies[0].MaxAge)

	// second request carries it back
	req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/session", nil)
	req.AddCookie(cookies[0])
	rec2 := httptest.NewRecorder()
	st2 := NewCookieStorage(rec2, req, signer, true)

	got, err = st2.Get(ctx, StorageKey)
	require.NoError(t, err)
	require.Equal(t, "token-text", got)

	require.NoError(t, st2.Remove(ctx, StorageKey))
	_, err = st2.Get(ctx, StorageKey)
	require.ErrorIs(t, err, ErrNoValue)

	cleared := rec2.Result().Cookies()
	require.Len(t, cleared, 1)
	require.Less(t, cleared[0].MaxAge, 0)
}

func TestCookieStorage_TamperedCookieRestoresNoSession(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	m := NewManager(24 * time.Hour)

	forged, err := NewSigner("attacker").Seal(`{"username":"mallory","name":"M","role":"admin","loginTime":"` +
		time.Now().UTC().Format(time.RFC3339) + `"}`)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/session", nil)
	req.AddCookie(&http.Cookie{Name: StorageKey, Value: forged})
	rec := httptest.NewRecorder()
	st := NewCookieStorage(rec, req, NewSigner("test-secret"), false)

	tok, ok := m.Restore(ctx, st)
	require.False(t, ok)
	require.Equal(t, model.Session{}, tok)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	require.Less(t, cookies[0].MaxAge, 0, "tampered cookie is cleared")
}

func TestCookieBinder_Bind(t *testing.T) {
	t.Parallel()

	binder := NewCookieBinder(NewSigner("test-secret"), false)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	st, tabID := binder.Bind(httptest.NewRecorder(), req)
	require.NotNil(t, st)
	require.Empty(t, tabID)

	req.AddCookie(&http.Cookie{Name: StorageKey, Value: "abc"})
	_, tabID = binder.Bind(httptest.NewRecorder(), req)
	require.Equal(t, "abc", tabID)
}
