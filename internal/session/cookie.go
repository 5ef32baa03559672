package session

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Signer wraps stored values in an HS256 JWT so a client-held cookie cannot be
// edited. The token carries no exp claim; the session's own login time governs
// expiry.
type Signer struct {
	secret []byte
	now    func() time.Time
}

func NewSigner(secret string) *Signer {
	return &Signer{secret: []byte(secret), now: time.Now}
}

func (s *Signer) Seal(value string) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"v":   value,
		"iat": s.now().Unix(),
	})
	return token.SignedString(s.secret)
}

func (s *Signer) Open(sealed string) (string, error) {
	parsed, err := jwt.Parse(sealed, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !parsed.Valid {
		return "", ErrTampered
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return "", ErrTampered
	}
	value, ok := claims["v"].(string)
	if !ok {
		return "", ErrTampered
	}
	return value, nil
}

// CookieStorage keeps each value in its own browser-session cookie (no
// Max-Age), so it is gone when the browser session ends. It is bound to a
// single request/response pair.
type CookieStorage struct {
	w       http.ResponseWriter
	r       *http.Request
	signer  *Signer
	secure  bool
	pending map[string]*string
}

func NewCookieStorage(w http.ResponseWriter, r *http.Request, signer *Signer, secure bool) *CookieStorage {
	return &CookieStorage{w: w, r: r, signer: signer, secure: secure, pending: map[string]*string{}}
}

func (s *CookieStorage) Get(_ context.Context, key string) (string, error) {
	if v, ok := s.pending[key]; ok {
		if v == nil {
			return "", ErrNoValue
		}
		return *v, nil
	}

	c, err := s.r.Cookie(key)
	if errors.Is(err, http.ErrNoCookie) || (err == nil && c.Value == "") {
		return "", ErrNoValue
	}
	if err != nil {
		return "", ErrTampered
	}

	return s.signer.Open(c.Value)
}

func (s *CookieStorage) Set(_ context.Context, key string, value string) error {
	sealed, err := s.signer.Seal(value)
	if err != nil {
		return fmt.Errorf("sign cookie: %w", err)
	}

	http.SetCookie(s.w, s.cookie(key, sealed, 0))
	s.pending[key] = &value
	return nil
}

func (s *CookieStorage) Remove(_ context.Context, key string) error {
	http.SetCookie(s.w, s.cookie(key, "", -1))
	s.pending[key] = nil
	return nil
}

func (s *CookieStorage) cookie(name string, value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
	}
}
