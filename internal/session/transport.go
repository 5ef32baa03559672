package session

import (
	"net/http"

	"github.com/google/uuid"
)

// TabCookieName identifies a client tab when tokens live server side.
const TabCookieName = "pah_tab"

// Binder hands out the Storage belonging to the client behind a request,
// together with an identifier of that client slot.
type Binder interface {
	Bind(w http.ResponseWriter, r *http.Request) (Storage, string)
}

// CookieBinder keeps the token in a signed cookie on the client.
type CookieBinder struct {
	signer *Signer
	secure bool
}

func NewCookieBinder(signer *Signer, secure bool) *CookieBinder {
	return &CookieBinder{signer: signer, secure: secure}
}

// Bind identifies the client by its token cookie; clients without one share
// the empty id.
func (b *CookieBinder) Bind(w http.ResponseWriter, r *http.Request) (Storage, string) {
	var tabID string
	if c, err := r.Cookie(StorageKey); err == nil {
		tabID = c.Value
	}
	return NewCookieStorage(w, r, b.signer, b.secure), tabID
}

// TabBinder keeps tokens in a shared backend, keyed by a random tab id cookie.
type TabBinder struct {
	backend Storage
	secure  bool
}

func NewTabBinder(backend Storage, secure bool) *TabBinder {
	return &TabBinder{backend: backend, secure: secure}
}

func (b *TabBinder) Bind(w http.ResponseWriter, r *http.Request) (Storage, string) {
	tabID := tabIDFromRequest(r)
	if tabID == "" {
		tabID = uuid.NewString()
		http.SetCookie(w, &http.Cookie{
			Name:     TabCookieName,
			Value:    tabID,
			Path:     "/",
			HttpOnly: true,
			Secure:   b.secure,
			SameSite: http.SameSiteLaxMode,
		})
	}
	return TabStorage(b.backend, tabID), tabID
}

func tabIDFromRequest(r *http.Request) string {
	c, err := r.Cookie(TabCookieName)
	if err != nil {
		return ""
	}
	if _, err := uuid.Parse(c.Value); err != nil {
		return ""
	}
	return c.Value
}
