package web

import (
	"crypto/subtle"
	"errors"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	adminCookie    = "admin_session"
	customerCookie = "customer_session"
)

type AuthConfig struct {
	HMACSecret   []byte
	CookieDomain string
	SecureCookie bool
	TTL          time.Duration
}

// AuthManager mints and verifies the signed session cookies. The admin
// session is created by exchanging the configured panel password; the
// customer session carries only the customer ID set at phone login.
type AuthManager struct {
	cfg           AuthConfig
	adminPassword string
}

func NewAuthManager(secret, adminPassword string, secure bool, domain string, ttl time.Duration) *AuthManager {
	return &AuthManager{
		cfg: AuthConfig{
			HMACSecret:   []byte(secret),
			CookieDomain: domain,
			SecureCookie: secure,
			TTL:          ttl,
		},
		adminPassword: adminPassword,
	}
}

// CheckPassword compares the submitted panel password in constant time.
func (a *AuthManager) CheckPassword(password string) bool {
	return subtle.ConstantTimeCompare([]byte(password), []byte(a.adminPassword)) == 1
}

type sessionClaims struct {
	Role       string `json:"role"`
	CustomerID string `json:"customer_id,omitempty"`
	jwt.RegisteredClaims
}

// MintAdmin issues the admin session cookie.
func (a *AuthManager) MintAdmin(w http.ResponseWriter) error {
	return a.mint(w, adminCookie, sessionClaims{Role: "admin"}, a.cfg.TTL)
}

// MintCustomer issues a customer session cookie bound to the customer ID.
// Customer sessions outlive admin ones; the shop wants returning buyers
// to stay logged in.
func (a *AuthManager) MintCustomer(w http.ResponseWriter, customerID string) error {
	return a.mint(w, customerCookie, sessionClaims{Role: "customer", CustomerID: customerID}, 30*24*time.Hour)
}

func (a *AuthManager) mint(w http.ResponseWriter, name string, claims sessionClaims, ttl time.Duration) error {
	now := time.Now()
	claims.RegisteredClaims = jwt.RegisteredClaims{
		IssuedAt:  jwt.NewNumericDate(now),
		NotBefore: jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		Subject:   claims.Role,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(a.cfg.HMACSecret)
	if err != nil {
		return err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    signed,
		Path:     "/",
		Domain:   a.cfg.CookieDomain,
		MaxAge:   int(ttl.Seconds()),
		HttpOnly: true,
		Secure:   a.cfg.SecureCookie,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// ClearAdmin ends the admin session.
func (a *AuthManager) ClearAdmin(w http.ResponseWriter) { a.clear(w, adminCookie) }

// ClearCustomer ends the customer session.
func (a *AuthManager) ClearCustomer(w http.ResponseWriter) { a.clear(w, customerCookie) }

func (a *AuthManager) clear(w http.ResponseWriter, name string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		Domain:   a.cfg.CookieDomain,
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   a.cfg.SecureCookie,
		SameSite: http.SameSiteLaxMode,
	})
}

// AdminFromRequest verifies the admin cookie.
func (a *AuthManager) AdminFromRequest(r *http.Request) error {
	claims, err := a.parseCookie(r, adminCookie)
	if err != nil {
		return err
	}
	if claims.Role != "admin" {
		return errors.New("not an admin session")
	}
	return nil
}

// CustomerFromRequest returns the customer ID bound to the session cookie.
func (a *AuthManager) CustomerFromRequest(r *http.Request) (string, error) {
	claims, err := a.parseCookie(r, customerCookie)
	if err != nil {
		return "", err
	}
	if claims.Role != "customer" || claims.CustomerID == "" {
		return "", errors.New("not a customer session")
	}
	return claims.CustomerID, nil
}

func (a *AuthManager) parseCookie(r *http.Request, name string) (*sessionClaims, error) {
	c, err := r.Cookie(name)
	if err != nil {
		return nil, errors.New("missing session cookie")
	}
	claims := &sessionClaims{}
	tkn, err := jwt.ParseWithClaims(c.Value, claims, func(t *jwt.Token) (any, error) {
		return a.cfg.HMACSecret, nil
	})
	if err != nil || !tkn.Valid {
		return nil, errors.New("invalid session token")
	}
	return claims, nil
}
