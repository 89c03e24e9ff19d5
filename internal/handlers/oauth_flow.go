package handlers

import (
	"context"
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/big"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/oauth2"

	"github.com/forhay123/haybee-edu-sub005/internal/security"
	"github.com/forhay123/haybee-edu-sub005/internal/service"
)

const (
	googleIssuer     = "https://accounts.google.com"
	googleIssuerBare = "accounts.google.com"
	googleCertsURL   = "https://www.googleapis.com/oauth2/v3/certs"
)

// OAuthHandler runs the Google sign-in flow for staff accounts. The
// id_token is verified locally against Google's published JWKS rather
// than trusting the token endpoint response alone.
type OAuthHandler struct {
	authService     *service.AuthService
	csrf            *security.CSRFGenerator
	config          *oauth2.Config
	redirectBaseURL string
}

// NewOAuthHandler creates a new OAuth handler
func NewOAuthHandler(authService *service.AuthService, csrf *security.CSRFGenerator, config *oauth2.Config, redirectBaseURL string) *OAuthHandler {
	return &OAuthHandler{
		authService:     authService,
		csrf:            csrf,
		config:          config,
		redirectBaseURL: redirectBaseURL,
	}
}

// StartOAuth initiates the Google OAuth flow
func (h *OAuthHandler) StartOAuth(w http.ResponseWriter, r *http.Request) {
	if h.config == nil || h.config.ClientID == "" || h.config.ClientSecret == "" {
		respondWithError(w, http.StatusBadRequest, "OAuth provider not configured", "", nil)
		return
	}

	state := security.GenerateSessionID()
	nonce := security.GenerateSessionID()

	h.setTempCookie(w, r, "oauth_state", state, 10*time.Minute)
	h.setTempCookie(w, r, "oauth_nonce", nonce, 10*time.Minute)

	config := *h.config
	config.RedirectURL = h.oauthRedirectURL(r)

	authURL := config.AuthCodeURL(state,
		oauth2.AccessTypeOnline,
		oauth2.SetAuthURLParam("nonce", nonce),
	)
	http.Redirect(w, r, authURL, http.StatusFound)
}

// OAuthCallback handles the Google OAuth callback
func (h *OAuthHandler) OAuthCallback(w http.ResponseWriter, r *http.Request) {
	if h.config == nil || h.config.ClientID == "" || h.config.ClientSecret == "" {
		respondWithError(w, http.StatusBadRequest, "OAuth provider not configured", "", nil)
		return
	}

	state := r.URL.Query().Get("state")
	code := r.URL.Query().Get("code")
	if code == "" {
		respondWithError(w, http.StatusBadRequest, "Missing authorization code", "", nil)
		return
	}

	stateCookie, err := r.Cookie("oauth_state")
	if err != nil || stateCookie.Value == "" || stateCookie.Value != state {
		respondWithError(w, http.StatusBadRequest, "Invalid OAuth state", "", nil)
		return
	}

	nonce := ""
	if cookie, err := r.Cookie("oauth_nonce"); err == nil {
		nonce = cookie.Value
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	config := *h.config
	config.RedirectURL = h.oauthRedirectURL(r)

	token, err := config.Exchange(ctx, code)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Failed to exchange OAuth code", "OAuth exchange failed", err)
		return
	}

	idToken, _ := token.Extra("id_token").(string)
	if idToken == "" {
		respondWithError(w, http.StatusBadRequest, "Missing Google id_token", "", nil)
		return
	}

	claims, err := parseGoogleIDToken(ctx, idToken, config.ClientID, nonce)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error(), "Google id_token rejected", err)
		return
	}

	h.clearTempCookie(w, r, "oauth_state")
	h.clearTempCookie(w, r, "oauth_nonce")

	session, user, err := h.authService.OAuthLogin("google", claims.Subject, claims.Email, claims.Name)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error(), "OAuth login failed", err)
		return
	}

	csrfToken, err := h.csrf.GenerateToken(session.ID)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "CSRF token generation failed", err)
		return
	}

	http.SetCookie(w, security.CreateSessionCookie(r, SessionCookieName, session.ID, session.ExpiresAt))
	respondJSON(w, http.StatusOK, loginResponse{
		User:      toUserResponse(user),
		CSRFToken: csrfToken,
	})
}

func (h *OAuthHandler) oauthRedirectURL(r *http.Request) string {
	baseURL := strings.TrimSpace(h.redirectBaseURL)
	if baseURL == "" {
		scheme := "http"
		if security.IsSecureRequest(r) {
			scheme = "https"
		}
		baseURL = fmt.Sprintf("%s://%s", scheme, r.Host)
	}
	return strings.TrimRight(baseURL, "/") + "/auth/google/callback"
}

func (h *OAuthHandler) setTempCookie(w http.ResponseWriter, r *http.Request, name, value string, ttl time.Duration) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		Secure:   security.IsSecureRequest(r),
		SameSite: http.SameSiteLaxMode,
		Expires:  time.Now().Add(ttl),
		MaxAge:   int(ttl.Seconds()),
	})
}

func (h *OAuthHandler) clearTempCookie(w http.ResponseWriter, r *http.Request, name string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   security.IsSecureRequest(r),
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
	})
}

type googleTokenClaims struct {
	jwt.RegisteredClaims
	Email         string `json:"email"`
	EmailVerified bool   `json:"email_verified"`
	Name          string `json:"name"`
	Nonce         string `json:"nonce"`
}

type googleJWKS struct {
	Keys []googleJWK `json:"keys"`
}

type googleJWK struct {
	Kid string `json:"kid"`
	Kty string `json:"kty"`
	Alg string `json:"alg"`
	N   string `json:"n"`
	E   string `json:"e"`
}

type googleParsedClaims struct {
	Subject string
	Email   string
	Name    string
}

func parseGoogleIDToken(ctx context.Context, idToken, clientID, nonce string) (googleParsedClaims, error) {
	parser := jwt.NewParser(jwt.WithValidMethods([]string{"RS256"}))
	claims := &googleTokenClaims{}

	parsedToken, err := parser.ParseWithClaims(idToken, claims, func(token *jwt.Token) (interface{}, error) {
		kid, _ := token.Header["kid"].(string)
		if kid == "" {
			return nil, errors.New("missing key id")
		}
		return fetchGooglePublicKey(ctx, kid)
	})
	if err != nil || !parsedToken.Valid {
		return googleParsedClaims{}, errors.New("invalid Google token")
	}

	if claims.Issuer != googleIssuer && claims.Issuer != googleIssuerBare {
		return googleParsedClaims{}, errors.New("invalid Google issuer")
	}
	if !audienceContains(claims.Audience, clientID) {
		return googleParsedClaims{}, errors.New("invalid Google audience")
	}
	if nonce != "" && claims.Nonce != "" && claims.Nonce != nonce {
		return googleParsedClaims{}, errors.New("invalid Google nonce")
	}
	if claims.Email == "" || !claims.EmailVerified {
		return googleParsedClaims{}, errors.New("Google email not verified")
	}

	return googleParsedClaims{
		Subject: claims.Subject,
		Email:   claims.Email,
		Name:    claims.Name,
	}, nil
}

func audienceContains(audience jwt.ClaimStrings, value string) bool {
	for _, entry := range audience {
		if entry == value {
			return true
		}
	}
	return false
}

func fetchGooglePublicKey(ctx context.Context, kid string) (*rsa.PublicKey, error) {
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, googleCertsURL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := http.DefaultClient.Do(request)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.New("failed to fetch Google public keys")
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	var jwks googleJWKS
	if err := json.Unmarshal(body, &jwks); err != nil {
		return nil, err
	}

	for _, key := range jwks.Keys {
		if key.Kid != kid {
			continue
		}
		if key.Kty != "RSA" {
			return nil, errors.New("unexpected key type")
		}
		modulusBytes, err := base64.RawURLEncoding.DecodeString(key.N)
		if err != nil {
			return nil, err
		}
		exponentBytes, err := base64.RawURLEncoding.DecodeString(key.E)
		if err != nil {
			return nil, err
		}
		exponent := 0
		for _, b := range exponentBytes {
			exponent = exponent*256 + int(b)
		}
		return &rsa.PublicKey{
			N: new(big.Int).SetBytes(modulusBytes),
			E: exponent,
		}, nil
	}

	return nil, errors.New("Google public key not found")
}
