package googleauth

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"encoding/json"
	apperrors "lariogistic-backend/lib/utils/app-errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

const clientID = "lariogistic-web.apps.googleusercontent.com"

func newKey(t *testing.T) *rsa.PrivateKey {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	return key
}

func signIDToken(t *testing.T, key *rsa.PrivateKey, claims idTokenClaims) string {
	token, err := jwt.NewWithClaims(jwt.SigningMethodRS256, claims).SignedString(key)
	require.NoError(t, err)
	return token
}

func validClaims() idTokenClaims {
	return idTokenClaims{
		Email:         "Ernesto@Example.com",
		EmailVerified: true,
		Name:          "Ernesto",
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "https://accounts.google.com",
			Subject:   "google-sub-1",
			Audience:  jwt.ClaimStrings{clientID},
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
}

func newProvider(key *rsa.PrivateKey, tokenURL string) impl {
	return impl{
		config: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: "secreto",
			RedirectURL:  "http://localhost:3001/api/v1/auth/google/callback",
			Endpoint:     oauth2.Endpoint{AuthURL: "https://accounts.example.com/auth", TokenURL: tokenURL},
			Scopes:       []string{"openid", "email", "profile"},
		},
		keyFunc: func(*jwt.Token) (interface{}, error) {
			return &key.PublicKey, nil
		},
	}
}

func TestVerify(t *testing.T) {
	key := newKey(t)
	provider := newProvider(key, "")

	t.Run("valid token", func(t *testing.T) {
		identity, err := provider.verify(signIDToken(t, key, validClaims()))
		require.NoError(t, err)
		require.Equal(t, "google-sub-1", identity.Subject)
		require.Equal(t, "ernesto@example.com", identity.Email)
		require.Equal(t, "Ernesto", identity.Name)
	})
	t.Run("other audience", func(t *testing.T) {
		claims := validClaims()
		claims.Audience = jwt.ClaimStrings{"otra-app"}
		_, err := provider.verify(signIDToken(t, key, claims))
		require.Equal(t, apperrors.KindUnauthorized, apperrors.KindOf(err))
	})
	t.Run("other issuer", func(t *testing.T) {
		claims := validClaims()
		claims.Issuer = "https://evil.example.com"
		_, err := provider.verify(signIDToken(t, key, claims))
		require.Equal(t, apperrors.KindUnauthorized, apperrors.KindOf(err))
	})
	t.Run("expired", func(t *testing.T) {
		claims := validClaims()
		claims.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Minute))
		_, err := provider.verify(signIDToken(t, key, claims))
		require.Equal(t, apperrors.KindUnauthorized, apperrors.KindOf(err))
	})
	t.Run("email not verified", func(t *testing.T) {
		claims := validClaims()
		claims.EmailVerified = false
		_, err := provider.verify(signIDToken(t, key, claims))
		require.Equal(t, apperrors.KindUnauthorized, apperrors.KindOf(err))
	})
	t.Run("signed by another key", func(t *testing.T) {
		_, err := provider.verify(signIDToken(t, newKey(t), validClaims()))
		require.Equal(t, apperrors.KindUnauthorized, apperrors.KindOf(err))
	})
}

func TestExchange(t *testing.T) {
	key := newKey(t)
	idToken := signIDToken(t, key, validClaims())
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		if r.Form.Get("code") != "codigo-valido" {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error":"invalid_grant"}`))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"access_token": "acceso",
			"token_type":   "Bearer",
			"expires_in":   3600,
			"id_token":     idToken,
		})
	}))
	defer srv.Close()
	provider := newProvider(key, srv.URL)

	identity, err := provider.Exchange(context.Background(), "codigo-valido")
	require.NoError(t, err)
	require.Equal(t, "google-sub-1", identity.Subject)

	_, err = provider.Exchange(context.Background(), "codigo-vencido")
	require.True(t, apperrors.HasCode(err, "Unauthorized"))
}

func TestAuthURL(t *testing.T) {
	provider := newProvider(newKey(t), "")
	url := provider.AuthURL("estado-123")
	require.Contains(t, url, "state=estado-123")
	require.Contains(t, url, "client_id="+clientID)
}
