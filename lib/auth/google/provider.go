// Package googleauth intercambio del código de autorización de Google y verificación del id_token.
package googleauth

import (
	"context"
	apperrors "lariogistic-backend/lib/utils/app-errors"
	authapimodels "lariogistic-backend/models/api/auth"
	"strings"
	"time"

	"github.com/MicahParks/keyfunc/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const JwksURL = "https://www.googleapis.com/oauth2/v3/certs"

var issuers = []string{"accounts.google.com", "https://accounts.google.com"}

type Provider interface {
	AuthURL(state string) string
	Exchange(ctx context.Context, code string) (*authapimodels.GoogleIdentity, error)
}

var Instance Provider

type Options struct {
	ClientID     string
	ClientSecret string
	RedirectURI  string
}

// NewHandler sin client id el login con Google queda deshabilitado
func NewHandler(opts Options) {
	if opts.ClientID == "" {
		log.Warn("GOOGLE_CLIENT_ID no configurado, login con Google deshabilitado")
		return
	}
	jwks, err := keyfunc.Get(JwksURL, keyfunc.Options{
		RefreshInterval:   time.Hour,
		RefreshRateLimit:  5 * time.Minute,
		RefreshTimeout:    10 * time.Second,
		RefreshUnknownKID: true,
		RefreshErrorHandler: func(err error) {
			log.WithError(err).Warn("error actualizando las claves públicas de Google")
		},
	})
	if err != nil {
		log.WithError(err).Error("no se pudieron obtener las claves públicas de Google")
		return
	}
	Instance = NewInstance(NewConfig(opts), jwks.Keyfunc)
}

func NewConfig(opts Options) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     opts.ClientID,
		ClientSecret: opts.ClientSecret,
		RedirectURL:  opts.RedirectURI,
		Endpoint:     google.Endpoint,
		Scopes:       []string{"openid", "email", "profile"},
	}
}

func NewInstance(config *oauth2.Config, keyFunc jwt.Keyfunc) Provider {
	return &impl{
		config:  config,
		keyFunc: keyFunc,
	}
}

type impl struct {
	config  *oauth2.Config
	keyFunc jwt.Keyfunc
}

type idTokenClaims struct {
	Email         string `json:"email"`
	EmailVerified bool   `json:"email_verified"`
	Name          string `json:"name"`
	jwt.RegisteredClaims
}

func (i impl) AuthURL(state string) string {
	return i.config.AuthCodeURL(state, oauth2.AccessTypeOnline)
}

func (i impl) Exchange(ctx context.Context, code string) (*authapimodels.GoogleIdentity, error) {
	token, err := i.config.Exchange(ctx, code)
	if err != nil {
		return nil, apperrors.ErrGoogleAuthFailed.WithCause(errors.Wrap(err, "error intercambiando el código de autorización"))
	}
	idToken, ok := token.Extra("id_token").(string)
	if !ok || idToken == "" {
		return nil, apperrors.ErrGoogleAuthFailed.WithCause(errors.New("la respuesta de Google no trae id_token"))
	}
	return i.verify(idToken)
}

func (i impl) verify(idToken string) (*authapimodels.GoogleIdentity, error) {
	claims := idTokenClaims{}
	_, err := jwt.ParseWithClaims(idToken, &claims, i.keyFunc,
		jwt.WithValidMethods([]string{jwt.SigningMethodRS256.Alg()}),
		jwt.WithAudience(i.config.ClientID),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, apperrors.ErrGoogleAuthFailed.WithCause(errors.Wrap(err, "id_token inválido"))
	}
	if !validIssuer(claims.Issuer) {
		return nil, apperrors.ErrGoogleAuthFailed.WithCause(errors.Errorf("emisor desconocido: %s", claims.Issuer))
	}
	if claims.Subject == "" || claims.Email == "" || !claims.EmailVerified {
		return nil, apperrors.ErrGoogleAuthFailed.WithCause(errors.New("id_token sin identidad verificada"))
	}
	name := strings.TrimSpace(claims.Name)
	if name == "" {
		name = claims.Email
	}
	return &authapimodels.GoogleIdentity{
		Subject: claims.Subject,
		Email:   strings.ToLower(claims.Email),
		Name:    name,
	}, nil
}

func validIssuer(issuer string) bool {
	for _, item := range issuers {
		if item == issuer {
			return true
		}
	}
	return false
}
