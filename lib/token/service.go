package tokenservice

import (
	"crypto/rsa"
	"lariogistic-backend/db"
	refreshtokenstore "lariogistic-backend/lib/token/store"
	apperrors "lariogistic-backend/lib/utils/app-errors"
	initchecker "lariogistic-backend/lib/utils/init-checker"
	"lariogistic-backend/models"
	dbmodels "lariogistic-backend/models/db"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

const (
	Issuer           = "lariogistic"
	refreshTokenType = "refresh"
)

type Provider interface {
	IssueAccess(userID uint, role models.UserRole) (string, error)
	IssueRefresh(userID uint) (string, error)
	VerifyRefresh(token string) (userID uint, err error)
	RevokeAll(userID uint) error
	ParseAccess(token string) (*AccessClaims, error)
	PurgeStale(retain time.Duration) (int64, error)
	PublicKey() *rsa.PublicKey
}

var Instance Provider

// AccessClaims el frontend lee idUsuario e idRol
type AccessClaims struct {
	UserID uint            `json:"idUsuario"`
	RoleID models.UserRole `json:"idRol"`
	jwt.RegisteredClaims
}

// IsValidAccess un refresh token no trae idRol
func (c AccessClaims) IsValidAccess() bool {
	return c.UserID != 0 && c.RoleID.IsValid()
}

type RefreshClaims struct {
	UserID uint   `json:"idUsuario"`
	Type   string `json:"typ"`
	jwt.RegisteredClaims
}

type Options struct {
	PrivateKey *rsa.PrivateKey
	PublicKey  *rsa.PublicKey
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

func NewHandler(opts Options) {
	Instance = NewInstance(opts, refreshtokenstore.NewInstance(db.DB))
}

func NewInstance(opts Options, store refreshtokenstore.Provider) Provider {
	initchecker.CheckInit(
		"private_key", opts.PrivateKey,
		"public_key", opts.PublicKey,
		"refresh_token_store", store,
	)
	return &impl{
		privateKey: opts.PrivateKey,
		publicKey:  opts.PublicKey,
		accessTTL:  opts.AccessTTL,
		refreshTTL: opts.RefreshTTL,
		store:      store,
		now:        time.Now,
	}
}

type impl struct {
	privateKey *rsa.PrivateKey
	publicKey  *rsa.PublicKey
	accessTTL  time.Duration
	refreshTTL time.Duration
	store      refreshtokenstore.Provider
	now        func() time.Time
}

func (i impl) IssueAccess(userID uint, role models.UserRole) (string, error) {
	now := i.now()
	claims := AccessClaims{
		UserID: userID,
		RoleID: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    Issuer,
			Subject:   strconv.FormatUint(uint64(userID), 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.accessTTL)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodRS256, claims).SignedString(i.privateKey)
}

func (i impl) IssueRefresh(userID uint) (string, error) {
	now := i.now()
	expiresAt := now.Add(i.refreshTTL)
	claims := RefreshClaims{
		UserID: userID,
		Type:   refreshTokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    Issuer,
			Subject:   strconv.FormatUint(uint64(userID), 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodRS256, claims).SignedString(i.privateKey)
	if err != nil {
		return "", errors.Wrap(err, "error firmando el refresh token")
	}
	_, err = i.store.Create(dbmodels.RefreshToken{
		UserID:    userID,
		Token:     token,
		ExpiresAt: expiresAt,
		Active:    true,
	})
	if err != nil {
		return "", errors.Wrap(err, "error guardando el refresh token")
	}
	return token, nil
}

func (i impl) VerifyRefresh(token string) (uint, error) {
	claims := &RefreshClaims{}
	_, err := jwt.ParseWithClaims(token, claims, i.keyFunc,
		jwt.WithValidMethods([]string{jwt.SigningMethodRS256.Alg()}),
		jwt.WithIssuer(Issuer),
		jwt.WithTimeFunc(i.now),
	)
	if err != nil || claims.Type != refreshTokenType || claims.UserID == 0 {
		return 0, apperrors.ErrInvalidOrExpiredToken
	}
	rec, err := i.store.FindActive(token, i.now())
	if err != nil {
		return 0, errors.Wrap(err, "error buscando el refresh token")
	}
	if rec == nil || rec.UserID != claims.UserID {
		return 0, apperrors.ErrInvalidOrExpiredToken
	}
	return claims.UserID, nil
}

func (i impl) RevokeAll(userID uint) error {
	count, err := i.store.DeactivateByUser(userID)
	if err != nil {
		return errors.Wrap(err, "error revocando los refresh tokens")
	}
	log.WithField("user_id", userID).WithField("count", count).Debug("refresh tokens revocados")
	return nil
}

func (i impl) ParseAccess(token string) (*AccessClaims, error) {
	claims := &AccessClaims{}
	_, err := jwt.ParseWithClaims(token, claims, i.keyFunc,
		jwt.WithValidMethods([]string{jwt.SigningMethodRS256.Alg()}),
		jwt.WithIssuer(Issuer),
		jwt.WithTimeFunc(i.now),
	)
	if err != nil || !claims.IsValidAccess() {
		return nil, apperrors.ErrInvalidToken
	}
	return claims, nil
}

func (i impl) PurgeStale(retain time.Duration) (int64, error) {
	now := i.now()
	return i.store.DeleteStale(now, now.Add(-retain))
}

func (i impl) PublicKey() *rsa.PublicKey {
	return i.publicKey
}

func (i impl) keyFunc(token *jwt.Token) (interface{}, error) {
	if _, ok := token.Method.(*jwt.SigningMethodRSA); !ok {
		return nil, errors.Errorf("método de firma inesperado %v", token.Header["alg"])
	}
	return i.publicKey, nil
}
