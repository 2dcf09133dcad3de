package authhandler

import (
	"context"
	"lariogistic-backend/db"
	googleauth "lariogistic-backend/lib/auth/google"
	"lariogistic-backend/lib/metrics"
	"lariogistic-backend/lib/rbac"
	tokenservice "lariogistic-backend/lib/token"
	usersstore "lariogistic-backend/lib/users/store"
	apperrors "lariogistic-backend/lib/utils/app-errors"
	authutils "lariogistic-backend/lib/utils/auth-utils"
	initchecker "lariogistic-backend/lib/utils/init-checker"
	"lariogistic-backend/models"
	authapimodels "lariogistic-backend/models/api/auth"
	usersapimodels "lariogistic-backend/models/api/users"
	dbmodels "lariogistic-backend/models/db"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const (
	methodPassword = "password"
	methodGoogle   = "google"
	methodRefresh  = "refresh"
)

type Provider interface {
	LoginWithPassword(request authapimodels.LoginRequest) (*authapimodels.Session, error)
	LoginWithGoogle(identity authapimodels.GoogleIdentity) (*authapimodels.Session, error)
	HandleGoogleCode(ctx context.Context, code string) (*authapimodels.Session, error)
	GoogleAuthURL(state string) (string, error)
	RefreshToken(request authapimodels.RefreshRequest) (*authapimodels.RefreshResponse, error)
	Me(actor models.Actor) (*authapimodels.MeView, error)
	Logout(actor models.Actor) error
	ResolveActor(userID uint) (models.Actor, error)
}

var Instance Provider

func NewHandler() {
	initchecker.CheckInit(
		"db", db.DB,
		"tokenservice", tokenservice.Instance,
		"rbac", rbac.Instance,
	)
	Instance = impl{
		store:  usersstore.NewInstance(db.DB),
		tokens: tokenservice.Instance,
		google: googleauth.Instance,
		rbac:   rbac.Instance,
	}
}

type impl struct {
	store  usersstore.Provider
	tokens tokenservice.Provider
	google googleauth.Provider // nil si Google no está configurado
	rbac   rbac.Provider
}

func (i impl) LoginWithPassword(request authapimodels.LoginRequest) (*authapimodels.Session, error) {
	if err := request.Validate(); err != nil {
		return nil, err
	}
	rec, err := i.store.FindByEmail(request.NormalizedEmail())
	if err != nil {
		return nil, errors.Wrap(err, "error obteniendo el usuario")
	}
	// mismo error para todos los casos, no se revela cuál falló
	if rec == nil || !rec.IsActive() || !rec.HasPassword() || !authutils.CheckPassword(*rec.PasswordHash, request.Password) {
		metrics.AuthAttempt(methodPassword, false)
		log.WithField("email", request.NormalizedEmail()).Info("intento de login fallido")
		return nil, apperrors.ErrInvalidCredentials
	}
	session, err := i.newSession(*rec)
	if err != nil {
		return nil, err
	}
	metrics.AuthAttempt(methodPassword, true)
	return session, nil
}

// LoginWithGoogle solo cuentas creadas previamente por un administrador
func (i impl) LoginWithGoogle(identity authapimodels.GoogleIdentity) (*authapimodels.Session, error) {
	session, err := i.loginWithGoogle(identity)
	metrics.AuthAttempt(methodGoogle, err == nil)
	return session, err
}

func (i impl) loginWithGoogle(identity authapimodels.GoogleIdentity) (*authapimodels.Session, error) {
	if identity.Subject == "" || identity.Email == "" {
		return nil, apperrors.ErrGoogleAuthFailed
	}
	rec, err := i.store.FindByEmail(identity.Email)
	if err != nil {
		return nil, errors.Wrap(err, "error obteniendo el usuario")
	}
	if rec == nil {
		log.WithField("email", identity.Email).Info("login con Google de un correo no registrado")
		return nil, apperrors.ErrUserNotRegistered
	}
	if !rec.IsActive() {
		return nil, apperrors.ErrInactiveUser
	}
	switch {
	case rec.GoogleID == nil || *rec.GoogleID == "":
		subject := identity.Subject
		err = i.store.Update(rec.ID, map[string]interface{}{"google_id": &subject})
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperrors.ErrProviderMismatch
		}
		if err != nil {
			return nil, errors.Wrap(err, "error vinculando la cuenta de Google")
		}
		rec.GoogleID = &subject
		log.WithField("user_id", rec.ID).Info("cuenta vinculada con Google")
	case *rec.GoogleID != identity.Subject:
		return nil, apperrors.ErrProviderMismatch
	}
	return i.newSession(*rec)
}

func (i impl) HandleGoogleCode(ctx context.Context, code string) (*authapimodels.Session, error) {
	if err := (authapimodels.GoogleCodeRequest{Code: code}).Validate(); err != nil {
		return nil, err
	}
	if i.google == nil {
		return nil, apperrors.ErrGoogleAuthFailed
	}
	identity, err := i.google.Exchange(ctx, code)
	if err != nil {
		metrics.AuthAttempt(methodGoogle, false)
		log.WithError(err).Warn("error autenticando con Google")
		return nil, err
	}
	return i.LoginWithGoogle(*identity)
}

func (i impl) GoogleAuthURL(state string) (string, error) {
	if i.google == nil {
		return "", apperrors.ErrGoogleAuthFailed
	}
	return i.google.AuthURL(state), nil
}

// RefreshToken emite un nuevo token de acceso, el de refresco no rota
func (i impl) RefreshToken(request authapimodels.RefreshRequest) (*authapimodels.RefreshResponse, error) {
	if err := request.Validate(); err != nil {
		return nil, err
	}
	userID, err := i.tokens.VerifyRefresh(request.RefreshToken)
	if err != nil {
		metrics.AuthAttempt(methodRefresh, false)
		return nil, err
	}
	rec, err := i.store.GetByID(userID)
	if err != nil {
		return nil, errors.Wrap(err, "error obteniendo el usuario")
	}
	if rec == nil || !rec.IsActive() {
		metrics.AuthAttempt(methodRefresh, false)
		return nil, apperrors.ErrInvalidOrInactiveUser
	}
	accessToken, err := i.tokens.IssueAccess(rec.ID, rec.Role)
	if err != nil {
		return nil, err
	}
	metrics.AuthAttempt(methodRefresh, true)
	return &authapimodels.RefreshResponse{
		AccessToken: accessToken,
		User:        usersapimodels.UserConvert(*rec),
	}, nil
}

func (i impl) Me(actor models.Actor) (*authapimodels.MeView, error) {
	rec, err := i.store.GetByID(actor.ID)
	if err != nil {
		return nil, errors.Wrap(err, "error obteniendo el usuario")
	}
	if rec == nil {
		return nil, apperrors.ErrUserNotFound
	}
	return &authapimodels.MeView{
		UserView:    usersapimodels.UserConvert(*rec),
		Permissions: i.rbac.GetPermissions(rec.Role),
	}, nil
}

func (i impl) Logout(actor models.Actor) error {
	err := i.tokens.RevokeAll(actor.ID)
	if err != nil {
		log.WithError(err).WithField("user_id", actor.ID).Error("error cerrando la sesión")
		return err
	}
	return nil
}

// ResolveActor rol y departamento se leen de la base, no del token
func (i impl) ResolveActor(userID uint) (models.Actor, error) {
	rec, err := i.store.GetByID(userID)
	if err != nil {
		return models.Actor{}, errors.Wrap(err, "error obteniendo el usuario")
	}
	if rec == nil || !rec.IsActive() {
		return models.Actor{}, apperrors.ErrInvalidOrInactiveUser
	}
	return rec.ToActor(), nil
}

func (i impl) newSession(rec dbmodels.User) (*authapimodels.Session, error) {
	accessToken, err := i.tokens.IssueAccess(rec.ID, rec.Role)
	if err != nil {
		return nil, err
	}
	refreshToken, err := i.tokens.IssueRefresh(rec.ID)
	if err != nil {
		return nil, err
	}
	log.WithField("user_id", rec.ID).Debug("sesión iniciada")
	return &authapimodels.Session{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         usersapimodels.UserConvert(rec),
	}, nil
}
