package middleware

import (
	"crypto/rsa"
	"lariogistic-backend/controllers"
	authhandler "lariogistic-backend/lib/auth"
	tokenservice "lariogistic-backend/lib/token"
	apperrors "lariogistic-backend/lib/utils/app-errors"
	authutils "lariogistic-backend/lib/utils/auth-utils"
	"lariogistic-backend/models"
	"strings"

	jwtware "github.com/gofiber/contrib/jwt"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

const tokenContextKey = "token"

// ActorResolver busca al usuario del token, falla si no existe o está inactivo
type ActorResolver func(userID uint) (models.Actor, error)

func AuthorizationRequired() fiber.Handler {
	return NewAuthorization(tokenservice.Instance.PublicKey(), authhandler.Instance.ResolveActor)
}

// NewAuthorization valida el bearer RS256 y deja el actor en el contexto
func NewAuthorization(publicKey *rsa.PublicKey, resolve ActorResolver) fiber.Handler {
	return jwtware.New(jwtware.Config{
		Claims:     &tokenservice.AccessClaims{},
		ContextKey: tokenContextKey,
		SigningKey: jwtware.SigningKey{
			JWTAlg: jwtware.RS256,
			Key:    publicKey,
		},
		ErrorHandler: func(ctx *fiber.Ctx, err error) error {
			if strings.TrimSpace(ctx.Get(fiber.HeaderAuthorization)) == "" {
				return controllers.SendError(ctx, apperrors.ErrMissingToken)
			}
			return controllers.SendError(ctx, apperrors.ErrInvalidToken)
		},
		SuccessHandler: func(ctx *fiber.Ctx) error {
			token, ok := ctx.Locals(tokenContextKey).(*jwt.Token)
			if !ok {
				return controllers.SendError(ctx, apperrors.ErrInvalidToken)
			}
			claims, ok := token.Claims.(*tokenservice.AccessClaims)
			if !ok || claims.Issuer != tokenservice.Issuer || !claims.IsValidAccess() {
				return controllers.SendError(ctx, apperrors.ErrInvalidToken)
			}
			actor, err := resolve(claims.UserID)
			if err != nil {
				return controllers.SendError(ctx, err)
			}
			authutils.SetActor(ctx, actor)
			return ctx.Next()
		},
	})
}

// ActorRequired para rutas montadas detrás de AuthorizationRequired
func ActorRequired() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		if _, ok := authutils.GetActor(ctx); !ok {
			return controllers.SendError(ctx, apperrors.ErrMissingToken)
		}
		return ctx.Next()
	}
}
