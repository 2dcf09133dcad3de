package authapimodels

import (
	apperrors "lariogistic-backend/lib/utils/app-errors"
	"net/mail"
	"strings"
)

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r LoginRequest) Validate() error {
	if strings.TrimSpace(r.Email) == "" || r.Password == "" {
		return apperrors.MissingField("Correo y contraseña son requeridos")
	}
	if _, err := mail.ParseAddress(r.Email); err != nil {
		return apperrors.InvalidField("El correo tiene un formato inválido")
	}
	return nil
}

func (r LoginRequest) NormalizedEmail() string {
	return strings.ToLower(strings.TrimSpace(r.Email))
}

type GoogleCodeRequest struct {
	Code string `json:"code"` // código de autorización de Google
}

func (r GoogleCodeRequest) Validate() error {
	if strings.TrimSpace(r.Code) == "" {
		return apperrors.MissingField("El código de autorización es requerido")
	}
	return nil
}

// GoogleIdentity datos verificados del id_token de Google
type GoogleIdentity struct {
	Subject string
	Email   string
	Name    string
}
