package usersapimodels

import (
	apperrors "lariogistic-backend/lib/utils/app-errors"
	"lariogistic-backend/lib/utils/helpers"
	"lariogistic-backend/models"
	dbmodels "lariogistic-backend/models/db"
	"net/mail"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	nameMaxLen     = 100
	passwordMinLen = 8
	passwordMaxLen = 72 // límite de bcrypt
	phoneMaxLen    = 20
	addressMaxLen  = 255
)

type UserView struct {
	ID             uint            `json:"id"`
	Name           string          `json:"name"`
	Email          string          `json:"email"`
	Role           models.UserRole `json:"role"`      // 1 administrador, 2 manager, 3 empleado
	RoleName       string          `json:"role_name"` // nombre del rol
	DepartmentID   *uint           `json:"department_id"`
	DepartmentName string          `json:"department_name,omitempty"`
	Phone          string          `json:"phone,omitempty"`
	Address        string          `json:"address,omitempty"`
	Status         models.Status   `json:"status"`
	GoogleLinked   bool            `json:"google_linked"` // cuenta vinculada con Google
	CreatedAt      time.Time       `json:"created_at"`
}

func UserConvert(rec dbmodels.User) UserView {
	view := UserView{
		ID:           rec.ID,
		Name:         rec.Name,
		Email:        rec.Email,
		Role:         rec.Role,
		RoleName:     rec.Role.ToHuman(),
		DepartmentID: rec.DepartmentID,
		Phone:        rec.Phone,
		Address:      rec.Address,
		Status:       rec.Status,
		GoogleLinked: rec.GoogleID != nil && *rec.GoogleID != "",
		CreatedAt:    rec.CreatedAt,
	}
	if rec.Department != nil {
		view.DepartmentName = rec.Department.Name
	}
	return view
}

type CreateRequest struct {
	Name         string `json:"name"`
	Email        string `json:"email"`
	Password     string `json:"password"`
	Role         int    `json:"role"`          // 2 manager, 3 empleado
	DepartmentID *uint  `json:"department_id"` // si no se indica se hereda del creador
	Phone        string `json:"phone"`
	Address      string `json:"address"`
}

func (r CreateRequest) Validate(actorRole models.UserRole) error {
	if err := validateName(r.Name); err != nil {
		return err
	}
	if _, err := mail.ParseAddress(r.Email); err != nil {
		return apperrors.InvalidField("El correo tiene un formato inválido")
	}
	if err := validatePassword(r.Password); err != nil {
		return err
	}
	if !models.UserRole(r.Role).IsAssignable() {
		return apperrors.ErrInvalidRole
	}
	// el manager crea en su propio departamento
	if actorRole == models.ManagerRole && r.DepartmentID != nil {
		return apperrors.InvalidField("El departamento se asigna automáticamente")
	}
	return validateContacts(r.Phone, r.Address)
}

func (r CreateRequest) NormalizedEmail() string {
	return strings.ToLower(strings.TrimSpace(r.Email))
}

// UpdateRequest campos nil no se modifican
type UpdateRequest struct {
	Name    *string `json:"name"`
	Phone   *string `json:"phone"`
	Address *string `json:"address"`
	// solo administrador
	Role         *int           `json:"role"`
	Status       *models.Status `json:"status"`
	DepartmentID *uint          `json:"department_id"`
}

func (r UpdateRequest) Validate(actorRole models.UserRole) error {
	if r.IsEmpty() {
		return apperrors.ErrNothingToUpdate
	}
	if r.Name != nil {
		if err := validateName(*r.Name); err != nil {
			return err
		}
	}
	if err := validateContacts(helpers.PtrValue(r.Phone), helpers.PtrValue(r.Address)); err != nil {
		return err
	}
	if r.HasAdminFields() && !actorRole.IsAdmin() {
		return apperrors.InvalidField("Solo el administrador puede modificar rol, estado o departamento")
	}
	if r.Role != nil && !models.UserRole(*r.Role).IsAssignable() {
		return apperrors.ErrInvalidRole
	}
	if r.Status != nil && !r.Status.IsValid() {
		return apperrors.ErrInvalidStatus
	}
	return nil
}

func (r UpdateRequest) IsEmpty() bool {
	return r.Name == nil && r.Phone == nil && r.Address == nil && !r.HasAdminFields()
}

func (r UpdateRequest) HasAdminFields() bool {
	return r.Role != nil || r.Status != nil || r.DepartmentID != nil
}

type PasswordChange struct {
	CurrentPassword string `json:"current_password"` // requerida salvo para el administrador sobre otra cuenta
	NewPassword     string `json:"new_password"`
}

func (r PasswordChange) Validate() error {
	return validatePassword(r.NewPassword)
}

func validateName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return apperrors.MissingField("El nombre es requerido")
	}
	if utf8.RuneCountInString(name) > nameMaxLen {
		return apperrors.InvalidField("El nombre no puede exceder 100 caracteres")
	}
	return nil
}

func validatePassword(password string) error {
	if password == "" {
		return apperrors.MissingField("La contraseña es requerida")
	}
	if len(password) < passwordMinLen {
		return apperrors.InvalidField("La contraseña debe tener al menos 8 caracteres")
	}
	if len(password) > passwordMaxLen {
		return apperrors.InvalidField("La contraseña no puede exceder 72 bytes")
	}
	return nil
}

func validateContacts(phone, address string) error {
	if utf8.RuneCountInString(phone) > phoneMaxLen {
		return apperrors.InvalidField("El teléfono no puede exceder 20 caracteres")
	}
	if utf8.RuneCountInString(address) > addressMaxLen {
		return apperrors.InvalidField("La dirección no puede exceder 255 caracteres")
	}
	return nil
}
