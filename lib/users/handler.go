package usershandler

import (
	"fmt"
	"lariogistic-backend/db"
	departmentsstore "lariogistic-backend/lib/departments/store"
	historyhandler "lariogistic-backend/lib/history"
	historystore "lariogistic-backend/lib/history/store"
	"lariogistic-backend/lib/policy"
	tokenservice "lariogistic-backend/lib/token"
	usersstore "lariogistic-backend/lib/users/store"
	apperrors "lariogistic-backend/lib/utils/app-errors"
	authutils "lariogistic-backend/lib/utils/auth-utils"
	"lariogistic-backend/lib/utils/helpers"
	initchecker "lariogistic-backend/lib/utils/init-checker"
	"lariogistic-backend/models"
	usersapimodels "lariogistic-backend/models/api/users"
	dbmodels "lariogistic-backend/models/db"
	"strings"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type Provider interface {
	List(actor models.Actor) ([]usersapimodels.UserView, error)
	Get(actor models.Actor, id uint) (*usersapimodels.UserView, error)
	Create(actor models.Actor, request usersapimodels.CreateRequest) (*usersapimodels.UserView, error)
	Update(actor models.Actor, id uint, request usersapimodels.UpdateRequest) (*usersapimodels.UserView, error)
	ChangePassword(actor models.Actor, id uint, request usersapimodels.PasswordChange) error
	Delete(actor models.Actor, id uint) error
}

var Instance Provider

func NewHandler() {
	initchecker.CheckInit(
		"db", db.DB,
		"tokenservice", tokenservice.Instance,
	)
	Instance = impl{
		store:           usersstore.NewInstance(db.DB),
		departmentStore: departmentsstore.NewInstance(db.DB),
		tokens:          tokenservice.Instance,
		inTx:            dbTx,
	}
}

type txStores struct {
	users   usersstore.Provider
	history historyhandler.Logger
}

func dbTx(fn func(tx txStores) error) error {
	return db.DB.Transaction(func(tx *gorm.DB) error {
		return fn(txStores{
			users:   usersstore.NewInstance(tx),
			history: historyhandler.NewLogger(historystore.NewInstance(tx)),
		})
	})
}

type impl struct {
	store           usersstore.Provider
	departmentStore departmentsstore.Provider
	tokens          tokenservice.Provider
	inTx            func(fn func(tx txStores) error) error
}

func (i impl) List(actor models.Actor) ([]usersapimodels.UserView, error) {
	if err := policy.Can(actor, models.UserListAction, policy.Resource{}); err != nil {
		return nil, err
	}
	filter := usersstore.ListFilter{ExcludeAdmins: true}
	if !actor.IsAdmin() {
		if actor.DepartmentID == nil {
			return []usersapimodels.UserView{}, nil
		}
		filter.DepartmentID = actor.DepartmentID
		filter.Role = models.EmployeeRole
	}
	list, err := i.store.GetList(filter)
	if err != nil {
		log.WithError(err).Error("error obteniendo la lista de usuarios")
		return nil, errors.Wrap(err, "error obteniendo la lista de usuarios")
	}
	result := make([]usersapimodels.UserView, 0, len(list))
	for _, rec := range list {
		result = append(result, usersapimodels.UserConvert(rec))
	}
	return result, nil
}

func (i impl) Get(actor models.Actor, id uint) (*usersapimodels.UserView, error) {
	rec, err := i.getRec(id)
	if err != nil {
		return nil, err
	}
	if err = policy.Can(actor, models.UserViewAction, policy.UserResource(*rec)); err != nil {
		return nil, err
	}
	view := usersapimodels.UserConvert(*rec)
	return &view, nil
}

func (i impl) Create(actor models.Actor, request usersapimodels.CreateRequest) (*usersapimodels.UserView, error) {
	if err := policy.Can(actor, models.UserCreateAction, policy.Resource{}); err != nil {
		return nil, err
	}
	if err := request.Validate(actor.Role); err != nil {
		return nil, err
	}
	role := models.UserRole(request.Role)
	if err := policy.CanAssignRole(actor, nil, role); err != nil {
		return nil, err
	}
	departmentID := request.DepartmentID
	if actor.Role == models.ManagerRole {
		if actor.DepartmentID == nil {
			return nil, apperrors.ErrNoDepartment
		}
		departmentID = actor.DepartmentID
	}
	if departmentID != nil {
		if err := i.checkDepartment(*departmentID); err != nil {
			return nil, err
		}
	}
	email := request.NormalizedEmail()
	exist, err := i.store.ExistByEmail(email)
	if err != nil {
		return nil, errors.Wrap(err, "error verificando el correo")
	}
	if exist {
		return nil, apperrors.ErrDuplicateEmail
	}
	hash, err := authutils.HashPassword(request.Password)
	if err != nil {
		return nil, err
	}
	rec := dbmodels.User{
		Name:         strings.TrimSpace(request.Name),
		Email:        email,
		PasswordHash: &hash,
		Role:         role,
		DepartmentID: departmentID,
		Phone:        strings.TrimSpace(request.Phone),
		Address:      strings.TrimSpace(request.Address),
		Status:       models.StatusActive,
	}
	err = i.inTx(func(tx txStores) error {
		_, err := tx.users.Create(&rec)
		if err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return apperrors.ErrDuplicateEmail
			}
			return err
		}
		return tx.history.Log(actor.ID, nil, "Creó usuario", fmt.Sprintf("%s (%s)", rec.Name, role.ToHuman()))
	})
	if err != nil {
		log.WithError(err).WithField("email", email).Warn("error creando el usuario")
		return nil, err
	}
	return i.Get(actor, rec.ID)
}

func (i impl) Update(actor models.Actor, id uint, request usersapimodels.UpdateRequest) (*usersapimodels.UserView, error) {
	if err := request.Validate(actor.Role); err != nil {
		return nil, err
	}
	rec, err := i.getRec(id)
	if err != nil {
		return nil, err
	}
	res := policy.UserResource(*rec)
	if err = policy.Can(actor, models.UserUpdateAction, res); err != nil {
		return nil, err
	}

	updMap := map[string]interface{}{}
	changes := &dbmodels.EntityChanges{}
	if name := helpers.TrimPtr(request.Name); name != nil && *name != rec.Name {
		changes.Add("name", rec.Name, *name)
		updMap["name"] = *name
	}
	if phone := helpers.TrimPtr(request.Phone); phone != nil && *phone != rec.Phone {
		changes.Add("phone", rec.Phone, *phone)
		updMap["phone"] = *phone
	}
	if address := helpers.TrimPtr(request.Address); address != nil && *address != rec.Address {
		changes.Add("address", rec.Address, *address)
		updMap["address"] = *address
	}
	if request.Role != nil && models.UserRole(*request.Role) != rec.Role {
		role := models.UserRole(*request.Role)
		if err = policy.CanAssignRole(actor, &res, role); err != nil {
			return nil, err
		}
		changes.Add("role", rec.Role, role)
		updMap["role"] = role
	}
	if request.Status != nil && *request.Status != rec.Status {
		if rec.Role == models.AdminRole {
			return nil, apperrors.ErrAdminStatusImmutable
		}
		changes.Add("status", rec.Status, *request.Status)
		updMap["status"] = *request.Status
	}
	if request.DepartmentID != nil && !sameID(request.DepartmentID, rec.DepartmentID) {
		if err = i.checkDepartment(*request.DepartmentID); err != nil {
			return nil, err
		}
		changes.Add("department_id", rec.DepartmentID, *request.DepartmentID)
		updMap["department_id"] = request.DepartmentID
	}
	if len(updMap) == 0 {
		return i.Get(actor, id)
	}

	err = i.inTx(func(tx txStores) error {
		if err := tx.users.Update(id, updMap); err != nil {
			return err
		}
		return tx.history.LogChanges(actor.ID, nil, "Actualizó usuario", rec.Name, changes)
	})
	if err != nil {
		log.WithError(err).WithField("user_id", id).Error("error actualizando el usuario")
		return nil, err
	}
	if status, ok := updMap["status"]; ok && status == models.StatusInactive {
		i.revokeSessions(id)
	}
	return i.Get(actor, id)
}

func (i impl) ChangePassword(actor models.Actor, id uint, request usersapimodels.PasswordChange) error {
	rec, err := i.getRec(id)
	if err != nil {
		return err
	}
	if err = policy.Can(actor, models.UserChangePasswordAction, policy.UserResource(*rec)); err != nil {
		return err
	}
	if err = request.Validate(); err != nil {
		return err
	}
	// el administrador restablece contraseñas ajenas sin la actual
	if !(actor.IsAdmin() && !actor.IsSelf(id)) && rec.HasPassword() {
		if request.CurrentPassword == "" {
			return apperrors.ErrCurrentPasswordNeeded
		}
		if !authutils.CheckPassword(*rec.PasswordHash, request.CurrentPassword) {
			return apperrors.ErrWrongCurrentPassword
		}
	}
	hash, err := authutils.HashPassword(request.NewPassword)
	if err != nil {
		return err
	}
	err = i.inTx(func(tx txStores) error {
		if err := tx.users.Update(id, map[string]interface{}{"password_hash": &hash}); err != nil {
			return err
		}
		return tx.history.Log(actor.ID, nil, "Cambió contraseña", rec.Name)
	})
	if err != nil {
		log.WithError(err).WithField("user_id", id).Error("error cambiando la contraseña")
		return err
	}
	i.revokeSessions(id)
	return nil
}

func (i impl) Delete(actor models.Actor, id uint) error {
	if actor.IsSelf(id) {
		return apperrors.ErrSelfDelete
	}
	rec, err := i.getRec(id)
	if err != nil {
		return err
	}
	if err = policy.Can(actor, models.UserDeleteAction, policy.UserResource(*rec)); err != nil {
		return err
	}
	if !rec.IsActive() {
		return apperrors.ErrUserAlreadyInactive
	}
	err = i.inTx(func(tx txStores) error {
		if err := tx.users.Update(id, map[string]interface{}{"status": models.StatusInactive}); err != nil {
			return err
		}
		return tx.history.Log(actor.ID, nil, "Desactivó usuario", rec.Name)
	})
	if err != nil {
		log.WithError(err).WithField("user_id", id).Error("error desactivando el usuario")
		return err
	}
	i.revokeSessions(id)
	return nil
}

func (i impl) getRec(id uint) (*dbmodels.User, error) {
	rec, err := i.store.GetByID(id)
	if err != nil {
		return nil, errors.Wrap(err, "error obteniendo el usuario")
	}
	if rec == nil {
		return nil, apperrors.ErrUserNotFound
	}
	return rec, nil
}

func (i impl) checkDepartment(id uint) error {
	rec, err := i.departmentStore.GetByID(id)
	if err != nil {
		return errors.Wrap(err, "error obteniendo el departamento")
	}
	if rec == nil || !rec.IsActive() {
		return apperrors.ErrDepartmentInactive
	}
	return nil
}

// revokeSessions el cambio ya está confirmado, un fallo aquí solo se registra
func (i impl) revokeSessions(userID uint) {
	if err := i.tokens.RevokeAll(userID); err != nil {
		log.WithError(err).WithField("user_id", userID).Error("error revocando las sesiones del usuario")
	}
}

func sameID(a, b *uint) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
