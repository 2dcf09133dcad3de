package models

import "github.com/pkg/errors"

type UserRole int

const (
	AdminRole    UserRole = 1
	ManagerRole  UserRole = 2
	EmployeeRole UserRole = 3
)

var roleHumanName = map[UserRole]string{
	AdminRole:    "Administrador",
	ManagerRole:  "Manager",
	EmployeeRole: "Empleado",
}

func (r UserRole) ToHuman() string {
	if human, exist := roleHumanName[r]; exist {
		return human
	}
	return "Desconocido"
}

func (r UserRole) IsValid() bool {
	switch r {
	case AdminRole, ManagerRole, EmployeeRole:
		return true
	}
	return false
}

func (r UserRole) IsAdmin() bool {
	return r == AdminRole
}

// IsAssignable roles que se pueden asignar vía API
func (r UserRole) IsAssignable() bool {
	switch r {
	case ManagerRole, EmployeeRole:
		return true
	case AdminRole:
		return false
	}
	return false
}

func ParseUserRole(value int) (UserRole, error) {
	role := UserRole(value)
	if !role.IsValid() {
		return 0, errors.Errorf("rol desconocido: %d", value)
	}
	return role, nil
}

type Status string

const (
	StatusActive   Status = "activo"
	StatusInactive Status = "inactivo"
)

var statusHumanName = map[Status]string{
	StatusActive:   "Activo",
	StatusInactive: "Inactivo",
}

func (s Status) ToHuman() string {
	if human, exist := statusHumanName[s]; exist {
		return human
	}
	return string(s)
}

func (s Status) IsValid() bool {
	return s == StatusActive || s == StatusInactive
}

const SystemUser = "Sistema"
