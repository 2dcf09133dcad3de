package models

// Actor usuario autenticado que ejecuta la operación
type Actor struct {
	ID           uint
	Role         UserRole
	DepartmentID *uint
}

func (a Actor) IsAdmin() bool {
	return a.Role.IsAdmin()
}

func (a Actor) IsSelf(userID uint) bool {
	return a.ID != 0 && a.ID == userID
}

// SameDepartment false si alguno no tiene departamento
func (a Actor) SameDepartment(departmentID *uint) bool {
	if a.DepartmentID == nil || departmentID == nil {
		return false
	}
	return *a.DepartmentID == *departmentID
}
