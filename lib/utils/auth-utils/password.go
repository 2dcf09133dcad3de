package authutils

import (
	"github.com/pkg/errors"
	"golang.org/x/crypto/bcrypt"
)

const PasswordHashCost = 12

// bcrypt ignora lo que pasa de 72 bytes
const PasswordMaxBytes = 72

func HashPassword(password string) (string, error) {
	if len(password) > PasswordMaxBytes {
		return "", errors.New("la contraseña excede 72 bytes")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), PasswordHashCost)
	if err != nil {
		return "", errors.Wrap(err, "error al generar el hash de la contraseña")
	}
	return string(hash), nil
}

// CheckPassword false también cuando el hash está vacío o dañado
func CheckPassword(hash, password string) bool {
	if hash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
