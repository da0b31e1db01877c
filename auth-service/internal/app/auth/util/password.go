package util

import (
	"golang.org/x/crypto/bcrypt"
)

// HashPassword хэширует пароль bcrypt'ом с DefaultCost.
// Хэш хранится в accounts.password_hash, сам пароль нигде не сохраняется.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPassword сверяет введенный пароль с хэшем из базы
func CheckPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
