package models

import (
	"time"

	"golang.org/x/crypto/bcrypt"
)

// User is a registered player. Account is the login name; DisplayName is
// what the leaderboard shows. Both are unique, matching the original
// game's registration checks.
type User struct {
	ID          uint   `gorm:"primaryKey"`
	Account     string `gorm:"uniqueIndex"`
	DisplayName string `gorm:"uniqueIndex"`
	Password    string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// SetPassword hashes and stores the password.
func (u *User) SetPassword(password string) error {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.Password = string(hashed)
	return nil
}

// CheckPassword compares a candidate password against the stored hash.
func (u *User) CheckPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)) == nil
}
