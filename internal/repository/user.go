package repository

import (
	"context"

	"digit-recall/internal/database"
	"digit-recall/internal/models"
)

func CreateUser(ctx context.Context, account, displayName, password string) (*models.User, error) {
	user := &models.User{
		Account:     account,
		DisplayName: displayName,
	}
	if err := user.SetPassword(password); err != nil {
		return nil, err
	}
	result := database.DB.WithContext(ctx).Create(user)
	return user, result.Error
}

func GetUserByAccount(ctx context.Context, account string) (*models.User, error) {
	var user models.User
	result := database.DB.WithContext(ctx).First(&user, "account = ?", account)
	return &user, result.Error
}

func GetUserByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	result := database.DB.WithContext(ctx).First(&user, id)
	return &user, result.Error
}

// AccountExists reports whether the login name is already taken. The
// original game checks this explicitly before signup rather than relying
// on the unique index error.
func AccountExists(ctx context.Context, account string) (bool, error) {
	var count int64
	err := database.DB.WithContext(ctx).Model(&models.User{}).Where("account = ?", account).Count(&count).Error
	return count > 0, err
}

// DisplayNameExists reports whether the display name is already taken.
func DisplayNameExists(ctx context.Context, displayName string) (bool, error) {
	var count int64
	err := database.DB.WithContext(ctx).Model(&models.User{}).Where("display_name = ?", displayName).Count(&count).Error
	return count > 0, err
}
