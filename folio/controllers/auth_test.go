package controllers

import (
	"context"
	"testing"

	"folio/folio/sources/psql/dao"
	"folio/folio/sources/psql/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newUserDAO(t *testing.T) *dao.UserDAO {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(&models.User{}))
	return dao.NewUserDAO(db)
}

func TestAuthController_LoginFlow(t *testing.T) {
	ctx := context.Background()
	ctrl := NewAuthController(newUserDAO(t), "secret")

	_, err := ctrl.Login(ctx, "admin", "whatever1")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	assert.Error(t, ctrl.CreateAdmin(ctx, "admin", "short"))
	require.NoError(t, ctrl.CreateAdmin(ctx, "admin", "first-password"))

	_, err = ctrl.Login(ctx, "admin", "wrong-password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	tokenStr, err := ctrl.Login(ctx, "admin", "first-password")
	require.NoError(t, err)

	token, err := jwt.Parse(tokenStr, func(*jwt.Token) (interface{}, error) { return []byte("secret"), nil })
	require.NoError(t, err)
	claims := token.Claims.(jwt.MapClaims)
	assert.Equal(t, "admin", claims["username"])

	// running create again resets the password
	require.NoError(t, ctrl.CreateAdmin(ctx, "admin", "second-password"))
	_, err = ctrl.Login(ctx, "admin", "first-password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = ctrl.Login(ctx, "admin", "second-password")
	assert.NoError(t, err)
}

func TestAuthController_Disabled(t *testing.T) {
	_, err := NewAuthController(nil, "secret").Login(context.Background(), "a", "b")
	assert.ErrorIs(t, err, ErrAuthDisabled)

	_, err = NewAuthController(newUserDAO(t), "").Login(context.Background(), "a", "b")
	assert.ErrorIs(t, err, ErrAuthDisabled)
}
