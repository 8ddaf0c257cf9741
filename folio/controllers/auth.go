package controllers

import (
	"context"
	"errors"
	"fmt"
	"time"

	"folio/folio/sources/psql/dao"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

const tokenTTL = 24 * time.Hour

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrAuthDisabled       = errors.New("admin login is not configured")
)

type AuthController struct {
	userDAO   *dao.UserDAO
	jwtSecret string
}

func NewAuthController(userDAO *dao.UserDAO, jwtSecret string) *AuthController {
	return &AuthController{
		userDAO:   userDAO,
		jwtSecret: jwtSecret,
	}
}

// Login checks the password and returns a signed HS256 token.
func (c *AuthController) Login(ctx context.Context, username, password string) (string, error) {
	if c.userDAO == nil || c.jwtSecret == "" {
		return "", ErrAuthDisabled
	}
	user, err := c.userDAO.GetUserByUsername(ctx, username)
	if err != nil {
		return "", err
	}
	if user == nil {
		return "", ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", ErrInvalidCredentials
	}
	claims := jwt.MapClaims{
		"user_id":  user.ID,
		"username": user.Username,
		"exp":      time.Now().Add(tokenTTL).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(c.jwtSecret))
}

// CreateAdmin stores a new admin or resets the password of an existing one.
func (c *AuthController) CreateAdmin(ctx context.Context, username, password string) error {
	if c.userDAO == nil {
		return ErrAuthDisabled
	}
	if username == "" || len(password) < 8 {
		return fmt.Errorf("username is required and password must be at least 8 characters")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	existing, err := c.userDAO.GetUserByUsername(ctx, username)
	if err != nil {
		return err
	}
	if existing != nil {
		return c.userDAO.UpdatePassword(ctx, username, string(hash))
	}
	_, err = c.userDAO.CreateUser(ctx, username, string(hash))
	return err
}
