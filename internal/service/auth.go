package service

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/saniyapatil1704/ecommerce-backend/internal/model"
)

type AuthService interface {
	Register(email, password string) (model.User, error)
	Login(email, password string) (string, error) // returns JWT
	ParseToken(token string) (uint, error)        // returns userID
	Profile(userID uint) (model.User, error)
	UpdateProfile(userID uint, email string) (model.User, error)
}

type authService struct {
	db       *gorm.DB
	secret   []byte
	tokenTTL time.Duration
}

// NewAuthService takes the signing secret as injected configuration.
func NewAuthService(db *gorm.DB, secret string, tokenTTL time.Duration) AuthService {
	if tokenTTL <= 0 {
		tokenTTL = time.Hour
	}
	return &authService{db: db, secret: []byte(secret), tokenTTL: tokenTTL}
}

func (a *authService) Register(email, password string) (model.User, error) {
	var existing model.User
	err := a.db.Where("email = ?", email).First(&existing).Error
	if err == nil {
		return model.User{}, ErrEmailTaken
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return model.User{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return model.User{}, err
	}
	u := model.User{Email: email, PasswordHash: string(hash)}
	if err := a.db.Create(&u).Error; err != nil {
		return model.User{}, err
	}
	return u, nil
}

func (a *authService) Login(email, password string) (string, error) {
	var u model.User
	if err := a.db.Where("email = ?", email).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrInvalidCredentials
		}
		return "", err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return "", ErrInvalidCredentials
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": u.ID,
		"exp": time.Now().Add(a.tokenTTL).Unix(),
	})
	return t.SignedString(a.secret)
}

func (a *authService) ParseToken(token string) (uint, error) {
	claims := jwt.MapClaims{}
	_, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return a.secret, nil
	})
	if err != nil {
		return 0, err
	}
	idFloat, ok := claims["sub"].(float64)
	if !ok {
		return 0, errors.New("invalid sub claim")
	}
	return uint(idFloat), nil
}

func (a *authService) Profile(userID uint) (model.User, error) {
	var u model.User
	if err := a.db.First(&u, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return model.User{}, ErrUserNotFound
		}
		return model.User{}, err
	}
	return u, nil
}

// UpdateProfile changes the email only. The password hash has no update path
// here; credential changes belong to a dedicated flow.
func (a *authService) UpdateProfile(userID uint, email string) (model.User, error) {
	u, err := a.Profile(userID)
	if err != nil {
		return model.User{}, err
	}
	if email != "" && email != u.Email {
		var taken model.User
		err := a.db.Where("email = ? AND id <> ?", email, userID).First(&taken).Error
		if err == nil {
			return model.User{}, ErrEmailTaken
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return model.User{}, err
		}
		if err := a.db.Model(&u).Update("email", email).Error; err != nil {
			return model.User{}, err
		}
	}
	return u, nil
}
