package services

import (
	"errors"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"hall-backend/models"
)

var ErrInvalidCredentials = errors.New("invalid email or password")

// UserService handles login and delegated sub-user accounts.
type UserService struct {
	DB     *gorm.DB
	Tokens *TokenService
}

func NewUserService(db *gorm.DB, tokens *TokenService) *UserService {
	return &UserService{DB: db, Tokens: tokens}
}

// Login checks credentials and issues a session token.
func (s *UserService) Login(email, password string) (models.User, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return models.User{}, "", validationf("Email and password are required")
	}

	var user models.User
	if err := s.DB.First(&user, "email = ?", email).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.User{}, "", ErrInvalidCredentials
		}
		return models.User{}, "", err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return models.User{}, "", ErrInvalidCredentials
	}

	token, err := s.Tokens.Issue(user)
	if err != nil {
		return models.User{}, "", err
	}
	return user, token, nil
}

type CreateSubUserInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

// CreateSubUser registers a delegated account under the calling hall
// owner. Sub-users cannot create further sub-users.
func (s *UserService) CreateSubUser(p Principal, in CreateSubUserInput) (models.User, error) {
	if p.Role != models.RoleHallOwner {
		return models.User{}, ErrRoleNotAllowed
	}
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if in.Email == "" || in.Password == "" || strings.TrimSpace(in.Name) == "" {
		return models.User{}, validationf("Email, password and name are required")
	}
	if !emailRe.MatchString(in.Email) {
		return models.User{}, validationf("Invalid email format")
	}
	if len(in.Password) < 8 {
		return models.User{}, validationf("Password must be at least 8 characters")
	}

	var existing int64
	if err := s.DB.Model(&models.User{}).Where("email = ?", in.Email).Count(&existing).Error; err != nil {
		return models.User{}, err
	}
	if existing > 0 {
		return models.User{}, validationf("A user with this email already exists")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return models.User{}, err
	}
	parent := p.UID
	user := models.User{
		UID:          uuid.NewString(),
		Email:        in.Email,
		Password:     string(hash),
		Name:         strings.TrimSpace(in.Name),
		Role:         models.RoleSubUser,
		ParentUserID: &parent,
	}
	if err := s.DB.Create(&user).Error; err != nil {
		return models.User{}, err
	}
	return user, nil
}

// ListSubUsers returns the hall owner's delegated accounts.
func (s *UserService) ListSubUsers(p Principal) ([]models.User, error) {
	if p.Role != models.RoleHallOwner {
		return nil, ErrRoleNotAllowed
	}
	var users []models.User
	if err := s.DB.Where("parent_user_id = ?", p.UID).Order("created_at").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// Get returns one user row by uid.
func (s *UserService) Get(uid string) (models.User, error) {
	var user models.User
	if err := s.DB.First(&user, "uid = ?", uid).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.User{}, ErrUserNotFound
		}
		return models.User{}, err
	}
	return user, nil
}
