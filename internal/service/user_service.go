package service

import (
	"github.com/MALVV/cms-estrella-sur-sub002/internal/errors"
	"github.com/MALVV/cms-estrella-sur-sub002/internal/model"
	"github.com/MALVV/cms-estrella-sur-sub002/internal/repository/interfaces"
	"github.com/MALVV/cms-estrella-sur-sub002/internal/util"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// UserServiceInterface lets middleware and handlers be tested against a mock.
type UserServiceInterface interface {
	Register(user *model.User, password string) error
	Login(email, password string) (*model.User, error)
	GetUserByID(id int) (*model.User, error)
	ListUsers() ([]*model.User, error)
	UpdateUserRole(id int, role string) error
}

type UserService struct {
	userRepo interfaces.UserRepository
}

func NewUserService(userRepo interfaces.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

var validRoles = map[string]bool{
	"admin":  true,
	"editor": true,
}

func (s *UserService) Register(user *model.User, password string) error {
	if user.Email == "" || user.Username == "" || password == "" {
		return errors.New(errors.ErrValidation, "username, email and password are required")
	}
	if !validRoles[user.Role] {
		return errors.New(errors.ErrValidation, "invalid role")
	}

	existing, err := s.userRepo.FindByEmail(user.Email)
	if err != nil {
		return errors.Wrap(errors.ErrDatabase, "failed to check existing user", err)
	}
	if existing != nil {
		return errors.New(errors.ErrResourceConflict, "email already registered")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return errors.Wrap(errors.ErrInternal, "failed to hash password", err)
	}
	user.PasswordHash = string(hash)

	if err := s.userRepo.Create(user); err != nil {
		return errors.Wrap(errors.ErrDatabase, "failed to create user", err)
	}

	util.Logger.Info("user registered", zap.Int("user_id", user.ID), zap.String("role", user.Role))
	return nil
}

func (s *UserService) Login(email, password string) (*model.User, error) {
	user, err := s.userRepo.FindByEmail(email)
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "failed to look up user", err)
	}
	if user == nil {
		return nil, errors.New(errors.ErrInvalidCredentials, "invalid email or password")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, errors.New(errors.ErrInvalidCredentials, "invalid email or password")
	}
	return user, nil
}

func (s *UserService) GetUserByID(id int) (*model.User, error) {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "failed to get user", err)
	}
	if user == nil {
		return nil, errors.New(errors.ErrUserNotFound, "user not found")
	}
	return user, nil
}

func (s *UserService) ListUsers() ([]*model.User, error) {
	users, err := s.userRepo.FindAll()
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "failed to list users", err)
	}
	return users, nil
}

func (s *UserService) UpdateUserRole(id int, role string) error {
	if !validRoles[role] {
		return errors.New(errors.ErrValidation, "invalid role")
	}
	if _, err := s.GetUserByID(id); err != nil {
		return err
	}
	if err := s.userRepo.UpdateRole(id, role); err != nil {
		return errors.Wrap(errors.ErrDatabase, "failed to update user role", err)
	}
	return nil
}
