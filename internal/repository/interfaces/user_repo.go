package interfaces

import "github.com/MALVV/cms-estrella-sur-sub002/internal/model"

type UserRepository interface {
	Create(user *model.User) error
	FindByID(id int) (*model.User, error)
	FindByEmail(email string) (*model.User, error)
	FindAll() ([]*model.User, error)
	UpdateRole(id int, role string) error
	Count() (int, error)
}
