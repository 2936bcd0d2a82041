package ports

import (
	"context"

	"delivery-web-server/internal/model"

	"github.com/jmoiron/sqlx"
)

type UserRepository interface {
	CreateUser(ctx context.Context, exec sqlx.ExtContext, user *model.User) (*model.User, error)
	FindByEmail(ctx context.Context, exec sqlx.ExtContext, email string) (*model.User, error)
}

type UserService interface {
	Register(ctx context.Context, email string, password string) (*model.User, error)
	Login(ctx context.Context, email string, password string) (string, error)
}
