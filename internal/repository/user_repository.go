package repository

import (
	"context"
	"database/sql"
	"errors"

	"delivery-web-server/config"
	"delivery-web-server/internal/model"
	"delivery-web-server/internal/util"

	"github.com/jmoiron/sqlx"
)

type UserRepository struct {
	*config.Database
}

func NewUserRepository(database *config.Database) *UserRepository {
	return &UserRepository{database}
}

// CreateUser : сохраняет нового пользователя
func (r *UserRepository) CreateUser(ctx context.Context, exec sqlx.ExtContext, user *model.User) (*model.User, error) {
	query := `
	INSERT INTO users (uuid, email, password_hash)
	VALUES ($1, $2, $3)
	RETURNING uuid, email, created_at
	`

	createdUser := &model.User{}
	err := exec.QueryRowxContext(ctx, query, user.UUID, user.Email, user.PasswordHash).
		Scan(&createdUser.UUID, &createdUser.Email, &createdUser.CreatedAt)

	if err != nil {
		return nil, util.LogError("[UserRepo] ошибка вставки данных в БД", err)
	}

	return createdUser, nil
}

// FindByEmail : ищет пользователя по email
func (r *UserRepository) FindByEmail(ctx context.Context, exec sqlx.ExtContext, email string) (*model.User, error) {
	query := `SELECT uuid, email, password_hash, created_at FROM users WHERE email = $1`

	var user model.User
	err := sqlx.GetContext(ctx, exec, &user, query, email)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, model.ErrNotFound
	}
	if err != nil {
		return nil, util.LogError("[UserRepo] не удалось найти пользователя по email", err)
	}

	return &user, nil
}
