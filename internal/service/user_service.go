package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/mail"
	"unicode"

	"delivery-web-server/config"
	"delivery-web-server/internal/model"
	"delivery-web-server/internal/ports"
	"delivery-web-server/internal/security"
	"delivery-web-server/internal/util"

	"github.com/google/uuid"
)

type UserService struct {
	database       *config.Database
	userRepository ports.UserRepository
	jwtService     ports.JWTServiceInterface
}

func NewUserService(
	database *config.Database,
	userRepository ports.UserRepository,
	jwtService ports.JWTServiceInterface,
) *UserService {
	return &UserService{
		database:       database,
		userRepository: userRepository,
		jwtService:     jwtService,
	}
}

// Register : создает владельца по email и паролю
func (s *UserService) Register(ctx context.Context, email string, password string) (*model.User, error) {
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, fmt.Errorf("[UserService] некорректный email: %w", model.ErrValidation)
	}

	if err := validatePassword(password); err != nil {
		return nil, fmt.Errorf("[UserService] %v: %w", err, model.ErrValidation)
	}

	existing, err := s.userRepository.FindByEmail(ctx, s.database, email)
	if err != nil && errors.Is(err, model.ErrNotFound) == false {
		return nil, util.LogError("[UserService] ошибка проверки email", err)
	}
	if existing != nil {
		return nil, fmt.Errorf("[UserService] email уже занят: %w", model.ErrValidation)
	}

	hash, err := security.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("[UserService] не удалось создать хэш пароля: %w", err)
	}

	user := &model.User{
		UUID:         uuid.New().String(),
		Email:        email,
		PasswordHash: hash,
	}

	created, err := s.userRepository.CreateUser(ctx, s.database, user)
	if err != nil {
		return nil, fmt.Errorf("[UserService] ошибка создания пользователя: %w", err)
	}

	log.Printf("[UserService] зарегистрирован пользователь %s", created.UUID)

	return created, nil
}

// Login : проверяет пару email/пароль и выдает access-токен
func (s *UserService) Login(ctx context.Context, email string, password string) (string, error) {
	user, err := s.userRepository.FindByEmail(ctx, s.database, email)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return "", fmt.Errorf("[UserService] неверный email или пароль: %w", model.ErrAuthRequired)
		}
		return "", util.LogError("[UserService] ошибка поиска пользователя", err)
	}

	if security.CheckPassword(password, user.PasswordHash) == false {
		return "", fmt.Errorf("[UserService] неверный email или пароль: %w", model.ErrAuthRequired)
	}

	token, err := s.jwtService.GenerateAccessToken(user.UUID)
	if err != nil {
		return "", fmt.Errorf("[UserService] ошибка генерации токена: %w", err)
	}

	return token, nil
}

func validatePassword(password string) error {
	if len(password) < 8 {
		return fmt.Errorf("пароль должен содержать минимум 8 символов")
	}

	var upperCount, lowerCount, digitCount, specialCount int

	for _, c := range password {
		switch {
		case unicode.IsUpper(c):
			upperCount++
		case unicode.IsLower(c):
			lowerCount++
		case unicode.IsDigit(c):
			digitCount++
		case unicode.IsPunct(c) || unicode.IsSymbol(c):
			specialCount++
		}
	}

	if upperCount == 0 || lowerCount == 0 || (upperCount+lowerCount) < 2 {
		return fmt.Errorf("пароль должен содержать минимум 2 буквы в разных регистрах")
	}
	if digitCount < 1 {
		return fmt.Errorf("пароль должен содержать хотя бы одну цифру")
	}
	if specialCount < 1 {
		return fmt.Errorf("пароль должен содержать хотя бы один специальный символ")
	}

	return nil
}
