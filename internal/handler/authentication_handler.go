package handler

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"delivery-web-server/internal/model"
	"delivery-web-server/internal/model/requestresponse"
	"delivery-web-server/internal/ports"
	"delivery-web-server/internal/security"
	"delivery-web-server/internal/util"
)

type AuthenticationHandler struct {
	ports.UserService
}

func NewAuthenticationHandler(userService ports.UserService) *AuthenticationHandler {
	return &AuthenticationHandler{userService}
}

// Login godoc
// @Summary Аутентификация пользователя
// @Description Получение access токена по email и паролю
// @Tags Authentication
// @Accept json
// @Produce json
// @Param body body requestresponse.LoginRequest true "Тело запроса"
// @Success 200 {object} requestresponse.LoginResponse "Успешная аутентификация"
// @Failure 400 {object} requestresponse.ErrorResponse "Некорректный JSON или пустые поля"
// @Failure 401 {object} requestresponse.ErrorResponse "Неверный email или пароль"
// @Failure 500 {object} requestresponse.ErrorResponse "Внутренняя ошибка сервера"
// @Router /api/auth [post]
func (h *AuthenticationHandler) Login(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	ctx := r.Context()

	var req requestresponse.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendErrorResponse(w, 400, "некорректный JSON")
		return
	}

	if req.Email == "" || req.Password == "" {
		sendErrorResponse(w, 400, "email и password обязательны")
		return
	}

	token, err := h.UserService.Login(ctx, req.Email, req.Password)
	if err != nil {
		log.Println(err)
		switch {
		case errors.Is(err, model.ErrAuthRequired):
			util.HandleError(w, "неверный email или пароль", http.StatusUnauthorized)
		default:
			util.HandleError(w, "внутренняя ошибка сервера", http.StatusInternalServerError)
		}
		return
	}

	resp := requestresponse.LoginResponse{}
	resp.Response.Token = token

	w.WriteHeader(200)
	json.NewEncoder(w).Encode(resp)
}

// GetCurrentUsersUUID godoc
// @Summary Получение UUID текущего пользователя
// @Description Возвращает UUID пользователя, который авторизован в системе
// @Tags Authentication
// @Produce json
// @Param Authorization header string true "Bearer токен" default(Bearer <access_token>)
// @Success 200 {object} requestresponse.CurrentUserResponse
// @Failure 401 {object} requestresponse.ErrorResponse
// @Router /api/auth/me [get]
func (h *AuthenticationHandler) GetCurrentUsersUUID(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	claims, ok := r.Context().Value(security.UserContextKey).(*security.Claims)
	if ok == false || claims == nil {
		sendErrorResponse(w, 401, "не авторизован")
		return
	}

	resp := requestresponse.CurrentUserResponse{}
	resp.Response.UserUUID = claims.UserUUID

	w.WriteHeader(200)
	json.NewEncoder(w).Encode(resp)
}
