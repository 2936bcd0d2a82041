package handler

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"delivery-web-server/internal/model"
	"delivery-web-server/internal/model/requestresponse"
	"delivery-web-server/internal/ports"

	"delivery-web-server/internal/util"
)

type UserHandler struct {
	ports.UserService
}

func NewUserHandler(userService ports.UserService) *UserHandler {
	return &UserHandler{userService}
}

// RegisterUser godoc
// @Summary Регистрация нового пользователя
// @Description Создает пользователя по email и паролю. Пароль: минимум 8 символов, буквы в разных регистрах, цифра и специальный символ.
// @Tags Users
// @Accept json
// @Produce json
// @Param body body requestresponse.RegisterRequest true "Тело запроса"
// @Success 201 {object} requestresponse.RegisterResponse
// @Failure 400 {object} requestresponse.ErrorResponse
// @Failure 500 {object} requestresponse.ErrorResponse
// @Router /api/register [post]
func (h *UserHandler) RegisterUser(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	var req requestresponse.RegisterRequest
	if err := decodeJSON(w, r, &req); err != nil {
		return
	}

	user, err := h.UserService.Register(r.Context(), req.Email, req.Password)
	if err != nil {
		log.Println(err)
		switch {
		case errors.Is(err, model.ErrValidation):
			util.HandleError(w, "неверные email или пароль", http.StatusBadRequest)
		default:
			util.HandleError(w, "внутренняя ошибка сервера", http.StatusInternalServerError)
		}
		return
	}

	resp := requestresponse.RegisterResponse{
		Response: requestresponse.RegisterData{
			UUID:  user.UUID,
			Email: user.Email,
		},
	}

	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(resp)
}

func decodeJSON(w http.ResponseWriter, r *http.Request, target interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(target); err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(400)
		json.NewEncoder(w).Encode(requestresponse.ErrorResponse{
			Error: requestresponse.ErrorDetail{
				Code: 400,
				Text: "invalid request body",
			},
		})
		return err
	}
	return nil
}

func sendErrorResponse(w http.ResponseWriter, statusCode int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(requestresponse.ErrorResponse{
		Error: requestresponse.ErrorDetail{
			Code: statusCode,
			Text: message,
		},
	})
}
