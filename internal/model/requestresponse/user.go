package requestresponse

// RegisterRequest : тело запроса регистрации
type RegisterRequest struct {
	Email    string `json:"email" example:"newuser@example.com"`
	Password string `json:"password" example:"P@ssw0rd!"`
}

// RegisterResponse : успешный ответ
type RegisterResponse struct {
	Response RegisterData `json:"response"`
}

type RegisterData struct {
	UUID  string `json:"uuid" example:"123e4567-e89b-12d3-a456-426614174000"`
	Email string `json:"email" example:"newuser@example.com"`
}

// ErrorDetail : детальная информация об ошибке
type ErrorDetail struct {
	Code int    `json:"code" example:"400"`
	Text string `json:"text" example:"for example: invalid email or password"`
}

// ErrorResponse : стандартная структура ошибки
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}
