package model

import "errors"

// Доменные ошибки. Сервисы заворачивают их через fmt.Errorf("...: %w", ...),
// обработчики сопоставляют с HTTP-кодами через errors.Is.
var (
	ErrNotFound           = errors.New("запись не найдена")
	ErrAuthRequired       = errors.New("требуется аутентификация")
	ErrValidation         = errors.New("некорректный запрос")
	ErrTransport          = errors.New("внешний сервис недоступен")
	ErrPreconditionFailed = errors.New("состояние записи уже изменилось")
)
