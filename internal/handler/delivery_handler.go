package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"delivery-web-server/internal/client"
	"delivery-web-server/internal/model"
	requestresponse "delivery-web-server/internal/model/requestresponse"
	"delivery-web-server/internal/ports"
	"delivery-web-server/internal/security"
	"delivery-web-server/internal/util"

	"github.com/go-chi/chi/v5"
)

type DeliveryHandler struct {
	ports.DeliveryService
	trigger       ports.TriggerCoordinator
	publicBaseURL string
}

func NewDeliveryHandler(deliveryService ports.DeliveryService, trigger ports.TriggerCoordinator, publicBaseURL string) *DeliveryHandler {
	return &DeliveryHandler{deliveryService, trigger, strings.TrimRight(publicBaseURL, "/")}
}

// CreateDelivery godoc
// @Summary Планирование отправки файла
// @Description Загружает файл и ставит его в очередь на отправку получателю в указанное время, поддерживает multipart/form-data.
// Если время уже наступило, отправка уходит сразу.
// @Tags Deliveries
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Файл для отправки"
// @Param recipient formData string true "Email получателя"
// @Param scheduled_at formData string true "Время отправки в формате RFC3339, например 2025-09-01T10:00:00Z"
// @Param Authorization header string true "Bearer токен" default(Bearer <access_token>)
// @Success 201 {object} requestresponse.CreateDeliveryResponse "Отправка запланирована"
// @Failure 400 {object} requestresponse.ErrorResponse "Неверный формат запроса"
// @Failure 401 {object} requestresponse.ErrorResponse "Пользователь не авторизован"
// @Failure 500 {object} requestresponse.ErrorResponse "Внутренняя ошибка сервера"
// @Failure 502 {object} requestresponse.ErrorResponse "Хранилище файлов недоступно"
// @Router /api/deliveries [post]
func (h *DeliveryHandler) CreateDelivery(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		util.HandleError(w, "неверный формат запроса", http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		util.HandleError(w, "файл не найден в запросе", http.StatusBadRequest)
		return
	}
	defer file.Close()

	claims, ok := ctx.Value(security.UserContextKey).(*security.Claims)
	if ok == false || claims == nil {
		util.HandleError(w, "пользователь не авторизован", http.StatusUnauthorized)
		return
	}

	recipient := r.FormValue("recipient")
	if recipient == "" {
		util.HandleError(w, "email получателя обязателен", http.StatusBadRequest)
		return
	}

	scheduledAtStr := r.FormValue("scheduled_at")
	scheduledAt, err := time.Parse(time.RFC3339, scheduledAtStr)
	if err != nil {
		util.HandleError(w, "неверный формат scheduled_at (ожидается RFC3339)", http.StatusBadRequest)
		return
	}

	mimeType := header.Header.Get("Content-Type")
	if mimeType == "" {
		mimeType = util.ContentTypeByExtension(header.Filename)
	}

	delivery := &model.Delivery{
		OwnerUUID:        claims.UserUUID,
		FilenameOriginal: header.Filename,
		SizeBytes:        header.Size,
		MimeType:         mimeType,
		RecipientEmail:   recipient,
		ScheduledAt:      scheduledAt,
	}

	created, err := h.DeliveryService.Schedule(ctx, delivery, file)
	if err != nil {
		log.Println(err)
		switch {
		case errors.Is(err, model.ErrValidation):
			util.HandleError(w, "неверные данные отправки", http.StatusBadRequest)
		case errors.Is(err, model.ErrAuthRequired):
			util.HandleError(w, "пользователь не авторизован", http.StatusUnauthorized)
		case errors.Is(err, model.ErrTransport):
			util.HandleError(w, "хранилище файлов недоступно", http.StatusBadGateway)
		default:
			util.HandleError(w, "внутренняя ошибка сервера", http.StatusInternalServerError)
		}
		return
	}

	response := requestresponse.CreateDeliveryResponse{
		Data: requestresponse.CreateDeliveryData{
			Delivery: requestresponse.DeliveryResponseFromModel(created, h.accessURL(created.AccessToken)),
		},
	}

	util.RespondJSON(w, http.StatusCreated, response)
}

// ListDeliveries godoc
// @Summary Список отправок владельца
// @Description Возвращает все отправки текущего пользователя, свежие первыми. Фильтры применяются к уже полученному списку.
// @Tags Deliveries
// @Produce json
// @Param q query string false "Подстрока для поиска по имени файла или получателю"
// @Param status query string false "Статусы через запятую: pending,sent,failed"
// @Param tab query string false "Вкладка: all, upcoming или history" default(all)
// @Param Authorization header string true "Bearer токен" default(Bearer <access_token>)
// @Success 200 {object} requestresponse.ListDeliveriesResponse
// @Failure 401 {object} requestresponse.ErrorResponse
// @Failure 500 {object} requestresponse.ErrorResponse
// @Router /api/deliveries [get]
func (h *DeliveryHandler) ListDeliveries(w http.ResponseWriter, r *http.Request) {
	claims, ok := r.Context().Value(security.UserContextKey).(*security.Claims)
	if ok == false || claims == nil {
		util.HandleError(w, "пользователь не авторизован", http.StatusUnauthorized)
		return
	}

	deliveries, err := h.DeliveryService.ListDeliveries(r.Context(), claims.UserUUID)
	if err != nil {
		log.Println(err)
		util.HandleError(w, "внутренняя ошибка сервера", http.StatusInternalServerError)
		return
	}

	query, statuses, tab := filterParams(r)
	filtered := client.Filter(deliveries, query, statuses, tab)

	response := requestresponse.ListDeliveriesResponse{Count: len(filtered)}
	response.Data.Deliveries = make([]requestresponse.DeliveryResponse, 0, len(filtered))
	for i := range filtered {
		response.Data.Deliveries = append(response.Data.Deliveries,
			requestresponse.DeliveryResponseFromModel(&filtered[i], h.accessURL(filtered[i].AccessToken)))
	}

	util.RespondJSON(w, http.StatusOK, response)
}

// GetDelivery godoc
// @Summary Получение отправки по ID
// @Description Возвращает отправку текущего пользователя.
// @Tags Deliveries
// @Produce json
// @Param delivery_id path string true "UUID отправки"
// @Param Authorization header string true "Bearer токен" default(Bearer <access_token>)
// @Success 200 {object} requestresponse.GetDeliveryResponse
// @Failure 400 {object} requestresponse.ErrorResponse
// @Failure 401 {object} requestresponse.ErrorResponse
// @Failure 404 {object} requestresponse.ErrorResponse
// @Failure 500 {object} requestresponse.ErrorResponse
// @Router /api/deliveries/{delivery_id} [get]
func (h *DeliveryHandler) GetDelivery(w http.ResponseWriter, r *http.Request) {
	deliveryUUID := chi.URLParam(r, "delivery_id")
	if deliveryUUID == "" {
		util.HandleError(w, "ID отправки обязателен", http.StatusBadRequest)
		return
	}

	claims, ok := r.Context().Value(security.UserContextKey).(*security.Claims)
	if ok == false || claims == nil {
		util.HandleError(w, "пользователь не авторизован", http.StatusUnauthorized)
		return
	}

	delivery, err := h.DeliveryService.GetDelivery(r.Context(), deliveryUUID, claims.UserUUID)
	if err != nil {
		log.Println(err)
		switch {
		case errors.Is(err, model.ErrNotFound):
			util.HandleError(w, "отправка не найдена", http.StatusNotFound)
		case errors.Is(err, model.ErrAuthRequired):
			util.HandleError(w, "пользователь не авторизован", http.StatusUnauthorized)
		default:
			util.HandleError(w, "внутренняя ошибка сервера", http.StatusInternalServerError)
		}
		return
	}

	response := requestresponse.GetDeliveryResponse{
		Data: requestresponse.GetDeliveryData{
			Delivery: requestresponse.DeliveryResponseFromModel(delivery, h.accessURL(delivery.AccessToken)),
		},
	}

	util.RespondJSON(w, http.StatusOK, response)
}

// UpdateDelivery godoc
// @Summary Перенос отправки
// @Description Меняет получателя или время отправки. Разрешено только пока запись ожидает отправки.
// @Tags Deliveries
// @Accept json
// @Produce json
// @Param delivery_id path string true "UUID отправки"
// @Param body body requestresponse.UpdateDeliveryRequest true "Новые значения, отсутствующие поля не меняются"
// @Param Authorization header string true "Bearer токен" default(Bearer <access_token>)
// @Success 200 {object} requestresponse.GetDeliveryResponse
// @Failure 400 {object} requestresponse.ErrorResponse
// @Failure 401 {object} requestresponse.ErrorResponse
// @Failure 404 {object} requestresponse.ErrorResponse
// @Failure 409 {object} requestresponse.ErrorResponse "Отправка уже ушла или завершилась ошибкой"
// @Failure 500 {object} requestresponse.ErrorResponse
// @Router /api/deliveries/{delivery_id} [put]
func (h *DeliveryHandler) UpdateDelivery(w http.ResponseWriter, r *http.Request) {
	deliveryUUID := chi.URLParam(r, "delivery_id")
	if deliveryUUID == "" {
		util.HandleError(w, "ID отправки обязателен", http.StatusBadRequest)
		return
	}

	claims, ok := r.Context().Value(security.UserContextKey).(*security.Claims)
	if ok == false || claims == nil {
		util.HandleError(w, "пользователь не авторизован", http.StatusUnauthorized)
		return
	}

	var req requestresponse.UpdateDeliveryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		util.HandleError(w, "неверный формат запроса", http.StatusBadRequest)
		return
	}

	var scheduledAt *time.Time
	if req.ScheduledAt != nil {
		parsed, err := time.Parse(time.RFC3339, *req.ScheduledAt)
		if err != nil {
			util.HandleError(w, "неверный формат scheduled_at (ожидается RFC3339)", http.StatusBadRequest)
			return
		}
		scheduledAt = &parsed
	}

	updated, err := h.DeliveryService.Reschedule(r.Context(), deliveryUUID, claims.UserUUID, req.RecipientEmail, scheduledAt)
	if err != nil {
		log.Println(err)
		switch {
		case errors.Is(err, model.ErrNotFound):
			util.HandleError(w, "отправка не найдена", http.StatusNotFound)
		case errors.Is(err, model.ErrValidation):
			util.HandleError(w, "неверные данные отправки", http.StatusBadRequest)
		case errors.Is(err, model.ErrPreconditionFailed):
			util.HandleError(w, "отправка уже обработана, перенос невозможен", http.StatusConflict)
		case errors.Is(err, model.ErrAuthRequired):
			util.HandleError(w, "пользователь не авторизован", http.StatusUnauthorized)
		default:
			util.HandleError(w, "внутренняя ошибка сервера", http.StatusInternalServerError)
		}
		return
	}

	response := requestresponse.GetDeliveryResponse{
		Data: requestresponse.GetDeliveryData{
			Delivery: requestresponse.DeliveryResponseFromModel(updated, h.accessURL(updated.AccessToken)),
		},
	}

	util.RespondJSON(w, http.StatusOK, response)
}

// DeleteDelivery godoc
// @Summary Отмена отправки
// @Description Удаляет запись и файл из хранилища. Ошибка удаления файла не блокирует отмену.
// @Tags Deliveries
// @Produce json
// @Param delivery_id path string true "UUID отправки"
// @Param Authorization header string true "Bearer токен" default(Bearer <access_token>)
// @Success 200 {object} requestresponse.ResponseMessage
// @Failure 400 {object} requestresponse.ErrorResponse
// @Failure 401 {object} requestresponse.ErrorResponse
// @Failure 404 {object} requestresponse.ErrorResponse
// @Failure 500 {object} requestresponse.ErrorResponse
// @Router /api/deliveries/{delivery_id} [delete]
func (h *DeliveryHandler) DeleteDelivery(w http.ResponseWriter, r *http.Request) {
	deliveryUUID := chi.URLParam(r, "delivery_id")
	if deliveryUUID == "" {
		util.HandleError(w, "ID отправки обязателен", http.StatusBadRequest)
		return
	}

	claims, ok := r.Context().Value(security.UserContextKey).(*security.Claims)
	if ok == false || claims == nil {
		util.HandleError(w, "пользователь не авторизован", http.StatusUnauthorized)
		return
	}

	if err := h.DeliveryService.Cancel(r.Context(), deliveryUUID, claims.UserUUID); err != nil {
		log.Println(err)
		switch {
		case errors.Is(err, model.ErrNotFound):
			util.HandleError(w, "отправка не найдена", http.StatusNotFound)
		case errors.Is(err, model.ErrAuthRequired):
			util.HandleError(w, "пользователь не авторизован", http.StatusUnauthorized)
		default:
			util.HandleError(w, "внутренняя ошибка сервера", http.StatusInternalServerError)
		}
		return
	}

	response := requestresponse.ResponseMessage{
		Response: map[string]interface{}{deliveryUUID: true},
	}

	util.RespondJSON(w, http.StatusOK, response)
}

// RetryDelivery godoc
// @Summary Повтор неудачной отправки
// @Description Возвращает запись со статусом failed в очередь и сразу запускает диспетчер. Успешные отправки повторить нельзя.
// @Tags Deliveries
// @Produce json
// @Param delivery_id path string true "UUID отправки"
// @Param Authorization header string true "Bearer токен" default(Bearer <access_token>)
// @Success 200 {object} requestresponse.GetDeliveryResponse
// @Failure 400 {object} requestresponse.ErrorResponse
// @Failure 401 {object} requestresponse.ErrorResponse
// @Failure 404 {object} requestresponse.ErrorResponse
// @Failure 409 {object} requestresponse.ErrorResponse "Отправка не в статусе failed"
// @Failure 500 {object} requestresponse.ErrorResponse
// @Router /api/deliveries/{delivery_id}/retry [post]
func (h *DeliveryHandler) RetryDelivery(w http.ResponseWriter, r *http.Request) {
	deliveryUUID := chi.URLParam(r, "delivery_id")
	if deliveryUUID == "" {
		util.HandleError(w, "ID отправки обязателен", http.StatusBadRequest)
		return
	}

	claims, ok := r.Context().Value(security.UserContextKey).(*security.Claims)
	if ok == false || claims == nil {
		util.HandleError(w, "пользователь не авторизован", http.StatusUnauthorized)
		return
	}

	delivery, err := h.DeliveryService.Retry(r.Context(), deliveryUUID, claims.UserUUID)
	if err != nil {
		log.Println(err)
		switch {
		case errors.Is(err, model.ErrNotFound):
			util.HandleError(w, "отправка не найдена", http.StatusNotFound)
		case errors.Is(err, model.ErrPreconditionFailed):
			util.HandleError(w, "повтор возможен только для неудачных отправок", http.StatusConflict)
		case errors.Is(err, model.ErrAuthRequired):
			util.HandleError(w, "пользователь не авторизован", http.StatusUnauthorized)
		default:
			util.HandleError(w, "внутренняя ошибка сервера", http.StatusInternalServerError)
		}
		return
	}

	response := requestresponse.GetDeliveryResponse{
		Data: requestresponse.GetDeliveryData{
			Delivery: requestresponse.DeliveryResponseFromModel(delivery, h.accessURL(delivery.AccessToken)),
		},
	}

	util.RespondJSON(w, http.StatusOK, response)
}

// RunDispatch godoc
// @Summary Ручной запуск диспетчера
// @Description Запускает обработку готовых к отправке записей и возвращает сводку прогона. Параллельные запуски схлопываются в один.
// @Tags Dispatch
// @Produce json
// @Param Authorization header string true "Bearer токен" default(Bearer <access_token>)
// @Success 200 {object} requestresponse.DispatchRunResponse
// @Failure 401 {object} requestresponse.ErrorResponse
// @Failure 500 {object} requestresponse.ErrorResponse
// @Router /api/dispatch/run [post]
func (h *DeliveryHandler) RunDispatch(w http.ResponseWriter, r *http.Request) {
	claims, ok := r.Context().Value(security.UserContextKey).(*security.Claims)
	if ok == false || claims == nil {
		util.HandleError(w, "пользователь не авторизован", http.StatusUnauthorized)
		return
	}

	result, err := h.trigger.RunDispatch(r.Context())
	if err != nil {
		log.Println(err)
		util.HandleError(w, "не удалось выполнить прогон диспетчера", http.StatusInternalServerError)
		return
	}

	util.RespondJSON(w, http.StatusOK, requestresponse.DispatchRunResponse{Data: *result})
}

func (h *DeliveryHandler) accessURL(token string) string {
	if h.publicBaseURL == "" || token == "" {
		return ""
	}
	return fmt.Sprintf("%s/access/%s", h.publicBaseURL, token)
}

// filterParams : параметры отбора списка из query-строки
func filterParams(r *http.Request) (string, []string, string) {
	query := r.URL.Query().Get("q")

	var statuses []string
	if raw := r.URL.Query().Get("status"); raw != "" {
		statuses = strings.Split(raw, ",")
	}

	tab := r.URL.Query().Get("tab")
	if tab == "" {
		tab = client.TabAll
	}

	return query, statuses, tab
}
