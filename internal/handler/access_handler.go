package handler

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"delivery-web-server/internal/model"
	requestresponse "delivery-web-server/internal/model/requestresponse"
	"delivery-web-server/internal/ports"
	"delivery-web-server/internal/util"

	"github.com/go-chi/chi/v5"
)

type AccessHandler struct {
	ports.DeliveryService
	linkTTLSeconds int
}

func NewAccessHandler(deliveryService ports.DeliveryService, linkTTLSeconds int) *AccessHandler {
	return &AccessHandler{deliveryService, linkTTLSeconds}
}

// ResolveAccess godoc
// @Summary Доступ к файлу по токену
// @Description Возвращает свежую ссылку на скачивание по токену из письма, авторизация не требуется.
// Различие между несуществующим и некорректным токеном наружу не отдается.
// @Tags Access
// @Produce json
// @Param token path string true "Токен доступа из письма"
// @Success 200 {object} requestresponse.AccessResponse
// @Failure 404 {object} requestresponse.ErrorResponse "Ссылка не найдена"
// @Failure 502 {object} requestresponse.ErrorResponse "Хранилище файлов недоступно"
// @Failure 500 {object} requestresponse.ErrorResponse
// @Router /access/{token} [get]
func (h *AccessHandler) ResolveAccess(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")

	result, err := h.DeliveryService.ResolveByToken(r.Context(), token)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrNotFound):
			util.HandleError(w, "ссылка не найдена", http.StatusNotFound)
		case errors.Is(err, model.ErrTransport):
			log.Println(err)
			util.HandleError(w, "хранилище файлов недоступно", http.StatusBadGateway)
		default:
			log.Println(err)
			util.HandleError(w, "внутренняя ошибка сервера", http.StatusInternalServerError)
		}
		return
	}

	response := requestresponse.AccessResponse{
		Data: requestresponse.AccessData{
			FilenameOriginal: result.Delivery.FilenameOriginal,
			MimeType:         result.Delivery.MimeType,
			SizeBytes:        result.Delivery.SizeBytes,
			DownloadURL:      result.DownloadURL,
		},
		ExpiresIn: strconv.Itoa(h.linkTTLSeconds),
	}

	util.RespondJSON(w, http.StatusOK, response)
}
