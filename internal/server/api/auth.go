// HTTP-хендлеры регистрации и логина
package api

import (
	"net/http"

	"github.com/IvanChernomyrdin/go-jsonserver-auth/internal/server/models"
)

// Register обрабатывает регистрацию пользователя (/register, /signup).
//
// Тело: объект пользователя: email и password обязательны, остальные
// поля сохраняются как есть.
//
// Ответы:
//   - 201 Created: {accessToken, user};
//   - 400 Bad Request: неверный JSON, невалидные данные или email занят;
//   - 500 Internal Server Error: прочие ошибки.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	body, err := h.decodeObject(w, r)
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}

	res, err := h.Svc.Auth.Register(r.Context(), body)
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	h.Metrics.StoreWrite("users", r.Method)

	WriteJSON(w, http.StatusCreated, res)
}

// Login обрабатывает вход пользователя (/login, /signin).
//
// Ответы:
//   - 200 OK: {accessToken, user};
//   - 400 Bad Request: неверный JSON, пользователь не найден или пароль неверный;
//   - 500 Internal Server Error: прочие ошибки.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	body, err := h.decodeObject(w, r)
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	email, _ := body[models.UserEmailField].(string)
	password, _ := body[models.UserPasswordField].(string)

	res, err := h.Svc.Auth.Login(r.Context(), email, password)
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}

	WriteJSON(w, http.StatusOK, res)
}
