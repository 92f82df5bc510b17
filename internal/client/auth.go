// Методы клиента для эндпоинтов аутентификации: регистрация и вход.
package client

import (
	"context"
	"net/http"
)

// Credentials — тело /register и /login.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse — ответ /register и /login.
type AuthResponse struct {
	AccessToken string         `json:"accessToken"`
	User        map[string]any `json:"user"`
}

// Register регистрирует пользователя. extra: дополнительные поля записи (role и т.п.).
func (c *Client) Register(ctx context.Context, creds Credentials, extra map[string]any) (AuthResponse, error) {
	body := make(map[string]any, len(extra)+2)
	for k, v := range extra {
		body[k] = v
	}
	body["email"] = creds.Email
	body["password"] = creds.Password

	var resp AuthResponse
	err := c.Do(ctx, http.MethodPost, "/register", body, &resp, "")
	return resp, err
}

// Login выполняет вход и возвращает access токен.
func (c *Client) Login(ctx context.Context, creds Credentials) (AuthResponse, error) {
	var resp AuthResponse
	err := c.Do(ctx, http.MethodPost, "/login", creds, &resp, "")
	return resp, err
}
