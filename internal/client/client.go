// Package client содержит HTTP-клиент для запущенного сервера json-server-auth.
//
// Клиент нужен CLI (команда token) и тестам: он знает формат ошибок
// сервера ({"message": "..."}) и ставит Bearer-токен.
//
// Особенности:
//   - baseURL нормализуется (обрезаются завершающие "/").
//   - Заголовок Content-Type: application/json ставится только при наличии тела.
//   - Пустое тело ответа (EOF при декодировании) не считается ошибкой.
//   - При ответах не 2xx возвращается *Error со статусом и сообщением сервера.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// DefaultTimeout — таймаут запроса по умолчанию.
const DefaultTimeout = 10 * time.Second

// Client реализует HTTP-клиент для сервера.
type Client struct {
	baseURL string
	http    *http.Client
}

// New создаёт клиент. httpClient == nil: клиент с DefaultTimeout.
func New(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: DefaultTimeout}
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
	}
}

// Error — ответ сервера с кодом не 2xx.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%d: %s", e.Status, e.Message)
}

// StatusOf возвращает HTTP-статус из ошибки клиента, 0: это не ответ сервера.
func StatusOf(err error) int {
	var e *Error
	if errors.As(err, &e) {
		return e.Status
	}
	return 0
}

// Do выполняет запрос.
//
// Параметры:
//   - req: тело запроса, nil: без тела и без Content-Type;
//   - resp: куда декодировать ответ, nil: не декодировать;
//   - token: access токен, непустой уходит в Authorization: Bearer.
func (c *Client) Do(ctx context.Context, method, path string, req, resp any, token string) error {
	var body io.Reader
	if req != nil {
		var buf bytes.Buffer
		if err := json.NewEncoder(&buf).Encode(req); err != nil {
			return err
		}
		body = &buf
	}

	r, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	r.Header.Set("Accept", "application/json")
	if req != nil {
		r.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		r.Header.Set("Authorization", "Bearer "+token)
	}

	res, err := c.http.Do(r)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return readError(res)
	}
	if resp == nil || res.StatusCode == http.StatusNoContent {
		return nil
	}

	err = json.NewDecoder(res.Body).Decode(resp)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

// readError превращает ответ с ошибкой в *Error.
// Сообщение берётся из {"message"}, иначе из тела как есть, иначе из статуса.
func readError(res *http.Response) error {
	raw, _ := io.ReadAll(res.Body)
	var m struct {
		Message string `json:"message"`
	}
	msg := strings.TrimSpace(string(raw))
	if json.Unmarshal(raw, &m) == nil && m.Message != "" {
		msg = m.Message
	}
	if msg == "" {
		msg = res.Status
	}
	return &Error{Status: res.StatusCode, Message: msg}
}
