// Серверная модель пользователя
package models

import "strings"

// Поля записи пользователя в базе.
const (
	UserEmailField    = "email"
	UserPasswordField = "password"
)

// User — запись ресурса users.
//
// В базе пароль лежит в поле password в виде хэша. Остальные поля
// (role, firstname и т.п.) хранятся как есть в Extra.
type User struct {
	ID           any
	Email        string
	PasswordHash string
	Extra        map[string]any
}

// UserFromRecord собирает User из записи базы.
func UserFromRecord(rec map[string]any) User {
	u := User{ID: rec["id"], Extra: make(map[string]any)}
	for k, v := range rec {
		switch k {
		case "id":
		case UserEmailField:
			u.Email, _ = v.(string)
		case UserPasswordField:
			u.PasswordHash, _ = v.(string)
		default:
			u.Extra[k] = v
		}
	}
	return u
}

// Record возвращает запись для сохранения в базе.
func (u User) Record() map[string]any {
	rec := u.Public()
	rec[UserPasswordField] = u.PasswordHash
	return rec
}

// Public возвращает представление пользователя без хэша пароля.
func (u User) Public() map[string]any {
	rec := make(map[string]any, len(u.Extra)+2)
	for k, v := range u.Extra {
		rec[k] = v
	}
	if u.ID != nil {
		rec["id"] = u.ID
	}
	rec[UserEmailField] = u.Email
	return rec
}

// NormalizeEmail приводит email к виду, в котором он хранится.
func NormalizeEmail(email string) string {
	return strings.TrimSpace(email)
}
