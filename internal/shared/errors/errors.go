// Package errors содержит общие доменные ошибки приложения.
//
// Эти ошибки используются в service и repository слоях
// и маппятся на HTTP-статусы в api слое и в middleware.
package errors

import "errors"

var (
	// Входные данные невалидны (пустые поля, неправильный формат и т.п.)
	ErrInvalidInput = errors.New("invalid input")
	// Получена непредвиденная ошибка
	ErrInternal = errors.New("internal error")
	// Полученные JSON данные с ошибками
	ErrBadJSON = errors.New("bad json")
	// Неавторизован
	ErrUnauthorized = errors.New("unauthorized")
	// Авторизован, но прав не хватает
	ErrForbidden = errors.New("forbidden")
	// Ресурс уже существует (например email уже занят)
	ErrAlreadyExists = errors.New("already exists")
	// Ресурс не найден
	ErrNotFound = errors.New("not found")
	// конфликт (к примеру дубликат id при вставке)
	ErrConflict = errors.New("conflict")
	// тело запроса больше лимита
	ErrPayloadTooLarge = errors.New("payload too large")
)

// ошибки аутентификации, тексты совпадают с тем, что ждут клиенты json-server-auth
var (
	ErrEmailPasswordRequired = errors.New("Email and password are required")
	ErrEmailFormat           = errors.New("Email format is invalid")
	ErrPasswordTooShort      = errors.New("Password is too short")
	ErrEmailExists           = errors.New("Email already exists")
	ErrUserNotFound          = errors.New("Cannot find user")
	ErrIncorrectPassword     = errors.New("Incorrect password")
	ErrMissingAuthHeader     = errors.New("Missing authorization header")
	ErrAuthScheme            = errors.New("Incorrect authorization scheme")
	ErrTokenExpired          = errors.New("Token expired")
	ErrTokenInvalid          = errors.New("Invalid token")
)

// ошибки проверки владельца ресурса
var (
	ErrPrivateCreate = errors.New("Private resource creation: request body must have a reference to the owner id")
	ErrPrivateAccess = errors.New("Private resource access: entity must have a reference to the owner id")
)

// ошибки хранилища и конфигурации
var (
	ErrUnknownResource = errors.New("unknown resource")
	ErrNotCollection   = errors.New("resource is not a collection")
	ErrNotSingular     = errors.New("resource is not a singular object")
	ErrBadPermission   = errors.New("invalid permission code")
	ErrUncoveredRules  = errors.New("resources without permission rule")
	ErrResourceSet     = errors.New("set of resources changed")
)
