// Package rules содержит таблицу прав доступа к ресурсам и
// rewriting-middleware, которое прикладывает правило к каждому запросу.
//
// Право задаётся трёхзначным кодом. Первая цифра относится к владельцу записи,
// вторая к любому вошедшему пользователю, третья ко всем остальным.
// Каждая цифра является битовой маской (4 чтение, 2 запись).
//
//	600 — только владелец читает и пишет
//	640 — владелец пишет, вошедшие читают
//	644 — владелец пишет, читают все
//	660 — вошедшие читают и пишут
//	664 — вошедшие пишут, читают все
//	666 — ограничений нет
//	440 — вошедшие только читают
//	444 — все только читают
package rules

import (
	"fmt"

	serr "github.com/IvanChernomyrdin/go-jsonserver-auth/internal/shared/errors"
)

// Actor — класс субъекта запроса.
type Actor int

const (
	Public Actor = iota // без токена
	Logged              // с валидным токеном
	Owner               // с валидным токеном и владелец записи
)

func (a Actor) String() string {
	switch a {
	case Owner:
		return "owner"
	case Logged:
		return "logged"
	default:
		return "public"
	}
}

// Access — вид доступа.
type Access int

const (
	Read  Access = 4
	Write Access = 2
)

func (a Access) String() string {
	if a == Write {
		return "write"
	}
	return "read"
}

// Permission — разобранный трёхзначный код.
type Permission struct {
	Owner  uint8
	Logged uint8
	Public uint8
}

// ParsePermission разбирает код вида 664.
//
// Каждая цифра должна быть в диапазоне 0..7.
func ParsePermission(code int) (Permission, error) {
	if code < 0 || code > 777 {
		return Permission{}, fmt.Errorf("%w: %d", serr.ErrBadPermission, code)
	}
	o, l, p := code/100, code/10%10, code%10
	for _, d := range []int{o, l, p} {
		if d > 7 {
			return Permission{}, fmt.Errorf("%w: %03d", serr.ErrBadPermission, code)
		}
	}
	return Permission{Owner: uint8(o), Logged: uint8(l), Public: uint8(p)}, nil
}

// MustPermission — ParsePermission, паникующий на ошибке. Только для констант.
func MustPermission(code int) Permission {
	p, err := ParsePermission(code)
	if err != nil {
		panic(err)
	}
	return p
}

// Allows сообщает, разрешён ли доступ субъекту.
func (p Permission) Allows(actor Actor, access Access) bool {
	var digit uint8
	switch actor {
	case Owner:
		digit = p.Owner
	case Logged:
		digit = p.Logged
	default:
		digit = p.Public
	}
	return digit&uint8(access) != 0
}

// Required возвращает минимальный класс субъекта для доступа.
// ok=false: доступ закрыт всем.
func (p Permission) Required(access Access) (actor Actor, ok bool) {
	for _, a := range []Actor{Public, Logged, Owner} {
		if p.Allows(a, access) {
			return a, true
		}
	}
	return Owner, false
}

// Code возвращает числовой код.
func (p Permission) Code() int {
	return int(p.Owner)*100 + int(p.Logged)*10 + int(p.Public)
}

func (p Permission) String() string {
	return fmt.Sprintf("%d%d%d", p.Owner, p.Logged, p.Public)
}
