package rules

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"strings"

	serr "github.com/IvanChernomyrdin/go-jsonserver-auth/internal/shared/errors"
)

// DefaultRules — таблица прав по умолчанию.
//
// users закрыт на 600: записи содержат хэши паролей, а регистрация и вход
// идут через отдельные эндпоинты и таблицу не используют.
func DefaultRules() map[string]int {
	return map[string]int{
		"users":      600,
		"books":      664,
		"categories": 664,
		"products":   664,
		"orders":     664,
		"reviews":    664,
		"coupons":    664,
		"carts":      664,
	}
}

// Table — неизменяемая после создания таблица "ресурс -> право".
type Table struct {
	rules map[string]Permission
}

// NewTable проверяет все коды и собирает таблицу.
func NewTable(codes map[string]int) (*Table, error) {
	t := &Table{rules: make(map[string]Permission, len(codes))}
	for name, code := range codes {
		name = strings.Trim(strings.TrimSpace(name), "/")
		if name == "" {
			return nil, fmt.Errorf("%w: пустое имя ресурса", serr.ErrBadPermission)
		}
		p, err := ParsePermission(code)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		t.rules[name] = p
	}
	return t, nil
}

// Lookup возвращает право для ресурса.
func (t *Table) Lookup(resource string) (Permission, bool) {
	p, ok := t.rules[resource]
	return p, ok
}

// Resources возвращает имена ресурсов таблицы в алфавитном порядке.
func (t *Table) Resources() []string {
	out := make([]string, 0, len(t.rules))
	for name := range t.rules {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Uncovered возвращает ресурсы хранилища, для которых в таблице нет правила.
func (t *Table) Uncovered(storeResources []string) []string {
	var out []string
	for _, name := range storeResources {
		if _, ok := t.rules[name]; !ok {
			out = append(out, name)
		}
	}
	sort.Strings(out)
	return out
}

// Cover возвращает таблицу, покрывающую все ресурсы хранилища.
//
//   - strict: непокрытый ресурс: ошибка ErrUncoveredRules;
//   - defaultCode != nil: непокрытые ресурсы получают этот код;
//   - иначе непокрытые остаются без ограничений и возвращаются в uncovered,
//     чтобы вызывающий залогировал это решение.
func (t *Table) Cover(storeResources []string, defaultCode *int, strict bool) (covered *Table, uncovered []string, err error) {
	uncovered = t.Uncovered(storeResources)
	if len(uncovered) == 0 {
		return t, nil, nil
	}
	if strict {
		return nil, uncovered, fmt.Errorf("%w: %s", serr.ErrUncoveredRules, strings.Join(uncovered, ", "))
	}
	if defaultCode == nil {
		return t, uncovered, nil
	}

	p, err := ParsePermission(*defaultCode)
	if err != nil {
		return nil, uncovered, err
	}
	next := &Table{rules: make(map[string]Permission, len(t.rules)+len(uncovered))}
	for k, v := range t.rules {
		next.rules[k] = v
	}
	for _, name := range uncovered {
		next.rules[name] = p
	}
	return next, nil, nil
}

// Rule — правило, приложенное к конкретному запросу.
type Rule struct {
	Resource   string
	ID         string // пусто для запроса к коллекции
	Permission Permission
}

// ctxKey используется как тип ключа для хранения значений в context.Context.
type ctxKey string

const ruleKey ctxKey = "rule"

// WithRule кладёт правило в контекст.
func WithRule(ctx context.Context, r Rule) context.Context {
	return context.WithValue(ctx, ruleKey, r)
}

// FromContext достаёт правило из контекста.
func FromContext(ctx context.Context) (Rule, bool) {
	r, ok := ctx.Value(ruleKey).(Rule)
	return r, ok
}

// SplitPath разбирает путь запроса на ресурс и id: /books/1 -> books, 1.
func SplitPath(p string) (resource, id string) {
	p = strings.Trim(p, "/")
	if p == "" {
		return "", ""
	}
	parts := strings.SplitN(p, "/", 3)
	resource = parts[0]
	if len(parts) > 1 {
		id = parts[1]
	}
	return resource, id
}

// Rewriter возвращает middleware, которое находит правило для ресурса
// из пути запроса и кладёт его в контекст. Решение о доступе принимает
// следующий слой (middleware.Guard), поэтому Rewriter должен стоять перед ним.
func (t *Table) Rewriter() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			resource, id := SplitPath(r.URL.Path)
			if p, ok := t.rules[resource]; ok {
				r = r.WithContext(WithRule(r.Context(), Rule{
					Resource:   resource,
					ID:         id,
					Permission: p,
				}))
			}
			next.ServeHTTP(w, r)
		})
	}
}

// OwnerField возвращает поле записи, которое ссылается на владельца.
// Для users владелец: сама запись, поэтому сравнивается id.
func OwnerField(resource string) string {
	if resource == "users" {
		return "id"
	}
	return "userId"
}

// OwnerScope — ограничение выборки записями одного владельца.
// Ставится guard'ом, когда коллекцию читает владелец, а не любой залогиненный.
type OwnerScope struct {
	Field  string
	UserID string
}

const ownerKey ctxKey = "owner_scope"

// WithOwnerScope кладёт ограничение по владельцу в контекст.
func WithOwnerScope(ctx context.Context, s OwnerScope) context.Context {
	return context.WithValue(ctx, ownerKey, s)
}

// OwnerScopeFromContext достаёт ограничение по владельцу из контекста.
func OwnerScopeFromContext(ctx context.Context) (OwnerScope, bool) {
	s, ok := ctx.Value(ownerKey).(OwnerScope)
	return s, ok
}
