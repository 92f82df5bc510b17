// Package repository содержит слой доступа к данным.
//
// Вся база хранится одним JSON-документом на диске. Ключ верхнего уровня задаёт ресурс,
// значением служит массив объектов с уникальным id (коллекция) или один объект
// (одиночный ресурс). JSONStore держит документ в памяти под RWMutex и
// после каждой мутации атомарно переписывает файл (temp + rename).
//
// Все ошибки приводятся к доменным ошибкам из internal/shared/errors.
package repository

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"github.com/google/uuid"

	serr "github.com/IvanChernomyrdin/go-jsonserver-auth/internal/shared/errors"
	"github.com/IvanChernomyrdin/go-jsonserver-auth/internal/shared/logger"
)

// IDField — имя поля-идентификатора записи.
const IDField = "id"

// Record — одна запись ресурса.
type Record = map[string]any

// Kind — вид ресурса.
type Kind int

const (
	Collection Kind = iota // массив записей
	Singular               // один объект
)

// Option настраивает JSONStore.
type Option func(*JSONStore)

// WithReloadHook задаёт функцию, вызываемую после попытки перечитать
// изменившийся файл: err == nil: состояние заменено, иначе файл отвергнут.
func WithReloadHook(fn func(err error)) Option {
	return func(s *JSONStore) { s.onReload = fn }
}

// JSONStore — файловое JSON-хранилище.
type JSONStore struct {
	mu   sync.RWMutex
	path string
	keys []string       // порядок ресурсов как в файле
	data map[string]any // []any | map[string]any
	hash [sha256.Size]byte

	log      *logger.HTTPLogger
	onReload func(error)
}

// Open загружает базу из файла.
//
// Если файла нет, создаётся база с пустой коллекцией users,
// чтобы регистрация работала сразу.
func Open(path string, log *logger.HTTPLogger, opts ...Option) (*JSONStore, error) {
	if log == nil {
		log = logger.NewNop()
	}
	s := &JSONStore{path: filepath.Clean(path), log: log}
	for _, opt := range opts {
		opt(s)
	}

	raw, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		s.keys = []string{UsersResource}
		s.data = map[string]any{UsersResource: []any{}}
		if err := s.persistLocked(); err != nil {
			return nil, err
		}
		log.Sugar().Infof("database %s not found, created an empty one", s.path)
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read database: %w", err)
	}

	keys, data, err := decodeDocument(raw)
	if err != nil {
		return nil, fmt.Errorf("parse database %s: %w", s.path, err)
	}
	s.keys, s.data = keys, data
	s.hash = sha256.Sum256(raw)
	return s, nil
}

// Path возвращает путь к файлу базы.
func (s *JSONStore) Path() string {
	return s.path
}

// Resources возвращает имена ресурсов в порядке файла.
func (s *JSONStore) Resources() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return append([]string(nil), s.keys...)
}

// Kind возвращает вид ресурса.
func (s *JSONStore) Kind(resource string) (Kind, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	switch s.data[resource].(type) {
	case []any:
		return Collection, nil
	case map[string]any:
		return Singular, nil
	default:
		return 0, serr.ErrUnknownResource
	}
}

// List возвращает копии всех записей коллекции.
func (s *JSONStore) List(ctx context.Context, resource string) ([]Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	items, err := s.collectionLocked(resource)
	if err != nil {
		return nil, err
	}
	out := make([]Record, 0, len(items))
	for _, it := range items {
		out = append(out, cloneRecord(it.(Record)))
	}
	return out, nil
}

// Get возвращает копию записи по id.
func (s *JSONStore) Get(ctx context.Context, resource, id string) (Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	items, err := s.collectionLocked(resource)
	if err != nil {
		return nil, err
	}
	i := indexOf(items, id)
	if i < 0 {
		return nil, serr.ErrNotFound
	}
	return cloneRecord(items[i].(Record)), nil
}

// FindOne возвращает первую запись, у которой поле field равно value.
func (s *JSONStore) FindOne(ctx context.Context, resource, field, value string) (Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	items, err := s.collectionLocked(resource)
	if err != nil {
		return nil, err
	}
	for _, it := range items {
		rec := it.(Record)
		if v, ok := rec[field]; ok && IDString(v) == value {
			return cloneRecord(rec), nil
		}
	}
	return nil, serr.ErrNotFound
}

// Insert добавляет запись в коллекцию.
//
// Если id не задан, он генерируется: пустая коллекция -> 1,
// все id целые -> max+1, иначе UUID. Дубликат id -> ErrConflict.
func (s *JSONStore) Insert(ctx context.Context, resource string, rec Record) (Record, error) {
	return s.insert(ctx, resource, rec, "")
}

// InsertUnique — Insert с проверкой уникальности поля field (под той же блокировкой).
// Дубликат значения -> ErrAlreadyExists.
func (s *JSONStore) InsertUnique(ctx context.Context, resource, field string, rec Record) (Record, error) {
	return s.insert(ctx, resource, rec, field)
}

func (s *JSONStore) insert(ctx context.Context, resource string, rec Record, uniqueField string) (Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	items, err := s.collectionLocked(resource)
	if err != nil {
		return nil, err
	}

	rec = cloneRecord(rec)
	if uniqueField != "" {
		want := IDString(rec[uniqueField])
		for _, it := range items {
			if v, ok := it.(Record)[uniqueField]; ok && IDString(v) == want {
				return nil, serr.ErrAlreadyExists
			}
		}
	}

	if id, ok := rec[IDField]; ok && IDString(id) != "" {
		if indexOf(items, IDString(id)) >= 0 {
			return nil, fmt.Errorf("%w: duplicate id %s", serr.ErrConflict, IDString(id))
		}
	} else {
		rec[IDField] = nextID(items)
	}

	next := make([]any, len(items), len(items)+1)
	copy(next, items)
	next = append(next, rec)

	if err := s.commitLocked(resource, next); err != nil {
		return nil, err
	}
	return cloneRecord(rec), nil
}

// Replace заменяет запись целиком, id сохраняется.
func (s *JSONStore) Replace(ctx context.Context, resource, id string, rec Record) (Record, error) {
	return s.update(ctx, resource, id, func(old Record) Record {
		out := cloneRecord(rec)
		out[IDField] = old[IDField]
		return out
	})
}

// Patch сливает поля patch в запись (поверхностно), id не меняется.
func (s *JSONStore) Patch(ctx context.Context, resource, id string, patch Record) (Record, error) {
	return s.update(ctx, resource, id, func(old Record) Record {
		out := cloneRecord(old)
		for k, v := range patch {
			if k == IDField {
				continue
			}
			out[k] = cloneValue(v)
		}
		return out
	})
}

func (s *JSONStore) update(ctx context.Context, resource, id string, fn func(old Record) Record) (Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	items, err := s.collectionLocked(resource)
	if err != nil {
		return nil, err
	}
	i := indexOf(items, id)
	if i < 0 {
		return nil, serr.ErrNotFound
	}

	rec := fn(items[i].(Record))
	next := make([]any, len(items))
	copy(next, items)
	next[i] = rec

	if err := s.commitLocked(resource, next); err != nil {
		return nil, err
	}
	return cloneRecord(rec), nil
}

// Delete удаляет запись по id.
func (s *JSONStore) Delete(ctx context.Context, resource, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	items, err := s.collectionLocked(resource)
	if err != nil {
		return err
	}
	i := indexOf(items, id)
	if i < 0 {
		return serr.ErrNotFound
	}

	next := make([]any, 0, len(items)-1)
	next = append(next, items[:i]...)
	next = append(next, items[i+1:]...)
	return s.commitLocked(resource, next)
}

// Object возвращает копию одиночного ресурса.
func (s *JSONStore) Object(ctx context.Context, resource string) (Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	obj, err := s.objectLocked(resource)
	if err != nil {
		return nil, err
	}
	return cloneRecord(obj), nil
}

// ReplaceObject заменяет одиночный ресурс.
func (s *JSONStore) ReplaceObject(ctx context.Context, resource string, rec Record) (Record, error) {
	return s.updateObject(ctx, resource, func(Record) Record { return cloneRecord(rec) })
}

// PatchObject сливает поля в одиночный ресурс.
func (s *JSONStore) PatchObject(ctx context.Context, resource string, patch Record) (Record, error) {
	return s.updateObject(ctx, resource, func(old Record) Record {
		out := cloneRecord(old)
		for k, v := range patch {
			out[k] = cloneValue(v)
		}
		return out
	})
}

func (s *JSONStore) updateObject(ctx context.Context, resource string, fn func(old Record) Record) (Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	old, err := s.objectLocked(resource)
	if err != nil {
		return nil, err
	}
	rec := fn(old)
	if err := s.commitLocked(resource, rec); err != nil {
		return nil, err
	}
	return cloneRecord(rec), nil
}

// Reload перечитывает файл с диска, если его содержимое изменилось.
// Возвращает true, если состояние было заменено.
//
// Набор ресурсов фиксируется при Open: таблица прав покрывает именно его.
// Файл, в котором ресурсы добавлены или удалены, отвергается с
// ErrResourceSet, в памяти остаётся прошлое состояние.
func (s *JSONStore) Reload() (bool, error) {
	// читаем под блокировкой, иначе можно прочитать файл до собственной записи
	// и откатить её
	s.mu.Lock()
	raw, err := os.ReadFile(s.path)
	if err != nil {
		s.mu.Unlock()
		return false, fmt.Errorf("read database: %w", err)
	}
	sum := sha256.Sum256(raw)
	if sum == s.hash {
		s.mu.Unlock()
		return false, nil
	}
	keys, data, err := decodeDocument(raw)
	if err != nil {
		s.mu.Unlock()
		err = fmt.Errorf("parse database %s: %w", s.path, err)
		s.notifyReload(err)
		return false, err
	}
	if added, removed := diffKeys(s.keys, keys); len(added) > 0 || len(removed) > 0 {
		s.mu.Unlock()
		err = fmt.Errorf("%w: added %v, removed %v", serr.ErrResourceSet, added, removed)
		s.notifyReload(err)
		return false, err
	}
	s.keys, s.data, s.hash = keys, data, sum
	s.mu.Unlock()

	s.notifyReload(nil)
	return true, nil
}

// diffKeys сравнивает наборы ресурсов без учёта порядка.
func diffKeys(old, cur []string) (added, removed []string) {
	seen := make(map[string]bool, len(old))
	for _, k := range old {
		seen[k] = true
	}
	for _, k := range cur {
		if !seen[k] {
			added = append(added, k)
		}
		delete(seen, k)
	}
	for _, k := range old {
		if seen[k] {
			removed = append(removed, k)
		}
	}
	return added, removed
}

func (s *JSONStore) notifyReload(err error) {
	if s.onReload != nil {
		s.onReload(err)
	}
}

func (s *JSONStore) collectionLocked(resource string) ([]any, error) {
	v, ok := s.data[resource]
	if !ok {
		return nil, serr.ErrUnknownResource
	}
	items, ok := v.([]any)
	if !ok {
		return nil, serr.ErrNotCollection
	}
	return items, nil
}

func (s *JSONStore) objectLocked(resource string) (Record, error) {
	v, ok := s.data[resource]
	if !ok {
		return nil, serr.ErrUnknownResource
	}
	obj, ok := v.(map[string]any)
	if !ok {
		return nil, serr.ErrNotSingular
	}
	return obj, nil
}

// commitLocked подменяет значение ресурса и пишет файл.
// Если запись на диск не удалась, в памяти остаётся старое значение.
func (s *JSONStore) commitLocked(resource string, value any) error {
	prev := s.data[resource]
	s.data[resource] = value
	if err := s.persistLocked(); err != nil {
		s.data[resource] = prev
		s.log.Sugar().Errorw("persist database failed", "error", err, "resource", resource)
		return fmt.Errorf("%w: %v", serr.ErrInternal, err)
	}
	return nil
}

// persistLocked атомарно переписывает файл базы.
func (s *JSONStore) persistLocked() error {
	b, err := encodeDocument(s.keys, s.data)
	if err != nil {
		return err
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, ".db-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(b); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		return err
	}
	s.hash = sha256.Sum256(b)
	return nil
}

// decodeDocument разбирает документ, сохраняя порядок ключей верхнего уровня.
// Числа остаются json.Number, чтобы целые id не превращались в float.
func decodeDocument(raw []byte) ([]string, map[string]any, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return nil, nil, err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, nil, errors.New("top level must be a JSON object")
	}

	var keys []string
	data := make(map[string]any)
	for dec.More() {
		kt, err := dec.Token()
		if err != nil {
			return nil, nil, err
		}
		key := kt.(string)

		var v any
		if err := dec.Decode(&v); err != nil {
			return nil, nil, fmt.Errorf("resource %q: %w", key, err)
		}
		switch val := v.(type) {
		case []any:
			for i, it := range val {
				if _, ok := it.(map[string]any); !ok {
					return nil, nil, fmt.Errorf("resource %q: item %d is not an object", key, i)
				}
			}
		case map[string]any:
		default:
			return nil, nil, fmt.Errorf("resource %q must be an array or an object", key)
		}

		if _, dup := data[key]; !dup {
			keys = append(keys, key)
		}
		data[key] = v
	}
	if _, err := dec.Token(); err != nil {
		return nil, nil, err
	}
	return keys, data, nil
}

func encodeDocument(keys []string, data map[string]any) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString("{\n")
	for i, k := range keys {
		kb, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		vb, err := json.MarshalIndent(data[k], "  ", "  ")
		if err != nil {
			return nil, fmt.Errorf("resource %q: %w", k, err)
		}
		buf.WriteString("  ")
		buf.Write(kb)
		buf.WriteString(": ")
		buf.Write(vb)
		if i < len(keys)-1 {
			buf.WriteByte(',')
		}
		buf.WriteByte('\n')
	}
	buf.WriteString("}\n")
	return buf.Bytes(), nil
}

// IDString приводит значение id к строке для сравнения с параметром пути.
func IDString(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case json.Number:
		return x.String()
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	default:
		return fmt.Sprint(x)
	}
}

func indexOf(items []any, id string) int {
	for i, it := range items {
		if IDString(it.(Record)[IDField]) == id {
			return i
		}
	}
	return -1
}

func nextID(items []any) any {
	if len(items) == 0 {
		return json.Number("1")
	}
	var max int64
	for _, it := range items {
		n, err := strconv.ParseInt(IDString(it.(Record)[IDField]), 10, 64)
		if err != nil {
			return uuid.NewString()
		}
		if n > max {
			max = n
		}
	}
	return json.Number(strconv.FormatInt(max+1, 10))
}

func cloneRecord(r Record) Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch x := v.(type) {
	case map[string]any:
		return cloneRecord(x)
	case []any:
		out := make([]any, len(x))
		for i, e := range x {
			out[i] = cloneValue(e)
		}
		return out
	default:
		return x
	}
}
