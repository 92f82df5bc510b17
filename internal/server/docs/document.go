package docs

import (
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/swaggo/swag"
	"gopkg.in/yaml.v3"
)

//go:embed annotations/*.yaml
var annotations embed.FS

// ErrFragment — фрагмент документации не разобран и пропущен.
var ErrFragment = errors.New("invalid documentation fragment")

// Annotations возвращает встроенные фрагменты маршрутов.
func Annotations() fs.FS {
	sub, err := fs.Sub(annotations, "annotations")
	if err != nil {
		// каталог встроен при сборке, ошибки тут быть не может
		panic(err)
	}
	return sub
}

// Document — собранный документ. После Build не меняется.
type Document struct {
	raw       []byte
	paths     []string
	fragments int

	once sync.Once
	name string
}

// Build собирает документ из дескриптора и фрагментов из sources.
//
// В каждом источнике берутся *.yaml и *.yml в алфавитном порядке.
// Фрагмент: yaml-объект с ключами paths, components или путями
// вида /books на верхнем уровне. Фрагменты сливаются по порядку,
// при совпадении побеждает более поздний.
//
// Битые фрагменты пропускаются и возвращаются во втором значении.
// Документ возвращается всегда.
func Build(desc Descriptor, sources ...fs.FS) (*Document, []error) {
	base, err := toMap(desc)
	if err != nil {
		return bare(desc), []error{err}
	}
	paths := map[string]any{}
	base["paths"] = paths

	var (
		errs []error
		ok   int
	)
	for _, src := range sources {
		if src == nil {
			continue
		}
		names, err := fragmentNames(src)
		if err != nil {
			errs = append(errs, fmt.Errorf("%w: %v", ErrFragment, err))
			continue
		}
		for _, name := range names {
			frag, err := readFragment(src, name)
			if err != nil {
				errs = append(errs, fmt.Errorf("%w: %s: %v", ErrFragment, name, err))
				continue
			}
			merge(base, frag)
			ok++
		}
	}

	raw, err := json.MarshalIndent(base, "", "  ")
	if err != nil {
		return bare(desc), append(errs, fmt.Errorf("%w: %v", ErrFragment, err))
	}

	doc := &Document{raw: raw, fragments: ok}
	for p := range paths {
		doc.paths = append(doc.paths, p)
	}
	sort.Strings(doc.paths)
	return doc, errs
}

// bare возвращает документ из одного дескриптора, без фрагментов.
func bare(desc Descriptor) *Document {
	raw := []byte(`{"openapi":"3.0.0","paths":{}}`)
	if m, err := toMap(desc); err == nil {
		m["paths"] = map[string]any{}
		if b, err := json.MarshalIndent(m, "", "  "); err == nil {
			raw = b
		}
	}
	return &Document{raw: raw}
}

// JSON возвращает документ в JSON.
func (d *Document) JSON() []byte { return d.raw }

// ReadDoc реализует swag.Swagger.
func (d *Document) ReadDoc() string { return string(d.raw) }

// Paths возвращает описанные пути.
func (d *Document) Paths() []string { return d.paths }

// Fragments возвращает число применённых фрагментов.
func (d *Document) Fragments() int { return d.fragments }

// Register регистрирует документ в swag и возвращает имя экземпляра для
// http-swagger. Имя уникально для документа, повторный вызов безопасен.
func (d *Document) Register() string {
	d.once.Do(func() {
		d.name = "jsonserver_" + uuid.NewString()
		swag.Register(d.name, d)
	})
	return d.name
}

func fragmentNames(src fs.FS) ([]string, error) {
	var names []string
	for _, pattern := range []string{"*.yaml", "*.yml"} {
		m, err := fs.Glob(src, pattern)
		if err != nil {
			return nil, err
		}
		names = append(names, m...)
	}
	sort.Strings(names)
	return names, nil
}

// readFragment читает фрагмент и приводит его к виду {paths, components}.
func readFragment(src fs.FS, name string) (map[string]any, error) {
	raw, err := fs.ReadFile(src, name)
	if err != nil {
		return nil, err
	}
	var v any
	if err := yaml.Unmarshal(raw, &v); err != nil {
		return nil, err
	}
	top, ok := normalize(v).(map[string]any)
	if !ok {
		return nil, fmt.Errorf("top level must be a mapping")
	}

	out := map[string]any{"paths": map[string]any{}, "components": map[string]any{}}
	for k, val := range top {
		switch {
		case k == "paths":
			m, ok := val.(map[string]any)
			if !ok {
				return nil, fmt.Errorf("paths must be a mapping")
			}
			for p, item := range m {
				if err := setPath(out, p, item); err != nil {
					return nil, err
				}
			}
		case k == "components":
			m, ok := val.(map[string]any)
			if !ok {
				return nil, fmt.Errorf("components must be a mapping")
			}
			for section, defs := range m {
				if _, ok := defs.(map[string]any); !ok {
					return nil, fmt.Errorf("components.%s must be a mapping", section)
				}
			}
			out["components"] = m
		case strings.HasPrefix(k, "/"):
			if err := setPath(out, k, val); err != nil {
				return nil, err
			}
		default:
			return nil, fmt.Errorf("unexpected key %q", k)
		}
	}
	// yaml допускает .nan и .inf, json их не кодирует
	if _, err := json.Marshal(out); err != nil {
		return nil, err
	}
	return out, nil
}

func setPath(frag map[string]any, p string, item any) error {
	if !strings.HasPrefix(p, "/") {
		return fmt.Errorf("path %q must start with /", p)
	}
	ops, ok := item.(map[string]any)
	if !ok {
		return fmt.Errorf("path %s must be a mapping", p)
	}
	for method, op := range ops {
		if _, ok := op.(map[string]any); !ok && method != "parameters" {
			return fmt.Errorf("%s %s must be a mapping", p, method)
		}
	}
	frag["paths"].(map[string]any)[path.Clean(p)] = ops
	return nil
}

// merge вливает фрагмент в документ. Пути сливаются по методам, компоненты по именам.
func merge(doc, frag map[string]any) {
	paths := doc["paths"].(map[string]any)
	for p, ops := range frag["paths"].(map[string]any) {
		dst, ok := paths[p].(map[string]any)
		if !ok {
			dst = map[string]any{}
			paths[p] = dst
		}
		for method, op := range ops.(map[string]any) {
			dst[method] = op
		}
	}

	comps, _ := doc["components"].(map[string]any)
	if comps == nil {
		comps = map[string]any{}
		doc["components"] = comps
	}
	for section, defs := range frag["components"].(map[string]any) {
		dst, ok := comps[section].(map[string]any)
		if !ok {
			dst = map[string]any{}
			comps[section] = dst
		}
		for name, def := range defs.(map[string]any) {
			dst[name] = def
		}
	}
}

// normalize приводит результат yaml к типам, которые понимает encoding/json:
// ключи вида 200: приходят как int, а map[any]any json не кодирует.
func normalize(v any) any {
	switch x := v.(type) {
	case map[string]any:
		for k, val := range x {
			x[k] = normalize(val)
		}
		return x
	case map[any]any:
		out := make(map[string]any, len(x))
		for k, val := range x {
			out[fmt.Sprint(k)] = normalize(val)
		}
		return out
	case []any:
		for i, val := range x {
			x[i] = normalize(val)
		}
		return x
	default:
		return v
	}
}

func toMap(v any) (map[string]any, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, err
	}
	return m, nil
}
