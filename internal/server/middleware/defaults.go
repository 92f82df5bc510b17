package middleware

import (
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/go-chi/cors"
)

// CORS разрешает запросы с любого origin, как это делает json-server:
// origin отражается обратно, credentials разрешены.
func CORS() func(http.Handler) http.Handler {
	return cors.Handler(cors.Options{
		AllowOriginFunc:  func(*http.Request, string) bool { return true },
		AllowedMethods:   []string{"GET", "HEAD", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		ExposedHeaders:   []string{"Location", "X-Request-Id"},
		AllowCredentials: true,
		MaxAge:           300,
	})
}

// NoCache запрещает клиентам кэшировать ответы мок-сервера.
func NoCache(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("Cache-Control", "no-cache")
		h.Set("Pragma", "no-cache")
		h.Set("Expires", "-1")
		next.ServeHTTP(w, r)
	})
}

// Static отдаёт файлы из dir на GET/HEAD, если такой файл есть.
// Остальные запросы идут дальше по цепочке. "/" отдаёт dir/index.html.
func Static(dir string) func(http.Handler) http.Handler {
	fs := http.FileServer(http.Dir(dir))
	return func(next http.Handler) http.Handler {
		if dir == "" {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodGet && r.Method != http.MethodHead {
				next.ServeHTTP(w, r)
				return
			}
			name := path.Clean("/" + r.URL.Path)
			if name == "/" {
				name = "/index.html"
			}
			fi, err := os.Stat(filepath.Join(dir, filepath.FromSlash(strings.TrimPrefix(name, "/"))))
			if err != nil || fi.IsDir() {
				next.ServeHTTP(w, r)
				return
			}
			fs.ServeHTTP(w, r)
		})
	}
}
