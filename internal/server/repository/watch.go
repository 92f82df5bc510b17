package repository

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Watch следит за файлом базы и перечитывает его при внешних изменениях.
//
// Следим за директорией, а не за файлом: редакторы и наш же persist
// заменяют файл через rename. Собственные записи отсекаются по хэшу
// содержимого в Reload. Битый JSON не применяется, остаётся прошлое состояние.
//
// Блокирует до отмены ctx.
func (s *JSONStore) Watch(ctx context.Context) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer w.Close()

	if err := w.Add(filepath.Dir(s.path)); err != nil {
		return fmt.Errorf("watch %s: %w", s.path, err)
	}
	sugar := s.log.Sugar()
	sugar.Infof("watching %s for changes", s.path)

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != s.path {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
				continue
			}
			changed, err := s.Reload()
			if err != nil {
				sugar.Warnf("database reload skipped: %v", err)
				continue
			}
			if changed {
				sugar.Infof("database %s reloaded", s.path)
			}
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			sugar.Warnf("watcher error: %v", err)
		}
	}
}
