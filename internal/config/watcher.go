package config

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/qzeleza/energy/internal/logger"
)

// debounce пауза на случай нескольких событий от одного сохранения
const debounce = 100 * time.Millisecond

// Watch наблюдает за файлом конфигурации менеджера и после каждого изменения
// перечитывает его и передает новые настройки в onChange.
// Наблюдение ведется за каталогом: Save заменяет файл переименованием,
// и наблюдатель, поставленный на сам файл, потерял бы его.
// Блокируется до отмены ctx.
//
// @param ctx - контекст, отмена которого останавливает наблюдение.
// @param m - менеджер, чей файл отслеживается.
// @param log - логгер.
// @param onChange - обработчик новых настроек.
// @return error - ошибка создания наблюдателя.
func Watch(ctx context.Context, m *Manager, log *logger.Logger, onChange func(Config)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("не удалось создать наблюдателя за файлами: %w", err)
	}
	defer watcher.Close()

	target := filepath.Clean(m.ConfigPath())
	if err := watcher.Add(filepath.Dir(target)); err != nil {
		return fmt.Errorf("не удалось добавить %s в наблюдение: %w", filepath.Dir(target), err)
	}
	log.Debug(fmt.Sprintf("Наблюдатель запущен для файла: %s", target))

	var timer *time.Timer
	var fire <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			if timer != nil {
				timer.Stop()
			}
			timer = time.NewTimer(debounce)
			fire = timer.C

		case <-fire:
			fire = nil
			cfg, err := m.Load()
			if err != nil {
				log.Error(fmt.Sprintf("Не удалось перезагрузить конфигурацию после изменения: %v", err))
				continue
			}
			log.Info(fmt.Sprintf("Обнаружено изменение в файле конфигурации: %s", target))
			onChange(*cfg)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Error(fmt.Sprintf("Ошибка наблюдателя за файлами: %v", err))
		}
	}
}
