package utils

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/qzeleza/energy/internal/logger"
)

// CheckWriteAccess проверяет, что в директорию можно писать:
// создает и сразу удаляет временный файл.
//
// @param dir string - директория для проверки.
// @param log *logger.Logger - логгер для отладочной информации.
// @return error - ошибка, если директория недоступна для записи.
func CheckWriteAccess(dir string, log *logger.Logger) error {
	log.Debug(fmt.Sprintf("Проверка прав на запись в директорию: %s", dir))

	// точка в начале делает файл скрытым в Unix-системах
	const testFileName = ".write_access_test"
	testFilePath := filepath.Join(dir, testFileName)
	defer os.Remove(testFilePath)

	if err := os.WriteFile(testFilePath, []byte("test"), 0644); err != nil {
		return fmt.Errorf("директория '%s' недоступна для записи: %w", dir, err)
	}

	log.Debug("Права на запись в директорию имеются.")
	return nil
}
