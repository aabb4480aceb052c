package main

import (
	"fmt"
	"os"
	"runtime"
)

// init привязывает главную горутину к главному потоку ОС, этого требует systray.
func init() {
	runtime.LockOSThread()
}

// main является точкой входа в приложение.
// Ответственность ограничена только инициализацией и запуском приложения.
func main() {
	application, err := NewApp()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Критическая ошибка инициализации: %v\n", err)
		os.Exit(1)
	}
	defer application.Close()

	if err := application.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Ошибка выполнения: %v\n", err)
		application.Close()
		os.Exit(1)
	}
}
