package main

// Константы приложения
const (
	// Основные параметры приложения
	AppUsage       = "Планировщик выключения и перезагрузки компьютера"
	AppDescription = "Назначает выключение или перезагрузку системы через заданное время или на точное время, показывает обратный отсчет и позволяет отменить действие"

	// Параметры логирования
	MaxLogSizeMB = 10   // Максимальный размер дневного лог-файла в МБ
	DebugMode    = true // Режим отладки

	// Имя процесса агента в трее для менеджера фоновых процессов
	TrayProcessName = "tray"

	// Количество строк лога по умолчанию
	DefaultLogLines = 100

	// Минимальная ширина окна вывода
	BoxMinWidth = 60
)

// version задается при сборке: -ldflags "-X main.version=1.2.3"
var version = "dev"
