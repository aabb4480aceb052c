package i18n

// Тексты по умолчанию. Если файлы переводов недоступны, каталог строится из них в памяти.
var defaultTranslations = map[string]map[string]string{
	"es": {
		"app_title":                  "Energy - Control de Energía",
		"tab_time":                   "Programar por tiempo",
		"tab_exact_time":             "Programar por hora",
		"action_shutdown":            "apagar",
		"action_restart":             "reiniciar",
		"time_value":                 "Valor",
		"time_unit":                  "Unidad",
		"seconds":                    "Segundos",
		"minutes":                    "Minutos",
		"hours":                      "Horas",
		"exact_time":                 "Hora exacta (HH:MM)",
		"schedule_button":            "Programar",
		"cancel_button":              "Cancelar",
		"theme_light":                "Tema Claro",
		"theme_dark":                 "Tema Oscuro",
		"remaining_time":             "Tiempo restante",
		"confirm_title":              "Confirmar acción",
		"confirm_message":            "¿Está seguro que desea {action} el sistema en {time}?",
		"yes":                        "Sí",
		"no":                         "No",
		"error":                      "Error",
		"success":                    "Éxito",
		"action_scheduled":           "{action} programado para {time}",
		"action_cancelled":           "Acción cancelada",
		"nothing_to_cancel":          "No había ninguna acción programada",
		"action_done":                "El tiempo programado ha terminado",
		"already_pending":            "Ya hay una acción programada. Cancélela primero.",
		"unsupported_platform":       "Sistema operativo no soportado",
		"error_scheduling":           "Error al programar {action}: {error}",
		"error_cancelling":           "Error al cancelar la acción: {error}",
		"invalid_input":              "Entrada inválida",
		"validation_empty":           "El valor no puede estar vacío",
		"validation_not_integer":     "El valor debe ser un número entero positivo",
		"validation_too_large":       "El valor máximo es {max} {unit} (24 horas)",
		"validation_unknown_unit":    "Unidad de tiempo no reconocida: {unit}",
		"validation_empty_time":      "La hora no puede estar vacía",
		"validation_invalid_format":  "Formato inválido. Use HH:MM (24h)",
		"help":                       "Ayuda",
		"about":                      "Acerca de",
		"settings":                   "Configuración",
		"language":                   "Idioma",
		"notifications":              "Notificaciones",
		"minimize_to_tray":           "Minimizar a la bandeja",
		"start_minimized":            "Iniciar minimizado",
		"keyboard_shortcuts":         "Atajos de teclado",
		"save":                       "Guardar",
		"reset":                      "Restablecer",
		"admin_required":             "Se requieren permisos de administrador",
		"admin_message":              "Esta acción requiere permisos de administrador",
		"menu_schedule_in":           "Programar en {time}",
		"menu_schedule_last":         "Repetir: {value} {unit}",
		"menu_schedule_at":           "Programar a una hora...",
		"menu_schedule_custom":       "Programar en...",
		"menu_action":                "Acción",
		"menu_quit":                  "Salir",
		"menu_idle":                  "Nada programado",
		"menu_pending":               "{action}: {time} ({percent}%)",
		"prompt_value":               "Introduzca el valor en {unit}",
		"prompt_exact_time":          "Introduzca la hora (HH:MM)",
		"quit_confirm":               "Al salir se cancelará la acción programada. ¿Continuar?",
		"detach_warning":             "La acción sigue programada en el sistema, pero la aplicación dejará de seguirla",
		"countdown_keys":             "{cancel} cancelar, {toggle_theme} tema, q salir sin cancelar",
		"nothing_scheduled_terminal": "No hay ninguna acción programada",
	},
	"en": {
		"app_title":                  "Energy - Power Control",
		"tab_time":                   "Schedule by time",
		"tab_exact_time":             "Schedule by hour",
		"action_shutdown":            "shutdown",
		"action_restart":             "restart",
		"time_value":                 "Value",
		"time_unit":                  "Unit",
		"seconds":                    "Seconds",
		"minutes":                    "Minutes",
		"hours":                      "Hours",
		"exact_time":                 "Exact time (HH:MM)",
		"schedule_button":            "Schedule",
		"cancel_button":              "Cancel",
		"theme_light":                "Light Theme",
		"theme_dark":                 "Dark Theme",
		"remaining_time":             "Remaining time",
		"confirm_title":              "Confirm action",
		"confirm_message":            "Are you sure you want to {action} the system in {time}?",
		"yes":                        "Yes",
		"no":                         "No",
		"error":                      "Error",
		"success":                    "Success",
		"action_scheduled":           "{action} scheduled for {time}",
		"action_cancelled":           "Action cancelled",
		"nothing_to_cancel":          "Nothing was scheduled",
		"action_done":                "The scheduled time is over",
		"already_pending":            "An action is already scheduled. Cancel it first.",
		"unsupported_platform":       "Unsupported operating system",
		"error_scheduling":           "Error scheduling {action}: {error}",
		"error_cancelling":           "Error cancelling the action: {error}",
		"invalid_input":              "Invalid input",
		"validation_empty":           "The value cannot be empty",
		"validation_not_integer":     "The value must be a positive integer",
		"validation_too_large":       "The maximum value is {max} {unit} (24 hours)",
		"validation_unknown_unit":    "Unknown time unit: {unit}",
		"validation_empty_time":      "The time cannot be empty",
		"validation_invalid_format":  "Invalid format. Use HH:MM (24h)",
		"help":                       "Help",
		"about":                      "About",
		"settings":                   "Settings",
		"language":                   "Language",
		"notifications":              "Notifications",
		"minimize_to_tray":           "Minimize to tray",
		"start_minimized":            "Start minimized",
		"keyboard_shortcuts":         "Keyboard shortcuts",
		"save":                       "Save",
		"reset":                      "Reset",
		"admin_required":             "Administrator permissions required",
		"admin_message":              "This action requires administrator permissions",
		"menu_schedule_in":           "Schedule in {time}",
		"menu_schedule_last":         "Repeat: {value} {unit}",
		"menu_schedule_at":           "Schedule at a time...",
		"menu_schedule_custom":       "Schedule in...",
		"menu_action":                "Action",
		"menu_quit":                  "Quit",
		"menu_idle":                  "Nothing scheduled",
		"menu_pending":               "{action}: {time} ({percent}%)",
		"prompt_value":               "Enter the value in {unit}",
		"prompt_exact_time":          "Enter the time (HH:MM)",
		"quit_confirm":               "Quitting will cancel the scheduled action. Continue?",
		"detach_warning":             "The action stays scheduled in the system, but the application will no longer track it",
		"countdown_keys":             "{cancel} cancel, {toggle_theme} theme, q quit without cancelling",
		"nothing_scheduled_terminal": "Nothing is scheduled",
	},
}

// languageNames названия языков на самих этих языках
var languageNames = map[string]string{
	"es": "Español",
	"en": "English",
}
