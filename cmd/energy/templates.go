package main

// RussianHelpTemplate содержит русский шаблон справки приложения
const RussianHelpTemplate = `НАЗВАНИЕ:
   {{.Name}}{{if .Usage}} - {{.Usage}}{{end}}

ИСПОЛЬЗОВАНИЕ:
   {{if .UsageText}}{{.UsageText}}{{else}}{{.HelpName}} {{if .VisibleFlags}}[ПАРАМЕТРЫ]{{end}}{{if .Commands}} КОМАНДА [АРГУМЕНТЫ_КОМАНДЫ...]{{end}}{{end}}
{{if .Version}}{{if not .HideVersion}}
ВЕРСИЯ:
   {{.Version}}
{{end}}{{end}}{{if .Description}}
ОПИСАНИЕ:
   {{.Description}}
{{end}}{{if .VisibleCommands}}
КОМАНДЫ:{{range .VisibleCommands}}
   {{join .Names ", "}}{{"\t"}}{{.Usage}}{{end}}
{{end}}{{if .VisibleFlags}}
ПАРАМЕТРЫ:
{{range $index, $flag := .VisibleFlags}}   {{$flag}}
{{end}}{{end}}`

// CommandHelpTemplate содержит русский шаблон справки команды
const CommandHelpTemplate = `НАЗВАНИЕ:
   {{.HelpName}}{{if .Usage}} - {{.Usage}}{{end}}

ИСПОЛЬЗОВАНИЕ:
   {{if .UsageText}}{{.UsageText}}{{else}}{{.HelpName}}{{if .VisibleFlags}} [ПАРАМЕТРЫ_КОМАНДЫ]{{end}} {{if .ArgsUsage}}{{.ArgsUsage}}{{else}}[аргументы...]{{end}}{{end}}{{if .Description}}

ОПИСАНИЕ:
   {{.Description}}{{end}}{{if .VisibleFlags}}

ПАРАМЕТРЫ:
{{range .VisibleFlags}}   {{.}}
{{end}}{{end}}`

// SubcommandHelpTemplate содержит русский шаблон справки команды с подкомандами
const SubcommandHelpTemplate = `НАЗВАНИЕ:
   {{.HelpName}}{{if .Usage}} - {{.Usage}}{{end}}

ИСПОЛЬЗОВАНИЕ:
   {{if .UsageText}}{{.UsageText}}{{else}}{{.HelpName}} КОМАНДА{{if .VisibleFlags}} [ПАРАМЕТРЫ]{{end}} {{if .ArgsUsage}}{{.ArgsUsage}}{{else}}[аргументы...]{{end}}{{end}}{{if .Description}}

ОПИСАНИЕ:
   {{.Description}}{{end}}

КОМАНДЫ:{{range .VisibleCommands}}
   {{join .Names ", "}}{{"\t"}}{{.Usage}}{{end}}{{if .VisibleFlags}}

ПАРАМЕТРЫ:
{{range .VisibleFlags}}   {{.}}
{{end}}{{end}}`
