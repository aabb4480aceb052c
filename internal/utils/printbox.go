/**
 * @file printbox.go
 * @brief Текстовые окна с псевдографикой для вывода в терминал.
 *
 * Окно состоит из строк "параметр  значение" и горизонтальных разделителей.
 * Цвета берутся из палитры текущей темы оформления (light/dark).
 */

package utils

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/acarl005/stripansi"
	"github.com/mattn/go-runewidth"
	"golang.org/x/term"
)

// Константы для форматирования
const (
	LeftMargin    = 2   // Отступ от левой границы окна
	RightMargin   = 2   // Отступ от правой границы окна
	ValueGap      = 5   // Отступ значения от самого длинного параметра
	BorderWidth   = 2   // Ширина границ окна (левая + правая)
	DividerSymbol = "-" // Символ для обозначения разделителя в AddLine
)

// ANSI коды цветов для текста
const (
	ColorReset  = "\033[0m"
	ColorRed    = "\033[31m"
	ColorGreen  = "\033[32m"
	ColorYellow = "\033[33m"
	ColorBlue   = "\033[34m"
	ColorPurple = "\033[35m"
	ColorCyan   = "\033[36m"
	ColorWhite  = "\033[37m"
	ColorBlack  = "\033[30m"
	ColorBold   = "\033[1m"
)

// Unicode символы рамки окна (двойные линии)
const (
	BoxTopLeft     = "╔"
	BoxTopRight    = "╗"
	BoxBottomLeft  = "╚"
	BoxBottomRight = "╝"
	BoxHorizontal  = "═"
	BoxDivider     = "─"
	BoxVertical    = "║"
	BoxCrossLeft   = "╠"
	BoxCrossRight  = "╣"
)

// Palette цвета окна для темы оформления.
type Palette struct {
	Border string // рамка
	Title  string // заголовок
	Value  string // обычное значение
	Accent string // выделенное значение (оставшееся время, действие)
	Error  string // ошибки
	Warn   string // предупреждения
}

// Палитры тем. Светлая тема рассчитана на светлый фон терминала.
var (
	LightPalette = Palette{Border: ColorBlue, Title: ColorBold + ColorBlack, Value: ColorBlack, Accent: ColorBlue, Error: ColorRed, Warn: ColorPurple}
	DarkPalette  = Palette{Border: ColorCyan, Title: ColorBold + ColorWhite, Value: ColorWhite, Accent: ColorGreen, Error: ColorRed, Warn: ColorYellow}
)

// PaletteFor возвращает палитру по имени темы.
func PaletteFor(theme string) Palette {
	if theme == "dark" {
		return DarkPalette
	}
	return LightPalette
}

// BufferItem один элемент окна: строка "параметр значение" или разделитель.
type BufferItem struct {
	Parameter string
	Value     string
	Color     string
	IsDivider bool
}

// WindowBuffer накапливает строки окна и выводит их в рамке.
type WindowBuffer struct {
	items       []BufferItem
	minWidth    int
	maxParamLen int
	palette     Palette
	color       bool
	title       string
}

// NewWindowBuffer создает новый буфер окна.
// Если содержимое требует большей ширины, чем minWidth, окно расширяется.
func NewWindowBuffer(minWidth int, palette Palette) *WindowBuffer {
	return &WindowBuffer{
		minWidth: minWidth,
		palette:  palette,
		color:    term.IsTerminal(int(os.Stdout.Fd())),
	}
}

// SetColor включает или отключает ANSI цвета.
func (wb *WindowBuffer) SetColor(enabled bool) {
	wb.color = enabled
}

// SetTitle задает заголовок, который выводится первой строкой с разделителем под ним.
func (wb *WindowBuffer) SetTitle(title string) {
	wb.title = title
}

// AddLine добавляет строку с параметром и значением.
// Параметр "-" добавляет разделитель.
func (wb *WindowBuffer) AddLine(parameter, value, color string) {
	if parameter == DividerSymbol {
		wb.AddDivider()
		return
	}

	if l := runewidth.StringWidth(parameter); l > wb.maxParamLen {
		wb.maxParamLen = l
	}
	wb.items = append(wb.items, BufferItem{
		Parameter: parameter,
		Value:     value,
		Color:     color,
	})
}

// AddDivider добавляет горизонтальный разделитель.
func (wb *WindowBuffer) AddDivider() {
	wb.items = append(wb.items, BufferItem{IsDivider: true})
}

// calculateWindowWidth вычисляет ширину окна вместе с границами.
func (wb *WindowBuffer) calculateWindowWidth() int {
	maxContent := 0
	if wb.title != "" {
		maxContent = LeftMargin + runewidth.StringWidth(wb.title) + RightMargin
	}
	for _, item := range wb.items {
		if item.IsDivider {
			continue
		}
		w := LeftMargin + wb.maxParamLen + ValueGap + runewidth.StringWidth(stripansi.Strip(item.Value)) + RightMargin
		if w > maxContent {
			maxContent = w
		}
	}

	total := maxContent + BorderWidth
	if total < wb.minWidth {
		return wb.minWidth
	}
	return total
}

// paint окрашивает текст, если цвета включены.
func (wb *WindowBuffer) paint(color, s string) string {
	if !wb.color || color == "" {
		return s
	}
	return color + s + ColorReset
}

// row собирает строку окна из содержимого, дополняя его пробелами до ширины.
func (wb *WindowBuffer) row(content string, windowWidth int) string {
	inner := windowWidth - BorderWidth
	pad := inner - runewidth.StringWidth(stripansi.Strip(content))
	if pad < 1 {
		pad = 1
	}
	border := wb.paint(wb.palette.Border, BoxVertical)
	return border + content + strings.Repeat(" ", pad) + border
}

// formatLine форматирует один элемент буфера.
func (wb *WindowBuffer) formatLine(item BufferItem, windowWidth int) string {
	if item.IsDivider {
		return wb.paint(wb.palette.Border, BoxCrossLeft+strings.Repeat(BoxDivider, windowWidth-BorderWidth)+BoxCrossRight)
	}

	gap := strings.Repeat(" ", wb.maxParamLen+ValueGap-runewidth.StringWidth(item.Parameter))
	color := item.Color
	if color == "" {
		color = wb.palette.Value
	}
	content := strings.Repeat(" ", LeftMargin) + item.Parameter + gap + wb.paint(color, item.Value)
	return wb.row(content, windowWidth)
}

// Render выводит окно в w. Пустой буфер без заголовка ничего не выводит.
func (wb *WindowBuffer) Render(w io.Writer) {
	if len(wb.items) == 0 && wb.title == "" {
		return
	}

	width := wb.calculateWindowWidth()
	inner := width - BorderWidth

	fmt.Fprintln(w, wb.paint(wb.palette.Border, BoxTopLeft+strings.Repeat(BoxHorizontal, inner)+BoxTopRight))
	if wb.title != "" {
		fmt.Fprintln(w, wb.row(strings.Repeat(" ", LeftMargin)+wb.paint(wb.palette.Title, wb.title), width))
		if len(wb.items) > 0 {
			fmt.Fprintln(w, wb.formatLine(BufferItem{IsDivider: true}, width))
		}
	}
	for _, item := range wb.items {
		fmt.Fprintln(w, wb.formatLine(item, width))
	}
	fmt.Fprintln(w, wb.paint(wb.palette.Border, BoxBottomLeft+strings.Repeat(BoxHorizontal, inner)+BoxBottomRight))
}

// PrintBox выводит окно в стандартный вывод.
func (wb *WindowBuffer) PrintBox() {
	wb.Render(os.Stdout)
}

// Clear удаляет все строки и заголовок.
func (wb *WindowBuffer) Clear() {
	wb.items = nil
	wb.maxParamLen = 0
	wb.title = ""
}

// GetItemCount возвращает количество элементов в буфере.
func (wb *WindowBuffer) GetItemCount() int {
	return len(wb.items)
}

// Palette возвращает палитру окна.
func (wb *WindowBuffer) Palette() Palette {
	return wb.palette
}

// GetTerminalWidth возвращает ширину терминала в символах или 80 по умолчанию.
func GetTerminalWidth() int {
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 {
		return w
	}
	if colsStr := os.Getenv("COLUMNS"); colsStr != "" {
		if cols, err := strconv.Atoi(colsStr); err == nil && cols > 0 {
			return cols
		}
	}
	return 80
}
