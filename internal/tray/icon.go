package tray

import (
	"bytes"
	"encoding/binary"
	"image"
	"image/color"
	"image/png"
	"math"
)

// iconSize размер стороны иконки в пикселях
const iconSize = 32

// iconPalette цвета иконки для темы
type iconPalette struct {
	idle    color.NRGBA
	pending color.NRGBA
}

var iconPalettes = map[string]iconPalette{
	"light": {idle: color.NRGBA{R: 0x33, G: 0x33, B: 0x33, A: 0xff}, pending: color.NRGBA{R: 0xd3, G: 0x2f, B: 0x2f, A: 0xff}},
	"dark":  {idle: color.NRGBA{R: 0xee, G: 0xee, B: 0xee, A: 0xff}, pending: color.NRGBA{R: 0xff, G: 0x8a, B: 0x65, A: 0xff}},
}

// drawPowerIcon рисует символ питания: разомкнутое кольцо и вертикальную черту.
func drawPowerIcon(c color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, iconSize, iconSize))
	center := float64(iconSize-1) / 2
	outer, inner := 13.0, 9.5

	for y := 0; y < iconSize; y++ {
		for x := 0; x < iconSize; x++ {
			dx, dy := float64(x)-center, float64(y)-center
			d := math.Hypot(dx, dy)

			// разрыв кольца сверху, под чертой
			inGap := dy < 0 && math.Abs(dx) < 5
			ring := d <= outer && d >= inner && !inGap
			bar := math.Abs(dx) <= 1.6 && dy >= -14 && dy <= 1

			if ring || bar {
				img.SetNRGBA(x, y, c)
			}
		}
	}
	return img
}

// iconPNG возвращает иконку в формате PNG для темы и состояния.
func iconPNG(theme string, pending bool) []byte {
	p, ok := iconPalettes[theme]
	if !ok {
		p = iconPalettes["light"]
	}
	c := p.idle
	if pending {
		c = p.pending
	}

	var buf bytes.Buffer
	_ = png.Encode(&buf, drawPowerIcon(c))
	return buf.Bytes()
}

// wrapICO упаковывает PNG в контейнер ICO, который нужен systray в Windows.
func wrapICO(pngData []byte) []byte {
	var buf bytes.Buffer
	// ICONDIR: reserved, type=1 (icon), count=1
	_ = binary.Write(&buf, binary.LittleEndian, [3]uint16{0, 1, 1})
	// ICONDIRENTRY
	buf.WriteByte(iconSize) // ширина
	buf.WriteByte(iconSize) // высота
	buf.WriteByte(0)        // палитра
	buf.WriteByte(0)        // reserved

	_ = binary.Write(&buf, binary.LittleEndian, uint16(1))  // planes
	_ = binary.Write(&buf, binary.LittleEndian, uint16(32)) // bpp
	_ = binary.Write(&buf, binary.LittleEndian, uint32(len(pngData)))
	_ = binary.Write(&buf, binary.LittleEndian, uint32(6+16))
	buf.Write(pngData)
	return buf.Bytes()
}

// iconBytes возвращает иконку в формате, который понимает systray на goos.
func iconBytes(goos, theme string, pending bool) []byte {
	data := iconPNG(theme, pending)
	if goos == "windows" {
		return wrapICO(data)
	}
	return data
}
