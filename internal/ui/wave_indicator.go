// internal/ui/wave_indicator.go
package ui

import (
	"image/color"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
)

// WaveIndicator отображает номер текущей волны римскими цифрами.
type WaveIndicator struct {
	X, Y             float64
	Color            color.RGBA
	OutlineColor     color.RGBA
	OutlineThickness int
}

// NewWaveIndicator создает новый индикатор волны.
func NewWaveIndicator(x, y float64) *WaveIndicator {
	return &WaveIndicator{
		X:                x,
		Y:                y,
		Color:            color.RGBA{70, 130, 180, 255},
		OutlineColor:     color.RGBA{255, 255, 255, 255},
		OutlineThickness: 1,
	}
}

// toRoman конвертирует целое число в римское.
func toRoman(num int) string {
	if num <= 0 {
		return ""
	}
	val := []int{1000, 900, 500, 400, 100, 90, 50, 40, 10, 9, 5, 4, 1}
	syb := []string{"M", "CM", "D", "CD", "C", "XC", "L", "XL", "X", "IX", "V", "IV", "I"}

	var roman strings.Builder
	for i := 0; i < len(val); i++ {
		for num >= val[i] {
			roman.WriteString(syb[i])
			num -= val[i]
		}
	}
	return roman.String()
}

// Draw отрисовывает индикатор на экране.
func (i *WaveIndicator) Draw(screen *ebiten.Image, waveNumber int) {
	if waveNumber <= 0 {
		return
	}
	textColor := i.Color
	if waveNumber%10 == 0 {
		textColor = color.RGBA{220, 40, 40, 255} // босс-волна
	}
	DrawTextOutlined(screen, toRoman(waveNumber), i.X, i.Y, textColor, i.OutlineColor, i.OutlineThickness)
}
