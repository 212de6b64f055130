package app

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/theme"
)

// PaintFieldTheme keeps the fyne defaults with a neutral accent so the
// canvas colors stand out.
type PaintFieldTheme struct{}

var _ fyne.Theme = (*PaintFieldTheme)(nil)

func (t *PaintFieldTheme) Color(name fyne.ThemeColorName, variant fyne.ThemeVariant) color.Color {
	switch name {
	case theme.ColorNamePrimary:
		return color.NRGBA{R: 0x3D, G: 0x6E, B: 0xB4, A: 0xFF}
	case theme.ColorNameSelection:
		return color.NRGBA{R: 0x3D, G: 0x6E, B: 0xB4, A: 0x60}
	case theme.ColorNameBackground:
		if variant == theme.VariantDark {
			return color.NRGBA{R: 0x2B, G: 0x2B, B: 0x2B, A: 0xFF}
		}
		return theme.DefaultTheme().Color(name, variant)
	default:
		return theme.DefaultTheme().Color(name, variant)
	}
}

func (t *PaintFieldTheme) Font(style fyne.TextStyle) fyne.Resource {
	return theme.DefaultTheme().Font(style)
}

func (t *PaintFieldTheme) Icon(name fyne.ThemeIconName) fyne.Resource {
	return theme.DefaultTheme().Icon(name)
}

func (t *PaintFieldTheme) Size(name fyne.ThemeSizeName) float32 {
	switch name {
	case theme.SizeNamePadding:
		return 4 // compact toolbar
	default:
		return theme.DefaultTheme().Size(name)
	}
}
