package domain

// Palette is the fixed set of company colors, in hash order.
var Palette = []string{"emerald", "red", "blue", "orange", "purple", "yellow"}

// PaletteColor maps an id to a palette entry. The mapping is stable across
// runs so a company keeps its color everywhere it is shown.
func PaletteColor(id string) string {
	var h int32
	for _, r := range id {
		h = h*31 + int32(r)
	}
	idx := int(h) % len(Palette)
	if idx < 0 {
		idx = -idx
	}
	return Palette[idx]
}

func IsPaletteColor(name string) bool {
	for _, c := range Palette {
		if c == name {
			return true
		}
	}
	return false
}
