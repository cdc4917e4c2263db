// Package luma precomputes perceptual brightness for every 24-bit RGB color.
//
// A [Table] holds one float32 per packed key (16,777,216 entries, 64 MiB) so
// per-pixel work during playback is a single slice index. Build the table once
// at startup with [Build] and share the pointer; it is never mutated after
// construction and is safe for concurrent reads.
package luma

// Rec. 601 luma weights.
const (
	WeightR = 0.299
	WeightG = 0.587
	WeightB = 0.114
)

// Size is the number of entries in a [Table].
const Size = 1 << 24

// Table maps packed 24-bit colors to brightness in [0, 1].
//
// Create instances with [Build].
type Table struct {
	values []float32
}

// Build computes the brightness of every 24-bit color.
func Build() *Table {
	values := make([]float32, Size)

	for r := range 256 {
		for g := range 256 {
			base := r<<16 | g<<8

			for b := range 256 {
				values[base|b] = float32(Brightness(uint8(r), uint8(g), uint8(b)))
			}
		}
	}

	return &Table{values: values}
}

// Brightness computes the Rec. 601 brightness of a color without the table.
// The result is clamped to [0, 1].
func Brightness(r, g, b uint8) float64 {
	v := float64(r)/255*WeightR + float64(g)/255*WeightG + float64(b)/255*WeightB

	return min(max(v, 0), 1)
}

// Key packs a color into the 24-bit key used by [Table.Lookup].
func Key(r, g, b uint8) uint32 {
	return uint32(r)<<16 | uint32(g)<<8 | uint32(b)
}

// Lookup returns the brightness for a packed key. Bits above the low 24 are
// ignored, so every uint32 is a valid key.
func (t *Table) Lookup(key uint32) float32 {
	return t.values[key&(Size-1)]
}

// LookupRGB returns the brightness of the given color.
func (t *Table) LookupRGB(r, g, b uint8) float32 {
	return t.values[Key(r, g, b)]
}
