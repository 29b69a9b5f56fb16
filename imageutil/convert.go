package imageutil

// ContrastFactor returns the linear gain applied around mid-gray for a
// contrast setting, where 1.0 leaves the image unchanged:
//
//	c = contrast - 1
//	factor = 259(255c + 255) / (255(259 - 255c))
func ContrastFactor(contrast float64) float64 {
	c := (contrast - 1) * 255
	return 259 * (c + 255) / (255 * (259 - c))
}

// ContrastChannel applies factor to a single channel value and clamps the
// result to [0, 255] without rounding.
func ContrastChannel(v, factor float64) float64 {
	v = factor*(v-128) + 128
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return v
}

// AdjustContrast returns a copy of img with the contrast transform applied
// to the color channels. Alpha is left untouched.
func AdjustContrast(img *RGBAImage, contrast float64) *RGBAImage {
	dst := img.Clone()
	if contrast == 1 {
		return dst
	}
	factor := ContrastFactor(contrast)
	for y := 0; y < dst.Height(); y++ {
		row := dst.Pix[y*dst.Stride : y*dst.Stride+dst.Width()*4]
		for i := 0; i < len(row); i += 4 {
			row[i] = clampUint8(ContrastChannel(float64(row[i]), factor))
			row[i+1] = clampUint8(ContrastChannel(float64(row[i+1]), factor))
			row[i+2] = clampUint8(ContrastChannel(float64(row[i+2]), factor))
		}
	}
	return dst
}
