package blend

import (
	"image"
	"image/color"
)

// Mask composites src through an 8-bit coverage mask onto dst.
// The mask bounds are expressed in dst coordinates; pixels outside dst are
// skipped. src must be premultiplied. Zero-coverage pixels are left
// untouched, so the destination is bit-identical wherever the mask is empty.
func Mask(dst *image.RGBA, mask *image.Alpha, src color.RGBA, mode Mode) {
	r := mask.Bounds().Intersect(dst.Bounds())
	if r.Empty() {
		return
	}
	fn := GetFunc(mode)

	for y := r.Min.Y; y < r.Max.Y; y++ {
		mi := mask.PixOffset(r.Min.X, y)
		di := dst.PixOffset(r.Min.X, y)
		for x := r.Min.X; x < r.Max.X; x++ {
			cov := mask.Pix[mi]
			if cov != 0 {
				d := dst.Pix[di : di+4 : di+4]
				d[0], d[1], d[2], d[3] = fn(
					mulDiv255(src.R, cov), mulDiv255(src.G, cov), mulDiv255(src.B, cov), mulDiv255(src.A, cov),
					d[0], d[1], d[2], d[3],
				)
			}
			mi++
			di += 4
		}
	}
}
