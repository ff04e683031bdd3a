package main

import (
	"image"
	"math"
)

// boxBlur blurs r inside img in place. Three box passes approximate a
// gaussian with the given CSS blur radius (about two sigma).
func boxBlur(img *image.RGBA, r image.Rectangle, radius float64) {
	r = r.Intersect(img.Bounds())
	if r.Empty() || !(radius > 0) {
		return
	}
	sigma := radius / 2
	box := int(math.Round((math.Sqrt(4*sigma*sigma+1) - 1) / 2))
	if box < 1 {
		return
	}
	buf := make([]uint8, len(img.Pix))
	for pass := 0; pass < 3; pass++ {
		blurRows(img, buf, r, box)
		blurCols(img, buf, r, box)
	}
}

func blurRows(img *image.RGBA, buf []uint8, r image.Rectangle, box int) {
	span := float64(2*box + 1)
	for y := r.Min.Y; y < r.Max.Y; y++ {
		row := img.PixOffset(r.Min.X, y)
		for c := 0; c < 4; c++ {
			var sum int
			for k := -box; k <= box; k++ {
				sum += int(img.Pix[row+clampInt(k, 0, r.Dx()-1)*4+c])
			}
			for x := 0; x < r.Dx(); x++ {
				buf[row+x*4+c] = uint8(float64(sum)/span + 0.5)
				out := clampInt(x-box, 0, r.Dx()-1)
				in := clampInt(x+box+1, 0, r.Dx()-1)
				sum += int(img.Pix[row+in*4+c]) - int(img.Pix[row+out*4+c])
			}
		}
		copy(img.Pix[row:row+r.Dx()*4], buf[row:row+r.Dx()*4])
	}
}

func blurCols(img *image.RGBA, buf []uint8, r image.Rectangle, box int) {
	span := float64(2*box + 1)
	for x := r.Min.X; x < r.Max.X; x++ {
		for c := 0; c < 4; c++ {
			at := func(y int) int {
				return img.PixOffset(x, r.Min.Y+clampInt(y, 0, r.Dy()-1)) + c
			}
			var sum int
			for k := -box; k <= box; k++ {
				sum += int(img.Pix[at(k)])
			}
			for y := 0; y < r.Dy(); y++ {
				buf[at(y)] = uint8(float64(sum)/span + 0.5)
				sum += int(img.Pix[at(y+box+1)]) - int(img.Pix[at(y-box)])
			}
		}
		for y := 0; y < r.Dy(); y++ {
			off := img.PixOffset(x, r.Min.Y+y)
			copy(img.Pix[off:off+4], buf[off:off+4])
		}
	}
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
