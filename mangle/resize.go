package mangle

import (
	"image"
	"image/color"
	"log/slog"
	"math"

	"golang.org/x/image/draw"
)

// fitRects computes the destination canvas, the rectangle the scaled image
// is drawn into and the part of the source that is used. A zero width or
// height keeps the source dimension. Without crop the aspect ratio is kept
// by shrinking the canvas, or by letterboxing when fill is set.
func fitRects(src image.Rectangle, width, height int, crop, fill bool) (canvas, dst, used image.Rectangle) {
	srcWidth := float64(src.Dx())
	srcHeight := float64(src.Dy())

	destWidth := float64(width)
	if destWidth == 0 {
		destWidth = srcWidth
	}
	destHeight := float64(height)
	if destHeight == 0 {
		destHeight = srcHeight
	}

	canvas = image.Rect(0, 0, int(destWidth), int(destHeight))
	dst = canvas
	used = src

	srcAR := srcWidth / srcHeight
	destAR := destWidth / destHeight
	switch {
	case crop && srcAR < destAR:
		dh := int(math.Round((srcHeight - srcWidth/destAR) / 2))
		used.Min.Y += dh
		used.Max.Y -= dh
	case crop && srcAR > destAR:
		dw := int(math.Round((srcWidth - srcHeight*destAR) / 2))
		used.Min.X += dw
		used.Max.X -= dw
	case crop:
	case srcAR < destAR:
		dw := destHeight * srcAR
		if !fill {
			canvas.Max.X = int(math.Round(dw))
			dst.Max.X = canvas.Max.X
		} else if destWidth > dw {
			idw := int(math.Round((destWidth - dw) / 2))
			dst.Min.X += idw
			dst.Max.X -= idw
		}
	case srcAR > destAR:
		dh := destWidth / srcAR
		if !fill {
			canvas.Max.Y = int(math.Round(dh))
			dst.Max.Y = canvas.Max.Y
		} else if destHeight > dh {
			idh := int(math.Round((destHeight - dh) / 2))
			dst.Min.Y += idh
			dst.Max.Y -= idh
		}
	}
	return canvas, dst, used
}

func resize(logger *slog.Logger, img image.Image, width, height int, crop bool, fillColor color.Color) (image.Image, error) {
	src := img.Bounds()
	if (width == 0 || width == src.Dx()) && (height == 0 || height == src.Dy()) {
		return img, nil
	}

	canvas, dst, used := fitRects(src, width, height, crop, fillColor != nil)

	logger.Info("resizing", "width", dst.Dx(), "height", dst.Dy())
	dest := image.NewNRGBA(canvas)
	if fillColor != nil && dst != canvas {
		draw.Draw(dest, canvas, image.NewUniform(fillColor), image.Point{}, draw.Src)
	}
	draw.CatmullRom.Scale(dest, dst, img, used, draw.Over, nil)

	return dest, nil
}
