package normalizer

import (
	"bytes"
	"fmt"
	"image"
	"image/color"

	// Register stdlib decoders.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"golang.org/x/image/draw"

	// Register extended decoders.
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/crimson-sun/leafcheck/internal/model"
)

// DefaultImageSize is the square input resolution of the PlantVillage model.
const DefaultImageSize = 224

const channels = 3

// maxPixels bounds decoded image area to keep a single upload from
// exhausting memory.
const maxPixels = 64 << 20

// ImageNormalizer turns encoded image bytes into a batched NHWC float tensor.
//
// Resampling uses Catmull-Rom cubic interpolation (draw.CatmullRom). The
// choice is fixed because it changes the pixel values a model sees.
type ImageNormalizer struct {
	Size int
}

// NewImage returns an ImageNormalizer for a size×size model input.
// Non-positive sizes fall back to DefaultImageSize.
func NewImage(size int) *ImageNormalizer {
	if size <= 0 {
		size = DefaultImageSize
	}
	return &ImageNormalizer{Size: size}
}

// Shape returns the tensor shape produced by Normalize: [1, size, size, 3].
func (n *ImageNormalizer) Shape() []int64 {
	s := int64(n.Size)
	return []int64{1, s, s, channels}
}

// Normalize decodes raw, converts it to RGB, resizes it, and scales every
// channel into [0,1]. Undecodable input fails with model.ErrInvalidImage.
func (n *ImageNormalizer) Normalize(raw []byte) (model.Input, error) {
	if len(raw) == 0 {
		return model.Input{}, fmt.Errorf("%w: empty payload", model.ErrInvalidImage)
	}
	cfg, _, err := image.DecodeConfig(bytes.NewReader(raw))
	if err != nil {
		return model.Input{}, fmt.Errorf("%w: %v", model.ErrInvalidImage, err)
	}
	if cfg.Width*cfg.Height > maxPixels {
		return model.Input{}, fmt.Errorf("%w: %dx%d exceeds pixel limit", model.ErrInvalidImage, cfg.Width, cfg.Height)
	}

	src, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return model.Input{}, fmt.Errorf("%w: %v", model.ErrInvalidImage, err)
	}
	b := src.Bounds()
	if b.Dx() <= 0 || b.Dy() <= 0 {
		return model.Input{}, fmt.Errorf("%w: empty bounds %v", model.ErrInvalidImage, b)
	}

	rgb := toRGB(src)

	dst := image.NewNRGBA(image.Rect(0, 0, n.Size, n.Size))
	draw.CatmullRom.Scale(dst, dst.Bounds(), rgb, rgb.Bounds(), draw.Src, nil)

	return model.Input{
		Pixels: toTensor(dst),
		Shape:  n.Shape(),
	}, nil
}

// toRGB copies src into an opaque NRGBA image. Alpha is discarded without
// premultiplying, so colour values of translucent pixels are kept as stored.
func toRGB(src image.Image) *image.NRGBA {
	b := src.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))

	if nrgba, ok := src.(*image.NRGBA); ok {
		for y := 0; y < b.Dy(); y++ {
			so := nrgba.PixOffset(b.Min.X, b.Min.Y+y)
			do := dst.PixOffset(0, y)
			for x := 0; x < b.Dx(); x++ {
				dst.Pix[do+0] = nrgba.Pix[so+0]
				dst.Pix[do+1] = nrgba.Pix[so+1]
				dst.Pix[do+2] = nrgba.Pix[so+2]
				dst.Pix[do+3] = 0xff
				so += 4
				do += 4
			}
		}
		return dst
	}

	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			c := color.NRGBAModel.Convert(src.At(b.Min.X+x, b.Min.Y+y)).(color.NRGBA)
			c.A = 0xff
			dst.SetNRGBA(x, y, c)
		}
	}
	return dst
}

// toTensor flattens img to HWC float32 values in [0,1].
func toTensor(img *image.NRGBA) []float32 {
	w, h := img.Bounds().Dx(), img.Bounds().Dy()
	out := make([]float32, 0, w*h*channels)
	for y := 0; y < h; y++ {
		off := img.PixOffset(0, y)
		for x := 0; x < w; x++ {
			p := img.Pix[off : off+4 : off+4]
			out = append(out,
				float32(p[0])/255,
				float32(p[1])/255,
				float32(p[2])/255,
			)
			off += 4
		}
	}
	return out
}
