// Package av1dec decodes AV1 OBU samples through libaom via cgo.
package av1dec

/*
#cgo pkg-config: aom
#include <aom/aom_decoder.h>
#include <aom/aomdx.h>
#include <stdlib.h>
#include <string.h>

static aom_codec_iface_t* av1_dx_iface() {
    return aom_codec_av1_dx();
}

static aom_codec_err_t dec_init(aom_codec_ctx_t *ctx, aom_codec_iface_t *iface) {
    return aom_codec_dec_init(ctx, iface, NULL, 0);
}

static unsigned char* plane(aom_image_t *img, int p) {
    return img->planes[p];
}

static int stride(aom_image_t *img, int p) {
    return img->stride[p];
}

static unsigned int disp_width(aom_image_t *img) {
    return img->d_w;
}

static unsigned int disp_height(aom_image_t *img) {
    return img->d_h;
}
*/
import "C"

import (
	"fmt"
	"image"
	"unsafe"

	"github.com/user/videoread/pkg/ports"
)

// Decoder decodes AV1 samples with libaom.
type Decoder struct {
	codec *C.aom_codec_ctx_t
}

var _ ports.FrameDecoder = (*Decoder)(nil)

// New creates an AV1 decoder. Init must be called before decoding.
func New() *Decoder {
	return &Decoder{}
}

// Init allocates and initializes the libaom decoder context.
func (d *Decoder) Init() error {
	d.codec = (*C.aom_codec_ctx_t)(C.malloc(C.sizeof_aom_codec_ctx_t))
	if d.codec == nil {
		return fmt.Errorf("av1dec: allocate decoder context failed")
	}
	C.memset(unsafe.Pointer(d.codec), 0, C.sizeof_aom_codec_ctx_t)

	if res := C.dec_init(d.codec, C.av1_dx_iface()); res != C.AOM_CODEC_OK {
		C.free(unsafe.Pointer(d.codec))
		d.codec = nil
		return fmt.Errorf("av1dec: initialize decoder failed: %d", res)
	}
	return nil
}

// DecodeFrame feeds one temporal unit to the decoder. It returns
// (nil, nil) when the unit was consumed without producing a frame yet.
func (d *Decoder) DecodeFrame(data []byte) (image.Image, error) {
	if d.codec == nil {
		return nil, fmt.Errorf("av1dec: decoder not initialized")
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("av1dec: empty sample")
	}

	res := C.aom_codec_decode(
		d.codec,
		(*C.uint8_t)(unsafe.Pointer(&data[0])),
		C.size_t(len(data)),
		nil,
	)
	if res != C.AOM_CODEC_OK {
		return nil, fmt.Errorf("av1dec: decode failed: %d", res)
	}

	var iter C.aom_codec_iter_t
	img := C.aom_codec_get_frame(d.codec, &iter)
	if img == nil {
		return nil, nil
	}
	return yuvToRGBA(img), nil
}

// Close destroys the decoder context. Safe to call twice.
func (d *Decoder) Close() {
	if d.codec != nil {
		C.aom_codec_destroy(d.codec)
		C.free(unsafe.Pointer(d.codec))
		d.codec = nil
	}
}

// yuvToRGBA converts the decoder's YUV420 output to RGBA.
func yuvToRGBA(img *C.aom_image_t) *image.RGBA {
	width := int(C.disp_width(img))
	height := int(C.disp_height(img))

	yPlane := C.plane(img, 0)
	uPlane := C.plane(img, 1)
	vPlane := C.plane(img, 2)

	yStride := int(C.stride(img, 0))
	uStride := int(C.stride(img, 1))
	vStride := int(C.stride(img, 2))

	rgba := image.NewRGBA(image.Rect(0, 0, width, height))

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			yIdx := y*yStride + x
			uIdx := (y/2)*uStride + (x / 2)
			vIdx := (y/2)*vStride + (x / 2)

			yVal := int(*(*C.uchar)(unsafe.Pointer(uintptr(unsafe.Pointer(yPlane)) + uintptr(yIdx))))
			uVal := int(*(*C.uchar)(unsafe.Pointer(uintptr(unsafe.Pointer(uPlane)) + uintptr(uIdx))))
			vVal := int(*(*C.uchar)(unsafe.Pointer(uintptr(unsafe.Pointer(vPlane)) + uintptr(vIdx))))

			c := yVal - 16
			d := uVal - 128
			e := vVal - 128

			r := clamp((298*c + 409*e + 128) >> 8)
			g := clamp((298*c - 100*d - 208*e + 128) >> 8)
			b := clamp((298*c + 516*d + 128) >> 8)

			idx := y*rgba.Stride + x*4
			rgba.Pix[idx] = uint8(r)
			rgba.Pix[idx+1] = uint8(g)
			rgba.Pix[idx+2] = uint8(b)
			rgba.Pix[idx+3] = 255
		}
	}
	return rgba
}

func clamp(v int) int {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return v
}
