// Package sheet composes extracted video frames into a contact sheet:
// a grid of thumbnails, optionally labeled with their presentation
// times.
package sheet

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"runtime"
	"sync"

	"github.com/user/videoread/pkg/ports"
)

// Options controls the sheet layout.
type Options struct {
	Columns    int
	ThumbWidth int
	Gap        int
	Padding    int
	Background color.Color
	TextColor  color.Color
	FontSize   float64
	FontPath   string
	Timestamps bool
	Workers    int
}

// DefaultOptions returns the standard sheet layout.
func DefaultOptions() Options {
	return Options{
		Columns:    5,
		ThumbWidth: 192,
		Gap:        8,
		Padding:    16,
		Background: color.RGBA{R: 26, G: 26, B: 46, A: 255},
		TextColor:  color.White,
		FontSize:   12,
		Timestamps: true,
	}
}

// Thumb is one frame destined for the sheet.
type Thumb struct {
	Image image.Image
	Time  float64
}

// Composer builds contact sheets through a Renderer.
type Composer struct {
	renderer ports.Renderer
	logger   ports.Logger
	opts     Options
}

// New creates a Composer.
func New(renderer ports.Renderer, logger ports.Logger, opts Options) *Composer {
	if opts.Columns <= 0 {
		opts.Columns = 1
	}
	if opts.Workers <= 0 {
		opts.Workers = runtime.NumCPU()
	}
	return &Composer{
		renderer: renderer,
		logger:   logger.WithComponent("sheet"),
		opts:     opts,
	}
}

// Compose lays the thumbs out in a grid and returns the sheet image.
func (c *Composer) Compose(ctx context.Context, thumbs []Thumb) (image.Image, error) {
	if len(thumbs) == 0 {
		return nil, fmt.Errorf("sheet: no frames to compose")
	}

	thumbW := c.opts.ThumbWidth
	first := thumbs[0].Image.Bounds()
	if first.Dx() == 0 || first.Dy() == 0 {
		return nil, fmt.Errorf("sheet: first frame is empty")
	}
	thumbH := thumbW * first.Dy() / first.Dx()
	if thumbH <= 0 {
		thumbH = 1
	}

	cols := c.opts.Columns
	rows := (len(thumbs) + cols - 1) / cols

	labelH := 0
	if c.opts.Timestamps {
		labelH = int(c.opts.FontSize) + 6
	}
	cellH := thumbH + labelH

	canvasW := c.opts.Padding*2 + cols*thumbW + (cols-1)*c.opts.Gap
	canvasH := c.opts.Padding*2 + rows*cellH + (rows-1)*c.opts.Gap

	c.logger.Info("Composing contact sheet: %d columns x %d rows", cols, rows)

	resized, err := c.resizeAll(ctx, thumbs, thumbW, thumbH)
	if err != nil {
		return nil, err
	}

	canvas := c.renderer.CreateCanvas(canvasW, canvasH, c.opts.Background)
	for i, img := range resized {
		col := i % cols
		row := i / cols
		x := c.opts.Padding + col*(thumbW+c.opts.Gap)
		y := c.opts.Padding + row*(cellH+c.opts.Gap)
		canvas.DrawImage(img, x, y)
		if c.opts.Timestamps {
			label := FormatTime(thumbs[i].Time)
			canvas.DrawText(label, x, y+thumbH+labelH/2, ports.TextStyle{
				FontSize: c.opts.FontSize,
				FontPath: c.opts.FontPath,
				Color:    c.opts.TextColor,
			})
		}
	}
	return canvas.ToImage(), nil
}

// resizeAll scales the thumbs in parallel, preserving input order.
func (c *Composer) resizeAll(ctx context.Context, thumbs []Thumb, w, h int) ([]image.Image, error) {
	out := make([]image.Image, len(thumbs))
	jobs := make(chan int, len(thumbs))

	var wg sync.WaitGroup
	for n := 0; n < c.opts.Workers; n++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				select {
				case <-ctx.Done():
					return
				default:
				}
				out[i] = c.renderer.ResizeImage(thumbs[i].Image, w, h)
			}
		}()
	}
	for i := range thumbs {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// FormatTime renders a presentation time as m:ss.mmm.
func FormatTime(t float64) string {
	if t < 0 {
		t = 0
	}
	minutes := int(t) / 60
	seconds := t - float64(minutes*60)
	return fmt.Sprintf("%d:%06.3f", minutes, seconds)
}
