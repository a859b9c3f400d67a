package imaging

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"os"
	"path/filepath"
	"time"

	"github.com/LavaJover/shvark-country-service/internal/domain"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

const (
	imageWidth  = 800
	imageHeight = 600
)

// SummaryRenderer draws the fixed-layout summary PNG and swaps it into place
// atomically, so a concurrent reader never observes a torn file.
type SummaryRenderer struct {
	path string
}

func NewSummaryRenderer(path string) *SummaryRenderer {
	return &SummaryRenderer{path: path}
}

func (r *SummaryRenderer) Path() string {
	return r.path
}

func (r *SummaryRenderer) Render(top []*domain.Country, totalCountries int64, refreshedAt time.Time) error {
	img := image.NewRGBA(image.Rect(0, 0, imageWidth, imageHeight))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)

	drawText(img, 10, 30, "Country Data Summary")
	drawText(img, 10, 70, fmt.Sprintf("Total Countries: %d", totalCountries))
	drawText(img, 10, 110, fmt.Sprintf("Last Refresh: %s", refreshedAt.UTC().Format(time.RFC1123)))

	drawText(img, 10, 170, "Top 5 Countries by Estimated GDP:")
	for i, country := range top {
		drawText(img, 10, 210+i*40, fmt.Sprintf("%d. %s: %d", i+1, country.Name, country.EstimatedGDP))
	}

	dir := filepath.Dir(r.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create summary dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "summary-*.png")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	if err := png.Encode(tmp, img); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to encode summary image: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), r.path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to replace summary image: %w", err)
	}

	return nil
}

func drawText(img *image.RGBA, x, y int, text string) {
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(color.Black),
		Face: basicfont.Face7x13,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(text)
}
