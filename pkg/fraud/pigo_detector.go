package fraud

import (
	"fmt"
	"image"
	"os"

	pigo "github.com/esimov/pigo/core"
)

// PigoDetector wraps the pigo pixel-intensity cascade classifier. Unlike the
// usual CV stacks it is pure Go, so frame analysis stays in-process.
type PigoDetector struct {
	classifier *pigo.Pigo
	minQuality float32
}

var _ FaceDetector = &PigoDetector{}

// NewPigoDetector loads and unpacks the binary cascade file (the stock
// "facefinder" cascade shipped with pigo).
func NewPigoDetector(cascadePath string) (*PigoDetector, error) {
	cascade, err := os.ReadFile(cascadePath)
	if err != nil {
		return nil, fmt.Errorf("read cascade file: %w", err)
	}

	classifier, err := pigo.NewPigo().Unpack(cascade)
	if err != nil {
		return nil, fmt.Errorf("unpack cascade: %w", err)
	}

	return &PigoDetector{
		classifier: classifier,
		minQuality: 5.0,
	}, nil
}

func (d *PigoDetector) Detect(img image.Image) ([]Region, error) {
	if img == nil {
		return nil, fmt.Errorf("nil image")
	}
	bounds := img.Bounds()
	rows, cols := bounds.Dy(), bounds.Dx()
	if rows == 0 || cols == 0 {
		return nil, fmt.Errorf("empty image %dx%d", cols, rows)
	}

	pixels := pigo.RgbToGrayscale(img)

	params := pigo.CascadeParams{
		MinSize:     60,
		MaxSize:     1000,
		ShiftFactor: 0.1,
		ScaleFactor: 1.1,
		ImageParams: pigo.ImageParams{
			Pixels: pixels,
			Rows:   rows,
			Cols:   cols,
			Dim:    cols,
		},
	}

	dets := d.classifier.RunCascade(params, 0.0)
	dets = d.classifier.ClusterDetections(dets, 0.2)

	regions := make([]Region, 0, len(dets))
	for _, det := range dets {
		if det.Q < d.minQuality {
			continue
		}
		regions = append(regions, Region{
			X:    det.Col - det.Scale/2,
			Y:    det.Row - det.Scale/2,
			Size: det.Scale,
		})
	}
	return regions, nil
}
