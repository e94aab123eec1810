package fraud

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"strings"

	// Frame payloads arrive as browser canvas captures, JPEG or PNG.
	_ "image/jpeg"
	_ "image/png"

	"ai-interviewer-be/internal/pkg/logger"
)

const (
	AlertNoFace        = "No face detected"
	AlertMultipleFaces = "Multiple faces detected"
)

// Signal is the per-frame integrity judgment forwarded to the client.
type Signal struct {
	IsSuspicious bool     `json:"is_suspicious"`
	Alerts       []string `json:"alerts"`
	FaceCount    int      `json:"face_count"`
}

// Region is a detected face bounding box (square, pigo-style).
type Region struct {
	X    int `json:"x"`
	Y    int `json:"y"`
	Size int `json:"size"`
}

// FaceDetector locates faces in a decoded frame. Implementations must fail
// closed (return an error) on empty or unusable input.
type FaceDetector interface {
	Detect(img image.Image) ([]Region, error)
}

// Monitor judges each frame independently; it keeps no state across calls so
// invocations can run fully concurrent with the dialogue turns.
type Monitor struct {
	detector FaceDetector
	logger   logger.ILogger
}

func NewMonitor(detector FaceDetector, log logger.ILogger) *Monitor {
	return &Monitor{
		detector: detector,
		logger:   log,
	}
}

// AnalyzeEncoded handles the wire form of a frame: base64 content, optionally
// prefixed with a data-URL header ("data:image/jpeg;base64,...").
func (m *Monitor) AnalyzeEncoded(payload string) (Signal, error) {
	if idx := strings.Index(payload, ","); idx != -1 && strings.HasPrefix(payload, "data:") {
		payload = payload[idx+1:]
	}
	if strings.TrimSpace(payload) == "" {
		return Signal{}, fmt.Errorf("empty frame payload")
	}

	raw, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return Signal{}, fmt.Errorf("decode frame base64: %w", err)
	}

	img, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return Signal{}, fmt.Errorf("decode frame image: %w", err)
	}

	return m.Analyze(img)
}

// Analyze maps the detector's face count onto alert policy: zero faces and
// more than one face are both suspicious, exactly one is clean.
func (m *Monitor) Analyze(img image.Image) (Signal, error) {
	if img == nil || img.Bounds().Empty() {
		return Signal{}, fmt.Errorf("invalid frame data")
	}

	faces, err := m.detector.Detect(img)
	if err != nil {
		return Signal{}, fmt.Errorf("face detection: %w", err)
	}

	alerts := []string{}
	switch {
	case len(faces) == 0:
		alerts = append(alerts, AlertNoFace)
	case len(faces) > 1:
		alerts = append(alerts, AlertMultipleFaces)
	}

	signal := Signal{
		IsSuspicious: len(alerts) > 0,
		Alerts:       alerts,
		FaceCount:    len(faces),
	}

	if signal.IsSuspicious {
		m.logger.Info("FraudMonitor", "Suspicious frame", map[string]interface{}{
			"face_count": signal.FaceCount,
			"alerts":     signal.Alerts,
		})
	}

	return signal, nil
}
