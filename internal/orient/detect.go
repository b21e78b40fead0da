package orient

import (
	"context"
	"fmt"
	"os"
	"slices"

	"github.com/JaimeStill/document-context/pkg/document"
	"github.com/JaimeStill/document-context/pkg/encoding"

	"github.com/JaimeStill/go-agents/pkg/agent"
	gaconfig "github.com/JaimeStill/go-agents/pkg/config"

	"github.com/scriptmark-labs/scriptmark/pkg/formatting"
)

// Detector reports the clockwise rotation, in degrees, required to bring a
// page image upright. Zero means the page has no orientation defect.
type Detector interface {
	Detect(ctx context.Context, imagePath string) (int, error)
}

var validRotations = []int{0, 90, 180, 270}

const detectPrompt = `Examine this scanned exam page and determine whether it is
rotated from upright. Respond with JSON only:

{"rotation": <0|90|180|270>}

where rotation is the clockwise correction in degrees needed to make the
page upright. Respond {"rotation": 0} if the page is already upright.`

type rotationResponse struct {
	Rotation int `json:"rotation"`
}

type agentDetector struct {
	agent agent.Agent
}

// NewDetector creates a Detector that sends page images to a vision model
// and parses its rotation verdict. The agent is constructed once and reused
// across pages.
func NewDetector(cfg gaconfig.AgentConfig) (Detector, error) {
	a, err := agent.New(&cfg)
	if err != nil {
		return nil, fmt.Errorf("create agent: %w", err)
	}
	return &agentDetector{agent: a}, nil
}

func (d *agentDetector) Detect(ctx context.Context, imagePath string) (int, error) {
	dataURI, err := encodePageImage(imagePath)
	if err != nil {
		return 0, err
	}

	resp, err := d.agent.Vision(ctx, detectPrompt, []string{dataURI})
	if err != nil {
		return 0, fmt.Errorf("vision call: %w", err)
	}

	parsed, err := formatting.Parse[rotationResponse](resp.Content())
	if err != nil {
		return 0, fmt.Errorf("parse response: %w", err)
	}

	if !slices.Contains(validRotations, parsed.Rotation) {
		return 0, fmt.Errorf("%w: %d", ErrInvalidRotation, parsed.Rotation)
	}

	return parsed.Rotation, nil
}

func encodePageImage(imagePath string) (string, error) {
	data, err := os.ReadFile(imagePath)
	if err != nil {
		return "", fmt.Errorf("read image: %w", err)
	}

	dataURI, err := encoding.EncodeImageDataURI(data, document.PNG)
	if err != nil {
		return "", fmt.Errorf("encode image: %w", err)
	}

	return dataURI, nil
}
