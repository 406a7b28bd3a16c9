// Package data defines how run inputs reach the decision core. The core
// itself never computes betas, correlations or quality ratios; it consumes
// them through the MetricsProvider contract so the measurement side can be
// swapped without touching any gate.
package data

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/NicXVII/analisiPortafoglio/internal/domain"
	"github.com/NicXVII/analisiPortafoglio/internal/gates"
)

// RunInputs bundles everything one evaluation run consumes.
type RunInputs struct {
	Snapshot        domain.PortfolioSnapshot `json:"snapshot"`
	Quality         domain.DataQualityReport `json:"quality"`
	Beta            float64                  `json:"beta"`
	BetaWindowYears float64                  `json:"beta_window_years"`
	Signals         gates.StructuralSignals  `json:"signals"`
	Evidence        []gates.CausalEvidence   `json:"evidence,omitempty"`
	Benchmark       gates.BenchmarkInputs    `json:"benchmark"`
}

// MetricsProvider supplies the measured inputs for a portfolio. Implementations
// may read files, call a measurement service, or query a database.
type MetricsProvider interface {
	Collect(ctx context.Context, portfolioID string) (*RunInputs, error)
}

// FileProvider reads run inputs from a JSON document on disk. The portfolio
// ID is ignored; the file is the single source.
type FileProvider struct {
	path string
}

// NewFileProvider creates a provider over the given JSON file.
func NewFileProvider(path string) *FileProvider {
	return &FileProvider{path: path}
}

func (p *FileProvider) Collect(_ context.Context, _ string) (*RunInputs, error) {
	raw, err := os.ReadFile(p.path)
	if err != nil {
		return nil, fmt.Errorf("reading run inputs: %w", err)
	}
	var inputs RunInputs
	if err := json.Unmarshal(raw, &inputs); err != nil {
		return nil, fmt.Errorf("decoding run inputs from %s: %w", p.path, err)
	}
	return &inputs, nil
}

// StaticProvider returns a fixed set of inputs. Used in tests and as the
// in-process adapter when the caller already holds the measurements.
type StaticProvider struct {
	Inputs RunInputs
	Err    error
}

func (p *StaticProvider) Collect(_ context.Context, _ string) (*RunInputs, error) {
	if p.Err != nil {
		return nil, p.Err
	}
	inputs := p.Inputs
	return &inputs, nil
}
