// Package config loads analysis tuning parameters from JSON files.
// Fields are pointer-typed so a partial config file overrides only the
// values it names; the Get* accessors return documented defaults for
// anything left unset.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// TuningConfig represents the root configuration for the gait
// analysis pipeline.
type TuningConfig struct {
	// Skeleton resolution params
	Radii            *[]float64 `json:"radii,omitempty"`
	MaxFrameGap      *int       `json:"max_frame_gap,omitempty"`
	ReversalDistance *float64   `json:"reversal_distance,omitempty"`
	OutlierMAD       *float64   `json:"outlier_mad,omitempty"`
	FrameWorkers     *int       `json:"frame_workers,omitempty"`

	// Phase detection params
	FPS             *float64 `json:"fps,omitempty"`
	WindowHalfWidth *int     `json:"window_half_width,omitempty"`
	MinRunLength    *int     `json:"min_run_length,omitempty"`

	// Side assignment params
	RANSACIterations *int     `json:"ransac_iterations,omitempty"`
	ResidualFactor   *float64 `json:"residual_factor,omitempty"`
	RANSACSeed       *int64   `json:"ransac_seed,omitempty"`
	StanceEpsSpatial *float64 `json:"stance_eps_spatial,omitempty"`
	StanceEpsFrames  *float64 `json:"stance_eps_frames,omitempty"`
	StanceMinPoints  *int     `json:"stance_min_points,omitempty"`
}

// EmptyTuningConfig returns a TuningConfig with all fields set to nil.
// Use LoadTuningConfig to load actual values from a file.
func EmptyTuningConfig() *TuningConfig {
	return &TuningConfig{}
}

// LoadTuningConfig loads a TuningConfig from a JSON file. Fields
// omitted from the file retain their defaults, so partial configs are
// safe.
func LoadTuningConfig(path string) (*TuningConfig, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	// Check file size for safety (max 1MB)
	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	const maxFileSize = 1 * 1024 * 1024
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := EmptyTuningConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Validate checks that the configuration values are valid.
func (c *TuningConfig) Validate() error {
	if c.FPS != nil && *c.FPS <= 0 {
		return fmt.Errorf("fps must be positive, got %f", *c.FPS)
	}
	if c.WindowHalfWidth != nil && *c.WindowHalfWidth < 1 {
		return fmt.Errorf("window_half_width must be at least 1, got %d", *c.WindowHalfWidth)
	}
	if c.MinRunLength != nil && *c.MinRunLength < 1 {
		return fmt.Errorf("min_run_length must be at least 1, got %d", *c.MinRunLength)
	}
	if c.Radii != nil {
		for _, r := range *c.Radii {
			if r < 0 {
				return fmt.Errorf("radii must be non-negative, got %f", r)
			}
		}
	}
	if c.ReversalDistance != nil && *c.ReversalDistance < 0 {
		return fmt.Errorf("reversal_distance must be non-negative, got %f", *c.ReversalDistance)
	}
	if c.StanceMinPoints != nil && *c.StanceMinPoints < 1 {
		return fmt.Errorf("stance_min_points must be at least 1, got %d", *c.StanceMinPoints)
	}
	return nil
}

// GetRadii returns the sphere radii swept during best-pair selection.
func (c *TuningConfig) GetRadii() []float64 {
	if c.Radii == nil || len(*c.Radii) == 0 {
		return []float64{0, 5, 10, 15, 20, 25} // default
	}
	return *c.Radii
}

// GetMaxFrameGap returns the frame gap that starts a new walking pass.
func (c *TuningConfig) GetMaxFrameGap() int {
	if c.MaxFrameGap == nil {
		return 15 // default: half a second at 30 fps
	}
	return *c.MaxFrameGap
}

// GetReversalDistance returns the head backtrack distance, in input
// coordinate units, that starts a new walking pass.
func (c *TuningConfig) GetReversalDistance() float64 {
	if c.ReversalDistance == nil {
		return 30 // default
	}
	return *c.ReversalDistance
}

// GetOutlierMAD returns the MAD multiple beyond which resolved foot
// heights are discarded as outliers.
func (c *TuningConfig) GetOutlierMAD() float64 {
	if c.OutlierMAD == nil {
		return 2 // default
	}
	return *c.OutlierMAD
}

// GetFrameWorkers returns the size of the frame resolution pool.
func (c *TuningConfig) GetFrameWorkers() int {
	if c.FrameWorkers == nil {
		return 4 // default
	}
	return *c.FrameWorkers
}

// GetFPS returns the camera frame rate.
func (c *TuningConfig) GetFPS() float64 {
	if c.FPS == nil {
		return 30 // default
	}
	return *c.FPS
}

// GetWindowHalfWidth returns the phase detection window half-width.
func (c *TuningConfig) GetWindowHalfWidth() int {
	if c.WindowHalfWidth == nil {
		return 5 // default
	}
	return *c.WindowHalfWidth
}

// GetMinRunLength returns the minimum phase run length.
func (c *TuningConfig) GetMinRunLength() int {
	if c.MinRunLength == nil {
		return 10 // default
	}
	return *c.MinRunLength
}

// GetRANSACIterations returns the RANSAC sample count.
func (c *TuningConfig) GetRANSACIterations() int {
	if c.RANSACIterations == nil {
		return 100 // default
	}
	return *c.RANSACIterations
}

// GetResidualFactor returns the MAD multiple used as the RANSAC
// residual threshold.
func (c *TuningConfig) GetResidualFactor() float64 {
	if c.ResidualFactor == nil {
		return 2.5 // default
	}
	return *c.ResidualFactor
}

// GetRANSACSeed returns the RANSAC sampling seed.
func (c *TuningConfig) GetRANSACSeed() int64 {
	if c.RANSACSeed == nil {
		return 0 // default
	}
	return *c.RANSACSeed
}

// GetStanceEpsSpatial returns the spatial radius of stance clustering.
func (c *TuningConfig) GetStanceEpsSpatial() float64 {
	if c.StanceEpsSpatial == nil {
		return 5 // default
	}
	return *c.StanceEpsSpatial
}

// GetStanceEpsFrames returns the temporal radius of stance clustering.
func (c *TuningConfig) GetStanceEpsFrames() float64 {
	if c.StanceEpsFrames == nil {
		return 10 // default
	}
	return *c.StanceEpsFrames
}

// GetStanceMinPoints returns the DBSCAN core-point threshold for
// stance clustering.
func (c *TuningConfig) GetStanceMinPoints() int {
	if c.StanceMinPoints == nil {
		return 7 // default
	}
	return *c.StanceMinPoints
}
