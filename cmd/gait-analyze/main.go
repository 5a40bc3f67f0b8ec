// Command gait-analyze resolves skeletons from a trial of per-frame
// part hypotheses and writes the detected stance events and stride
// parameters to a SQLite database.
//
// Input is a JSON trial file:
//
//	{
//	  "name": "subject-01-trial-03",
//	  "frames": [
//	    {"frame": 0, "hypotheses": [{"x": 1.0, "y": 2.0, "z": 3.0, "label": 0}, ...]},
//	    ...
//	  ]
//	}
//
// Segment lengths may be supplied as a comma-separated list; when
// omitted they are estimated from the trial itself.
package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/ajhynes7/depth-gait-analysis/internal/config"
	"github.com/ajhynes7/depth-gait-analysis/internal/gait"
	"github.com/ajhynes7/depth-gait-analysis/internal/gaitdb"
	"github.com/ajhynes7/depth-gait-analysis/internal/geom"
	"github.com/ajhynes7/depth-gait-analysis/internal/pose"
)

var (
	inputPath   = flag.String("input", "", "Path to trial JSON file (required)")
	dbPath      = flag.String("db", "gait_results.db", "Path to results database")
	configPath  = flag.String("config", "", "Optional tuning config JSON file")
	lengthsFlag = flag.String("lengths", "", "Comma-separated segment lengths; estimated from the trial when empty")
	fpsFlag     = flag.Float64("fps", 0, "Camera frame rate; overrides the config value when positive")
)

// trialFile is the on-disk input format.
type trialFile struct {
	Name   string `json:"name"`
	Frames []struct {
		Frame      int `json:"frame"`
		Hypotheses []struct {
			X     float64 `json:"x"`
			Y     float64 `json:"y"`
			Z     float64 `json:"z"`
			Label int     `json:"label"`
		} `json:"hypotheses"`
	} `json:"frames"`
}

// parseCSVFloatSlice parses a comma-separated list of floats.
func parseCSVFloatSlice(s string) ([]float64, error) {
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	out := make([]float64, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		v, err := strconv.ParseFloat(p, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid float '%s': %w", p, err)
		}
		out = append(out, v)
	}
	return out, nil
}

func loadTrial(path string) (string, []pose.Frame, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", nil, fmt.Errorf("failed to read trial file: %w", err)
	}

	var tf trialFile
	if err := json.Unmarshal(data, &tf); err != nil {
		return "", nil, fmt.Errorf("failed to parse trial JSON: %w", err)
	}

	frames := make([]pose.Frame, len(tf.Frames))
	for i, f := range tf.Frames {
		hyps := make([]pose.Hypothesis, len(f.Hypotheses))
		for j, h := range f.Hypotheses {
			hyps[j] = pose.Hypothesis{
				Point: geom.Vec3{X: h.X, Y: h.Y, Z: h.Z},
				Label: h.Label,
			}
		}
		frames[i] = pose.Frame{Index: f.Frame, Hypotheses: hyps}
	}
	return tf.Name, frames, nil
}

func main() {
	flag.Parse()

	if *inputPath == "" {
		flag.Usage()
		log.Fatal("missing required -input flag")
	}

	cfg := config.EmptyTuningConfig()
	if *configPath != "" {
		var err error
		cfg, err = config.LoadTuningConfig(*configPath)
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}
	}

	fps := cfg.GetFPS()
	if *fpsFlag > 0 {
		fps = *fpsFlag
	}

	name, frames, err := loadTrial(*inputPath)
	if err != nil {
		log.Fatalf("failed to load trial: %v", err)
	}
	if name == "" {
		name = strings.TrimSuffix(*inputPath, ".json")
	}
	log.Printf("loaded trial %q: %d frames", name, len(frames))

	// Segment lengths: supplied or estimated from the trial.
	segments, err := parseCSVFloatSlice(*lengthsFlag)
	if err != nil {
		log.Fatalf("failed to parse -lengths: %v", err)
	}
	nSegments := len(pose.ConsecutiveConnections(pose.DefaultConnections))
	if len(segments) == 0 {
		segments, err = pose.EstimateSegments(frames, nSegments, nil, 60, 0.01)
		if err != nil {
			log.Fatalf("failed to estimate segment lengths: %v", err)
		}
		log.Printf("estimated segment lengths: %v", segments)
	} else if len(segments) != nSegments {
		log.Fatalf("expected %d segment lengths, got %d", nSegments, len(segments))
	}

	resolver := &pose.Resolver{
		Table:      pose.TableFromSegments(segments, pose.DefaultConnections),
		ChainTable: pose.TableFromSegments(segments, pose.ConsecutiveConnections(pose.DefaultConnections)),
		Radii:      cfg.GetRadii(),
	}

	results := resolver.ResolveFrames(frames, cfg.GetFrameWorkers())

	resolved := 0
	for _, r := range results {
		if r.Err == nil {
			resolved++
		} else if !errors.Is(r.Err, pose.ErrIncompleteHypotheses) {
			log.Printf("frame skipped: %v", r.Err)
		}
	}
	log.Printf("resolved %d of %d frames", resolved, len(results))

	filtered := gait.FilterOutlierFrames(results, cfg.GetOutlierMAD())
	passes := gait.SplitPasses(filtered, cfg.GetMaxFrameGap(), cfg.GetReversalDistance())
	log.Printf("split %d frames into %d walking passes", len(filtered), len(passes))

	passCfg := gait.PassConfig{
		Phase: gait.PhaseConfig{
			WindowHalfWidth: cfg.GetWindowHalfWidth(),
			MinRunLength:    cfg.GetMinRunLength(),
		},
		Side: gait.SideConfig{
			RANSACIterations: cfg.GetRANSACIterations(),
			ResidualFactor:   cfg.GetResidualFactor(),
			Seed:             cfg.GetRANSACSeed(),
			EpsSpatial:       cfg.GetStanceEpsSpatial(),
			EpsFrames:        cfg.GetStanceEpsFrames(),
			MinPts:           cfg.GetStanceMinPoints(),
		},
		FPS: fps,
	}
	outcomes := gait.AnalyzePasses(passes, passCfg, cfg.GetFrameWorkers())

	db, err := gaitdb.New(*dbPath)
	if err != nil {
		log.Fatalf("failed to open results database: %v", err)
	}
	defer db.Close()

	trialID, err := db.CreateTrial(name, fps)
	if err != nil {
		log.Fatalf("failed to create trial: %v", err)
	}

	for _, r := range filtered {
		if err := db.RecordFrame(trialID, r); err != nil {
			log.Fatalf("failed to record frame: %v", err)
		}
	}

	strides := 0
	for _, o := range outcomes {
		if o.Err != nil {
			log.Printf("pass %d skipped: %v", o.Index, o.Err)
			continue
		}
		if err := db.RecordPass(trialID, o.Index, o.Result); err != nil {
			log.Fatalf("failed to record pass %d: %v", o.Index, err)
		}
		strides += len(o.Result.Params)
	}

	log.Printf("trial %s: wrote %d strides from %d passes to %s", trialID, strides, len(passes), *dbPath)
}
