// Package gaitdb persists gait analysis results to SQLite.
package gaitdb

import (
	"database/sql"
	_ "embed"
	"fmt"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/ajhynes7/depth-gait-analysis/internal/gait"
	"github.com/ajhynes7/depth-gait-analysis/internal/pose"
)

// GaitDB wraps the results database.
type GaitDB struct {
	*sql.DB
}

// schema.sql defines the trials, resolved_frames, stances and
// stride_params tables.
//
//go:embed schema.sql
var schemaSQL string

// New opens (creating if necessary) the gait results database at path.
func New(path string) (*GaitDB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialise gait schema: %w", err)
	}
	return &GaitDB{db}, nil
}

// CreateTrial records a new trial and returns its generated id.
func (gdb *GaitDB) CreateTrial(name string, fps float64) (string, error) {
	id := uuid.NewString()
	_, err := gdb.Exec(`INSERT INTO trials (id, name, fps) VALUES (?, ?, ?)`, id, name, fps)
	if err != nil {
		return "", fmt.Errorf("failed to insert trial: %w", err)
	}
	return id, nil
}

// RecordFrame stores the resolved skeleton positions for one frame.
// Unresolved frames (Err != nil) are skipped silently; the caller has
// already logged them.
func (gdb *GaitDB) RecordFrame(trialID string, result pose.FrameResult) error {
	if result.Err != nil || result.Skeleton == nil {
		return nil
	}

	s := result.Skeleton
	footA, footB := s.FootA(), s.FootB()

	_, err := gdb.Exec(`
		INSERT INTO resolved_frames
			(trial_id, frame, head_x, head_y, head_z,
			 foot_a_x, foot_a_y, foot_a_z, foot_b_x, foot_b_y, foot_b_z)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		trialID, result.Index,
		s.Head.X, s.Head.Y, s.Head.Z,
		footA.X, footA.Y, footA.Z,
		footB.X, footB.Y, footB.Z,
	)
	if err != nil {
		return fmt.Errorf("failed to insert resolved frame %d: %w", result.Index, err)
	}
	return nil
}

// RecordPass stores the stances and stride parameters of one walking
// pass.
func (gdb *GaitDB) RecordPass(trialID string, pass int, result *gait.PassResult) error {
	tx, err := gdb.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, s := range result.Stances {
		_, err := tx.Exec(`
			INSERT INTO stances
				(trial_id, pass, num_stance, side, frame_i, frame_f, pos_x, pos_z)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			trialID, pass, s.NumStance, s.Side.String(),
			s.FrameI, s.FrameF, s.Position.X, s.Position.Y,
		)
		if err != nil {
			return fmt.Errorf("failed to insert stance %s%d: %w", s.Side, s.NumStance, err)
		}
	}

	for _, p := range result.Params {
		_, err := tx.Exec(`
			INSERT INTO stride_params
				(trial_id, pass, num_stance, side,
				 absolute_step_length, step_length, stride_length, stride_width,
				 stride_time, stance_percentage, stride_velocity)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			trialID, pass, p.NumStance, p.Side.String(),
			p.AbsoluteStepLength, p.StepLength, p.StrideLength, p.StrideWidth,
			p.StrideTime, p.StancePercentage, p.StrideVelocity,
		)
		if err != nil {
			return fmt.Errorf("failed to insert stride params %s%d: %w", p.Side, p.NumStance, err)
		}
	}
	return tx.Commit()
}

// TrialSummary is one row of the trial listing.
type TrialSummary struct {
	ID         string
	Name       string
	FPS        float64
	NumFrames  int
	NumStrides int
}

// ListTrials returns all trials with their frame and stride counts.
func (gdb *GaitDB) ListTrials() ([]TrialSummary, error) {
	rows, err := gdb.Query(`
		SELECT t.id, t.name, t.fps,
			(SELECT COUNT(*) FROM resolved_frames f WHERE f.trial_id = t.id),
			(SELECT COUNT(*) FROM stride_params p WHERE p.trial_id = t.id)
		FROM trials t
		ORDER BY t.created_at, t.rowid`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var trials []TrialSummary
	for rows.Next() {
		var t TrialSummary
		if err := rows.Scan(&t.ID, &t.Name, &t.FPS, &t.NumFrames, &t.NumStrides); err != nil {
			return nil, err
		}
		trials = append(trials, t)
	}
	return trials, rows.Err()
}
