package gait

import (
	"fmt"

	"github.com/ajhynes7/depth-gait-analysis/internal/geom"
)

// StrideParams holds the gait parameters computed from one stride
// (two consecutive stances of the same foot with the opposite foot's
// stance between them).
type StrideParams struct {
	Side      Side
	NumStance int

	AbsoluteStepLength float64
	StepLength         float64
	StrideLength       float64
	StrideWidth        float64
	StrideTime         float64
	StancePercentage   float64
	StrideVelocity     float64
}

// paramFields fixes the serialization order of the numeric parameters.
var paramFields = []string{
	"absolute_step_length",
	"step_length",
	"stride_length",
	"stride_width",
	"stride_time",
	"stance_percentage",
	"stride_velocity",
}

// Fields returns the parameter names in serialization order.
func (p StrideParams) Fields() []string { return paramFields }

// Values returns the parameter values in the same order as Fields.
func (p StrideParams) Values() []float64 {
	return []float64{
		p.AbsoluteStepLength,
		p.StepLength,
		p.StrideLength,
		p.StrideWidth,
		p.StrideTime,
		p.StancePercentage,
		p.StrideVelocity,
	}
}

// StrideFromStances computes stride parameters from three stances in
// temporal order: foot A initial, foot B, foot A final. fps converts
// frame differences into seconds.
func StrideFromStances(aInitial, b, aFinal Stance, fps float64) (StrideParams, error) {
	if fps <= 0 {
		return StrideParams{}, fmt.Errorf("gait: fps must be positive, got %g", fps)
	}

	// Project foot B onto the stride line of foot A.
	bProj, err := geom.ProjectPointLine2(b.Position, aInitial.Position, aFinal.Position)
	if err != nil {
		return StrideParams{}, fmt.Errorf("gait: coincident stance positions: %w", err)
	}

	strideTime := float64(aFinal.FrameI-aInitial.FrameI) / fps
	if strideTime <= 0 {
		return StrideParams{}, fmt.Errorf("gait: non-positive stride time")
	}
	stanceTime := float64(aInitial.FrameF-aInitial.FrameI) / fps

	strideLength := aInitial.Position.Dist(aFinal.Position)

	return StrideParams{
		Side:               aInitial.Side,
		NumStance:          aInitial.NumStance,
		AbsoluteStepLength: b.Position.Dist(aFinal.Position),
		StepLength:         bProj.Dist(aFinal.Position),
		StrideLength:       strideLength,
		StrideWidth:        bProj.Dist(b.Position),
		StrideTime:         strideTime,
		StancePercentage:   stanceTime / strideTime * 100,
		StrideVelocity:     strideLength / strideTime,
	}, nil
}

// StridesFromStances slides a window of three over the stance events
// (already sorted by initial frame) and computes parameters for every
// window whose outer stances share a side and whose middle stance is
// the opposite foot. Windows that fail (coincident positions, zero
// stride time) are skipped.
func StridesFromStances(stances []Stance, fps float64) []StrideParams {
	var params []StrideParams
	for i := 0; i+2 < len(stances); i++ {
		a0, b, a1 := stances[i], stances[i+1], stances[i+2]
		if a0.Side != a1.Side || b.Side == a0.Side {
			continue
		}
		p, err := StrideFromStances(a0, b, a1, fps)
		if err != nil {
			continue
		}
		params = append(params, p)
	}
	return params
}
