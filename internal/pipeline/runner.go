// Package pipeline sequences preprocessing and transform stages over a
// dataset according to a declarative config.
//
// The stage order is fixed: handleMissing, removeOutliers,
// encodeCategorical, normalize, sample. Each stage is independently
// toggled by its config section. Unlike invoking stages individually,
// the runner is fail-fast: a stage failure aborts all remaining stages
// and surfaces only the failing stage's error.
package pipeline

import (
	"fmt"
	"math/rand"

	"github.com/prepline/prepline/internal/dataset"
	"github.com/prepline/prepline/internal/preprocess"
	"github.com/prepline/prepline/internal/transform"
)

// State is the runner's lifecycle position.
type State string

const (
	StateIdle     State = "idle"
	StateRunning  State = "running"
	StateComplete State = "complete"
	StateFailed   State = "failed"
)

// Stage names, used in the audit trail and in stage errors.
const (
	StageHandleMissing     = "handleMissing"
	StageRemoveOutliers    = "removeOutliers"
	StageEncodeCategorical = "encodeCategorical"
	StageNormalize         = "normalize"
	StageSample            = "sample"
)

// MissingStage configures the missing-value stage.
type MissingStage struct {
	Method  preprocess.MissingMethod `json:"method"`
	Columns []string                 `json:"columns,omitempty"`
}

// OutlierStage configures the outlier-removal stage.
type OutlierStage struct {
	Columns   []string                 `json:"columns"`
	Method    preprocess.OutlierMethod `json:"method"`
	Threshold float64                  `json:"threshold"`
}

// EncodeStage configures the categorical-encoding stage.
type EncodeStage struct {
	Columns []string               `json:"columns"`
	Method  transform.EncodeMethod `json:"method"`
}

// NormalizeStage configures the normalization stage.
type NormalizeStage struct {
	Columns []string                   `json:"columns"`
	Method  preprocess.NormalizeMethod `json:"method"`
}

// SampleStage configures the sampling stage.
type SampleStage struct {
	Size   int                     `json:"size"`
	Method preprocess.SampleMethod `json:"method"`
}

// Config toggles and parameterizes each stage. A nil section skips the
// stage entirely.
type Config struct {
	Missing   *MissingStage   `json:"handleMissing,omitempty"`
	Outliers  *OutlierStage   `json:"removeOutliers,omitempty"`
	Encode    *EncodeStage    `json:"encodeCategorical,omitempty"`
	Normalize *NormalizeStage `json:"normalize,omitempty"`
	Sample    *SampleStage    `json:"sample,omitempty"`
}

// Result carries the final dataset, the audit trail of executed stages,
// and the auxiliary outputs of each stage that ran.
type Result struct {
	Data      dataset.Dataset                   `json:"data"`
	Steps     []string                          `json:"steps"`
	Filled    int                               `json:"filled,omitempty"`
	Bounds    map[string]preprocess.Bounds      `json:"bounds,omitempty"`
	Encodings map[string]transform.Encoding     `json:"encodings,omitempty"`
	Scales    map[string]preprocess.ColumnScale `json:"scales,omitempty"`
}

// StageError wraps a stage failure with the name of the failing stage.
type StageError struct {
	Stage string
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("stage %s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// Runner executes a pipeline config over one dataset. A Runner is single
// use: its state moves Idle -> Running -> Complete or Failed and stays
// there. Create a new Runner per request.
type Runner struct {
	state State
	stage string
	rng   *rand.Rand
}

// NewRunner returns an idle runner. The rng seeds the sample stage; nil
// means time-seeded.
func NewRunner(rng *rand.Rand) *Runner {
	return &Runner{state: StateIdle, rng: rng}
}

// State returns the runner's current lifecycle state.
func (r *Runner) State() State {
	return r.state
}

// CurrentStage returns the stage being (or last) executed.
func (r *Runner) CurrentStage() string {
	return r.stage
}

// Run executes the configured stages in the fixed order and returns the
// result. On a stage failure the runner stops immediately and returns a
// *StageError naming only that stage.
func (r *Runner) Run(d dataset.Dataset, cfg Config) (Result, error) {
	if r.state != StateIdle {
		return Result{}, fmt.Errorf("runner already used (state %s)", r.state)
	}
	r.state = StateRunning

	result := Result{Data: d}

	fail := func(stage string, err error) (Result, error) {
		r.state = StateFailed
		return Result{}, &StageError{Stage: stage, Err: err}
	}

	if cfg.Missing != nil {
		r.stage = StageHandleMissing
		data, filled, err := preprocess.HandleMissing(result.Data, cfg.Missing.Method, cfg.Missing.Columns)
		if err != nil {
			return fail(StageHandleMissing, err)
		}
		result.Data = data
		result.Filled = filled
		result.Steps = append(result.Steps, StageHandleMissing)
	}

	if cfg.Outliers != nil {
		r.stage = StageRemoveOutliers
		data, bounds, err := preprocess.RemoveOutliers(result.Data, cfg.Outliers.Columns, cfg.Outliers.Method, cfg.Outliers.Threshold)
		if err != nil {
			return fail(StageRemoveOutliers, err)
		}
		result.Data = data
		result.Bounds = bounds
		result.Steps = append(result.Steps, StageRemoveOutliers)
	}

	if cfg.Encode != nil {
		r.stage = StageEncodeCategorical
		data, encodings, err := transform.EncodeCategorical(result.Data, cfg.Encode.Columns, cfg.Encode.Method)
		if err != nil {
			return fail(StageEncodeCategorical, err)
		}
		result.Data = data
		result.Encodings = encodings
		result.Steps = append(result.Steps, StageEncodeCategorical)
	}

	if cfg.Normalize != nil {
		r.stage = StageNormalize
		data, scales, err := preprocess.Normalize(result.Data, cfg.Normalize.Columns, cfg.Normalize.Method)
		if err != nil {
			return fail(StageNormalize, err)
		}
		result.Data = data
		result.Scales = scales
		result.Steps = append(result.Steps, StageNormalize)
	}

	if cfg.Sample != nil {
		r.stage = StageSample
		data, err := preprocess.Sample(result.Data, cfg.Sample.Size, cfg.Sample.Method, r.rng)
		if err != nil {
			return fail(StageSample, err)
		}
		result.Data = data
		result.Steps = append(result.Steps, StageSample)
	}

	r.state = StateComplete
	return result, nil
}
