package dispatch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"

	"github.com/prepline/prepline/internal/dataset"
	"github.com/prepline/prepline/internal/parser"
	"github.com/prepline/prepline/internal/pipeline"
	"github.com/prepline/prepline/internal/preprocess"
	"github.com/prepline/prepline/internal/profile"
	"github.com/prepline/prepline/internal/transform"
)

var jsonAPI = jsoniter.ConfigCompatibleWithStandardLibrary

// Defaults are the environment-derived parameters an individual request
// may omit.
type Defaults struct {
	// NumericShare is the profile classification threshold (0 keeps the
	// package default of 0.80).
	NumericShare float64

	// SampleSeed seeds the sampling source when non-zero, making random
	// and stratified sampling reproducible. Zero means time-seeded.
	SampleSeed int64

	// PreviewRows bounds the dataset summaries attached to parse results
	// (0 keeps the package default).
	PreviewRows int
}

// Dispatcher routes typed requests to operations. It is stateless between
// requests and safe for concurrent use.
type Dispatcher struct {
	defaults Defaults
	log      *slog.Logger
}

// New creates a dispatcher. A nil logger falls back to slog.Default.
func New(defaults Defaults, log *slog.Logger) *Dispatcher {
	if log == nil {
		log = slog.Default()
	}
	return &Dispatcher{defaults: defaults, log: log}
}

// Handle executes one request synchronously to completion, emitting
// exactly one start message and then exactly one complete or error
// message, all with the request's correlation id (minted when absent).
func (d *Dispatcher) Handle(ctx context.Context, req Request, emit Emitter) {
	correlationID := req.CorrelationID
	if correlationID == "" {
		correlationID = uuid.NewString()
	}

	log := d.log.With("operation", req.Operation, "correlation_id", correlationID)

	emit(Message{
		Type:          MessageStart,
		Operation:     req.Operation,
		CorrelationID: correlationID,
		Timestamp:     time.Now().UTC(),
	})

	result, err := d.run(ctx, req, log)
	if err != nil {
		log.Warn("operation failed", "error", err)
		emit(Message{
			Type:          MessageError,
			Operation:     req.Operation,
			CorrelationID: correlationID,
			Timestamp:     time.Now().UTC(),
			Error:         toDetail(err),
		})
		return
	}

	log.Debug("operation complete")
	emit(Message{
		Type:          MessageComplete,
		Operation:     req.Operation,
		CorrelationID: correlationID,
		Timestamp:     time.Now().UTC(),
		Result:        result,
	})
}

// run executes the operation body with a panic barrier. Panics become
// errors here so the host only ever sees structured messages.
func (d *Dispatcher) run(ctx context.Context, req Request, log *slog.Logger) (result any, err error) {
	defer func() {
		if r := recover(); r != nil {
			log.Error("operation panicked", "panic", r)
			err = fmt.Errorf("internal error: %v", r)
		}
	}()
	_ = ctx // operations run synchronously to completion
	return d.dispatch(req)
}

// textPayload is the payload shape for the two parse operations.
type textPayload struct {
	Text string `json:"text"`
}

func (d *Dispatcher) dispatch(req Request) (any, error) {
	switch req.Operation {
	case OpParseCSV:
		var payload textPayload
		if err := decode(req.Payload, &payload, "payload"); err != nil {
			return nil, err
		}
		var opts parser.CSVOptions
		if err := decode(req.Config, &opts, "config"); err != nil {
			return nil, err
		}
		res := parser.ParseCSV(payload.Text, opts)
		return struct {
			parser.CSVResult
			Summary dataset.Summary `json:"summary"`
		}{res, res.Data.Summarize(d.defaults.PreviewRows)}, nil

	case OpParseStructured:
		var payload textPayload
		if err := decode(req.Payload, &payload, "payload"); err != nil {
			return nil, err
		}
		data, err := parser.ParseStructured(payload.Text)
		if err != nil {
			return nil, err
		}
		return struct {
			Data    dataset.Dataset `json:"data"`
			Summary dataset.Summary `json:"summary"`
		}{data, data.Summarize(d.defaults.PreviewRows)}, nil

	case OpValidate:
		data, err := decodeDataset(req.Payload)
		if err != nil {
			return nil, err
		}
		var opts profile.Options
		if err := decode(req.Config, &opts, "config"); err != nil {
			return nil, err
		}
		if opts.NumericShare <= 0 {
			opts.NumericShare = d.defaults.NumericShare
		}
		return profile.Validate(data, opts), nil

	case OpNormalize:
		data, err := decodeDataset(req.Payload)
		if err != nil {
			return nil, err
		}
		var cfg struct {
			Columns []string                   `json:"columns"`
			Method  preprocess.NormalizeMethod `json:"method"`
		}
		if err := decode(req.Config, &cfg, "config"); err != nil {
			return nil, err
		}
		out, scales, err := preprocess.Normalize(data, cfg.Columns, cfg.Method)
		if err != nil {
			return nil, err
		}
		return struct {
			Data   dataset.Dataset                   `json:"data"`
			Scales map[string]preprocess.ColumnScale `json:"scales"`
		}{out, scales}, nil

	case OpHandleMissing:
		data, err := decodeDataset(req.Payload)
		if err != nil {
			return nil, err
		}
		var cfg struct {
			Method  preprocess.MissingMethod `json:"method"`
			Columns []string                 `json:"columns"`
		}
		if err := decode(req.Config, &cfg, "config"); err != nil {
			return nil, err
		}
		out, filled, err := preprocess.HandleMissing(data, cfg.Method, cfg.Columns)
		if err != nil {
			return nil, err
		}
		return struct {
			Data   dataset.Dataset `json:"data"`
			Filled int             `json:"filled"`
		}{out, filled}, nil

	case OpRemoveOutliers:
		data, err := decodeDataset(req.Payload)
		if err != nil {
			return nil, err
		}
		var cfg struct {
			Columns   []string                 `json:"columns"`
			Method    preprocess.OutlierMethod `json:"method"`
			Threshold float64                  `json:"threshold"`
		}
		if err := decode(req.Config, &cfg, "config"); err != nil {
			return nil, err
		}
		out, bounds, err := preprocess.RemoveOutliers(data, cfg.Columns, cfg.Method, cfg.Threshold)
		if err != nil {
			return nil, err
		}
		return struct {
			Data   dataset.Dataset              `json:"data"`
			Bounds map[string]preprocess.Bounds `json:"bounds"`
		}{out, bounds}, nil

	case OpSample:
		data, err := decodeDataset(req.Payload)
		if err != nil {
			return nil, err
		}
		var cfg struct {
			Size   int                     `json:"size"`
			Method preprocess.SampleMethod `json:"method"`
		}
		if err := decode(req.Config, &cfg, "config"); err != nil {
			return nil, err
		}
		out, err := preprocess.Sample(data, cfg.Size, cfg.Method, d.sampleSource())
		if err != nil {
			return nil, err
		}
		return struct {
			Data dataset.Dataset `json:"data"`
		}{out}, nil

	case OpEncodeCategorical:
		data, err := decodeDataset(req.Payload)
		if err != nil {
			return nil, err
		}
		var cfg struct {
			Columns []string               `json:"columns"`
			Method  transform.EncodeMethod `json:"method"`
		}
		if err := decode(req.Config, &cfg, "config"); err != nil {
			return nil, err
		}
		out, encodings, err := transform.EncodeCategorical(data, cfg.Columns, cfg.Method)
		if err != nil {
			return nil, err
		}
		return struct {
			Data      dataset.Dataset               `json:"data"`
			Encodings map[string]transform.Encoding `json:"encodings"`
		}{out, encodings}, nil

	case OpExtractFeatures:
		data, err := decodeDataset(req.Payload)
		if err != nil {
			return nil, err
		}
		var opts transform.FeatureOptions
		if err := decode(req.Config, &opts, "config"); err != nil {
			return nil, err
		}
		return transform.ExtractClusteringFeatures(data, opts)

	case OpRunPipeline:
		data, err := decodeDataset(req.Payload)
		if err != nil {
			return nil, err
		}
		var cfg pipeline.Config
		if err := decode(req.Config, &cfg, "config"); err != nil {
			return nil, err
		}
		runner := pipeline.NewRunner(d.sampleSource())
		return runner.Run(data, cfg)

	default:
		return nil, Structuralf("unknown operation %q", req.Operation)
	}
}

// sampleSource builds a rand source per request so the dispatcher itself
// stays stateless. A configured seed makes sampling reproducible.
func (d *Dispatcher) sampleSource() *rand.Rand {
	if d.defaults.SampleSeed != 0 {
		return rand.New(rand.NewSource(d.defaults.SampleSeed))
	}
	return nil
}

// decode unmarshals raw JSON into dst, reporting shape violations as
// structural errors. Missing sections decode as zero values.
func decode(raw []byte, dst any, section string) error {
	if len(raw) == 0 {
		return nil
	}
	if err := jsonAPI.Unmarshal(raw, dst); err != nil {
		return Structuralf("invalid %s: %v", section, err)
	}
	return nil
}

// decodeDataset decodes a dataset payload, deriving a deterministic
// column order when the payload omits one, and enforces the structural
// invariant that the payload is a sequence of records.
func decodeDataset(raw []byte) (dataset.Dataset, error) {
	if len(raw) == 0 {
		return dataset.Dataset{}, Structuralf("missing dataset payload")
	}
	var data dataset.Dataset
	if err := jsonAPI.Unmarshal(raw, &data); err != nil {
		return dataset.Dataset{}, Structuralf("invalid dataset payload: %v", err)
	}
	data.DeriveColumns()
	if err := data.Validate(); err != nil {
		return dataset.Dataset{}, Structuralf("invalid dataset payload: %v", err)
	}
	return data, nil
}

// toDetail converts an operation error into the wire error shape, adding
// diagnostic detail for known error kinds.
func toDetail(err error) *ErrorDetail {
	detail := &ErrorDetail{Message: err.Error()}

	var structural *StructuralError
	var stage *pipeline.StageError
	switch {
	case errors.As(err, &structural):
		detail.Detail = "structural error: input does not have the required shape"
	case errors.As(err, &stage):
		detail.Message = stage.Err.Error()
		detail.Detail = "pipeline stage failed: " + stage.Stage
	}
	return detail
}
