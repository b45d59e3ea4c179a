package shifts

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/google/uuid"

	"star-pass/internal/config"
)

// Dispatcher delivers the creation request for one need. The live client
// and the dry-run printer both implement it; the choice is made once, at
// startup, not inside the send path.
type Dispatcher interface {
	CreateShifts(ctx context.Context, needID string, fragment Fragment) error
}

// Pipeline owns one end-to-end transformation of a shift export: load,
// deduplicate, merge the start column, drop informational columns, group by
// need, serialize, and validate. All derived data is built at construction;
// Submit sends it. Nothing persists beyond the run.
type Pipeline struct {
	cfg    *config.Config
	runID  uuid.UUID
	logger *slog.Logger
	groups []NeedShifts
	valid  bool
}

// NewPipeline runs every transformation stage. Any stage error aborts
// construction entirely; no partially-initialized pipeline is returned. A
// payload that fails schema validation is recorded and logged but only
// aborts construction under StrictValidation.
func NewPipeline(cfg *config.Config) (*Pipeline, error) {
	runID := uuid.New()
	logger := slog.With("run_id", runID)

	declared := []string{
		cfg.GroupByColumn,
		cfg.StartDateColumn,
		cfg.StartTimeColumn,
	}
	declared = append(declared, cfg.DropColumns...)

	table, err := Load(cfg.InputFile, declared)
	if err != nil {
		return nil, err
	}
	logger.Info("loaded shift export", "file", cfg.InputFile, "rows", table.Len())

	table.Deduplicate()
	if err := table.MergeStart(cfg.StartDateColumn, cfg.StartTimeColumn, cfg.StartColumn); err != nil {
		return nil, err
	}
	if err := table.DropColumns(cfg.DropColumns); err != nil {
		return nil, err
	}

	groups, err := table.Group(cfg.GroupByColumn, cfg.KeepColumns)
	if err != nil {
		return nil, err
	}

	p := &Pipeline{cfg: cfg, runID: runID, logger: logger, groups: groups}

	raw, err := p.marshalPayload()
	if err != nil {
		return nil, err
	}

	validator, err := NewValidator(cfg.SchemaFile)
	if err != nil {
		return nil, err
	}
	p.valid = validator.Validate(raw)
	if !p.valid {
		logger.Warn("shift payload failed schema validation")
		if cfg.StrictValidation {
			return nil, ErrInvalidPayload
		}
	}

	if cfg.OutputFile != "" {
		if err := os.WriteFile(cfg.OutputFile, raw, 0644); err != nil {
			return nil, fmt.Errorf("writing payload export %s: %w", cfg.OutputFile, err)
		}
		logger.Info("wrote payload export", "file", cfg.OutputFile)
	}

	logger.Info("shift payload constructed",
		"rows", table.Len(), "needs", len(groups), "valid", p.valid)
	return p, nil
}

// Valid reports whether the constructed payload passed schema validation.
func (p *Pipeline) Valid() bool {
	return p.valid
}

// Payload returns the per-need fragments in deterministic group order.
func (p *Pipeline) Payload() []NeedShifts {
	return p.groups
}

// marshalPayload serializes the full nested payload, keyed by need id, with
// 2-space indentation.
func (p *Pipeline) marshalPayload() ([]byte, error) {
	payload := make(map[string]Fragment, len(p.groups))
	for _, group := range p.groups {
		payload[group.NeedID] = group.Fragment(p.cfg.ShiftsKey)
	}
	raw, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("serializing shift payload: %w", err)
	}
	return raw, nil
}

// Submit dispatches one creation request per need, in group order. These
// are creation calls with no idempotency guarantee, so the loop stops at
// the first error with no retry and no per-group isolation; the count of
// needs already submitted is returned so the operator can tell which went
// out before the abort.
func (p *Pipeline) Submit(ctx context.Context, d Dispatcher) (int, error) {
	for i, group := range p.groups {
		fragment := group.Fragment(p.cfg.ShiftsKey)
		if err := d.CreateShifts(ctx, group.NeedID, fragment); err != nil {
			return i, fmt.Errorf("submitting shifts for need %s: %w", group.NeedID, err)
		}
	}
	p.logger.Info("submitted all needs", "needs", len(p.groups))
	return len(p.groups), nil
}
