package shifts_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"star-pass/internal/amplify"
	"star-pass/internal/config"
	"star-pass/internal/shifts"
)

const shiftExport = "need_id,need_name,start_date,start_time,duration,slots\n" +
	"42,Scorekeeper,2024-01-05,09:00,120,2\n" +
	"42,Scorekeeper,2024-01-05,09:00,120,2\n" +
	"42,Scorekeeper,2024-01-05,12:00,120,2\n" +
	"77,Announcer,2024-01-06,10:00,60,1\n"

func testConfig(t *testing.T, csvContent string) *config.Config {
	t.Helper()
	dir := t.TempDir()

	inputFile := filepath.Join(dir, "shifts.csv")
	require.NoError(t, os.WriteFile(inputFile, []byte(csvContent), 0644))

	return &config.Config{
		InputFile:       inputFile,
		SchemaFile:      writeSchema(t),
		GroupByColumn:   "need_id",
		StartColumn:     "start",
		StartDateColumn: "start_date",
		StartTimeColumn: "start_time",
		DropColumns:     []string{"need_name"},
		KeepColumns:     []string{"start", "duration", "slots"},
		ShiftsKey:       "shifts",
		HTTPTimeout:     3 * time.Second,
		DryRun:          true,
	}
}

func TestPipelineEndToEnd(t *testing.T) {
	cfg := testConfig(t, shiftExport)
	cfg.OutputFile = filepath.Join(t.TempDir(), "shifts.json")

	pipeline, err := shifts.NewPipeline(cfg)
	require.NoError(t, err)
	assert.True(t, pipeline.Valid())

	// One duplicate row collapsed: 2 needs, with 2 and 1 shifts.
	groups := pipeline.Payload()
	require.Len(t, groups, 2)
	assert.Equal(t, "42", groups[0].NeedID)
	assert.Equal(t, "77", groups[1].NeedID)
	require.Len(t, groups[0].Shifts, 2)
	require.Len(t, groups[1].Shifts, 1)

	assert.Equal(t, map[string]string{
		"start":    "2024-01-05 09:00",
		"duration": "120",
		"slots":    "2",
	}, groups[0].Shifts[0])

	raw, err := os.ReadFile(cfg.OutputFile)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(raw, []byte("{\n  ")))

	var exported map[string]map[string][]map[string]string
	require.NoError(t, json.Unmarshal(raw, &exported))
	require.Len(t, exported, 2)
	assert.Len(t, exported["42"]["shifts"], 2)
	assert.Len(t, exported["77"]["shifts"], 1)
}

func TestPipelineDryRunMakesNoRequests(t *testing.T) {
	var requests atomic.Int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
	}))
	defer server.Close()

	pipeline, err := shifts.NewPipeline(testConfig(t, shiftExport))
	require.NoError(t, err)

	var out bytes.Buffer
	sent, err := pipeline.Submit(context.Background(), &amplify.Printer{BaseURL: server.URL, Out: &out})
	require.NoError(t, err)
	assert.Equal(t, 2, sent)

	assert.Equal(t, int64(0), requests.Load())
	assert.Contains(t, out.String(), server.URL+"/needs/42/shifts")
	assert.Contains(t, out.String(), server.URL+"/needs/77/shifts")
	assert.Contains(t, out.String(), `"start": "2024-01-05 09:00"`)
}

func TestPipelineSubmitFailFast(t *testing.T) {
	export := "need_id,need_name,start_date,start_time,duration,slots\n" +
		"n1,A,2024-01-05,09:00,60,1\n" +
		"n2,B,2024-01-06,10:00,60,1\n" +
		"n3,C,2024-01-07,11:00,60,1\n"

	var attempts []string
	router := chi.NewRouter()
	router.Post("/needs/{needID}/shifts", func(w http.ResponseWriter, r *http.Request) {
		needID := chi.URLParam(r, "needID")
		attempts = append(attempts, needID)
		if needID == "n2" {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusCreated)
	})
	server := httptest.NewServer(router)
	defer server.Close()

	pipeline, err := shifts.NewPipeline(testConfig(t, export))
	require.NoError(t, err)

	client := amplify.NewClient(server.URL, "token", 3*time.Second)
	sent, err := pipeline.Submit(context.Background(), client)

	// The first need went out, the second raised, the third was never tried.
	assert.Equal(t, 1, sent)
	assert.ErrorIs(t, err, amplify.ErrSubmission)
	assert.Equal(t, []string{"n1", "n2"}, attempts)
}

type stubDispatcher struct {
	calls  []string
	failOn string
}

func (d *stubDispatcher) CreateShifts(_ context.Context, needID string, _ shifts.Fragment) error {
	d.calls = append(d.calls, needID)
	if needID == d.failOn {
		return errors.New("dispatch failed")
	}
	return nil
}

func TestPipelineSubmitAll(t *testing.T) {
	pipeline, err := shifts.NewPipeline(testConfig(t, shiftExport))
	require.NoError(t, err)

	stub := &stubDispatcher{}
	sent, err := pipeline.Submit(context.Background(), stub)
	require.NoError(t, err)
	assert.Equal(t, 2, sent)
	assert.Equal(t, []string{"42", "77"}, stub.calls)
}

func TestPipelineStrictValidation(t *testing.T) {
	cfg := testConfig(t, shiftExport)
	schemaFile := filepath.Join(t.TempDir(), "schema.json")
	require.NoError(t, os.WriteFile(schemaFile, []byte(`{"type": "array"}`), 0644))
	cfg.SchemaFile = schemaFile

	// Default: invalid payloads are recorded, not fatal.
	pipeline, err := shifts.NewPipeline(cfg)
	require.NoError(t, err)
	assert.False(t, pipeline.Valid())

	cfg.StrictValidation = true
	_, err = shifts.NewPipeline(cfg)
	assert.ErrorIs(t, err, shifts.ErrInvalidPayload)
}

func TestPipelineConstructionErrors(t *testing.T) {
	t.Run("missing input file", func(t *testing.T) {
		cfg := testConfig(t, shiftExport)
		cfg.InputFile = filepath.Join(t.TempDir(), "nope.csv")
		_, err := shifts.NewPipeline(cfg)
		assert.ErrorIs(t, err, shifts.ErrSourceRead)
	})

	t.Run("drop column absent", func(t *testing.T) {
		cfg := testConfig(t, shiftExport)
		cfg.DropColumns = []string{"no_such_column"}
		_, err := shifts.NewPipeline(cfg)
		assert.ErrorIs(t, err, shifts.ErrSchemaMismatch)
	})

	t.Run("keep column absent", func(t *testing.T) {
		cfg := testConfig(t, shiftExport)
		cfg.KeepColumns = []string{"start", "no_such_column"}
		_, err := shifts.NewPipeline(cfg)
		assert.ErrorIs(t, err, shifts.ErrFieldMissing)
	})
}
