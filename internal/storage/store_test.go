package storage

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/san-kum/meshsim/internal/sim"
)

func sampleResult() *sim.Result {
	return &sim.Result{
		Frames: []sim.FrameStats{
			{Frame: 0, Time: 0, Energy: 0.1, Present: true, PointerX: 10, PointerY: 20, MaxActivity: 1},
			{Frame: 1, Time: 1.0 / 60, Energy: 0.3, Present: false, MeanActivity: 0.5, ActiveCount: 4},
		},
		Metrics: map[string]float64{"peak_activity": 1.5},
		Elapsed: 3 * time.Millisecond,
	}
}

func sampleMeta() RunMetadata {
	return RunMetadata{Effect: "mesh", Script: "orbit", Seed: 42, FPS: 60, Width: 800, Height: 600}
}

func TestStoreSaveLoad(t *testing.T) {
	st := New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	runID, err := st.Save(sampleMeta(), sampleResult())
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if !strings.HasPrefix(runID, "mesh_") {
		t.Errorf("unexpected run id %q", runID)
	}

	meta, err := st.Load(runID)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if meta.Effect != "mesh" || meta.Seed != 42 || meta.Frames != 2 {
		t.Errorf("unexpected metadata %+v", meta)
	}
	if meta.Metrics["peak_activity"] != 1.5 {
		t.Errorf("expected peak_activity 1.5, got %f", meta.Metrics["peak_activity"])
	}
	if meta.ElapsedMS != 3 {
		t.Errorf("expected elapsed 3ms, got %v", meta.ElapsedMS)
	}

	frames, err := st.LoadFrames(runID)
	if err != nil {
		t.Fatalf("load frames failed: %v", err)
	}
	if len(frames) != 2 {
		t.Fatalf("expected 2 frames, got %d", len(frames))
	}
	want := sampleResult().Frames
	for i := range want {
		if frames[i] != want[i] {
			t.Errorf("frame %d = %+v, want %+v", i, frames[i], want[i])
		}
	}
}

func TestStoreList(t *testing.T) {
	st := New(filepath.Join(t.TempDir(), "runs"))

	runs, err := st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("expected 0 runs, got %d", len(runs))
	}

	if err := st.Init(); err != nil {
		t.Fatal(err)
	}
	first, err := st.Save(sampleMeta(), sampleResult())
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	meta := sampleMeta()
	meta.Effect = "hexgrid"
	if _, err := st.Save(meta, sampleResult()); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if err := os.MkdirAll(filepath.Join(st.Dir(), "junk"), 0755); err != nil {
		t.Fatal(err)
	}

	runs, err = st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(runs))
	}
	if runs[0].ID != first {
		t.Errorf("expected oldest run first, got %s", runs[0].ID)
	}
}

func TestStoreFileStructure(t *testing.T) {
	tmpDir := t.TempDir()
	st := New(tmpDir)
	runID, err := st.Save(sampleMeta(), sampleResult())
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	runDir := filepath.Join(tmpDir, runID)
	if _, err := os.Stat(filepath.Join(runDir, "metadata.json")); os.IsNotExist(err) {
		t.Error("metadata.json not created")
	}
	data, err := os.ReadFile(filepath.Join(runDir, "frames.csv"))
	if err != nil {
		t.Fatalf("frames.csv not created: %v", err)
	}
	header := strings.SplitN(string(data), "\n", 2)[0]
	if !strings.HasPrefix(header, "frame,time,present,pointer_x") {
		t.Errorf("unexpected header %q", header)
	}
}

func TestRecorderChunks(t *testing.T) {
	st := New(t.TempDir())
	rec, err := st.Create(sampleMeta())
	if err != nil {
		t.Fatal(err)
	}
	rec.flushEvery = 3

	for i := 0; i < 10; i++ {
		rec.OnFrame(&sim.Frame{Stats: sim.FrameStats{Frame: i, Energy: float64(i) / 10}})
	}
	if rec.written != 9 {
		t.Errorf("expected 9 rows flushed, got %d", rec.written)
	}
	if err := rec.Close(map[string]float64{"x": 1}); err != nil {
		t.Fatal(err)
	}
	if rec.Err() != nil {
		t.Fatal(rec.Err())
	}

	frames, err := st.LoadFrames(rec.ID())
	if err != nil {
		t.Fatal(err)
	}
	if len(frames) != 10 {
		t.Fatalf("expected 10 frames, got %d", len(frames))
	}
	for i, f := range frames {
		if f.Frame != i {
			t.Errorf("row %d holds frame %d", i, f.Frame)
		}
	}
	meta, err := st.Load(rec.ID())
	if err != nil {
		t.Fatal(err)
	}
	if meta.Frames != 10 || meta.Metrics["x"] != 1 {
		t.Errorf("metadata not finalized: %+v", meta)
	}
}

func TestLoadMissing(t *testing.T) {
	st := New(t.TempDir())
	if _, err := st.Load("nope"); err == nil {
		t.Error("expected error for missing run")
	}
	if _, err := st.LoadFrames("nope"); err == nil {
		t.Error("expected error for missing frames")
	}
}

func TestExportJSON(t *testing.T) {
	meta := sampleMeta()
	meta.ID = "mesh_1"
	res := sampleResult()

	var buf bytes.Buffer
	if err := ExportJSON(&buf, &meta, res.Frames); err != nil {
		t.Fatal(err)
	}
	var got ExportData
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if got.Run.ID != "mesh_1" || len(got.Frames) != 2 || got.Frames[1].ActiveCount != 4 {
		t.Errorf("unexpected export %+v", got)
	}
}

func TestExportCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := ExportCSV(&buf, sampleResult().Frames); err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Errorf("expected header and 2 rows, got %d lines", len(lines))
	}
}

func TestEmptyRun(t *testing.T) {
	st := New(t.TempDir())
	rec, err := st.Create(sampleMeta())
	if err != nil {
		t.Fatal(err)
	}
	if err := rec.Close(nil); err != nil {
		t.Fatal(err)
	}
	if _, err := st.LoadFrames(rec.ID()); err == nil {
		t.Error("expected error loading a run without frames")
	}
}
