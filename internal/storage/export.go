package storage

import (
	"encoding/json"
	"io"

	"github.com/gocarina/gocsv"

	"github.com/san-kum/meshsim/internal/sim"
)

type ExportData struct {
	Run    RunMetadata      `json:"run"`
	Frames []sim.FrameStats `json:"frames"`
}

// ExportJSON writes a run with its frames as one indented JSON document.
func ExportJSON(w io.Writer, meta *RunMetadata, frames []sim.FrameStats) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(ExportData{Run: *meta, Frames: frames})
}

// ExportCSV writes frames with a header row.
func ExportCSV(w io.Writer, frames []sim.FrameStats) error {
	return gocsv.Marshal(frames, w)
}
