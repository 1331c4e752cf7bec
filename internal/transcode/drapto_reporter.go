package transcode

import (
	"fmt"

	draptolib "github.com/five82/drapto"
)

// progressReporter adapts drapto's reporter events to Progress updates.
// Events without a completion figure report a negative percent.
type progressReporter struct {
	callback func(Progress)
}

func (r *progressReporter) Hardware(draptolib.HardwareSummary) {}

func (r *progressReporter) Initialization(s draptolib.InitializationSummary) {
	r.callback(Progress{Percent: -1, Stage: "initialization"})
}

func (r *progressReporter) StageProgress(s draptolib.StageProgress) {
	r.callback(Progress{Percent: float64(s.Percent), Stage: s.Stage})
}

func (r *progressReporter) CropResult(draptolib.CropSummary) {}

func (r *progressReporter) EncodingConfig(draptolib.EncodingConfigSummary) {}

func (r *progressReporter) EncodingStarted(uint64) {
	r.callback(Progress{Percent: 0, Stage: "encoding"})
}

func (r *progressReporter) EncodingProgress(s draptolib.ProgressSnapshot) {
	r.callback(Progress{
		Percent: float64(s.Percent),
		Stage:   "encoding",
		Speed:   fmt.Sprintf("%.2fx", float64(s.Speed)),
		Frames:  fmt.Sprintf("%d", s.CurrentFrame),
		Bitrate: s.Bitrate,
	})
}

func (r *progressReporter) ValidationComplete(draptolib.ValidationSummary) {
	r.callback(Progress{Percent: -1, Stage: "validation"})
}

func (r *progressReporter) EncodingComplete(draptolib.EncodingOutcome) {
	r.callback(Progress{Percent: 100, Stage: "complete"})
}

func (r *progressReporter) Warning(string) {}

func (r *progressReporter) Error(draptolib.ReporterError) {}

func (r *progressReporter) OperationComplete(message string) {
	r.callback(Progress{Percent: -1, Stage: message})
}

func (r *progressReporter) BatchStarted(draptolib.BatchStartInfo) {}

// FileProgress reports the position within a batch. Single-file jobs see 1 of 1.
func (r *progressReporter) FileProgress(s draptolib.FileProgressContext) {
	if s.TotalFiles <= 0 {
		return
	}
	r.callback(Progress{
		Percent: float64(s.CurrentFile-1) / float64(s.TotalFiles) * 100,
		Stage:   fmt.Sprintf("file %d/%d", s.CurrentFile, s.TotalFiles),
	})
}

func (r *progressReporter) BatchComplete(draptolib.BatchSummary) {}

var _ draptolib.Reporter = (*progressReporter)(nil)
