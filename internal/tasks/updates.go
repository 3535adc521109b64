package tasks

import (
	"fmt"

	"github.com/desertthunder/villagedex/internal/models"
)

// ProgressUpdate represents a progress event during a long-running operation.
//
// Used to send real-time updates to the CLI or UI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data for advanced UIs
}

// Operation phase enumeration
type Phase int

const (
	LoadBundled Phase = iota
	LoadAPI
	LoadSample
	Normalize
	Validate
	CheckImage
	ExportFile
)

func (p Phase) String() string {
	switch p {
	case LoadBundled:
		return "bundled"
	case LoadAPI:
		return "api"
	case LoadSample:
		return "sample"
	case Normalize:
		return "normalize"
	case Validate:
		return "validate"
	case CheckImage:
		return "check_image"
	case ExportFile:
		return "export_file"
	default:
		return ""
	}
}

// sendProgress sends a progress update through the channel without blocking.
func sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}

func tierPhase(kind models.Source) Phase {
	switch kind {
	case models.SourceAPI:
		return LoadAPI
	case models.SourceSample:
		return LoadSample
	default:
		return LoadBundled
	}
}

func tryingTierUpdate(step, total int, kind models.Source) ProgressUpdate {
	return ProgressUpdate{
		Phase:   tierPhase(kind),
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("Loading villagers from %s...", SourceInfo(kind, Stats{}).Title),
	}
}

func tierFailedUpdate(step, total int, kind models.Source, err error) ProgressUpdate {
	return ProgressUpdate{
		Phase:   tierPhase(kind),
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("✗ %s unavailable: %v", kind, err),
	}
}

func normalizeUpdate(count int, format models.Format) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Normalize,
		Step:    count,
		Total:   count,
		Message: fmt.Sprintf("Normalized %d villagers (%s format)", count, format),
	}
}

func validateUpdate(integrity Integrity) ProgressUpdate {
	msg := fmt.Sprintf("Validated %d villagers (%.1f%% valid)", integrity.Total, integrity.ValidPercentage)
	if !integrity.Valid {
		msg = fmt.Sprintf("Validation found %d issue(s)", len(integrity.Issues))
	}
	return ProgressUpdate{
		Phase:   Validate,
		Step:    1,
		Total:   1,
		Message: msg,
		Data:    integrity,
	}
}

func imageCheckedUpdate(step, total int, status ImageStatus) ProgressUpdate {
	mark := "✓"
	if !status.OK {
		mark = "✗"
	}
	return ProgressUpdate{
		Phase:   CheckImage,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] %s %s", step, total, mark, status.Name),
		Data:    status,
	}
}

func exportCompletedUpdate(step, total int, path string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ExportFile,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✓ %s", step, total, path),
	}
}

func exportFailedUpdate(step, total int, format string, err error) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ExportFile,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✗ %s: %v", step, total, format, err),
	}
}
