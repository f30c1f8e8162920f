package salesync

import (
	"time"

	"github.com/google/uuid"
)

// Sync modes, also used as metric labels.
const (
	ModeInitial     = "initial"
	ModeDaily       = "daily"
	ModeIncremental = "incremental"
)

// Report summarizes one connection's run.
type Report struct {
	ConnectionID uuid.UUID
	Mode         string
	Fetched      int
	StoredSales  int
	StoredLines  int
	Failed       int
	Defects      int
	// Skipped is set by the daily mode when the upstream report was not yet
	// finalized and nothing was written.
	Skipped bool
	// Watermark is the value the connection's watermark advanced to, nil when
	// the run left it unchanged.
	Watermark *time.Time
}

// BatchReport aggregates per-connection outcomes of a batch run. A failing
// connection never aborts its siblings.
type BatchReport struct {
	Succeeded []uuid.UUID
	Failed    map[uuid.UUID]string
	Reports   []Report
}

func newBatchReport() *BatchReport {
	return &BatchReport{Failed: make(map[uuid.UUID]string)}
}
