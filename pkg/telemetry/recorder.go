package telemetry

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/parquet-go/parquet-go"

	"github.com/jkim999/lawyer-search-engine/pkg/types"
)

// QueryRecord is one resolved query flattened for Parquet storage.
type QueryRecord struct {
	ID         string    `parquet:"id"`
	Timestamp  time.Time `parquet:"timestamp"`
	Query      string    `parquet:"query"`
	Strategy   string    `parquet:"strategy"`
	Candidates int       `parquet:"candidates"`
	Survivors  int       `parquet:"survivors"`
	Matches    int       `parquet:"matches"`
	CacheHit   bool      `parquet:"cache_hit"`
	ElapsedMS  int64     `parquet:"elapsed_ms"`
	Error      string    `parquet:"error"`
}

// QueryRecorder batches per-query telemetry into Parquet files alongside
// the error logs. A nil recorder is valid and records nothing.
type QueryRecorder struct {
	outputDir string
	batchSize int

	mu     sync.Mutex
	buffer []QueryRecord
}

// NewQueryRecorder creates a recorder writing under outputDir.
func NewQueryRecorder(outputDir string) (*QueryRecorder, error) {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create telemetry directory: %w", err)
	}
	return &QueryRecorder{
		outputDir: outputDir,
		batchSize: 50,
		buffer:    make([]QueryRecord, 0, 50),
	}, nil
}

// Record buffers one query's telemetry.
func (r *QueryRecorder) Record(t types.QueryTelemetry) {
	if r == nil {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.buffer = append(r.buffer, QueryRecord{
		ID:         uuid.New().String(),
		Timestamp:  time.Now().UTC(),
		Query:      t.Query,
		Strategy:   t.Strategy,
		Candidates: t.Candidates,
		Survivors:  t.Survivors,
		Matches:    t.Matches,
		CacheHit:   t.CacheHit,
		ElapsedMS:  t.Elapsed.Milliseconds(),
		Error:      t.ErrorMessage,
	})

	if len(r.buffer) >= r.batchSize {
		r.flush()
	}
}

// Flush writes buffered records out immediately.
func (r *QueryRecorder) Flush() error {
	if r == nil {
		return nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.flush()
}

// Caller must hold the lock.
func (r *QueryRecorder) flush() error {
	if len(r.buffer) == 0 {
		return nil
	}

	filename := fmt.Sprintf("queries_%s_%d.parquet", time.Now().Format("20060102_150405"), time.Now().UnixNano())
	path := filepath.Join(r.outputDir, filename)

	if err := parquet.WriteFile(path, r.buffer); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to write query telemetry: %v\n", err)
		return err
	}

	r.buffer = r.buffer[:0]
	return nil
}
