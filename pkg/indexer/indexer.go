package indexer

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/jkim999/lawyer-search-engine/pkg/checkpoint"
	"github.com/jkim999/lawyer-search-engine/pkg/embedder"
	"github.com/jkim999/lawyer-search-engine/pkg/store"
	"github.com/jkim999/lawyer-search-engine/pkg/types"
)

// ProfileRecord is one scraped profile as it arrives from the upstream
// collection pipeline.
type ProfileRecord struct {
	URL            string   `json:"url"`
	Name           string   `json:"name"`
	Email          string   `json:"email,omitempty"`
	Phone          string   `json:"phone,omitempty"`
	Title          string   `json:"title,omitempty"`
	OfficeLocation string   `json:"office_location,omitempty"`
	Clerkship      string   `json:"clerkship,omitempty"`
	Education      []string `json:"education,omitempty"`
	Practices      []string `json:"practices,omitempty"`
	Industries     []string `json:"industries,omitempty"`
	Regions        []string `json:"regions,omitempty"`
	Languages      []string `json:"languages,omitempty"`
	ProfileText    string   `json:"profile_text,omitempty"`
}

// Indexer loads profile records into the store and runs the offline
// embedding pass. The embedder may be nil when only ingesting.
type Indexer struct {
	store       *store.Store
	embedder    embedder.Client
	checkpoints *checkpoint.Manager
	logger      *slog.Logger
}

// New builds an indexer.
func New(s *store.Store, e embedder.Client, logger *slog.Logger) *Indexer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Indexer{store: s, embedder: e, logger: logger}
}

// SetCheckpointManager enables resumable ingestion. With a manager set,
// IngestFile records its position as it goes and skips already ingested
// records on a rerun.
func (ix *Indexer) SetCheckpointManager(m *checkpoint.Manager) {
	ix.checkpoints = m
}

// checkpointInterval is how many records pass between checkpoint saves.
const checkpointInterval = 25

// IngestFile loads a JSON array of profile records from path and upserts
// each into the store. Returns the number of profiles ingested this run.
func (ix *Indexer) IngestFile(ctx context.Context, path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("reading profile file: %w", err)
	}

	var records []ProfileRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return 0, fmt.Errorf("parsing profile file %s: %w", path, err)
	}

	var cp *checkpoint.IngestCheckpoint
	start := 0
	if ix.checkpoints != nil {
		var resumed bool
		cp, resumed, err = ix.checkpoints.LoadOrCreate(ctx, checkpoint.SourceID(path))
		if err != nil {
			return 0, fmt.Errorf("loading ingest checkpoint: %w", err)
		}
		if resumed && !cp.Completed && cp.Processed <= len(records) {
			start = cp.Processed
			ix.logger.Info("resuming ingest from checkpoint",
				"source", cp.SourceID, "skip", start, "total", len(records))
		} else if resumed {
			// Completed or stale checkpoint for this source, start over.
			cp = &checkpoint.IngestCheckpoint{SourceID: cp.SourceID}
		}
		cp.Total = len(records)
	}

	count := 0
	for i := start; i < len(records); i++ {
		if err := ix.Ingest(ctx, &records[i]); err != nil {
			ix.logger.Error("failed to ingest profile",
				"url", records[i].URL, "error", err)
			if cp != nil {
				cp.Failed++
				cp.LastError = err.Error()
			}
		} else {
			count++
		}

		if cp != nil {
			cp.Processed = i + 1
			if cp.Processed%checkpointInterval == 0 {
				if err := ix.checkpoints.Save(ctx, cp); err != nil {
					ix.logger.Warn("failed to save ingest checkpoint", "error", err)
				}
			}
		}
	}

	if cp != nil {
		cp.Processed = len(records)
		cp.Completed = true
		if err := ix.checkpoints.Save(ctx, cp); err != nil {
			ix.logger.Warn("failed to save ingest checkpoint", "error", err)
		}
	}

	ix.logger.Info("Persisting profiles complete", "ingested", count, "total", len(records))
	return count, nil
}

// Ingest upserts one profile record, tokenizing its education lines and
// caching its experience text for the embedding pass.
func (ix *Indexer) Ingest(ctx context.Context, rec *ProfileRecord) error {
	if rec.URL == "" {
		return fmt.Errorf("profile record missing url")
	}

	lawyer := &types.Lawyer{
		SourceURL:      rec.URL,
		Name:           rec.Name,
		Email:          rec.Email,
		Phone:          rec.Phone,
		Title:          rec.Title,
		OfficeLocation: rec.OfficeLocation,
		Clerkship:      rec.Clerkship,
		Practices:      rec.Practices,
		Industries:     rec.Industries,
		Regions:        rec.Regions,
		Languages:      rec.Languages,
	}

	for _, line := range rec.Education {
		if strings.TrimSpace(line) == "" {
			continue
		}
		edu := ParseEducation(line)
		if edu.SchoolName != "" {
			edu.SchoolNormalized = ix.store.NormalizeSchool(edu.SchoolName)
		}
		lawyer.Educations = append(lawyer.Educations, edu)
	}

	id, err := ix.store.UpsertLawyer(ctx, lawyer)
	if err != nil {
		return err
	}

	if rec.ProfileText != "" {
		experience := ExtractExperienceText(rec.ProfileText)
		if err := ix.store.StoreEmbedding(ctx, id, experience, rec.ProfileText, nil); err != nil {
			return err
		}
	}
	return nil
}

// EmbedPending computes vectors for every cached experience text that does
// not have one yet. Returns the number of vectors written.
func (ix *Indexer) EmbedPending(ctx context.Context) (int, error) {
	if ix.embedder == nil {
		return 0, fmt.Errorf("no embedder configured")
	}

	pending, err := ix.store.PendingEmbeddings(ctx)
	if err != nil {
		return 0, err
	}
	if len(pending) == 0 {
		return 0, nil
	}

	texts := make([]string, len(pending))
	for i, p := range pending {
		texts[i] = strings.ReplaceAll(p.Content, "\n", " ")
	}

	vectors, err := ix.embedder.Embed(ctx, texts)
	if err != nil {
		return 0, fmt.Errorf("embedding pending texts: %w", err)
	}
	if len(vectors) != len(pending) {
		return 0, fmt.Errorf("embedder returned %d vectors for %d texts", len(vectors), len(pending))
	}

	written := 0
	for i, p := range pending {
		if err := ix.store.UpdateEmbeddingVector(ctx, p.LawyerID, vectors[i]); err != nil {
			ix.logger.Error("failed to persist vector", "lawyer_id", p.LawyerID, "error", err)
			continue
		}
		written++
	}

	ix.logger.Info("Persisting embeddings complete", "written", written, "pending", len(pending))
	return written, nil
}
