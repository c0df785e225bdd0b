// Package content persists page content records keyed by section id.
package content

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"academy-cms/internal/logger"
	"academy-cms/internal/metrics"
	"academy-cms/internal/models"
	"academy-cms/internal/placement"
)

// ErrNotFound means the section id has never been written.
var ErrNotFound = errors.New("content: section not found")

// StorageError wraps a failed query. It is never retried here.
type StorageError struct {
	Op        string
	SectionID string
	Err       error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("content: %s %q: %v", e.Op, e.SectionID, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

type Store struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewStore(db *gorm.DB, log *logger.Logger) *Store {
	if log == nil {
		log = logger.Nop()
	}
	return &Store{db: db, log: log}
}

// Get returns the record for sectionID. The value is handed back as
// stored, even when it is not valid for its content type.
func (s *Store) Get(ctx context.Context, sectionID string) (*models.PageContent, error) {
	var rec models.PageContent
	err := s.db.WithContext(ctx).Where("section_id = ?", sectionID).Take(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, &StorageError{Op: "get", SectionID: sectionID, Err: err}
	}
	return &rec, nil
}

// Upsert creates or fully replaces the record for sectionID in a single
// statement. Concurrent writers to the same id: the last commit wins.
// The returned record comes from the statement itself, so a committed
// write is never reported as failed.
func (s *Store) Upsert(ctx context.Context, sectionID string, contentType models.ContentType, value string) (*models.PageContent, error) {
	rec := models.PageContent{
		SectionID:    sectionID,
		ContentType:  contentType,
		ContentValue: value,
	}
	err := s.db.WithContext(ctx).Clauses(
		clause.OnConflict{
			Columns:   []clause.Column{{Name: "section_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"content_type", "content_value", "updated_at"}),
		},
		clause.Returning{},
	).Create(&rec).Error
	if err != nil {
		return nil, &StorageError{Op: "upsert", SectionID: sectionID, Err: err}
	}
	metrics.ContentUpserts.WithLabelValues(string(contentType)).Inc()
	return &rec, nil
}

// List returns every record whose section id starts with prefix.
func (s *Store) List(ctx context.Context, prefix string) ([]models.PageContent, error) {
	var recs []models.PageContent
	q := s.db.WithContext(ctx).Order("section_id asc")
	if prefix != "" {
		q = q.Where("section_id LIKE ? ESCAPE '\\'", escapeLike(prefix)+"%")
	}
	if err := q.Find(&recs).Error; err != nil {
		return nil, &StorageError{Op: "list", SectionID: prefix, Err: err}
	}
	return recs, nil
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

// GetPlacement reads and decodes an image/video placement.
func (s *Store) GetPlacement(ctx context.Context, sectionID string) (placement.Descriptor, error) {
	rec, err := s.Get(ctx, sectionID)
	if err != nil {
		return placement.Descriptor{}, err
	}
	return s.decode(rec), nil
}

func (s *Store) decode(rec *models.PageContent) placement.Descriptor {
	d, degraded := placement.Decode(rec.SectionID, rec.ContentValue)
	if degraded {
		metrics.DecodeDegraded.Inc()
		s.log.Debug("placement decoded as bare url", "section_id", rec.SectionID)
	}
	return d
}

// Decode exposes the store's decoding (with its degraded accounting) to
// callers that already hold a record.
func (s *Store) Decode(rec *models.PageContent) placement.Descriptor {
	return s.decode(rec)
}

// SavePlacement validates and encodes d before writing. An invalid
// descriptor is rejected without touching the database.
func (s *Store) SavePlacement(ctx context.Context, sectionID string, d placement.Descriptor) (*models.PageContent, error) {
	raw, err := placement.Encode(d)
	if err != nil {
		return nil, err
	}
	return s.Upsert(ctx, sectionID, models.ContentImageDetails, raw)
}
