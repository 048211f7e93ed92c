package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"colorcapture/internal/palette"
)

var ErrPaletteNotFound = errors.New("palette not found")

// Fixed-width so accessed_at sorts lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// PaletteRecord is one cached extraction, keyed by image content and the
// options it was extracted with.
type PaletteRecord struct {
	Key        string          `json:"key"`
	ImageHash  string          `json:"imageHash"`
	SourcePath string          `json:"sourcePath"`
	Format     string          `json:"format"`
	Width      int             `json:"width"`
	Height     int             `json:"height"`
	Sampled    int             `json:"sampled"`
	Stride     int             `json:"stride"`
	Options    palette.Options `json:"options"`
	Colors     []palette.Entry `json:"colors"`
	CreatedAt  time.Time       `json:"createdAt"`
	AccessedAt time.Time       `json:"accessedAt"`
}

func (r PaletteRecord) Extraction() palette.Extraction {
	return palette.Extraction{
		Colors:  r.Colors,
		Width:   r.Width,
		Height:  r.Height,
		Sampled: r.Sampled,
		Stride:  r.Stride,
		Options: r.Options,
	}
}

// CacheKey combines the image hash with every option that changes the
// extraction result.
func CacheKey(imageHash string, options palette.Options) string {
	normalized := palette.NormalizeOptions(options)
	return fmt.Sprintf(
		"%s|p:%d|a:%d|b:%d|s:%d",
		strings.ToLower(strings.TrimSpace(imageHash)),
		normalized.PaletteSize,
		normalized.AlphaThreshold,
		normalized.SampleBudget,
		normalized.Stride,
	)
}

type PaletteRepository struct {
	db  *sql.DB
	now func() time.Time
}

func NewPaletteRepository(database *sql.DB) *PaletteRepository {
	return &PaletteRepository{db: database, now: time.Now}
}

const selectColumns = "cache_key, image_hash, source_path, format, width, height, sampled, stride, options_json, colors_json, created_at, accessed_at"

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (PaletteRecord, error) {
	var record PaletteRecord
	var optionsJSON, colorsJSON, createdAt, accessedAt string
	if err := row.Scan(
		&record.Key,
		&record.ImageHash,
		&record.SourcePath,
		&record.Format,
		&record.Width,
		&record.Height,
		&record.Sampled,
		&record.Stride,
		&optionsJSON,
		&colorsJSON,
		&createdAt,
		&accessedAt,
	); err != nil {
		return PaletteRecord{}, err
	}

	if err := json.Unmarshal([]byte(optionsJSON), &record.Options); err != nil {
		return PaletteRecord{}, fmt.Errorf("decode options for %s: %w", record.Key, err)
	}
	if err := json.Unmarshal([]byte(colorsJSON), &record.Colors); err != nil {
		return PaletteRecord{}, fmt.Errorf("decode colors for %s: %w", record.Key, err)
	}

	var err error
	if record.CreatedAt, err = time.Parse(timeLayout, createdAt); err != nil {
		return PaletteRecord{}, fmt.Errorf("parse created_at for %s: %w", record.Key, err)
	}
	if record.AccessedAt, err = time.Parse(timeLayout, accessedAt); err != nil {
		return PaletteRecord{}, fmt.Errorf("parse accessed_at for %s: %w", record.Key, err)
	}

	return record, nil
}

// Get returns the record stored under key and marks it as accessed.
func (r *PaletteRepository) Get(ctx context.Context, key string) (PaletteRecord, error) {
	record, err := scanRecord(r.db.QueryRowContext(
		ctx,
		"SELECT "+selectColumns+" FROM palettes WHERE cache_key = ?",
		key,
	))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return PaletteRecord{}, ErrPaletteNotFound
		}
		return PaletteRecord{}, fmt.Errorf("get palette %s: %w", key, err)
	}

	accessedAt := r.now().UTC()
	if _, err := r.db.ExecContext(
		ctx,
		"UPDATE palettes SET accessed_at = ? WHERE cache_key = ?",
		accessedAt.Format(timeLayout),
		key,
	); err != nil {
		return PaletteRecord{}, fmt.Errorf("touch palette %s: %w", key, err)
	}
	record.AccessedAt = accessedAt

	return record, nil
}

// Put inserts or replaces the record under its key.
func (r *PaletteRepository) Put(ctx context.Context, record PaletteRecord) (PaletteRecord, error) {
	if strings.TrimSpace(record.Key) == "" {
		return PaletteRecord{}, errors.New("cache key is required")
	}

	optionsJSON, err := json.Marshal(record.Options)
	if err != nil {
		return PaletteRecord{}, fmt.Errorf("encode options: %w", err)
	}
	colors := record.Colors
	if colors == nil {
		colors = []palette.Entry{}
	}
	colorsJSON, err := json.Marshal(colors)
	if err != nil {
		return PaletteRecord{}, fmt.Errorf("encode colors: %w", err)
	}

	now := r.now().UTC()
	if record.CreatedAt.IsZero() {
		record.CreatedAt = now
	}
	record.AccessedAt = now

	if _, err := r.db.ExecContext(
		ctx,
		`INSERT INTO palettes(`+selectColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(cache_key) DO UPDATE SET
			image_hash = excluded.image_hash,
			source_path = excluded.source_path,
			format = excluded.format,
			width = excluded.width,
			height = excluded.height,
			sampled = excluded.sampled,
			stride = excluded.stride,
			options_json = excluded.options_json,
			colors_json = excluded.colors_json,
			accessed_at = excluded.accessed_at`,
		record.Key,
		record.ImageHash,
		record.SourcePath,
		record.Format,
		record.Width,
		record.Height,
		record.Sampled,
		record.Stride,
		string(optionsJSON),
		string(colorsJSON),
		record.CreatedAt.UTC().Format(timeLayout),
		record.AccessedAt.Format(timeLayout),
	); err != nil {
		return PaletteRecord{}, fmt.Errorf("upsert palette %s: %w", record.Key, err)
	}

	record.Colors = colors
	return record, nil
}

// ListRecent returns up to limit records, most recently accessed first.
func (r *PaletteRepository) ListRecent(ctx context.Context, limit int) ([]PaletteRecord, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := r.db.QueryContext(
		ctx,
		"SELECT "+selectColumns+" FROM palettes ORDER BY accessed_at DESC, cache_key LIMIT ?",
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list palettes: %w", err)
	}
	defer rows.Close()

	records := make([]PaletteRecord, 0)
	for rows.Next() {
		record, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scan palette row: %w", err)
		}
		records = append(records, record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate palette rows: %w", err)
	}

	return records, nil
}

func (r *PaletteRepository) Delete(ctx context.Context, key string) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM palettes WHERE cache_key = ?", key)
	if err != nil {
		return fmt.Errorf("delete palette %s: %w", key, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("read deleted palette count: %w", err)
	}
	if rowsAffected == 0 {
		return ErrPaletteNotFound
	}

	return nil
}

// Clear removes every cached palette and reports how many were removed.
func (r *PaletteRepository) Clear(ctx context.Context) (int64, error) {
	result, err := r.db.ExecContext(ctx, "DELETE FROM palettes")
	if err != nil {
		return 0, fmt.Errorf("clear palettes: %w", err)
	}

	removed, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("read cleared palette count: %w", err)
	}
	return removed, nil
}
