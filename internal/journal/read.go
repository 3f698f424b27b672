package journal

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

// Change is one recorded property assignment.
type Change struct {
	Seq      int64
	Time     float64
	LayerID  uuid.UUID
	Property string
	Value    any
}

// Frame is one recorded per-layer activity tick.
type Frame struct {
	Seq     int64
	Time    float64
	LayerID uuid.UUID
	Active  bool
}

// Entry is one row of a merged trace, in sequence order. Exactly one of
// Change or Frame is set.
type Entry struct {
	Seq    int64
	Change *Change
	Frame  *Frame
}

// Changes reads the recorded property changes in sequence order.
// A zero layerID reads all layers.
func (j *Journal) Changes(ctx context.Context, layerID uuid.UUID) ([]Change, error) {
	query := `SELECT seq, time, layer_id, property, value FROM changes`
	args := []any{}
	if layerID != uuid.Nil {
		query += ` WHERE layer_id = ?`
		args = append(args, layerID.String())
	}
	query += ` ORDER BY seq`

	rows, err := j.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("read changes: %w", err)
	}
	defer rows.Close()

	var out []Change
	for rows.Next() {
		var (
			c         Change
			id, value string
		)
		if err := rows.Scan(&c.Seq, &c.Time, &id, &c.Property, &value); err != nil {
			return nil, fmt.Errorf("scan change: %w", err)
		}
		c.LayerID, err = uuid.Parse(id)
		if err != nil {
			return nil, fmt.Errorf("parse change layer id: %w", err)
		}
		if err := json.Unmarshal([]byte(value), &c.Value); err != nil {
			return nil, fmt.Errorf("decode change value: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// Frames reads the recorded activity ticks in sequence order.
// A zero layerID reads all layers.
func (j *Journal) Frames(ctx context.Context, layerID uuid.UUID) ([]Frame, error) {
	query := `SELECT seq, time, layer_id, active FROM frames`
	args := []any{}
	if layerID != uuid.Nil {
		query += ` WHERE layer_id = ?`
		args = append(args, layerID.String())
	}
	query += ` ORDER BY seq`

	rows, err := j.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("read frames: %w", err)
	}
	defer rows.Close()

	var out []Frame
	for rows.Next() {
		var (
			f  Frame
			id string
		)
		if err := rows.Scan(&f.Seq, &f.Time, &id, &f.Active); err != nil {
			return nil, fmt.Errorf("scan frame: %w", err)
		}
		f.LayerID, err = uuid.Parse(id)
		if err != nil {
			return nil, fmt.Errorf("parse frame layer id: %w", err)
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

// ReadTrace merges changes and frames into one sequence-ordered trace,
// the shape replay tooling consumes. A zero layerID reads all layers.
func (j *Journal) ReadTrace(ctx context.Context, layerID uuid.UUID) ([]Entry, error) {
	changes, err := j.Changes(ctx, layerID)
	if err != nil {
		return nil, err
	}
	frames, err := j.Frames(ctx, layerID)
	if err != nil {
		return nil, err
	}

	out := make([]Entry, 0, len(changes)+len(frames))
	ci, fi := 0, 0
	for ci < len(changes) || fi < len(frames) {
		switch {
		case fi >= len(frames) || (ci < len(changes) && changes[ci].Seq < frames[fi].Seq):
			c := changes[ci]
			out = append(out, Entry{Seq: c.Seq, Change: &c})
			ci++
		default:
			f := frames[fi]
			out = append(out, Entry{Seq: f.Seq, Frame: &f})
			fi++
		}
	}
	return out, nil
}
