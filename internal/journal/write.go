package journal

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

// RecordChange inserts a property-change row stamped with the next
// sequence number. The value is serialized as JSON; property-specification
// values (keyframe maps) round-trip as their document shape.
func (j *Journal) RecordChange(time float64, layerID uuid.UUID, property string, value any) error {
	valueJSON, err := marshalValue(value)
	if err != nil {
		return fmt.Errorf("record change: %w", err)
	}

	_, err = j.db.Exec(`
		INSERT INTO changes (seq, time, layer_id, property, value)
		VALUES (?, ?, ?, ?, ?)
	`,
		j.clock.Next(),
		time,
		layerID.String(),
		property,
		valueJSON,
	)
	if err != nil {
		return fmt.Errorf("record change: %w", err)
	}
	return nil
}

// RecordFrame inserts a per-layer activity row for one clock tick.
func (j *Journal) RecordFrame(time float64, layerID uuid.UUID, active bool) error {
	_, err := j.db.Exec(`
		INSERT INTO frames (seq, time, layer_id, active)
		VALUES (?, ?, ?, ?)
	`,
		j.clock.Next(),
		time,
		layerID.String(),
		active,
	)
	if err != nil {
		return fmt.Errorf("record frame: %w", err)
	}
	return nil
}

// marshalValue serializes a change value to JSON. Float-keyed keyframe
// maps are rewritten with string keys first; encoding/json rejects
// float64 map keys.
func marshalValue(v any) (string, error) {
	if frames, ok := v.(map[float64]any); ok {
		m := make(map[string]any, len(frames))
		for k, fv := range frames {
			m[fmt.Sprintf("%g", k)] = fv
		}
		v = m
	}
	b, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("marshal value: %w", err)
	}
	return string(b), nil
}
