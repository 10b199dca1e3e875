package reactive

import (
	"errors"
	"fmt"
)

// ErrBadRecord is returned by RecordFrom for values that do not have the
// record shape.
var ErrBadRecord = errors.New("not a snapshot record")

// Record is the snapshot of one model: its identity plus the values of its
// persisted cells. Nested models become nested records and model lists
// become record lists.
type Record struct {
	ID     string         `json:"id" yaml:"id"`
	Kind   string         `json:"kind" yaml:"kind"`
	Fields map[string]any `json:"fields" yaml:"fields"`
}

// Snapshotter is implemented by values that wrap a model.
// Implementations must tolerate nil receivers and return nil.
type Snapshotter interface {
	ReactiveModel() *Model
}

// ModelList is implemented by sequences of models held in a cell.
type ModelList interface {
	ReactiveModels() []*Model
}

// RestoreHook lets a domain type rebuild fields Assign cannot handle, such
// as nested models. RestoreField returns false to fall back to Assign.
type RestoreHook interface {
	RestoreField(name string, value any) (bool, error)
}

// Snapshot captures the persisted cells of m without recording any reads.
func Snapshot(m *Model) *Record {
	if m == nil {
		return nil
	}
	rec := &Record{
		ID:     m.id,
		Kind:   m.kind,
		Fields: make(map[string]any),
	}
	m.rt.Untracked(func() {
		for _, p := range m.props {
			if !p.Persisted() {
				continue
			}
			rec.Fields[p.Name()] = snapshotValue(p.Value())
		}
	})
	return rec
}

func snapshotValue(v any) any {
	switch x := v.(type) {
	case Snapshotter:
		inner := x.ReactiveModel()
		if inner == nil {
			return nil
		}
		return Snapshot(inner)
	case ModelList:
		models := x.ReactiveModels()
		out := make([]*Record, 0, len(models))
		for _, m := range models {
			out = append(out, Snapshot(m))
		}
		return out
	default:
		return v
	}
}

// Restore writes the fields of rec into the matching persisted cells of m.
// Unknown and non-persisted fields are ignored. All field errors are
// collected; the remaining fields are still restored.
func Restore(m *Model, rec *Record, hook RestoreHook) error {
	if m == nil || rec == nil {
		return nil
	}
	if rec.Kind != "" && rec.Kind != m.kind {
		return fmt.Errorf("%w: kind %q, want %q", ErrBadRecord, rec.Kind, m.kind)
	}

	var errs []error
	for _, p := range m.props {
		if !p.Persisted() {
			continue
		}
		v, ok := rec.Fields[p.Name()]
		if !ok {
			continue
		}
		if hook != nil {
			handled, err := hook.RestoreField(p.Name(), v)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s.%s: %w", m.kind, p.Name(), err))
				continue
			}
			if handled {
				continue
			}
		}
		if err := p.Assign(v); err != nil {
			errs = append(errs, fmt.Errorf("%s.%w", m.kind, err))
		}
	}
	return errors.Join(errs...)
}

// RecordFrom converts a decoded document value (Record, *Record or a generic
// map as produced by YAML and JSON decoders) into a record.
func RecordFrom(v any) (*Record, error) {
	switch x := v.(type) {
	case nil:
		return nil, nil
	case *Record:
		return x, nil
	case Record:
		return &x, nil
	case interface{ ToMap() map[string]any }:
		return recordFromMap(x.ToMap())
	case map[string]any:
		return recordFromMap(x)
	default:
		return nil, fmt.Errorf("%w: %T", ErrBadRecord, v)
	}
}

func recordFromMap(m map[string]any) (*Record, error) {
	rec := &Record{}
	if id, ok := m["id"].(string); ok {
		rec.ID = id
	}
	if kind, ok := m["kind"].(string); ok {
		rec.Kind = kind
	}
	switch fields := m["fields"].(type) {
	case nil:
		rec.Fields = map[string]any{}
	case map[string]any:
		rec.Fields = fields
	case interface{ ToMap() map[string]any }:
		rec.Fields = fields.ToMap()
	default:
		return nil, fmt.Errorf("%w: fields is %T", ErrBadRecord, fields)
	}
	return rec, nil
}

// RecordsFrom converts a decoded list of records.
func RecordsFrom(v any) ([]*Record, error) {
	switch x := v.(type) {
	case nil:
		return nil, nil
	case []*Record:
		return x, nil
	case []any:
		out := make([]*Record, 0, len(x))
		for i, e := range x {
			rec, err := RecordFrom(e)
			if err != nil {
				return nil, fmt.Errorf("[%d]: %w", i, err)
			}
			out = append(out, rec)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("%w: %T is not a list", ErrBadRecord, v)
	}
}
