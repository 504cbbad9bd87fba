package realtime

import (
	"encoding/json"
	"fmt"
)

// Tables which publish their row changes
const (
	TableCustomers = "customers"
	TableWashes    = "washes"
)

// Op is kind of row change
type Op string

const (
	OpInsert Op = "INSERT"
	OpUpdate Op = "UPDATE"
	OpDelete Op = "DELETE"
)

// Envelope is row change as it is sent by database and forwarded to websocket clients
type Envelope struct {
	Table     string          `json:"table"`
	Type      Op              `json:"type"`
	Record    json.RawMessage `json:"record"`
	OldRecord json.RawMessage `json:"old_record"`
}

// Row is anything identified by a key
type Row interface {
	Key() string
}

// Event is row change of type T. It is one of Inserted, Updated or Deleted.
type Event[T Row] interface {
	Key() string
	event()
}

type Inserted[T Row] struct {
	Row T
}

func (e Inserted[T]) Key() string { return e.Row.Key() }
func (Inserted[T]) event() {}

type Updated[T Row] struct {
	Row T
}

func (e Updated[T]) Key() string { return e.Row.Key() }
func (Updated[T]) event() {}

// Deleted carries row as it was before deletion
type Deleted[T Row] struct {
	Row T
}

func (e Deleted[T]) Key() string { return e.Row.Key() }
func (Deleted[T]) event() {}

// Decode converts envelope into typed event
func Decode[T Row](env Envelope) (Event[T], error) {
	switch env.Type {
	case OpInsert:
		row, err := decodeRow[T](env.Record)
		if err != nil {
			return nil, err
		}
		return Inserted[T]{Row: row}, nil
	case OpUpdate:
		row, err := decodeRow[T](env.Record)
		if err != nil {
			return nil, err
		}
		return Updated[T]{Row: row}, nil
	case OpDelete:
		row, err := decodeRow[T](env.OldRecord)
		if err != nil {
			return nil, err
		}
		return Deleted[T]{Row: row}, nil
	default:
		return nil, fmt.Errorf("unknown change type %q on table %s", env.Type, env.Table)
	}
}

func decodeRow[T Row](raw json.RawMessage) (T, error) {
	var row T
	if len(raw) == 0 || string(raw) == "null" {
		return row, fmt.Errorf("change has no row payload")
	}
	if err := json.Unmarshal(raw, &row); err != nil {
		return row, fmt.Errorf("failed to decode row - %w", err)
	}
	if row.Key() == "" {
		return row, fmt.Errorf("row payload has no id")
	}
	return row, nil
}
