package types

import (
	"fmt"
)

// Stream is a discovered source stream: name, schema and replication abilities.
// Immutable once discovery has produced it.
type Stream struct {
	Name                    string          `json:"name"`
	Namespace               string          `json:"namespace,omitempty"`
	Schema                  *TypeSchema     `json:"json_schema,omitempty"`
	SupportedSyncModes      *Set[SyncMode]  `json:"supported_sync_modes,omitempty"`
	SourceDefinedPrimaryKey *Set[string]    `json:"source_defined_primary_key,omitempty"`
	AvailableCursorFields   *Set[string]    `json:"available_cursor_fields,omitempty"`
	SyncMode                SyncMode        `json:"sync_mode,omitempty"`
	CursorField             string          `json:"cursor_field,omitempty"`
}

func NewStream(name, namespace string) *Stream {
	return &Stream{
		Name:                    name,
		Namespace:               namespace,
		Schema:                  NewTypeSchema(),
		SupportedSyncModes:      NewSet[SyncMode](),
		SourceDefinedPrimaryKey: NewSet[string](),
		AvailableCursorFields:   NewSet[string](),
	}
}

func (s *Stream) ID() string {
	if s.Namespace == "" {
		return s.Name
	}
	return fmt.Sprintf("%s.%s", s.Namespace, s.Name)
}

// UpsertField adds or extends a column in the stream schema.
func (s *Stream) UpsertField(column string, typ DataType, nullable bool) {
	types := []DataType{typ}
	if nullable {
		types = append(types, NULL)
	}
	s.Schema.AddTypes(column, types...)
}

func (s *Stream) WithSyncMode(modes ...SyncMode) *Stream {
	s.SupportedSyncModes.Insert(modes...)
	return s
}

func (s *Stream) WithPrimaryKey(keys ...string) *Stream {
	s.SourceDefinedPrimaryKey.Insert(keys...)
	return s
}

func (s *Stream) WithCursorField(columns ...string) *Stream {
	s.AvailableCursorFields.Insert(columns...)
	s.CursorField = columns[0]
	return s
}

// Wrap returns the stream as a catalog entry.
func (s *Stream) Wrap() *ConfiguredStream {
	return &ConfiguredStream{
		Stream:      s,
		CursorField: s.CursorField,
	}
}

func StreamsToMap(streams ...*Stream) map[string]*Stream {
	output := make(map[string]*Stream)
	for _, stream := range streams {
		output[stream.ID()] = stream
	}

	return output
}
