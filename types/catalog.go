package types

import (
	"time"
)

// Message is a dto for tap output row representation; one JSON object per line
// on stdout following the SCHEMA/RECORD/STATE protocol.
type Message struct {
	Type               MessageType `json:"type"`
	Stream             string      `json:"stream,omitempty"`
	Schema             *TypeSchema `json:"schema,omitempty"`
	Record             Record      `json:"record,omitempty"`
	Value              *State      `json:"value,omitempty"`
	KeyProperties      []string    `json:"key_properties,omitempty"`
	BookmarkProperties []string    `json:"bookmark_properties,omitempty"`
	TimeExtracted      *time.Time  `json:"time_extracted,omitempty"`
	Log                *Log        `json:"log,omitempty"`
	ConnectionStatus   *StatusRow  `json:"connectionStatus,omitempty"`
	Catalog            *Catalog    `json:"catalog,omitempty"`
	Spec               any         `json:"spec,omitempty"`
}

// Log is a dto for log message serialization
type Log struct {
	Level   string `json:"level,omitempty"`
	Message string `json:"message,omitempty"`
}

// StatusRow is a dto for connection check result serialization
type StatusRow struct {
	Status  ConnectionStatus `json:"status,omitempty"`
	Message string           `json:"message,omitempty"`
}

// StreamMetadata holds per-stream selection recorded in the catalog file.
type StreamMetadata struct {
	StreamName     string   `json:"stream_name"`
	SelectedFields []string `json:"selected_fields,omitempty"`
}

// Catalog is a dto for the configured streams file serialization
type Catalog struct {
	SelectedStreams map[string][]StreamMetadata `json:"selected_streams,omitempty"`
	Streams         []*ConfiguredStream         `json:"streams,omitempty"`
}

func GetWrappedCatalog(streams []*Stream) *Catalog {
	catalog := &Catalog{
		Streams:         []*ConfiguredStream{},
		SelectedStreams: map[string][]StreamMetadata{},
	}

	for _, stream := range streams {
		catalog.Streams = append(catalog.Streams, stream.Wrap())
		catalog.SelectedStreams[stream.Namespace] = append(catalog.SelectedStreams[stream.Namespace], StreamMetadata{
			StreamName: stream.Name,
		})
	}

	return catalog
}
