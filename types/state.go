package types

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"

	"github.com/goccy/go-json"
	"github.com/spf13/viper"

	"github.com/datazip-inc/tap-adjust/constants"
)

type StateType string

const (
	// StreamType means the state carries independent per-stream bookmarks only
	StreamType StateType = "STREAM"
)

// State tracks the furthest-replicated bookmark of every stream; loaded at run
// start and persisted at checkpoints. Serialized as the STATE message value
// payload: {"bookmarks": {"<stream>": {"<cursor_field>": <value>}}}.
type State struct {
	*sync.RWMutex `json:"-"`
	Type          StateType      `json:"-"`
	Streams       []*StreamState `json:"-"`
}

// StreamState is a single stream's bookmark bag. HoldsValue guards against
// serializing streams that never committed a cursor.
type StreamState struct {
	Stream     string      `json:"-"`
	Namespace  string      `json:"-"`
	State      sync.Map    `json:"-"`
	HoldsValue atomic.Bool `json:"-"`
}

var _ StateInterface = (*State)(nil)

func NewState() *State {
	return &State{
		RWMutex: &sync.RWMutex{},
		Type:    StreamType,
		Streams: []*StreamState{},
	}
}

func (s *State) SetType(typ StateType) {
	s.Type = typ
}

func (s *State) ResetStreams() {
	s.Lock()
	defer s.Unlock()

	s.Streams = []*StreamState{}
}

func (s *State) isZero() bool {
	s.RLock()
	defer s.RUnlock()

	for _, stream := range s.Streams {
		if stream.HoldsValue.Load() {
			return false
		}
	}

	return true
}

func (s *State) IsZero() bool {
	return s.isZero()
}

// streams are matched on name; stream names are unique within a tap
func (s *State) findStreamState(stream *ConfiguredStream) *StreamState {
	for _, ss := range s.Streams {
		if ss.Stream == stream.Name() {
			return ss
		}
	}

	return nil
}

func (s *State) initStreamState(stream *ConfiguredStream) *StreamState {
	return &StreamState{
		Stream:    stream.Name(),
		Namespace: stream.Namespace(),
		State:     sync.Map{},
	}
}

// SetCursor commits a bookmark value; must only be called after the page holding
// the value has been fully emitted downstream.
func (s *State) SetCursor(stream *ConfiguredStream, key string, value any) {
	if key == "" {
		return
	}

	s.Lock()
	defer s.Unlock()

	ss := s.findStreamState(stream)
	if ss == nil {
		ss = s.initStreamState(stream)
		s.Streams = append(s.Streams, ss)
	}

	ss.State.Store(key, value)
	ss.HoldsValue.Store(true)
}

func (s *State) GetCursor(stream *ConfiguredStream, key string) any {
	if key == "" {
		return nil
	}

	s.RLock()
	defer s.RUnlock()

	ss := s.findStreamState(stream)
	if ss == nil {
		return nil
	}

	value, _ := ss.State.Load(key)
	return value
}

// ResetCursor drops the stream's bookmark so the next run re-extracts from scratch.
func (s *State) ResetCursor(stream *ConfiguredStream) {
	s.Lock()
	defer s.Unlock()

	ss := s.findStreamState(stream)
	if ss == nil {
		return
	}

	ss.State.Delete(stream.Cursor())
	ss.HoldsValue.Store(false)
}

// MarshalJSON serializes populated streams only, in the bookmarks layout.
func (s *State) MarshalJSON() ([]byte, error) {
	s.RLock()
	defer s.RUnlock()

	bookmarks := make(map[string]map[string]any)
	for _, ss := range s.Streams {
		if !ss.HoldsValue.Load() {
			continue
		}

		cursors := make(map[string]any)
		ss.State.Range(func(key, value any) bool {
			cursors[key.(string)] = value
			return true
		})
		bookmarks[ss.Stream] = cursors
	}

	return json.Marshal(&struct {
		Bookmarks map[string]map[string]any `json:"bookmarks"`
	}{
		Bookmarks: bookmarks,
	})
}

func (s *State) UnmarshalJSON(data []byte) error {
	aux := &struct {
		Bookmarks map[string]map[string]any `json:"bookmarks"`
	}{}
	if err := json.Unmarshal(data, aux); err != nil {
		return err
	}

	if s.RWMutex == nil {
		s.RWMutex = &sync.RWMutex{}
	}
	s.Type = StreamType
	s.Streams = []*StreamState{}
	for stream, cursors := range aux.Bookmarks {
		ss := &StreamState{
			Stream: stream,
			State:  sync.Map{},
		}
		for key, value := range cursors {
			ss.State.Store(key, value)
		}
		ss.HoldsValue.Store(len(cursors) > 0)
		s.Streams = append(s.Streams, ss)
	}

	return nil
}

// Save persists the state atomically: written to a temp file in the target
// directory, then renamed over the previous state. A crash mid-save never
// corrupts the last committed state.
func (s *State) Save() error {
	path := viper.GetString(constants.StatePath)
	if path == "" {
		return nil
	}

	content, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal state: %s", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".state-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temp state file: %s", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(content); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write temp state file: %s", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to sync temp state file: %s", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp state file: %s", err)
	}

	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to replace state file: %s", err)
	}

	return nil
}

// LoadState reads the persisted state; a missing file is not an error and
// yields an empty state (full extraction from scratch).
func LoadState(path string) (*State, error) {
	state := NewState()
	if path == "" {
		return state, nil
	}

	content, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return state, nil
		}
		return nil, fmt.Errorf("failed to read state file: %s", err)
	}

	if err := json.Unmarshal(content, state); err != nil {
		return nil, fmt.Errorf("failed to parse state file: %s", err)
	}

	return state, nil
}
