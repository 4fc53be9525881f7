package types

import (
	"fmt"
	"strings"

	"github.com/datazip-inc/tap-adjust/utils"
	"github.com/datazip-inc/tap-adjust/utils/logger"
)

type StreamCategories struct {
	SelectedStreams    []string
	IncrementalStreams []StreamInterface
	FullRefreshStreams []StreamInterface
	NewStreamsState    []*StreamState
}

// IdentifySelectedStreams validates catalog entries against the discovered source
// streams and splits them by replication strategy. State entries of non-selected
// streams are dropped from the run state.
func IdentifySelectedStreams(catalog *Catalog, streams []*Stream, state *State) (*StreamCategories, error) {
	categories := &StreamCategories{
		SelectedStreams:    []string{},
		IncrementalStreams: []StreamInterface{},
		FullRefreshStreams: []StreamInterface{},
		NewStreamsState:    []*StreamState{},
	}
	// create a map for namespace and streamMetadata
	selectedStreamsMap := make(map[string]StreamMetadata)
	for namespace, streamsMetadata := range catalog.SelectedStreams {
		for _, streamMetadata := range streamsMetadata {
			selectedStreamsMap[fmt.Sprintf("%s.%s", namespace, streamMetadata.StreamName)] = streamMetadata
		}
	}

	// Create a map for quick state lookup by stream name
	stateStreamMap := make(map[string]*StreamState)
	for _, stream := range state.Streams {
		stateStreamMap[stream.Stream] = stream
	}

	_, _ = utils.ArrayContains(catalog.Streams, func(elem *ConfiguredStream) bool {
		sMetadata, selected := selectedStreamsMap[elem.ID()]
		// Check if the stream is in the selectedStreamMap
		if !(catalog.SelectedStreams == nil || selected) {
			logger.Debugf("Skipping stream %s.%s; not in selected streams.", elem.Namespace(), elem.Name())
			return false
		}

		source, found := StreamsToMap(streams...)[elem.ID()]
		if !found {
			logger.Warnf("Skipping; Configured Stream %s not found in source", elem.ID())
			return false
		}
		elem.StreamMetadata = sMetadata
		err := elem.Validate(source)
		if err != nil {
			logger.Warnf("Skipping; Configured Stream %s found invalid due to reason: %s", elem.ID(), err)
			return false
		}

		categories.SelectedStreams = append(categories.SelectedStreams, elem.ID())
		switch elem.Stream.SyncMode {
		case INCREMENTAL:
			categories.IncrementalStreams = append(categories.IncrementalStreams, elem)
			streamState, exists := stateStreamMap[elem.Name()]
			if exists {
				categories.NewStreamsState = append(categories.NewStreamsState, streamState)
			}
		default:
			categories.FullRefreshStreams = append(categories.FullRefreshStreams, elem)
		}

		return false
	})

	// This removes all the previous state streams (clean-up of previous state)
	// so stale bookmarks of non-selected streams never survive a run.
	state.Streams = categories.NewStreamsState
	if len(categories.SelectedStreams) == 0 {
		return nil, fmt.Errorf("no valid streams found in catalog")
	}

	logger.Infof("Valid selected streams are %s", strings.Join(categories.SelectedStreams, ", "))
	return categories, nil
}
