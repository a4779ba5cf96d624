package ingest

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"
)

// SourceRecord remembers what was last indexed for one source document.
type SourceRecord struct {
	ContentHash string `json:"content_hash"`
	Chunks      int    `json:"chunks"`
	Connector   string `json:"connector"`
}

// State tracks indexed sources and their content hashes between runs. It is
// what makes re-ingestion incremental and lets the reconcile pass find
// entries whose source has vanished.
type State struct {
	Sources     map[string]SourceRecord `json:"sources"`
	LastUpdated time.Time               `json:"last_updated"`
}

const stateFile = "state.json"

// LoadState reads ingest state from state.json inside the store directory.
// A missing file yields a fresh state.
func LoadState(dir string) (*State, error) {
	data, err := os.ReadFile(filepath.Join(dir, stateFile))
	if err != nil {
		if os.IsNotExist(err) {
			return &State{Sources: make(map[string]SourceRecord)}, nil
		}
		return nil, err
	}

	var state State
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, err
	}
	if state.Sources == nil {
		state.Sources = make(map[string]SourceRecord)
	}
	return &state, nil
}

// Save writes the state to state.json inside the store directory.
func (s *State) Save(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	s.LastUpdated = time.Now()
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dir, stateFile), data, 0o644)
}

// Changed reports whether the source's content hash differs from the stored
// one. Unknown sources count as changed.
func (s *State) Changed(source, contentHash string) bool {
	rec, ok := s.Sources[source]
	return !ok || rec.ContentHash != contentHash
}
