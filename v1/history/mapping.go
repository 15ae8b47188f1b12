package history

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// FieldMapping is one detected FK field of a model.
type FieldMapping struct {
	Field          string  `json:"field"`
	TargetModel    string  `json:"targetModel,omitempty"`
	Confidence     float64 `json:"confidence"`
	Classification string  `json:"classification"`
}

// FKMapping is the persisted result of FK detection across models.
type FKMapping struct {
	UpdatedAt time.Time                 `json:"updatedAt"`
	Models    map[string][]FieldMapping `json:"models"`
}

// MappingStore persists FK mappings as a single JSON file. Every save
// keeps a .bak copy of the previous contents, so one bad detection run
// never destroys the last known-good mapping.
type MappingStore struct {
	cfg *Config
}

// NewMappingStore builds a store over the configured mapping file.
func NewMappingStore(cfg *Config) *MappingStore {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	return &MappingStore{cfg: cfg}
}

// Load reads the current mapping. A missing file is an empty mapping,
// not an error.
func (s *MappingStore) Load() (*FKMapping, error) {
	data, err := os.ReadFile(s.cfg.mappingPath())
	if err != nil {
		if os.IsNotExist(err) {
			return &FKMapping{Models: map[string][]FieldMapping{}}, nil
		}
		return nil, fmt.Errorf("read fk mapping: %w", err)
	}

	var m FKMapping
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("decode fk mapping: %w", err)
	}
	if m.Models == nil {
		m.Models = map[string][]FieldMapping{}
	}
	return &m, nil
}

// Save writes the mapping, backing up any existing file first and going
// through a temp file so a crash mid-write leaves no half-written state.
func (s *MappingStore) Save(m *FKMapping) error {
	if err := os.MkdirAll(s.cfg.Dir, 0o755); err != nil {
		return fmt.Errorf("create history dir: %w", err)
	}

	path := s.cfg.mappingPath()
	if prev, err := os.ReadFile(path); err == nil {
		if err := os.WriteFile(path+".bak", prev, 0o644); err != nil {
			return fmt.Errorf("back up fk mapping: %w", err)
		}
	}

	m.UpdatedAt = time.Now().UTC()
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("encode fk mapping: %w", err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write fk mapping: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("replace fk mapping: %w", err)
	}
	return nil
}
