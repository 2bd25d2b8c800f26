// Package codec converts game state to and from the JSON save document.
package codec

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/xtding233/petgacha/internal/model"
)

// Version is written into every snapshot.
const Version = 1

var (
	ErrMalformed = errors.New("snapshot is not valid JSON")
	ErrInvalid   = errors.New("snapshot failed validation")
)

//go:embed snapshot.schema.json
var schemaJSON string

var (
	schemaOnce sync.Once
	schema     *jsonschema.Schema
	schemaErr  error
)

func compiled() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		schema, schemaErr = jsonschema.CompileString("snapshot.schema.json", schemaJSON)
	})
	return schema, schemaErr
}

// Snapshot is the persisted game state.
type Snapshot struct {
	Version       int               `json:"version"`
	PlayerName    string            `json:"playerName"`
	StarterPetID  string            `json:"starterPetId"`
	Resources     model.Resources   `json:"resources"`
	Pets          []model.Creature  `json:"pets"`
	Cards         []model.Card      `json:"cards"`
	Items         []model.Item      `json:"items"`
	Talents       []model.Talent    `json:"talents"`
	BaseBuildings []model.Structure `json:"baseBuildings"`
	BaseLevel     int               `json:"baseLevel"`
	Day           int               `json:"day"`
	Pity          map[string]int    `json:"pity,omitempty"`     // pool id or "*" → pulls since last high roll
	Research      map[string]int    `json:"research,omitempty"` // project id → percent
	Party         []string          `json:"party,omitempty"`    // active creature ids
}

// Encode writes s as one JSON document. Nil lists are written as [].
func Encode(s Snapshot) ([]byte, error) {
	s.Version = Version
	s.withDefaults()
	return json.Marshal(s)
}

// Decode parses and validates a snapshot. The required keys are playerName,
// resources and pets; everything else takes its fresh-state default.
func Decode(data []byte) (Snapshot, error) {
	var doc any
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&doc); err != nil {
		return Snapshot{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if dec.More() {
		return Snapshot{}, fmt.Errorf("%w: trailing data", ErrMalformed)
	}
	sch, err := compiled()
	if err != nil {
		return Snapshot{}, fmt.Errorf("snapshot schema: %w", err)
	}
	if err := sch.Validate(doc); err != nil {
		return Snapshot{}, fmt.Errorf("%w: %v", ErrInvalid, err)
	}

	var s Snapshot
	if err := json.Unmarshal(data, &s); err != nil {
		return Snapshot{}, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if err := s.Resources.Validate(); err != nil {
		return Snapshot{}, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	for _, cr := range s.Pets {
		if err := cr.Validate(); err != nil {
			return Snapshot{}, fmt.Errorf("%w: %v", ErrInvalid, err)
		}
	}
	s.withDefaults()
	return s, nil
}

func (s *Snapshot) withDefaults() {
	if s.Resources == nil {
		s.Resources = model.Resources{}
	}
	for _, k := range model.ResourceKinds {
		if _, ok := s.Resources[k]; !ok {
			s.Resources[k] = 0
		}
	}
	if s.Pets == nil {
		s.Pets = []model.Creature{}
	}
	if s.Cards == nil {
		s.Cards = []model.Card{}
	}
	if s.Items == nil {
		s.Items = []model.Item{}
	}
	if s.Talents == nil {
		s.Talents = []model.Talent{}
	}
	if s.BaseBuildings == nil {
		s.BaseBuildings = []model.Structure{}
	}
	if s.BaseLevel < 1 {
		s.BaseLevel = 1
	}
	if s.Day < 1 {
		s.Day = 1
	}
}
