package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var defaultYAML []byte

// Paths helper for economy/pool override files.
type Paths struct {
	BaseDir string // base directory, e.g., /opt/petgacha/config; empty = defaults only
}

func (p Paths) EconomyPath() string {
	return filepath.Join(p.BaseDir, "economy.yaml")
}
func (p Paths) PoolsDir() string {
	return filepath.Join(p.BaseDir, "pools")
}
func (p Paths) PoolPath(pool string) string {
	return filepath.Join(p.PoolsDir(), pool+".yaml")
}

// Loader reads YAML configs and merges default → economy → pools.
type Loader struct {
	paths Paths

	mu     sync.RWMutex
	cached *RawConfig
}

// NewLoader creates a config loader with the given base directory.
func NewLoader(baseDir string) *Loader {
	return &Loader{paths: Paths{BaseDir: baseDir}}
}

func (l *Loader) Paths() Paths { return l.paths }

// Default parses the embedded stock economy.
func Default() (RawConfig, error) {
	var cfg RawConfig
	if err := yaml.Unmarshal(defaultYAML, &cfg); err != nil {
		return RawConfig{}, fmt.Errorf("embedded default: %w", err)
	}
	return cfg, nil
}

// LoadMerged returns the merged RawConfig (without normalization).
func (l *Loader) LoadMerged() (RawConfig, error) {
	l.mu.RLock()
	if l.cached != nil {
		cfg := *l.cached
		l.mu.RUnlock()
		return cfg, nil
	}
	l.mu.RUnlock()

	merged, err := Default()
	if err != nil {
		return RawConfig{}, err
	}
	if l.paths.BaseDir != "" {
		var eco RawConfig
		if err := readYAML(l.paths.EconomyPath(), &eco); err != nil {
			return RawConfig{}, fmt.Errorf("read economy: %w", err)
		}
		merged = mergeRaw(merged, eco)

		files, err := l.poolFiles()
		if err != nil {
			return RawConfig{}, err
		}
		for _, path := range files {
			var pc PoolConfig
			if err := readYAML(path, &pc); err != nil {
				return RawConfig{}, fmt.Errorf("read pool %s: %w", filepath.Base(path), err)
			}
			if pc.ID == "" {
				pc.ID = strings.TrimSuffix(filepath.Base(path), ".yaml")
			}
			merged.Gacha.Pools = mergePools(merged.Gacha.Pools, []PoolConfig{pc})
		}
	}

	l.mu.Lock()
	l.cached = &merged
	l.mu.Unlock()
	return merged, nil
}

// poolFiles lists pools/*.yaml sorted by name. A missing directory is empty.
func (l *Loader) poolFiles() ([]string, error) {
	entries, err := os.ReadDir(l.paths.PoolsDir())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	var out []string
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".yaml" {
			continue
		}
		out = append(out, filepath.Join(l.paths.PoolsDir(), e.Name()))
	}
	sort.Strings(out)
	return out, nil
}

// Invalidate clears loader's cache. Call after hot-reload detects changes.
func (l *Loader) Invalidate() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.cached = nil
}

// readYAML loads a YAML file into out. Missing files leave out untouched, no error.
func readYAML(path string, out any) error {
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	return yaml.Unmarshal(b, out)
}

// mergeRaw performs a deep merge: 'b' overrides 'a' where non-zero/non-nil.
// Maps merge per key, pools merge per id, other slices are replaced.
func mergeRaw(a, b RawConfig) RawConfig {
	out := a

	// top-level scalars
	if b.Version != "" {
		out.Version = b.Version
	}
	if b.Notes != "" {
		out.Notes = b.Notes
	}

	out.Player.Resources = mergeMap(a.Player.Resources, b.Player.Resources)

	// gacha
	override(&out.Gacha.Pity, b.Gacha.Pity)
	if b.Gacha.PityScope != "" {
		out.Gacha.PityScope = b.Gacha.PityScope
	}
	out.Gacha.Pools = mergePools(a.Gacha.Pools, b.Gacha.Pools)
	switch {
	case a.Gacha.Creatures == nil && b.Gacha.Creatures != nil:
		c := *b.Gacha.Creatures
		out.Gacha.Creatures = &c
	case a.Gacha.Creatures != nil && b.Gacha.Creatures != nil:
		c := *a.Gacha.Creatures
		c.Tiers = mergeMap(a.Gacha.Creatures.Tiers, b.Gacha.Creatures.Tiers)
		override(&c.AttackJitter, b.Gacha.Creatures.AttackJitter)
		override(&c.DefenseJitter, b.Gacha.Creatures.DefenseJitter)
		out.Gacha.Creatures = &c
	}

	// leveling
	override(&out.Leveling.Training, b.Leveling.Training)
	override(&out.Leveling.Feeding, b.Leveling.Feeding)
	override(&out.Leveling.TrainExp, b.Leveling.TrainExp)
	out.Leveling.TrainCost = mergeMap(a.Leveling.TrainCost, b.Leveling.TrainCost)

	if len(b.Starters) > 0 {
		out.Starters = append([]StarterConfig(nil), b.Starters...)
	}

	// base
	switch {
	case a.Base == nil && b.Base != nil:
		c := *b.Base
		out.Base = &c
	case a.Base != nil && b.Base != nil:
		c := *a.Base
		override(&c.Grid, b.Base.Grid)
		override(&c.FarmYield, b.Base.FarmYield)
		c.Structures = mergeMap(a.Base.Structures, b.Base.Structures)
		c.UpgradeCost = mergeMap(a.Base.UpgradeCost, b.Base.UpgradeCost)
		out.Base = &c
	}

	// recruit
	switch {
	case a.Recruit == nil && b.Recruit != nil:
		c := *b.Recruit
		out.Recruit = &c
	case a.Recruit != nil && b.Recruit != nil:
		c := *a.Recruit
		c.Cost = mergeMap(a.Recruit.Cost, b.Recruit.Cost)
		if len(b.Recruit.Names) > 0 {
			c.Names = append([]string(nil), b.Recruit.Names...)
		}
		override(&c.EfficiencyMin, b.Recruit.EfficiencyMin)
		override(&c.EfficiencySpan, b.Recruit.EfficiencySpan)
		out.Recruit = &c
	}

	// research
	switch {
	case a.Research == nil && b.Research != nil:
		c := *b.Research
		out.Research = &c
	case a.Research != nil && b.Research != nil:
		c := *a.Research
		override(&c.Step, b.Research.Step)
		if len(b.Research.Projects) > 0 {
			c.Projects = append([]ProjectConfig(nil), b.Research.Projects...)
		}
		out.Research = &c
	}

	// farm
	switch {
	case a.Farm == nil && b.Farm != nil:
		c := *b.Farm
		out.Farm = &c
	case a.Farm != nil && b.Farm != nil:
		c := *a.Farm
		override(&c.Grid, b.Farm.Grid)
		override(&c.GrowthEvery, b.Farm.GrowthEvery)
		override(&c.MaxStage, b.Farm.MaxStage)
		override(&c.SeedCost, b.Farm.SeedCost)
		override(&c.GoldMin, b.Farm.GoldMin)
		override(&c.GoldSpread, b.Farm.GoldSpread)
		override(&c.BonusSeedP, b.Farm.BonusSeedP)
		out.Farm = &c
	}

	// combat
	switch {
	case a.Combat == nil && b.Combat != nil:
		c := *b.Combat
		out.Combat = &c
	case a.Combat != nil && b.Combat != nil:
		c := *a.Combat
		override(&c.SpawnEvery, b.Combat.SpawnEvery)
		override(&c.MaxAlive, b.Combat.MaxAlive)
		override(&c.HP, b.Combat.HP)
		override(&c.Attack, b.Combat.Attack)
		override(&c.DropMin, b.Combat.DropMin)
		override(&c.DropMax, b.Combat.DropMax)
		out.Combat = &c
	}

	// party
	switch {
	case a.Party == nil && b.Party != nil:
		c := *b.Party
		out.Party = &c
	case a.Party != nil && b.Party != nil:
		c := *a.Party
		override(&c.MaxActive, b.Party.MaxActive)
		out.Party = &c
	}

	return out
}

// mergePools overrides pools by id; unknown ids are appended in order.
func mergePools(a, b []PoolConfig) []PoolConfig {
	out := append([]PoolConfig(nil), a...)
	for _, p := range b {
		i := -1
		for j := range out {
			if out[j].ID == p.ID {
				i = j
				break
			}
		}
		if i < 0 {
			out = append(out, p)
			continue
		}
		cur := out[i]
		if p.Name != "" {
			cur.Name = p.Name
		}
		override(&cur.Cost, p.Cost)
		if len(p.Rates) > 0 {
			// rates replace as a whole
			cur.Rates = mergeMap(nil, p.Rates)
		}
		override(&cur.Soft, p.Soft)
		out[i] = cur
	}
	return out
}

func override[T any](dst **T, src *T) {
	if src != nil {
		*dst = src
	}
}

func mergeMap[K comparable, V any](a, b map[K]V) map[K]V {
	if a == nil && b == nil {
		return nil
	}
	out := make(map[K]V, len(a)+len(b))
	for k, v := range a {
		out[k] = v
	}
	for k, v := range b {
		out[k] = v
	}
	return out
}
