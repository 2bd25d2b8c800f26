// types.go
package config

import (
	"time"

	"github.com/xtding233/petgacha/internal/model"
)

// Raw config loaded from YAML. Pointer fields distinguish "unset" from zero
// so override files only need the keys they change.
type RawConfig struct {
	Version  string          `yaml:"version"`
	Player   PlayerConfig    `yaml:"player"`
	Gacha    GachaConfig     `yaml:"gacha"`
	Leveling LevelingConfig  `yaml:"leveling"`
	Starters []StarterConfig `yaml:"starters,omitempty"`
	Base     *BaseConfig     `yaml:"base,omitempty"`
	Recruit  *RecruitConfig  `yaml:"recruit,omitempty"`
	Research *ResearchConfig `yaml:"research,omitempty"`
	Farm     *FarmConfig     `yaml:"farm,omitempty"`
	Combat   *CombatConfig   `yaml:"combat,omitempty"`
	Party    *PartyConfig    `yaml:"party,omitempty"`
	Notes    string          `yaml:"notes,omitempty"`
}

type PlayerConfig struct {
	Resources map[string]int `yaml:"resources,omitempty"`
}

type GachaConfig struct {
	Pity      *int            `yaml:"pity"`
	PityScope string          `yaml:"pity_scope,omitempty"` // "per_pool" | "global"
	Pools     []PoolConfig    `yaml:"pools,omitempty"`
	Creatures *CreatureConfig `yaml:"creatures,omitempty"`
}

// PoolConfig is also the shape of a pools/<id>.yaml override file.
type PoolConfig struct {
	ID    string             `yaml:"id"`
	Name  string             `yaml:"name,omitempty"`
	Cost  *int               `yaml:"cost,omitempty"`
	Rates map[string]float64 `yaml:"rates,omitempty"` // rarity name → weight
	Soft  *SoftCfg           `yaml:"soft,omitempty"`
}

type SoftCfg struct {
	StartAt *int     `yaml:"start_at,omitempty"`
	Target  *float64 `yaml:"target,omitempty"`
	Easing  string   `yaml:"easing,omitempty"`
}

type CreatureConfig struct {
	Tiers         map[string]TierConfig `yaml:"tiers,omitempty"`
	AttackJitter  *int                  `yaml:"attack_jitter,omitempty"`
	DefenseJitter *int                  `yaml:"defense_jitter,omitempty"`
}

type TierConfig struct {
	Attack  int      `yaml:"attack"`
	Defense int      `yaml:"defense"`
	Names   []string `yaml:"names"`
}

type LevelingConfig struct {
	Training  *StrategyCfg   `yaml:"training,omitempty"`
	Feeding   *StrategyCfg   `yaml:"feeding,omitempty"`
	TrainExp  *int           `yaml:"train_exp,omitempty"`
	TrainCost map[string]int `yaml:"train_cost,omitempty"`
}

type StrategyCfg struct {
	PerLevel int    `yaml:"per_level"`
	Excess   string `yaml:"excess"` // "discard" | "carry"
}

type StarterConfig struct {
	ID      string        `yaml:"id"`
	Name    string        `yaml:"name"`
	Type    model.Element `yaml:"type"`
	Attack  int           `yaml:"attack"`
	Defense int           `yaml:"defense"`
	Speed   int           `yaml:"speed"`
}

type BaseConfig struct {
	Grid        *int                       `yaml:"grid,omitempty"`
	Structures  map[string]StructureConfig `yaml:"structures,omitempty"`
	UpgradeCost map[string]int             `yaml:"upgrade_cost,omitempty"`
	FarmYield   *int                       `yaml:"farm_yield,omitempty"`
}

type StructureConfig struct {
	Name        string         `yaml:"name"`
	Width       int            `yaml:"width"`
	Height      int            `yaml:"height"`
	Cost        map[string]int `yaml:"cost"`
	UnlockLevel int            `yaml:"unlock_level"`
}

type RecruitConfig struct {
	Cost           map[string]int `yaml:"cost,omitempty"`
	Names          []string       `yaml:"names,omitempty"`
	EfficiencyMin  *float64       `yaml:"efficiency_min,omitempty"`
	EfficiencySpan *float64       `yaml:"efficiency_span,omitempty"`
}

type ResearchConfig struct {
	Step     *int            `yaml:"step,omitempty"`
	Projects []ProjectConfig `yaml:"projects,omitempty"`
}

type ProjectConfig struct {
	ID     string         `yaml:"id"`
	Name   string         `yaml:"name"`
	Cost   map[string]int `yaml:"cost"`
	Reward ItemConfig     `yaml:"reward"`
}

type ItemConfig struct {
	Name   string           `yaml:"name"`
	Type   model.ItemType   `yaml:"type"`
	Rarity string           `yaml:"rarity"`
	Stats  *model.StatBonus `yaml:"stats,omitempty"`
	Effect string           `yaml:"effect,omitempty"`
}

type FarmConfig struct {
	Grid        *int           `yaml:"grid,omitempty"`
	GrowthEvery *time.Duration `yaml:"growth_every,omitempty"`
	MaxStage    *int           `yaml:"max_stage,omitempty"`
	SeedCost    *int           `yaml:"seed_cost,omitempty"`
	GoldMin     *int           `yaml:"gold_min,omitempty"`
	GoldSpread  *int           `yaml:"gold_spread,omitempty"`
	BonusSeedP  *float64       `yaml:"bonus_seed_p,omitempty"`
}

type CombatConfig struct {
	SpawnEvery *time.Duration `yaml:"spawn_every,omitempty"`
	MaxAlive   *int           `yaml:"max_alive,omitempty"`
	HP         *int           `yaml:"hp,omitempty"`
	Attack     *int           `yaml:"attack,omitempty"`
	DropMin    *int           `yaml:"drop_min,omitempty"`
	DropMax    *int           `yaml:"drop_max,omitempty"`
}

type PartyConfig struct {
	MaxActive *int `yaml:"max_active,omitempty"`
}
