package config

import (
	"fmt"
	"math"
	"strings"

	"github.com/xtding233/petgacha/internal/model"
)

// ValidateRaw checks semantic constraints of a RawConfig.
func ValidateRaw(cfg RawConfig) error {
	var errs []string
	add := func(format string, args ...any) { errs = append(errs, fmt.Sprintf(format, args...)) }

	// player.resources
	for k, v := range cfg.Player.Resources {
		if !model.ResourceKind(k).Valid() {
			add("player.resources.%s: unknown resource", k)
		} else if v < 0 {
			add("player.resources.%s must be >= 0", k)
		}
	}

	// gacha.pity
	if cfg.Gacha.Pity != nil && *cfg.Gacha.Pity <= 0 {
		add("gacha.pity must be >= 1")
	}
	switch cfg.Gacha.PityScope {
	case "", "per_pool", "global":
	default:
		add("gacha.pity_scope must be one of: per_pool, global")
	}

	// pools
	if len(cfg.Gacha.Pools) == 0 {
		add("gacha.pools must not be empty")
	}
	seen := map[string]bool{}
	for i, p := range cfg.Gacha.Pools {
		if p.ID == "" {
			add("gacha.pools[%d].id is required", i)
		} else if seen[p.ID] {
			add("gacha.pools[%d].id %q is duplicated", i, p.ID)
		}
		seen[p.ID] = true
		if p.Cost == nil {
			add("gacha.pools[%d].cost is required", i)
		} else if *p.Cost < 0 {
			add("gacha.pools[%d].cost must be >= 0", i)
		}
		sum := 0.0
		for name, w := range p.Rates {
			if _, err := model.ParseRarity(name); err != nil {
				add("gacha.pools[%d].rates.%s: unknown rarity", i, name)
			}
			if w < 0 || w > 1 {
				add("gacha.pools[%d].rates.%s must be in [0,1]", i, name)
			}
			sum += w
		}
		if math.Abs(sum-1) > 1e-9 {
			add("gacha.pools[%d].rates must sum to 1 (got %g)", i, sum)
		}
		if p.Soft != nil {
			if p.Soft.Target == nil {
				add("gacha.pools[%d].soft.target is required", i)
			} else if *p.Soft.Target <= 0 || *p.Soft.Target >= 1 {
				add("gacha.pools[%d].soft.target must be in (0,1)", i)
			}
			if p.Soft.StartAt == nil {
				add("gacha.pools[%d].soft.start_at is required", i)
			} else if cfg.Gacha.Pity != nil && (*p.Soft.StartAt < 0 || *p.Soft.StartAt >= *cfg.Gacha.Pity-1) {
				add("gacha.pools[%d].soft.start_at must satisfy 0 <= start_at < pity-1", i)
			}
			switch p.Soft.Easing {
			case "", "linear", "easeOutQuad", "easeInOutCubic":
			default:
				add("gacha.pools[%d].soft.easing must be one of: linear, easeOutQuad, easeInOutCubic", i)
			}
		}
	}

	// creatures
	if c := cfg.Gacha.Creatures; c != nil {
		for name, tier := range c.Tiers {
			if _, err := model.ParseRarity(name); err != nil {
				add("gacha.creatures.tiers.%s: unknown rarity", name)
			}
			if len(tier.Names) == 0 {
				add("gacha.creatures.tiers.%s.names must not be empty", name)
			}
			if tier.Attack < 0 || tier.Defense < 0 {
				add("gacha.creatures.tiers.%s stats must be >= 0", name)
			}
		}
		if c.AttackJitter != nil && *c.AttackJitter < 0 {
			add("gacha.creatures.attack_jitter must be >= 0")
		}
		if c.DefenseJitter != nil && *c.DefenseJitter < 0 {
			add("gacha.creatures.defense_jitter must be >= 0")
		}
	}

	// leveling
	for name, s := range map[string]*StrategyCfg{"training": cfg.Leveling.Training, "feeding": cfg.Leveling.Feeding} {
		if s == nil {
			continue
		}
		if s.PerLevel <= 0 {
			add("leveling.%s.per_level must be > 0", name)
		}
		if s.Excess != "discard" && s.Excess != "carry" {
			add("leveling.%s.excess must be one of: discard, carry", name)
		}
	}
	if cfg.Leveling.TrainExp != nil && *cfg.Leveling.TrainExp < 0 {
		add("leveling.train_exp must be >= 0")
	}
	validateCost(&errs, "leveling.train_cost", cfg.Leveling.TrainCost)

	// starters
	starters := map[string]bool{}
	for i, s := range cfg.Starters {
		if s.ID == "" || starters[s.ID] {
			add("starters[%d].id %q is empty or duplicated", i, s.ID)
		}
		starters[s.ID] = true
		if s.Name == "" {
			add("starters[%d].name is required", i)
		}
	}

	// base
	if b := cfg.Base; b != nil {
		if b.Grid != nil && *b.Grid <= 0 {
			add("base.grid must be > 0")
		}
		if b.FarmYield != nil && *b.FarmYield < 0 {
			add("base.farm_yield must be >= 0")
		}
		for k, s := range b.Structures {
			if !model.StructureKind(k).Valid() {
				add("base.structures.%s: unknown structure", k)
			}
			if s.Width <= 0 || s.Height <= 0 {
				add("base.structures.%s size must be > 0", k)
			}
			if s.UnlockLevel < 1 {
				add("base.structures.%s.unlock_level must be >= 1", k)
			}
			validateCost(&errs, "base.structures."+k+".cost", s.Cost)
		}
		validateCost(&errs, "base.upgrade_cost", b.UpgradeCost)
	}

	// recruit
	if r := cfg.Recruit; r != nil {
		validateCost(&errs, "recruit.cost", r.Cost)
		if r.EfficiencyMin != nil && *r.EfficiencyMin <= 0 {
			add("recruit.efficiency_min must be > 0")
		}
		if r.EfficiencySpan != nil && *r.EfficiencySpan < 0 {
			add("recruit.efficiency_span must be >= 0")
		}
	}

	// research
	if r := cfg.Research; r != nil {
		if r.Step != nil && (*r.Step <= 0 || *r.Step > 100) {
			add("research.step must be in (0,100]")
		}
		ids := map[string]bool{}
		for i, p := range r.Projects {
			if p.ID == "" || ids[p.ID] {
				add("research.projects[%d].id %q is empty or duplicated", i, p.ID)
			}
			ids[p.ID] = true
			validateCost(&errs, fmt.Sprintf("research.projects[%d].cost", i), p.Cost)
			if p.Reward.Rarity != "" {
				if _, err := model.ParseRarity(p.Reward.Rarity); err != nil {
					add("research.projects[%d].reward.rarity: %v", i, err)
				}
			}
		}
	}

	// farm
	if f := cfg.Farm; f != nil {
		if f.GrowthEvery != nil && *f.GrowthEvery <= 0 {
			add("farm.growth_every must be > 0")
		}
		if f.MaxStage != nil && *f.MaxStage <= 0 {
			add("farm.max_stage must be > 0")
		}
		if f.BonusSeedP != nil && (*f.BonusSeedP < 0 || *f.BonusSeedP > 1) {
			add("farm.bonus_seed_p must be in [0,1]")
		}
	}

	// combat
	if c := cfg.Combat; c != nil {
		if c.SpawnEvery != nil && *c.SpawnEvery <= 0 {
			add("combat.spawn_every must be > 0")
		}
		if c.HP != nil && *c.HP <= 0 {
			add("combat.hp must be > 0")
		}
		if c.DropMin != nil && c.DropMax != nil && *c.DropMax < *c.DropMin {
			add("combat.drop_max must be >= drop_min")
		}
	}

	// party
	if p := cfg.Party; p != nil && p.MaxActive != nil && *p.MaxActive < 1 {
		add("party.max_active must be >= 1")
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

func validateCost(errs *[]string, path string, c map[string]int) {
	for k, v := range c {
		if !model.ResourceKind(k).Valid() {
			*errs = append(*errs, fmt.Sprintf("%s.%s: unknown resource", path, k))
		} else if v < 0 {
			*errs = append(*errs, fmt.Sprintf("%s.%s must be >= 0", path, k))
		}
	}
}
