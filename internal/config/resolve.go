// resolve.go
package config

import (
	"fmt"

	"github.com/xtding233/petgacha/internal/base"
	"github.com/xtding233/petgacha/internal/combat"
	"github.com/xtding233/petgacha/internal/farm"
	"github.com/xtding233/petgacha/internal/gacha"
	"github.com/xtding233/petgacha/internal/model"
	"github.com/xtding233/petgacha/internal/party"
	"github.com/xtding233/petgacha/internal/progression"
)

// Economy is the normalized rule set a session runs on.
type Economy struct {
	Version   string
	Resources model.Resources // fresh-state counters
	Gacha     gacha.Config
	Training  progression.Strategy
	Feeding   progression.Strategy
	TrainExp  int
	TrainCost model.Cost
	Starters  []model.Creature // templates; ID is the starter id
	Catalog   base.Catalog
	Recruit   base.RecruitRules
	Research  base.ResearchRules
	Farm      farm.Rules
	Combat    combat.Rules
	Party     party.Rules
}

// Starter looks up a starter template.
func (e Economy) Starter(id string) (model.Creature, bool) {
	for _, s := range e.Starters {
		if s.ID == id {
			return s, true
		}
	}
	return model.Creature{}, false
}

type Resolver interface {
	// Returns merged RawConfig and the normalized Economy
	Resolve() (RawConfig, Economy, error)
}

// Resolve loads, validates and normalizes the merged config.
func (l *Loader) Resolve() (RawConfig, Economy, error) {
	raw, err := l.LoadMerged()
	if err != nil {
		return RawConfig{}, Economy{}, err
	}
	eco, err := Resolve(raw)
	if err != nil {
		return raw, Economy{}, err
	}
	return raw, eco, nil
}

// DefaultEconomy resolves the embedded stock config.
func DefaultEconomy() (Economy, error) {
	raw, err := Default()
	if err != nil {
		return Economy{}, err
	}
	return Resolve(raw)
}

// Resolve normalizes raw into an Economy. Sections left unset fall back to
// the package defaults of the component they configure.
func Resolve(raw RawConfig) (Economy, error) {
	if err := ValidateRaw(raw); err != nil {
		return Economy{}, err
	}
	eco := Economy{
		Version:   raw.Version,
		Resources: model.Resources{},
		Training:  progression.Training,
		Feeding:   progression.Feeding,
		TrainExp:  20,
		TrainCost: model.Cost{model.Food: 5},
		Catalog:   base.DefaultCatalog(),
		Recruit:   base.DefaultRecruitRules(),
		Research:  base.DefaultResearchRules(),
		Farm:      farm.DefaultRules(),
		Combat:    combat.DefaultRules(),
		Party:     party.DefaultRules(),
	}
	for _, k := range model.ResourceKinds {
		eco.Resources[k] = raw.Player.Resources[string(k)]
	}

	// gacha
	eco.Gacha = gacha.Config{Scope: gacha.PityScope(raw.Gacha.PityScope), Table: gacha.DefaultTable()}
	if raw.Gacha.Pity != nil {
		eco.Gacha.Pity = *raw.Gacha.Pity
	}
	for _, pc := range raw.Gacha.Pools {
		p := gacha.Pool{ID: pc.ID, Name: pc.Name, Cost: *pc.Cost}
		if p.Name == "" {
			p.Name = p.ID
		}
		for name, w := range pc.Rates {
			r, _ := model.ParseRarity(name)
			p.Weights[r] = w
		}
		if pc.Soft != nil {
			p.Soft = &gacha.SoftPityConfig{StartAt: *pc.Soft.StartAt, TargetProb: *pc.Soft.Target, Easing: gacha.Easing(pc.Soft.Easing)}
		}
		eco.Gacha.Pools = append(eco.Gacha.Pools, p)
	}
	if c := raw.Gacha.Creatures; c != nil {
		for name, tier := range c.Tiers {
			r, _ := model.ParseRarity(name)
			eco.Gacha.Table.Base[r] = gacha.BaseStats{Attack: tier.Attack, Defense: tier.Defense}
			eco.Gacha.Table.Names[r] = append([]string(nil), tier.Names...)
		}
		if c.AttackJitter != nil {
			eco.Gacha.Table.AttackJitter = *c.AttackJitter
		}
		if c.DefenseJitter != nil {
			eco.Gacha.Table.DefenseJitter = *c.DefenseJitter
		}
	}

	// leveling
	if s := raw.Leveling.Training; s != nil {
		eco.Training = progression.Strategy{Name: "training", PerLevel: s.PerLevel, Excess: progression.Excess(s.Excess)}
	}
	if s := raw.Leveling.Feeding; s != nil {
		eco.Feeding = progression.Strategy{Name: "feeding", PerLevel: s.PerLevel, Excess: progression.Excess(s.Excess)}
	}
	if raw.Leveling.TrainExp != nil {
		eco.TrainExp = *raw.Leveling.TrainExp
	}
	if raw.Leveling.TrainCost != nil {
		eco.TrainCost = toCost(raw.Leveling.TrainCost)
	}

	for _, s := range raw.Starters {
		eco.Starters = append(eco.Starters, model.Creature{
			ID:        s.ID,
			Name:      s.Name,
			Rarity:    model.Rare,
			Level:     1,
			Attack:    s.Attack,
			Defense:   s.Defense,
			Speed:     s.Speed,
			Type:      s.Type,
			IsStarter: true,
		})
	}

	// base
	if b := raw.Base; b != nil {
		if b.Grid != nil {
			eco.Catalog.Grid = *b.Grid
		}
		if b.FarmYield != nil {
			eco.Catalog.FarmYield = *b.FarmYield
		}
		if b.UpgradeCost != nil {
			eco.Catalog.UpgradeCost = toCost(b.UpgradeCost)
		}
		if b.Structures != nil {
			specs := make(map[model.StructureKind]base.Spec, len(b.Structures))
			for k, s := range b.Structures {
				kind := model.StructureKind(k)
				specs[kind] = base.Spec{Kind: kind, Name: s.Name, Width: s.Width, Height: s.Height, Cost: toCost(s.Cost), UnlockLevel: s.UnlockLevel}
			}
			eco.Catalog.Specs = specs
		}
	}
	if r := raw.Recruit; r != nil {
		if r.Cost != nil {
			eco.Recruit.Cost = toCost(r.Cost)
		}
		if len(r.Names) > 0 {
			eco.Recruit.Names = append([]string(nil), r.Names...)
		}
		if r.EfficiencyMin != nil {
			eco.Recruit.EfficiencyMin = *r.EfficiencyMin
		}
		if r.EfficiencySpan != nil {
			eco.Recruit.EfficiencySpan = *r.EfficiencySpan
		}
	}
	if r := raw.Research; r != nil {
		if r.Step != nil {
			eco.Research.Step = *r.Step
		}
		if len(r.Projects) > 0 {
			eco.Research.Projects = nil
			for _, p := range r.Projects {
				rarity := model.Common
				if p.Reward.Rarity != "" {
					rarity, _ = model.ParseRarity(p.Reward.Rarity)
				}
				reward := model.Item{Name: p.Reward.Name, Type: p.Reward.Type, Rarity: rarity, Effect: p.Reward.Effect}
				if p.Reward.Stats != nil {
					st := *p.Reward.Stats
					reward.Stats = &st
				}
				if reward.Name == "" {
					reward.Name = p.Name
				}
				eco.Research.Projects = append(eco.Research.Projects, base.Project{ID: p.ID, Name: p.Name, Cost: toCost(p.Cost), Reward: reward})
			}
		}
	}

	// farm
	if f := raw.Farm; f != nil {
		setInt(&eco.Farm.Grid, f.Grid)
		if f.GrowthEvery != nil {
			eco.Farm.GrowthEvery = *f.GrowthEvery
		}
		setInt(&eco.Farm.MaxStage, f.MaxStage)
		setInt(&eco.Farm.SeedCost, f.SeedCost)
		setInt(&eco.Farm.GoldMin, f.GoldMin)
		setInt(&eco.Farm.GoldSpread, f.GoldSpread)
		if f.BonusSeedP != nil {
			eco.Farm.BonusSeedP = *f.BonusSeedP
		}
	}

	// combat
	if c := raw.Combat; c != nil {
		if c.SpawnEvery != nil {
			eco.Combat.SpawnEvery = *c.SpawnEvery
		}
		setInt(&eco.Combat.MaxAlive, c.MaxAlive)
		setInt(&eco.Combat.HP, c.HP)
		setInt(&eco.Combat.Attack, c.Attack)
		setInt(&eco.Combat.DropMin, c.DropMin)
		setInt(&eco.Combat.DropMax, c.DropMax)
	}
	if p := raw.Party; p != nil {
		setInt(&eco.Party.MaxActive, p.MaxActive)
	}

	if err := eco.validate(); err != nil {
		return Economy{}, err
	}
	return eco, nil
}

// validate runs the component-level checks on the normalized values.
func (e Economy) validate() error {
	for _, p := range e.Gacha.Pools {
		if err := p.Validate(e.Gacha.Pity); err != nil {
			return fmt.Errorf("config: %w", err)
		}
	}
	checks := []func() error{
		e.Gacha.Table.Validate,
		e.Training.Validate,
		e.Feeding.Validate,
		e.Catalog.Validate,
		e.Recruit.Validate,
		e.Research.Validate,
		e.Farm.Validate,
		e.Combat.Validate,
		e.Party.Validate,
	}
	for _, check := range checks {
		if err := check(); err != nil {
			return fmt.Errorf("config: %w", err)
		}
	}
	return nil
}

func toCost(m map[string]int) model.Cost {
	out := make(model.Cost, len(m))
	for k, v := range m {
		out[model.ResourceKind(k)] = v
	}
	return out
}

func setInt(dst *int, src *int) {
	if src != nil {
		*dst = *src
	}
}
