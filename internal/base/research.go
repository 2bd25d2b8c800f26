package base

import (
	"fmt"

	"github.com/xtding233/petgacha/internal/model"
)

// Project is one lab research line. Reward is the item template granted on
// completion; its ID is assigned when granted.
type Project struct {
	ID     string
	Name   string
	Cost   model.Cost
	Reward model.Item
}

// ResearchRules is the lab catalog.
type ResearchRules struct {
	Step     int // percent gained per tick
	Projects []Project
}

func DefaultResearchRules() ResearchRules {
	return ResearchRules{
		Step: 20,
		Projects: []Project{
			{ID: "potion_attack", Name: "Attack Potion", Cost: model.Cost{model.Gold: 50, model.Crystal: 5},
				Reward: model.Item{Name: "Attack Potion", Type: model.Potion, Rarity: model.Rare, Stats: &model.StatBonus{Attack: 5}}},
			{ID: "potion_defense", Name: "Defense Potion", Cost: model.Cost{model.Gold: 50, model.Crystal: 5},
				Reward: model.Item{Name: "Defense Potion", Type: model.Potion, Rarity: model.Rare, Stats: &model.StatBonus{Defense: 5}}},
			{ID: "equip_basic", Name: "Basic Gear Blueprint", Cost: model.Cost{model.Gold: 100, model.Crystal: 10},
				Reward: model.Item{Name: "Basic Gear Blueprint", Type: model.Material, Rarity: model.Common}},
		},
	}
}

func (r ResearchRules) Validate() error {
	if r.Step <= 0 || r.Step > 100 {
		return fmt.Errorf("research: step must be in (0,100]")
	}
	seen := map[string]bool{}
	for _, p := range r.Projects {
		if p.ID == "" || seen[p.ID] {
			return fmt.Errorf("research: project id %q empty or duplicated", p.ID)
		}
		seen[p.ID] = true
	}
	return nil
}

func (r ResearchRules) project(id string) (Project, bool) {
	for _, p := range r.Projects {
		if p.ID == id {
			return p, true
		}
	}
	return Project{}, false
}

// ResearchTick is the result of one research step.
type ResearchTick struct {
	Progress int
	Item     *model.Item // set when this tick completed the project
}

// Research advances a project by one step. The first step pays the
// project's cost; reaching 100 grants the reward item.
func (b *Base) Research(projectID string) (ResearchTick, model.Outcome, error) {
	p, ok := b.research.project(projectID)
	if !ok {
		return ResearchTick{}, model.NotFound, nil
	}
	if !b.store.HasStructure(model.Lab) {
		return ResearchTick{}, model.Unavailable, nil
	}
	cur := b.progress[p.ID]
	if cur >= 100 {
		return ResearchTick{Progress: cur}, model.AlreadyDone, nil
	}
	if cur == 0 && !b.wallet.DebitAll(p.Cost) {
		return ResearchTick{}, model.InsufficientResources, nil
	}
	cur = min(100, cur+b.research.Step)
	b.progress[p.ID] = cur
	tick := ResearchTick{Progress: cur}
	if cur == 100 {
		it := p.Reward.Clone()
		it.ID = b.ids.Next("item")
		if it.Name == "" {
			it.Name = p.Name
		}
		if err := b.store.AddItem(it); err != nil {
			return tick, model.OK, err
		}
		tick.Item = &it
	}
	return tick, model.OK, nil
}

// Progress exports research progress by project id.
func (b *Base) Progress() map[string]int {
	out := make(map[string]int, len(b.progress))
	for k, v := range b.progress {
		out[k] = v
	}
	return out
}

// RestoreProgress replaces research progress, clamping to [0,100].
func (b *Base) RestoreProgress(p map[string]int) {
	b.progress = make(map[string]int, len(p))
	for k, v := range p {
		b.progress[k] = max(0, min(100, v))
	}
}
