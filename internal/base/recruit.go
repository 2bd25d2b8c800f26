package base

import (
	"fmt"

	"github.com/xtding233/petgacha/internal/gacha"
	"github.com/xtding233/petgacha/internal/model"
)

// RecruitRules prices and rolls new talents.
type RecruitRules struct {
	Cost           model.Cost
	Names          []string
	EfficiencyMin  float64 // efficiency = min + u*span, u in [0,1)
	EfficiencySpan float64
}

func DefaultRecruitRules() RecruitRules {
	return RecruitRules{
		Cost:           model.GoldCost(100),
		Names:          []string{"Ming", "Hong", "Qiang", "Fang", "Wang"},
		EfficiencyMin:  0.8,
		EfficiencySpan: 0.4,
	}
}

func (r RecruitRules) Validate() error {
	if len(r.Names) == 0 {
		return fmt.Errorf("recruit: names must not be empty")
	}
	if r.EfficiencyMin <= 0 || r.EfficiencySpan < 0 {
		return fmt.Errorf("recruit: efficiency range must be positive")
	}
	return nil
}

// Recruit hires a talent. It needs a recruit center on the base.
func (b *Base) Recruit() (model.Talent, model.Outcome, error) {
	if !b.store.HasStructure(model.RecruitCenter) {
		return model.Talent{}, model.Unavailable, nil
	}
	if !b.wallet.DebitAll(b.recruit.Cost) {
		return model.Talent{}, model.InsufficientResources, nil
	}
	t := model.Talent{
		ID:         b.ids.Next("talent"),
		Name:       b.recruit.Names[gacha.IntN(b.rng, len(b.recruit.Names))],
		Role:       model.Roles[gacha.IntN(b.rng, len(model.Roles))],
		Level:      1,
		Efficiency: b.recruit.EfficiencyMin + b.rng.Float64()*b.recruit.EfficiencySpan,
	}
	if err := b.store.AddTalent(t); err != nil {
		return model.Talent{}, model.OK, err
	}
	return t, model.OK, nil
}
