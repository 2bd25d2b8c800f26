package gacha

import (
	"errors"
	"fmt"

	"github.com/xtding233/petgacha/internal/ids"
	"github.com/xtding233/petgacha/internal/model"
)

// Stage is how far a pull got: Idle → RateRolled → PityEvaluated → Materialized.
type Stage uint8

const (
	StageIdle Stage = iota
	StageRateRolled
	StagePityEvaluated
	StageMaterialized
)

func (s Stage) String() string {
	switch s {
	case StageIdle:
		return "idle"
	case StageRateRolled:
		return "rate_rolled"
	case StagePityEvaluated:
		return "pity_evaluated"
	case StageMaterialized:
		return "materialized"
	}
	return "unknown"
}

// PityScope selects whether pools share a pity counter.
type PityScope string

const (
	PityPerPool PityScope = "per_pool"
	PityGlobal  PityScope = "global"
)

// globalPityKey names the shared counter in PityCounts.
const globalPityKey = "*"

// ErrIDTaken reports a minted creature id that the collection already holds.
var ErrIDTaken = errors.New("reward id already taken")

// Wallet is the slice of the ledger a pull needs.
type Wallet interface {
	DebitAll(model.Cost) bool
	Credit(model.ResourceKind, int) error
}

// Collector receives the pulled creature and its reward record.
type Collector interface {
	Creature(id string) (model.Creature, bool)
	AddCreature(model.Creature) error
	AddCard(model.Card) error
}

// Config is everything an Engine needs apart from its collaborators.
type Config struct {
	Pools []Pool
	Pity  int // hard pity threshold shared by all pools; <= 0 disables it
	Scope PityScope
	Table Table
}

// Result reports one pull.
type Result struct {
	Stage    Stage
	Outcome  model.Outcome
	Natural  model.Rarity // rarity the rate roll produced
	Rarity   model.Rarity // rarity after pity
	Forced   bool         // pity overrode the roll
	Pity     int          // counter value after the pull
	Creature model.Creature
	Card     model.Card
}

// Engine resolves pulls against pools and mutates wallet + collection.
// Not safe for concurrent use.
type Engine struct {
	cfg   Config
	pools map[string]Pool
	order []string
	pity  map[string]*PitySystem

	wallet    Wallet
	collector Collector
	rng       RandomSource
	ids       ids.Generator
}

// NewEngine validates cfg and builds an engine with fresh pity counters.
func NewEngine(cfg Config, wallet Wallet, collector Collector, rng RandomSource, gen ids.Generator) (*Engine, error) {
	if rng == nil {
		rng = DefaultRNG()
	}
	if gen == nil {
		gen = ids.UUID()
	}
	e := &Engine{wallet: wallet, collector: collector, rng: rng, ids: gen, pity: map[string]*PitySystem{}}
	if err := e.Reconfigure(cfg); err != nil {
		return nil, err
	}
	return e, nil
}

// Reconfigure swaps pools and tables. Counters of pools that survive keep
// their value; new pools start at zero.
func (e *Engine) Reconfigure(cfg Config) error {
	if cfg.Scope == "" {
		cfg.Scope = PityPerPool
	}
	if cfg.Scope != PityPerPool && cfg.Scope != PityGlobal {
		return fmt.Errorf("pity scope %q: must be per_pool or global", cfg.Scope)
	}
	if err := cfg.Table.Validate(); err != nil {
		return err
	}
	pools := make(map[string]Pool, len(cfg.Pools))
	order := make([]string, 0, len(cfg.Pools))
	for i := range cfg.Pools {
		p := cfg.Pools[i]
		if err := p.Validate(cfg.Pity); err != nil {
			return err
		}
		if _, dup := pools[p.ID]; dup {
			return fmt.Errorf("pool %s: duplicate id", p.ID)
		}
		pools[p.ID] = p
		order = append(order, p.ID)
	}

	old := e.PityCounts()
	pity := make(map[string]*PitySystem, len(order))
	if cfg.Scope == PityGlobal {
		shared := NewPitySystem(cfg.Pity)
		shared.Count = old[globalPityKey]
		for _, id := range order {
			pity[id] = shared
		}
	} else {
		for _, id := range order {
			ps := NewPitySystem(cfg.Pity)
			ps.Count = old[id]
			pity[id] = ps
		}
	}
	e.cfg, e.pools, e.order, e.pity = cfg, pools, order, pity
	return nil
}

// Pools lists pools in configuration order.
func (e *Engine) Pools() []Pool {
	out := make([]Pool, 0, len(e.order))
	for _, id := range e.order {
		out = append(out, e.pools[id])
	}
	return out
}

// Pool looks up a pool by id.
func (e *Engine) Pool(id string) (Pool, bool) {
	p, ok := e.pools[id]
	return p, ok
}

func (e *Engine) PityThreshold() int { return e.cfg.Pity }

// PityCounts exports counters keyed by pool id, or by "*" when shared.
func (e *Engine) PityCounts() map[string]int {
	out := make(map[string]int, len(e.pity))
	if e.cfg.Scope == PityGlobal {
		for _, ps := range e.pity {
			out[globalPityKey] = ps.Count
			break
		}
		return out
	}
	for id, ps := range e.pity {
		out[id] = ps.Count
	}
	return out
}

// RestorePity loads counters exported by PityCounts; unknown keys are ignored
// and missing keys reset to zero.
func (e *Engine) RestorePity(counts map[string]int) {
	for id, ps := range e.pity {
		key := id
		if e.cfg.Scope == PityGlobal {
			key = globalPityKey
		}
		c := counts[key]
		if c < 0 {
			c = 0
		}
		ps.Count = c
	}
}

// Pity returns the counter a pool currently sees.
func (e *Engine) Pity(poolID string) (int, bool) {
	ps, ok := e.pity[poolID]
	if !ok {
		return 0, false
	}
	return ps.Count, true
}

// SetPity overrides a pool's counter.
func (e *Engine) SetPity(poolID string, count int) error {
	ps, ok := e.pity[poolID]
	if !ok {
		return fmt.Errorf("%s: %w", poolID, ErrUnknownPool)
	}
	ps.Count = count
	return nil
}

// Pull performs one pull from poolID.
// Insufficient gold yields Outcome InsufficientResources at StageIdle with
// nothing mutated. A storage failure refunds the cost and restores the pity
// counter before the error is returned.
func (e *Engine) Pull(poolID string) (Result, error) {
	pool, ok := e.pools[poolID]
	if !ok {
		return Result{}, fmt.Errorf("%s: %w", poolID, ErrUnknownPool)
	}
	ps := e.pity[poolID]
	before := ps.Count

	// 1) affordability
	cost := model.GoldCost(pool.Cost)
	if !e.wallet.DebitAll(cost) {
		return Result{Stage: StageIdle, Outcome: model.InsufficientResources, Pity: before}, nil
	}
	petID, cardID := e.ids.Next("pet"), e.ids.Next("card")
	if _, taken := e.collector.Creature(petID); taken {
		return e.undo(ps, before, cost), fmt.Errorf("pull %s: %s: %w", poolID, petID, ErrIDTaken)
	}

	// 2) rate roll
	weights := pool.Soft.effectiveWeights(pool.Weights, ps.Count, ps.Pity)
	res := Result{Stage: StageRateRolled, Outcome: model.OK}
	res.Natural = Roll(weights, e.rng)

	// 3) pity
	res.Rarity, res.Forced = ps.Evaluate(res.Natural)
	res.Pity = ps.Count
	res.Stage = StagePityEvaluated

	// 4) materialize
	res.Creature = e.cfg.Table.Materialize(petID, res.Rarity, e.rng)
	res.Card = model.NewCreatureCard(cardID, res.Creature)
	if err := e.collector.AddCreature(res.Creature); err != nil {
		return e.undo(ps, before, cost), fmt.Errorf("pull %s: store creature: %w", poolID, err)
	}
	if err := e.collector.AddCard(res.Card); err != nil {
		return e.undo(ps, before, cost), fmt.Errorf("pull %s: store card: %w", poolID, err)
	}
	res.Stage = StageMaterialized
	return res, nil
}

// undo reverses the debit and the pity step of a pull that could not be stored.
func (e *Engine) undo(ps *PitySystem, count int, cost model.Cost) Result {
	ps.Count = count
	for k, n := range cost {
		_ = e.wallet.Credit(k, n)
	}
	return Result{Stage: StageIdle, Pity: count}
}

// PullN runs n independent pulls. Pulls that cannot be afforded contribute
// nothing; earlier successes are kept.
func (e *Engine) PullN(poolID string, n int) ([]Result, error) {
	if _, ok := e.pools[poolID]; !ok {
		return nil, fmt.Errorf("%s: %w", poolID, ErrUnknownPool)
	}
	out := make([]Result, 0, n)
	for i := 0; i < n; i++ {
		r, err := e.Pull(poolID)
		if err != nil {
			return out, err
		}
		if r.Outcome == model.OK {
			out = append(out, r)
		}
	}
	return out, nil
}

// TenPull is PullN with n = 10.
func (e *Engine) TenPull(poolID string) ([]Result, error) { return e.PullN(poolID, 10) }
