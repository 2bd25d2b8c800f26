package session

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/xtding233/petgacha/internal/codec"
	"github.com/xtding233/petgacha/internal/config"
	"github.com/xtding233/petgacha/internal/gacha"
	"github.com/xtding233/petgacha/internal/ids"
	"github.com/xtding233/petgacha/internal/model"
	"github.com/xtding233/petgacha/internal/notify"
	"github.com/xtding233/petgacha/internal/savestore"
)

type fixed float64

func (f fixed) Float64() float64 { return float64(f) }

func economy(t *testing.T) config.Economy {
	t.Helper()
	eco, err := config.DefaultEconomy()
	require.NoError(t, err)
	return eco
}

func newSession(t *testing.T, eco config.Economy) *Session {
	t.Helper()
	s, err := New(eco, Options{RNG: fixed(0.5), IDs: &ids.Sequence{}})
	require.NoError(t, err)
	return s
}

func record(s *Session) *[]string {
	var (
		mu    sync.Mutex
		names []string
	)
	s.Subscribe(func(e notify.Event) {
		mu.Lock()
		names = append(names, e.Name())
		mu.Unlock()
	})
	return &names
}

func TestFreshState(t *testing.T) {
	s := newSession(t, economy(t))
	snap := s.Snapshot()
	require.Equal(t, 100, snap.Resources[model.Gold])
	require.Equal(t, 20, snap.Resources[model.Food])
	require.Empty(t, snap.Pets)
	require.Equal(t, 1, snap.BaseLevel)
	require.Equal(t, 1, snap.Day)
}

func TestPullPublishesAfterAction(t *testing.T) {
	s := newSession(t, economy(t))
	events := record(s)

	res, err := s.Pull("standard")
	require.NoError(t, err)
	require.Equal(t, model.OK, res.Outcome)
	require.Equal(t, gacha.StageMaterialized, res.Stage)
	require.Equal(t, model.Common, res.Rarity)
	require.Equal(t, "Kitten", res.Creature.Name)
	require.Equal(t, 7, res.Creature.Attack)
	require.Equal(t, 4, res.Creature.Defense)
	require.Equal(t, []string{"resourceChanged", "petAdded", "cardAdded"}, *events)

	snap := s.Snapshot()
	require.Equal(t, 90, snap.Resources[model.Gold])
	require.Len(t, snap.Pets, 1)
	require.Len(t, snap.Cards, 1)
	require.Equal(t, 1, snap.Pity["standard"])
}

func TestPullCannotAfford(t *testing.T) {
	eco := economy(t)
	eco.Resources = model.Resources{model.Gold: 5}
	s := newSession(t, eco)
	events := record(s)

	res, err := s.Pull("standard")
	require.NoError(t, err)
	require.Equal(t, model.InsufficientResources, res.Outcome)
	require.Equal(t, gacha.StageIdle, res.Stage)
	require.Empty(t, *events)
	require.Equal(t, 0, s.Snapshot().Pity["standard"])

	_, err = s.Pull("mystery")
	require.ErrorIs(t, err, gacha.ErrUnknownPool)
}

func TestTenPullDropsUnaffordable(t *testing.T) {
	eco := economy(t)
	eco.Resources = model.Resources{model.Gold: 35}
	s := newSession(t, eco)
	res, err := s.TenPull("standard")
	require.NoError(t, err)
	require.Len(t, res, 3)
	require.Equal(t, 5, s.Snapshot().Resources[model.Gold])
}

func TestStarterAndTraining(t *testing.T) {
	s := newSession(t, economy(t))
	_, out, err := s.SelectStarter("unicorn")
	require.NoError(t, err)
	require.Equal(t, model.NotFound, out)

	wolf, out, err := s.SelectStarter("shadow_wolf")
	require.NoError(t, err)
	require.Equal(t, model.OK, out)
	require.True(t, wolf.IsStarter)
	_, out, _ = s.SelectStarter("ice_phoenix")
	require.Equal(t, model.AlreadyDone, out)

	events := record(s)
	for i := 0; i < 2; i++ {
		r, out, err := s.Train(wolf.ID)
		require.NoError(t, err)
		require.Equal(t, model.OK, out)
		require.Equal(t, 0, r.Levels)
	}
	r, _, _ := s.Train(wolf.ID)
	require.Equal(t, 1, r.Levels)
	require.Equal(t, 2, r.Creature.Level)
	require.Equal(t, 0, r.Creature.Exp)
	require.Equal(t, 16, r.Creature.Attack)
	require.Equal(t, 7, r.Creature.Defense)
	require.Contains(t, *events, "petLevelUp")

	_, out, _ = s.Train(wolf.ID)
	require.Equal(t, model.OK, out)
	require.Equal(t, 0, s.Snapshot().Resources[model.Food])
	_, out, _ = s.Train(wolf.ID)
	require.Equal(t, model.InsufficientResources, out)

	_, out, _ = s.Train("pet_404")
	require.Equal(t, model.NotFound, out)
}

func TestFeedCarriesExcess(t *testing.T) {
	s := newSession(t, economy(t))
	wolf, _, _ := s.SelectStarter("shadow_wolf")
	r, out, err := s.Feed(wolf.ID, 250)
	require.NoError(t, err)
	require.Equal(t, model.OK, out)
	require.Equal(t, 2, r.Creature.Level)
	require.Equal(t, 150, r.Creature.Exp)

	_, _, err = s.Feed(wolf.ID, -1)
	require.ErrorIs(t, err, ErrBadInput)
}

func TestSaveLoadKeepsState(t *testing.T) {
	s := newSession(t, economy(t))
	require.NoError(t, s.SetPlayerName("  Ash "))
	wolf, _, _ := s.SelectStarter("shadow_wolf")
	_, err := s.Pull("standard")
	require.NoError(t, err)
	_, out, err := s.Place(model.Farm, 0, 0)
	require.NoError(t, err)
	require.Equal(t, model.OK, out)
	s.AdvanceDay()

	data, err := s.Save()
	require.NoError(t, err)
	before := s.Snapshot()

	other := newSession(t, economy(t))
	events := record(other)
	require.NoError(t, other.Load(data))
	require.Equal(t, []string{"loaded"}, *events)

	after := other.Snapshot()
	require.Equal(t, before, after)
	require.Equal(t, "Ash", after.PlayerName)
	require.Equal(t, wolf.ID, after.StarterPetID)
	require.Equal(t, 2, after.Day)
}

func TestLoadFailureKeepsState(t *testing.T) {
	s := newSession(t, economy(t))
	require.NoError(t, s.SetPlayerName("Ash"))
	before := s.Snapshot()

	require.Error(t, s.Load([]byte(`{"playerName":"Eve"}`)))
	require.Error(t, s.Load([]byte(`not json`)))
	dup := `{"playerName":"Eve","resources":{"gold":1},"pets":[{"id":"p1","name":"a","rarity":"common","level":1,"exp":0,"attack":1,"defense":1},{"id":"p1","name":"b","rarity":"common","level":1,"exp":0,"attack":1,"defense":1}]}`
	require.Error(t, s.Load([]byte(dup)))
	negative := `{"playerName":"Eve","resources":{"gold":1},"pets":[{"id":"p1","name":"a","rarity":"common","level":-3,"exp":-5,"attack":1,"defense":1}]}`
	require.ErrorIs(t, s.Load([]byte(negative)), codec.ErrInvalid)

	require.Equal(t, before, s.Snapshot())
}

func TestSaveToSlot(t *testing.T) {
	ctx := t.Context()
	st := savestore.NewMemory()
	s := newSession(t, economy(t))
	require.NoError(t, s.SetPlayerName("Ash"))
	info, err := s.SaveTo(ctx, st, "slot1")
	require.NoError(t, err)
	require.NotEmpty(t, info.Digest)

	other := newSession(t, economy(t))
	require.NoError(t, other.LoadFrom(ctx, st, "slot1"))
	require.Equal(t, "Ash", other.Snapshot().PlayerName)
	require.ErrorIs(t, other.LoadFrom(ctx, st, "nope"), savestore.ErrSlotNotFound)
}

func TestConcurrentPullsNeverOverspend(t *testing.T) {
	eco := economy(t)
	eco.Resources = model.Resources{model.Gold: 500}
	s := newSession(t, eco)

	var (
		wg sync.WaitGroup
		mu sync.Mutex
		ok int
	)
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := s.Pull("standard")
			if err == nil && res.Outcome == model.OK {
				mu.Lock()
				ok++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	require.Equal(t, 50, ok)
	snap := s.Snapshot()
	require.Equal(t, 0, snap.Resources[model.Gold])
	require.Len(t, snap.Pets, 50)
}

func TestReconfigureKeepsCounters(t *testing.T) {
	s := newSession(t, economy(t))
	_, err := s.Pull("standard")
	require.NoError(t, err)

	eco := economy(t)
	eco.Gacha.Pools[0].Cost = 1
	require.NoError(t, s.Reconfigure(eco))
	pools := s.Pools()
	require.Equal(t, 1, pools[0].Cost)
	require.Equal(t, 1, pools[0].Pity)

	bad := economy(t)
	bad.Gacha.Pools[0].Weights = gacha.Weights{0.5}
	require.Error(t, s.Reconfigure(bad))
	require.Equal(t, 1, s.Pools()[0].Cost)
}

func TestBaseAndFieldActions(t *testing.T) {
	eco := economy(t)
	eco.Resources = model.Resources{model.Gold: 1000, model.Wood: 500, model.Stone: 500, model.Seeds: 1, model.Crystal: 10}
	s := newSession(t, eco)

	farmSt, out, err := s.Place(model.Farm, 10, 10)
	require.NoError(t, err)
	require.Equal(t, model.OK, out)
	food, out, err := s.HarvestStructure(farmSt.ID)
	require.NoError(t, err)
	require.Equal(t, model.OK, out)
	require.Equal(t, 10, food)

	_, out, _ = s.Place(model.Lab, 500, 500)
	require.Equal(t, model.Locked, out)
	level, out := s.UpgradeBase()
	require.Equal(t, model.OK, out)
	require.Equal(t, 2, level)
	_, out, _ = s.Place(model.Lab, 500, 500)
	require.Equal(t, model.OK, out)
	tick, out, err := s.Research("potion_attack")
	require.NoError(t, err)
	require.Equal(t, model.OK, out)
	require.Equal(t, 20, tick.Progress)

	c, ok := s.Till(40, 40)
	require.True(t, ok)
	require.Equal(t, model.OK, s.Plant(c))
	_, out, _ = s.HarvestCrop(c)
	require.Equal(t, model.Unavailable, out)
	_, err = s.Tick(15 * time.Second)
	require.NoError(t, err)
	h, out, err := s.HarvestCrop(c)
	require.NoError(t, err)
	require.Equal(t, model.OK, out)
	require.Equal(t, 15, h.Gold)
}

func TestPartyAutoSummonAndPersist(t *testing.T) {
	s := newSession(t, economy(t))
	wolf, _, _ := s.SelectStarter("shadow_wolf")
	for i := 0; i < 3; i++ {
		_, err := s.Pull("standard")
		require.NoError(t, err)
	}
	p := s.Party()
	require.Equal(t, []string{wolf.ID, "pet_1", "pet_2"}, p.Active)
	require.Equal(t, wolf.Attack+7+7, p.Attack)
	require.Equal(t, wolf.Defense+4+4, p.Defense)

	require.Equal(t, model.Occupied, s.Summon("pet_3"))
	require.Equal(t, model.OK, s.Dismiss("pet_1"))
	require.Equal(t, model.OK, s.Summon("pet_3"))
	require.Equal(t, model.NotFound, s.Summon("pet_404"))

	data, err := s.Save()
	require.NoError(t, err)
	other := newSession(t, economy(t))
	require.NoError(t, other.Load(data))
	require.Equal(t, []string{wolf.ID, "pet_2", "pet_3"}, other.Party().Active)
}

func TestTickBounds(t *testing.T) {
	s := newSession(t, economy(t))
	spawned, err := s.Tick(0)
	require.NoError(t, err)
	require.Empty(t, spawned)

	_, err = s.Tick(-time.Second)
	require.ErrorIs(t, err, ErrBadInput)
	_, err = s.Tick(MaxTick + time.Nanosecond)
	require.ErrorIs(t, err, ErrBadInput)

	spawned, err = s.Tick(MaxTick)
	require.NoError(t, err)
	require.Len(t, spawned, 5)
}

func TestHitUsesStarterAttack(t *testing.T) {
	s := newSession(t, economy(t))
	spawned, err := s.Tick(10 * time.Second)
	require.NoError(t, err)
	require.Len(t, spawned, 1)

	_, out, err := s.Hit(spawned[0].ID, 0)
	require.NoError(t, err)
	require.Equal(t, model.Unavailable, out)

	s.SelectStarter("shadow_wolf")
	h, out, err := s.Hit(spawned[0].ID, 0)
	require.NoError(t, err)
	require.Equal(t, model.OK, out)
	require.Equal(t, 16, h.Monster.HP)

	h, _, _ = s.Hit(spawned[0].ID, 100)
	require.True(t, h.Killed)
	require.Empty(t, s.Monsters())
	require.Equal(t, 100+h.Gold, s.Snapshot().Resources[model.Gold])
}
