package server

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/xtding233/petgacha/internal/base"
	"github.com/xtding233/petgacha/internal/codec"
	"github.com/xtding233/petgacha/internal/combat"
	"github.com/xtding233/petgacha/internal/farm"
	"github.com/xtding233/petgacha/internal/gacha"
	"github.com/xtding233/petgacha/internal/model"
	"github.com/xtding233/petgacha/internal/savestore"
	"github.com/xtding233/petgacha/internal/session"
)

// fail maps an error to a status: caller mistakes are 4xx, the rest 500.
func (s *Server) fail(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, session.ErrBadInput),
		errors.Is(err, base.ErrUnknownKind),
		errors.Is(err, savestore.ErrBadSlot):
		status = http.StatusBadRequest
	case errors.Is(err, gacha.ErrUnknownPool),
		errors.Is(err, savestore.ErrSlotNotFound):
		status = http.StatusNotFound
	case errors.Is(err, codec.ErrMalformed),
		errors.Is(err, codec.ErrInvalid),
		errors.Is(err, savestore.ErrCorrupt):
		status = http.StatusUnprocessableEntity
	}
	if status == http.StatusInternalServerError {
		s.log.Error("request failed", zap.String("path", c.Request.URL.Path), zap.Error(err))
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

// reply writes body on OK and the outcome name otherwise: 404 for
// not_found, 409 for every other expected failure.
func reply(c *gin.Context, out model.Outcome, body any) {
	switch out {
	case model.OK:
		c.JSON(http.StatusOK, body)
	case model.NotFound:
		c.JSON(http.StatusNotFound, gin.H{"outcome": out})
	default:
		c.JSON(http.StatusConflict, gin.H{"outcome": out})
	}
}

func bind(c *gin.Context, v any) bool {
	if err := c.ShouldBindJSON(v); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return false
	}
	return true
}

type stateView struct {
	codec.Snapshot
	Monsters []combat.Monster `json:"monsters"`
}

func (s *Server) state(c *gin.Context) {
	c.JSON(http.StatusOK, stateView{Snapshot: s.sess.Snapshot(), Monsters: s.sess.Monsters()})
}

func (s *Server) setPlayer(c *gin.Context) {
	var req struct {
		Name string `json:"name" binding:"required"`
	}
	if !bind(c, &req) {
		return
	}
	if err := s.sess.SetPlayerName(req.Name); err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"playerName": s.sess.Snapshot().PlayerName})
}

func (s *Server) selectStarter(c *gin.Context) {
	cr, out, err := s.sess.SelectStarter(c.Param("id"))
	if err != nil {
		s.fail(c, err)
		return
	}
	reply(c, out, cr)
}

func (s *Server) train(c *gin.Context) {
	res, out, err := s.sess.Train(c.Param("id"))
	if err != nil {
		s.fail(c, err)
		return
	}
	reply(c, out, res)
}

func (s *Server) feed(c *gin.Context) {
	var req struct {
		Exp int `json:"exp"`
	}
	if !bind(c, &req) {
		return
	}
	res, out, err := s.sess.Feed(c.Param("id"), req.Exp)
	if err != nil {
		s.fail(c, err)
		return
	}
	reply(c, out, res)
}

func (s *Server) party(c *gin.Context) {
	c.JSON(http.StatusOK, s.sess.Party())
}

func (s *Server) summon(c *gin.Context) {
	out := s.sess.Summon(c.Param("id"))
	reply(c, out, s.sess.Party())
}

func (s *Server) dismiss(c *gin.Context) {
	out := s.sess.Dismiss(c.Param("id"))
	reply(c, out, s.sess.Party())
}

func (s *Server) pools(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"pools": s.sess.Pools()})
}

type pullView struct {
	Outcome model.Outcome `json:"outcome"`
	Stage   string        `json:"stage"`
	Natural model.Rarity  `json:"naturalRarity"`
	Rarity  model.Rarity  `json:"rarity"`
	Forced  bool          `json:"forced"`
	Pity    int           `json:"pity"`
	Card    model.Card    `json:"card"`
}

func viewPull(r gacha.Result) pullView {
	return pullView{Outcome: r.Outcome, Stage: r.Stage.String(), Natural: r.Natural, Rarity: r.Rarity, Forced: r.Forced, Pity: r.Pity, Card: r.Card}
}

func (s *Server) pull(c *gin.Context) {
	res, err := s.sess.Pull(c.Param("pool"))
	if err != nil {
		s.fail(c, err)
		return
	}
	reply(c, res.Outcome, viewPull(res))
}

func (s *Server) tenPull(c *gin.Context) {
	res, err := s.sess.TenPull(c.Param("pool"))
	if err != nil {
		s.fail(c, err)
		return
	}
	out := make([]pullView, 0, len(res))
	for _, r := range res {
		out = append(out, viewPull(r))
	}
	c.JSON(http.StatusOK, gin.H{"results": out})
}

func (s *Server) simulate(c *gin.Context) {
	trials, err := strconv.Atoi(c.DefaultQuery("trials", "10000"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "trials must be an integer"})
		return
	}
	seed, err := strconv.ParseUint(c.DefaultQuery("seed", "0"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "seed must be an unsigned integer"})
		return
	}
	res, err := s.sess.Simulate(c.Param("pool"), trials, seed)
	if err != nil {
		s.fail(c, err)
		return
	}
	freq := make(map[model.Rarity]float64, model.NumRarities)
	counts := make(map[model.Rarity]int, model.NumRarities)
	for _, r := range model.Rarities {
		freq[r] = res.Freq[r]
		counts[r] = res.Counts[r]
	}
	until := gin.H{
		"mean":   res.UntilLegendary.Mean,
		"stddev": res.UntilLegendary.StdDev,
		"p50":    res.UntilLegendary.P50,
		"p90":    res.UntilLegendary.P90,
		"p99":    res.UntilLegendary.P99,
	}
	c.JSON(http.StatusOK, gin.H{
		"trials":         res.Trials,
		"counts":         counts,
		"freq":           freq,
		"forced":         res.Forced,
		"untilLegendary": until,
	})
}

func (s *Server) place(c *gin.Context) {
	var req struct {
		Type model.StructureKind `json:"type" binding:"required"`
		X    int                 `json:"x"`
		Y    int                 `json:"y"`
	}
	if !bind(c, &req) {
		return
	}
	st, out, err := s.sess.Place(req.Type, req.X, req.Y)
	if err != nil {
		s.fail(c, err)
		return
	}
	reply(c, out, st)
}

func (s *Server) harvestStructure(c *gin.Context) {
	food, out, err := s.sess.HarvestStructure(c.Param("id"))
	if err != nil {
		s.fail(c, err)
		return
	}
	reply(c, out, gin.H{"food": food})
}

func (s *Server) assign(c *gin.Context) {
	var req struct {
		TalentID string `json:"talentId" binding:"required"`
	}
	if !bind(c, &req) {
		return
	}
	out, err := s.sess.Assign(c.Param("id"), req.TalentID)
	if err != nil {
		s.fail(c, err)
		return
	}
	reply(c, out, gin.H{"structureId": c.Param("id"), "talentId": req.TalentID})
}

func (s *Server) upgrade(c *gin.Context) {
	level, out := s.sess.UpgradeBase()
	reply(c, out, gin.H{"baseLevel": level})
}

func (s *Server) recruit(c *gin.Context) {
	t, out, err := s.sess.Recruit()
	if err != nil {
		s.fail(c, err)
		return
	}
	reply(c, out, t)
}

func (s *Server) research(c *gin.Context) {
	tick, out, err := s.sess.Research(c.Param("id"))
	if err != nil {
		s.fail(c, err)
		return
	}
	reply(c, out, gin.H{"progress": tick.Progress, "item": tick.Item})
}

func (s *Server) till(c *gin.Context) {
	var req struct {
		X int `json:"x"`
		Y int `json:"y"`
	}
	if !bind(c, &req) {
		return
	}
	cell, ok := s.sess.Till(req.X, req.Y)
	out := model.OK
	if !ok {
		out = model.Occupied
	}
	reply(c, out, cell)
}

func (s *Server) plant(c *gin.Context) {
	var cell farm.Cell
	if !bind(c, &cell) {
		return
	}
	out := s.sess.Plant(cell)
	reply(c, out, cell)
}

func (s *Server) harvestCrop(c *gin.Context) {
	var cell farm.Cell
	if !bind(c, &cell) {
		return
	}
	h, out, err := s.sess.HarvestCrop(cell)
	if err != nil {
		s.fail(c, err)
		return
	}
	reply(c, out, gin.H{"gold": h.Gold, "seeds": h.Seeds})
}

func (s *Server) hit(c *gin.Context) {
	var req struct {
		Damage int `json:"damage"`
	}
	if c.Request.ContentLength != 0 && !bind(c, &req) {
		return
	}
	h, out, err := s.sess.Hit(c.Param("id"), req.Damage)
	if err != nil {
		s.fail(c, err)
		return
	}
	reply(c, out, gin.H{"monster": h.Monster, "killed": h.Killed, "gold": h.Gold})
}

func (s *Server) tick(c *gin.Context) {
	var req struct {
		Millis int64 `json:"ms"`
	}
	if !bind(c, &req) {
		return
	}
	if req.Millis < 0 || req.Millis > session.MaxTick.Milliseconds() {
		s.fail(c, fmt.Errorf("%w: ms must be in [0, %d]", session.ErrBadInput, session.MaxTick.Milliseconds()))
		return
	}
	spawned, err := s.sess.Tick(time.Duration(req.Millis) * time.Millisecond)
	if err != nil {
		s.fail(c, err)
		return
	}
	if spawned == nil {
		spawned = []combat.Monster{}
	}
	c.JSON(http.StatusOK, gin.H{"spawned": spawned})
}

func (s *Server) day(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"day": s.sess.AdvanceDay()})
}

func (s *Server) listSaves(c *gin.Context) {
	list, err := s.saves.List(c.Request.Context())
	if err != nil {
		s.fail(c, err)
		return
	}
	if list == nil {
		list = []savestore.Info{}
	}
	c.JSON(http.StatusOK, gin.H{"saves": list})
}

func (s *Server) save(c *gin.Context) {
	info, err := s.sess.SaveTo(c.Request.Context(), s.saves, c.Param("slot"))
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, info)
}

func (s *Server) load(c *gin.Context) {
	if err := s.sess.LoadFrom(c.Request.Context(), s.saves, c.Param("slot")); err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, stateView{Snapshot: s.sess.Snapshot(), Monsters: s.sess.Monsters()})
}
