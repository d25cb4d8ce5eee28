// internal/api/handlers.go
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"gearspire/internal/app"
	"gearspire/internal/defs"
	"gearspire/internal/interfaces"
	"gearspire/internal/save"
	"gearspire/internal/storage"
	"gearspire/internal/types"
)

const commandTimeout = 2 * time.Second

type handlers struct {
	runner interfaces.GameRunner
	store  storage.Store
	log    zerolog.Logger
}

type cellRequest struct {
	X    *int           `json:"x"`
	Y    *int           `json:"y"`
	Kind defs.TowerKind `json:"kind,omitempty"`
}

type targetingRequest struct {
	Mode defs.TargetingMode `json:"mode"`
}

type combineRequest struct {
	IDs []types.EntityID `json:"ids"`
}

type pauseRequest struct {
	Paused bool `json:"paused"`
}

// do runs cmd on the simulation goroutine with a bounded wait.
func (h *handlers) do(r *http.Request, cmd app.Command) (any, error) {
	ctx, cancel := context.WithTimeout(r.Context(), commandTimeout)
	defer cancel()
	return h.runner.Do(ctx, cmd)
}

func (h *handlers) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]string{"status": "ok"})
}

func (h *handlers) handleState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.runner.Snapshot())
}

func (h *handlers) handlePause(w http.ResponseWriter, r *http.Request) {
	var req pauseRequest
	if !decode(w, r, &req) {
		return
	}
	_, err := h.do(r, func(g *app.Game) (any, error) {
		g.SetPaused(req.Paused)
		return nil, nil
	})
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, map[string]bool{"paused": req.Paused})
}

func (h *handlers) handleRestart(w http.ResponseWriter, r *http.Request) {
	_, err := h.do(r, func(g *app.Game) (any, error) {
		g.Restart()
		return nil, nil
	})
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, h.runner.Snapshot())
}

func (h *handlers) handleNextWave(w http.ResponseWriter, r *http.Request) {
	v, err := h.do(r, func(g *app.Game) (any, error) {
		return g.WaveSystem.NextWaveInfo(), nil
	})
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, v)
}

func (h *handlers) handleStartWave(w http.ResponseWriter, r *http.Request) {
	v, err := h.do(r, func(g *app.Game) (any, error) {
		if !g.StartWave() {
			return nil, errWaveBusy
		}
		return map[string]int{"wave": g.WaveSystem.CurrentWave()}, nil
	})
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, v)
}

func (h *handlers) handlePlaceTower(w http.ResponseWriter, r *http.Request) {
	var req cellRequest
	if !decode(w, r, &req) {
		return
	}
	if req.X == nil || req.Y == nil {
		writeError(w, "x and y are required", http.StatusBadRequest)
		return
	}
	if req.Kind != "" && !defs.KnownTower(req.Kind) {
		writeError(w, "unknown tower kind: "+string(req.Kind), http.StatusBadRequest)
		return
	}
	v, err := h.do(r, func(g *app.Game) (any, error) {
		t, err := g.PlaceTower(*req.X, *req.Y, req.Kind)
		if err != nil {
			return nil, err
		}
		return map[string]any{"id": t.ID, "kind": t.Kind}, nil
	})
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSONStatus(w, v, http.StatusCreated)
}

func (h *handlers) handleSellTower(w http.ResponseWriter, r *http.Request) {
	id, ok := towerID(w, r)
	if !ok {
		return
	}
	v, err := h.do(r, func(g *app.Game) (any, error) {
		refund, err := g.SellTower(id)
		if err != nil {
			return nil, err
		}
		return map[string]int{"refund": refund, "gold": g.Gold}, nil
	})
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, v)
}

func (h *handlers) handleUpgradeTower(w http.ResponseWriter, r *http.Request) {
	id, ok := towerID(w, r)
	if !ok {
		return
	}
	v, err := h.do(r, func(g *app.Game) (any, error) {
		if err := g.UpgradeTower(id); err != nil {
			return nil, err
		}
		t := g.World.Tower(id)
		return map[string]int{"level": t.Level, "gold": g.Gold}, nil
	})
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, v)
}

func (h *handlers) handleTargeting(w http.ResponseWriter, r *http.Request) {
	id, ok := towerID(w, r)
	if !ok {
		return
	}
	var req targetingRequest
	if !decode(w, r, &req) {
		return
	}
	_, err := h.do(r, func(g *app.Game) (any, error) {
		return nil, g.SetTargetingMode(id, req.Mode)
	})
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, map[string]defs.TargetingMode{"mode": req.Mode})
}

func (h *handlers) handleCombine(w http.ResponseWriter, r *http.Request) {
	var req combineRequest
	if !decode(w, r, &req) {
		return
	}
	v, err := h.do(r, func(g *app.Game) (any, error) {
		t, err := g.CombineTowers(req.IDs)
		if err != nil {
			return nil, err
		}
		return map[string]any{"id": t.ID, "tier": t.Tier, "damage": t.Damage}, nil
	})
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, v)
}

func (h *handlers) handlePlaceCrate(w http.ResponseWriter, r *http.Request) {
	var req cellRequest
	if !decode(w, r, &req) {
		return
	}
	if req.X == nil || req.Y == nil {
		writeError(w, "x and y are required", http.StatusBadRequest)
		return
	}
	_, err := h.do(r, func(g *app.Game) (any, error) {
		return nil, g.PlaceCrate(*req.X, *req.Y)
	})
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSONStatus(w, map[string]int{"x": *req.X, "y": *req.Y}, http.StatusCreated)
}

func (h *handlers) handleRemoveCrate(w http.ResponseWriter, r *http.Request) {
	x, errX := strconv.Atoi(chi.URLParam(r, "x"))
	y, errY := strconv.Atoi(chi.URLParam(r, "y"))
	if errX != nil || errY != nil {
		writeError(w, "invalid cell", http.StatusBadRequest)
		return
	}
	_, err := h.do(r, func(g *app.Game) (any, error) {
		return nil, g.RemoveCrate(x, y)
	})
	if err != nil {
		h.fail(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *handlers) handleGetWeights(w http.ResponseWriter, r *http.Request) {
	v, err := h.do(r, func(g *app.Game) (any, error) {
		return g.SpawnWeights(), nil
	})
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, v)
}

func (h *handlers) handleSetWeights(w http.ResponseWriter, r *http.Request) {
	var weights defs.SpawnWeights
	if !decode(w, r, &weights) {
		return
	}
	if err := weights.Validate(); err != nil {
		writeError(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}
	_, err := h.do(r, func(g *app.Game) (any, error) {
		return nil, g.SetSpawnWeights(weights)
	})
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, weights)
}

func (h *handlers) handleListSaves(w http.ResponseWriter, r *http.Request) {
	list, err := h.store.List(r.Context())
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, list)
}

func (h *handlers) handleSave(w http.ResponseWriter, r *http.Request) {
	slot := chi.URLParam(r, "slot")
	ctx, cancel := context.WithTimeout(r.Context(), commandTimeout)
	defer cancel()
	st, err := SaveGame(ctx, h.runner, h.store, slot)
	if err != nil {
		h.fail(w, err)
		return
	}
	h.log.Info().Str("slot", slot).Int("wave", st.Wave.Current).Msg("game saved")
	writeJSON(w, map[string]any{"slot": slot, "savedAt": st.SavedAt})
}

func (h *handlers) handleLoad(w http.ResponseWriter, r *http.Request) {
	slot := chi.URLParam(r, "slot")
	ctx, cancel := context.WithTimeout(r.Context(), commandTimeout)
	defer cancel()
	if err := LoadGame(ctx, h.runner, h.store, slot); err != nil {
		h.fail(w, err)
		return
	}
	h.log.Info().Str("slot", slot).Msg("game loaded")
	writeJSON(w, h.runner.Snapshot())
}

func (h *handlers) handleDeleteSave(w http.ResponseWriter, r *http.Request) {
	if err := h.store.Delete(r.Context(), chi.URLParam(r, "slot")); err != nil {
		h.fail(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

var errWaveBusy = errors.New("a wave is already in progress")

// statusFor maps domain errors onto HTTP codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, app.ErrTowerNotFound), errors.Is(err, storage.ErrNotFound), errors.Is(err, app.ErrNoCrate):
		return http.StatusNotFound
	case errors.Is(err, app.ErrInvalidMode), errors.Is(err, app.ErrInvalidFusion), errors.Is(err, storage.ErrInvalidSlot):
		return http.StatusBadRequest
	case errors.Is(err, app.ErrNotEnoughGold):
		return http.StatusPaymentRequired
	case errors.Is(err, app.ErrRoundLimit), errors.Is(err, app.ErrInvalidPlacement),
		errors.Is(err, app.ErrMaxLevel), errors.Is(err, app.ErrGameOver), errors.Is(err, errWaveBusy):
		return http.StatusConflict
	case errors.Is(err, save.ErrUnsupportedVersion), errors.Is(err, app.ErrGridMismatch):
		return http.StatusUnprocessableEntity
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, app.ErrRunnerStopped):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func (h *handlers) fail(w http.ResponseWriter, err error) {
	code := statusFor(err)
	if code >= http.StatusInternalServerError {
		h.log.Error().Err(err).Msg("request failed")
	}
	writeError(w, err.Error(), code)
}

func towerID(w http.ResponseWriter, r *http.Request) (types.EntityID, bool) {
	id, err := strconv.ParseUint(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id == 0 {
		writeError(w, "invalid tower id", http.StatusBadRequest)
		return 0, false
	}
	return types.EntityID(id), true
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<16)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, "invalid request body", http.StatusBadRequest)
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, data any) {
	writeJSONStatus(w, data, http.StatusOK)
}

func writeJSONStatus(w http.ResponseWriter, data any, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, message string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
