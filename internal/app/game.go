// internal/app/game.go
package app

import (
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"gearspire/internal/config"
	"gearspire/internal/defs"
	"gearspire/internal/entity"
	"gearspire/internal/event"
	"gearspire/internal/system"
	"gearspire/internal/utils"
	"gearspire/pkg/gridmap"
)

// Options — параметры новой партии
type Options struct {
	Width             int
	Height            int
	TileSize          float64
	BasePath          bool
	Lives             int
	Gold              int
	MaxTowersPerRound int
	Seed              int64
}

// DefaultOptions matches the built-in settings.
func DefaultOptions() Options {
	return OptionsFromSettings(config.Default())
}

func OptionsFromSettings(s *config.Settings) Options {
	return Options{
		Width:             s.Grid.Width,
		Height:            s.Grid.Height,
		TileSize:          s.Grid.TileSize,
		BasePath:          s.Grid.BasePath,
		Lives:             s.Player.Lives,
		Gold:              s.Player.Gold,
		MaxTowersPerRound: s.Player.MaxTowersPerRound,
		Seed:              s.Seed,
	}
}

// Game holds the simulation core and the player's state.
// It is not safe for concurrent use; see Runner.
type Game struct {
	Grid             *gridmap.Grid
	World            *entity.World
	EventDispatcher  *event.Dispatcher
	Rng              *utils.PRNGService
	WaveSystem       *system.WaveSystem
	CombatSystem     *system.CombatSystem
	ProjectileSystem *system.ProjectileSystem
	KillTracker      *system.KillTracker

	// SessionID identifies this playthrough across saves.
	SessionID string

	Lives int
	Gold  int
	Score int

	opts         Options
	log          zerolog.Logger
	towersPlaced int
	spawnWeights defs.SpawnWeights
	paused       bool
	gameOver     bool
}

// NewGame initializes a new game instance.
func NewGame(opts Options, log zerolog.Logger) *Game {
	if opts.MaxTowersPerRound <= 0 {
		opts.MaxTowersPerRound = config.MaxTowersPerRound
	}
	if opts.Lives <= 0 {
		opts.Lives = config.StartingLives
	}

	grid := gridmap.NewGrid(opts.Width, opts.Height, opts.TileSize)
	if opts.BasePath {
		grid.GenerateBasePath()
	}
	world := entity.NewWorld()
	dispatcher := event.NewDispatcher()
	rng := utils.NewPRNGService(opts.Seed)

	g := &Game{
		Grid:            grid,
		World:           world,
		EventDispatcher: dispatcher,
		Rng:             rng,
		SessionID:       uuid.NewString(),
		Lives:           opts.Lives,
		Gold:            opts.Gold,
		opts:            opts,
		log:             log.With().Str("component", "game").Logger(),
		spawnWeights:    defs.DefaultSpawnWeights(),
	}
	g.WaveSystem = system.NewWaveSystem(world, grid, dispatcher, g, rng, log)
	g.CombatSystem = system.NewCombatSystem(world, grid.TileSize, rng, log)
	g.ProjectileSystem = system.NewProjectileSystem(world, log)
	g.KillTracker = system.NewKillTracker(world, dispatcher, log)

	g.log.Info().
		Int("width", grid.Width).
		Int("height", grid.Height).
		Int64("seed", rng.Seed()).
		Msg("new game")
	return g
}

// Update progresses the simulation by one tick:
// waves and creeps, then towers, then projectiles.
func (g *Game) Update() {
	if g.paused || g.gameOver {
		return
	}
	g.World.Tick++
	g.WaveSystem.Update()
	g.CombatSystem.Update()
	g.ProjectileSystem.Update()

	if g.Lives <= 0 {
		g.endGame()
	}
}

func (g *Game) endGame() {
	if g.gameOver {
		return
	}
	g.gameOver = true
	g.log.Info().Int("score", g.Score).Int("wave", g.WaveSystem.CurrentWave()).Msg("game over")
	g.EventDispatcher.Dispatch(event.Event{
		Type: event.GameOver,
		Data: event.GameOverData{Score: g.Score, Wave: g.WaveSystem.CurrentWave()},
	})
}

// StartWave begins the next enemy wave.
func (g *Game) StartWave() bool {
	if g.gameOver {
		return false
	}
	return g.WaveSystem.StartWave()
}

// Restart wipes the board and the player's state. Subscribers stay attached.
func (g *Game) Restart() {
	g.Grid.Reset()
	if g.opts.BasePath {
		g.Grid.GenerateBasePath()
	}
	g.World.Towers = nil
	g.World.Tick = 0
	g.WaveSystem.Reset()
	g.SessionID = uuid.NewString()
	g.Lives = g.opts.Lives
	g.Gold = g.opts.Gold
	g.Score = 0
	g.towersPlaced = 0
	g.paused = false
	g.gameOver = false
	g.log.Info().Msg("restart")
}

func (g *Game) SetPaused(p bool) { g.paused = p }
func (g *Game) Paused() bool     { return g.paused }
func (g *Game) IsGameOver() bool { return g.gameOver }

// --- system.PlayerSink ---

func (g *Game) AddGold(amount int)  { g.Gold += amount }
func (g *Game) AddScore(amount int) { g.Score += amount }

func (g *Game) LoseLife() int {
	g.Lives = max(0, g.Lives-1)
	return g.Lives
}

// ResetRound разрешает снова строить после окончания волны.
func (g *Game) ResetRound() {
	g.towersPlaced = 0
}
