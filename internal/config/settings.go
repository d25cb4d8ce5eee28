package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// GridSettings describes the playfield.
type GridSettings struct {
	Width    int     `mapstructure:"width"`
	Height   int     `mapstructure:"height"`
	TileSize float64 `mapstructure:"tileSize"`
	BasePath bool    `mapstructure:"basePath"`
}

type PlayerSettings struct {
	Lives             int `mapstructure:"lives"`
	Gold              int `mapstructure:"gold"`
	MaxTowersPerRound int `mapstructure:"maxTowersPerRound"`
}

// DefsSettings points at optional JSON overrides for the static tables.
type DefsSettings struct {
	TowersFile  string `mapstructure:"towersFile"`
	EnemiesFile string `mapstructure:"enemiesFile"`
}

// StorageSettings selects the save backend: file, sqlite or postgres.
type StorageSettings struct {
	Driver string `mapstructure:"driver"`
	Path   string `mapstructure:"path"`
	DSN    string `mapstructure:"dsn"`
}

type HTTPSettings struct {
	Addr              string   `mapstructure:"addr"`
	SnapshotHz        float64  `mapstructure:"snapshotHz"`
	RequestsPerSecond float64  `mapstructure:"requestsPerSecond"`
	Burst             int      `mapstructure:"burst"`
	CORSOrigins       []string `mapstructure:"corsOrigins"`
}

// Settings is the runtime configuration shared by every command.
type Settings struct {
	LogLevel  string          `mapstructure:"logLevel"`
	LogPretty bool            `mapstructure:"logPretty"`
	Seed      int64           `mapstructure:"seed"`
	Grid      GridSettings    `mapstructure:"grid"`
	Player    PlayerSettings  `mapstructure:"player"`
	Defs      DefsSettings    `mapstructure:"defs"`
	Storage   StorageSettings `mapstructure:"storage"`
	HTTP      HTTPSettings    `mapstructure:"http"`
}

func setDefaults() {
	viper.SetDefault("logLevel", "info")
	viper.SetDefault("logPretty", true)
	viper.SetDefault("seed", 0)

	viper.SetDefault("grid.width", GridWidth)
	viper.SetDefault("grid.height", GridHeight)
	viper.SetDefault("grid.tileSize", TileSize)
	viper.SetDefault("grid.basePath", false)

	viper.SetDefault("player.lives", StartingLives)
	viper.SetDefault("player.gold", StartingGold)
	viper.SetDefault("player.maxTowersPerRound", MaxTowersPerRound)

	viper.SetDefault("defs.towersFile", "")
	viper.SetDefault("defs.enemiesFile", "")

	viper.SetDefault("storage.driver", "file")
	viper.SetDefault("storage.path", "./saves")
	viper.SetDefault("storage.dsn", "")

	viper.SetDefault("http.addr", ":8080")
	viper.SetDefault("http.snapshotHz", 10.0)
	viper.SetDefault("http.requestsPerSecond", 10.0)
	viper.SetDefault("http.burst", 20)
	viper.SetDefault("http.corsOrigins", []string{"http://localhost:*", "http://127.0.0.1:*"})
}

// Load reads gearspire.{json,yaml,toml} from configDir on top of the defaults.
// A missing file is fine; GEARSPIRE_* environment variables override both.
func Load(configDir string) (*Settings, error) {
	setDefaults()

	viper.SetConfigName("gearspire")
	viper.AddConfigPath(configDir)
	viper.SetEnvPrefix("GEARSPIRE")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var s Settings
	if err := viper.Unmarshal(&s); err != nil {
		return nil, fmt.Errorf("error decoding config: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Validate rejects settings the simulation cannot run with.
func (s *Settings) Validate() error {
	if s.Grid.Width < 3 || s.Grid.Height < 1 {
		return fmt.Errorf("grid %dx%d is too small", s.Grid.Width, s.Grid.Height)
	}
	if s.Grid.TileSize <= 0 {
		return fmt.Errorf("tile size must be positive, got %v", s.Grid.TileSize)
	}
	if s.Player.Gold < 0 {
		return fmt.Errorf("player.gold must not be negative, got %d", s.Player.Gold)
	}
	if s.Player.Lives <= 0 {
		return fmt.Errorf("player.lives must be positive, got %d", s.Player.Lives)
	}
	switch s.Storage.Driver {
	case "file", "sqlite", "postgres":
	default:
		return fmt.Errorf("unknown storage driver %q", s.Storage.Driver)
	}
	return nil
}

// Default returns the built-in settings without touching viper.
func Default() *Settings {
	return &Settings{
		LogLevel:  "info",
		LogPretty: true,
		Grid:      GridSettings{Width: GridWidth, Height: GridHeight, TileSize: TileSize},
		Player:    PlayerSettings{Lives: StartingLives, Gold: StartingGold, MaxTowersPerRound: MaxTowersPerRound},
		Storage:   StorageSettings{Driver: "file", Path: "./saves"},
		HTTP: HTTPSettings{
			Addr:              ":8080",
			SnapshotHz:        10,
			RequestsPerSecond: 10,
			Burst:             20,
		},
	}
}
