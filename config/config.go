package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config es la configuración completa de la aplicación. Se construye una
// vez al arrancar y se pasa por valor a los constructores: ningún
// componente lee estado global.
type Config struct {
	Parser  ParserConfig  `yaml:"parser"`
	Sports  SportsConfig  `yaml:"sports"`
	Markets MarketsConfig `yaml:"markets"`
	API     APIConfig     `yaml:"api"`
	Storage StorageConfig `yaml:"storage"`
	Log     LogConfig     `yaml:"log"`

	// Credentials viene solo del entorno (.env), nunca del YAML.
	Credentials Credentials `yaml:"-"`
}

// ParserConfig controla el reconocimiento de entidades.
type ParserConfig struct {
	FuzzyThreshold int      `yaml:"fuzzy_threshold"`
	FillerWords    []string `yaml:"filler_words"`
	SportKeywords  []string `yaml:"sport_keywords"`
	DefaultMarket  string   `yaml:"default_market"`
}

// SportsConfig mapea deportes a ids del exchange y mercados por defecto.
type SportsConfig struct {
	EventTypeIDs   map[string]string `yaml:"event_type_ids"`
	DefaultMarkets map[string]string `yaml:"default_markets"`
}

// MarketsConfig contiene la tabla nombre de mercado → códigos de tipo.
type MarketsConfig struct {
	NameToTypes map[string][]string `yaml:"name_to_types"`
}

// APIConfig contiene los base URLs del exchange.
type APIConfig struct {
	IdentityBase string `yaml:"identity_base"`
	BettingBase  string `yaml:"betting_base"`
}

// StorageConfig controla dónde se persiste el directorio de entidades.
type StorageConfig struct {
	DSN string `yaml:"dsn"` // ruta al archivo SQLite, o ":memory:"
}

// LogConfig controla el formato y nivel de logging.
type LogConfig struct {
	Level  string `yaml:"level"`  // debug | info | warn | error
	Format string `yaml:"format"` // text | json
}

// Credentials son las credenciales del exchange.
type Credentials struct {
	AppKey   string
	Username string
	Password string
}

// Load carga la configuración desde el archivo YAML y el .env si existe.
// Las credenciales y los overrides de logging vienen del entorno.
func Load(path string) (*Config, error) {
	// Cargar .env si existe (silencia error si no hay archivo)
	_ = godotenv.Load()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config.Load: read %q: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config.Load: parse YAML: %w", err)
	}

	applyEnvOverrides(&cfg)
	setDefaults(&cfg)

	return &cfg, nil
}

// applyEnvOverrides sobreescribe valores con variables de entorno si están presentes.
func applyEnvOverrides(cfg *Config) {
	cfg.Credentials.AppKey = os.Getenv("BETFAIR_APP_KEY")
	cfg.Credentials.Username = os.Getenv("BETFAIR_USERNAME")
	cfg.Credentials.Password = os.Getenv("BETFAIR_PASSWORD")

	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("LOG_FORMAT"); v != "" {
		cfg.Log.Format = v
	}
}

// setDefaults asegura que los valores requeridos tengan valores sensatos.
func setDefaults(cfg *Config) {
	if cfg.Parser.FuzzyThreshold <= 0 {
		cfg.Parser.FuzzyThreshold = 80
	}
	if len(cfg.Parser.FillerWords) == 0 {
		cfg.Parser.FillerWords = []string{"and", "or", "the", "a", "an", "v"}
	}
	if len(cfg.Parser.SportKeywords) == 0 {
		cfg.Parser.SportKeywords = []string{"nfl", "nba", "nhl", "football", "soccer"}
	}
	if cfg.Parser.DefaultMarket == "" {
		cfg.Parser.DefaultMarket = "match odds"
	}
	if len(cfg.Sports.EventTypeIDs) == 0 {
		cfg.Sports.EventTypeIDs = map[string]string{
			"football": "1",
			"nba":      "7522",
			"nfl":      "6423",
			"nhl":      "7524",
		}
	}
	if len(cfg.Sports.DefaultMarkets) == 0 {
		cfg.Sports.DefaultMarkets = map[string]string{
			"football": "match odds",
			"nba":      "moneyline_nba",
			"nfl":      "moneyline_nfl",
			"nhl":      "moneyline_nhl",
		}
	}
	if len(cfg.Markets.NameToTypes) == 0 {
		cfg.Markets.NameToTypes = map[string][]string{
			"match odds": {"MATCH_ODDS"},
		}
	}
	if cfg.API.IdentityBase == "" {
		cfg.API.IdentityBase = "https://identitysso.betfair.com"
	}
	if cfg.API.BettingBase == "" {
		cfg.API.BettingBase = "https://api.betfair.com/exchange/betting/rest/v1.0"
	}
	if cfg.Storage.DSN == "" {
		cfg.Storage.DSN = "valuebet.db"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "text"
	}
}
