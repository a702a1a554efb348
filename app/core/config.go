package core

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

func MustLoadBaseConfig(path string) CoreConfig {
	if path == "" {
		return LoadBaseConfigFromENV()
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	conf := &CoreConfig{}
	if err = toml.Unmarshal(raw, conf); err != nil {
		panic(err)
	}
	conf.ApplyDefaults()

	return *conf
}

func LoadBaseConfigFromENV() CoreConfig {
	var c CoreConfig
	c.FromENV()
	c.ApplyDefaults()
	return c
}

type CoreConfig struct {
	Addr     string      `toml:"addr"`
	Log      Log         `toml:"log"`
	Postgres PGConfig    `toml:"postgres"`
	Redis    RedisConfig `toml:"redis"`

	Galaxy GalaxyConfig `toml:"galaxy"`
	Sync   SyncConfig   `toml:"sync"`
	Sales  SalesConfig  `toml:"sales"`
}

func (c *CoreConfig) FromENV() {
	c.Addr = os.Getenv("SWGWATCH_SERVICE_ADDRESS")
	c.Log.FromENV()
	c.Postgres.FromENV()
	c.Redis.FromENV()
	c.Galaxy.FromENV()
}

func (c *CoreConfig) ApplyDefaults() {
	if c.Addr == "" {
		c.Addr = ":8080"
	}
	c.Galaxy.ApplyDefaults()
	c.Sync.ApplyDefaults()
	c.Sales.ApplyDefaults()
}

type PGConfig struct {
	DSN string `toml:"dsn"`
}

func (m *PGConfig) FromENV() {
	m.DSN = os.Getenv("SWGWATCH_POSTGRESQL_DSN")
}

func (c PGConfig) FormatDSN() string {
	return c.DSN
}

type RedisConfig struct {
	Addr      string `toml:"addr"`
	Password  string `toml:"password"`
	DB        int    `toml:"db"`
	KeyPrefix string `toml:"key_prefix"`
}

func (r *RedisConfig) FromENV() {
	r.Addr = os.Getenv("SWGWATCH_REDIS_ADDR")
	r.Password = os.Getenv("SWGWATCH_REDIS_PASSWORD")
	if db := os.Getenv("SWGWATCH_REDIS_DB"); db != "" {
		r.DB, _ = strconv.Atoi(db)
	}
}

// GalaxyConfig points at the upstream feed exports and the enrichment
// endpoint.
type GalaxyConfig struct {
	CurrentResourcesURL string `toml:"current_resources_url"`
	ResourceTreeURL     string `toml:"resource_tree_url"`
	SOAPEndpoint        string `toml:"soap_endpoint"`
	RequestsPerMinute   int    `toml:"requests_per_minute"`
	FetchTimeoutSeconds int    `toml:"fetch_timeout_seconds"`
}

func (g *GalaxyConfig) FromENV() {
	g.CurrentResourcesURL = os.Getenv("SWGWATCH_CURRENT_RESOURCES_URL")
	g.ResourceTreeURL = os.Getenv("SWGWATCH_RESOURCE_TREE_URL")
	g.SOAPEndpoint = os.Getenv("SWGWATCH_SOAP_ENDPOINT")
}

func (g *GalaxyConfig) ApplyDefaults() {
	if g.RequestsPerMinute <= 0 {
		g.RequestsPerMinute = 30
	}
	if g.FetchTimeoutSeconds <= 0 {
		g.FetchTimeoutSeconds = 30
	}
}

func (g GalaxyConfig) FetchTimeout() time.Duration {
	return time.Duration(g.FetchTimeoutSeconds) * time.Second
}

// SyncConfig holds the freshness and throttle windows. Staleness inside a
// window is an accepted trade-off, not a bug.
type SyncConfig struct {
	SpawnTTLHours         int `toml:"spawn_ttl_hours"`
	TreeTTLHours          int `toml:"tree_ttl_hours"`
	SchematicTTLHours     int `toml:"schematic_ttl_hours"`
	EnrichThrottleMinutes int `toml:"enrich_throttle_minutes"`
	EnrichAttemptMinutes  int `toml:"enrich_attempt_minutes"`
	// LikelyDespawnedDays caps how old an enrichment-created resource may
	// be and still be flagged as spawned. A heuristic inherited from the
	// upstream data, kept configurable on purpose.
	LikelyDespawnedDays int `toml:"likely_despawned_days"`
}

func (s *SyncConfig) ApplyDefaults() {
	if s.SpawnTTLHours <= 0 {
		s.SpawnTTLHours = 6
	}
	if s.TreeTTLHours <= 0 {
		s.TreeTTLHours = 24
	}
	if s.SchematicTTLHours <= 0 {
		s.SchematicTTLHours = 24
	}
	if s.EnrichThrottleMinutes <= 0 {
		s.EnrichThrottleMinutes = 60
	}
	if s.EnrichAttemptMinutes <= 0 {
		s.EnrichAttemptMinutes = 30
	}
	if s.LikelyDespawnedDays <= 0 {
		s.LikelyDespawnedDays = 180
	}
}

func (s SyncConfig) SpawnTTL() time.Duration {
	return time.Duration(s.SpawnTTLHours) * time.Hour
}

func (s SyncConfig) TreeTTL() time.Duration {
	return time.Duration(s.TreeTTLHours) * time.Hour
}

func (s SyncConfig) SchematicTTL() time.Duration {
	return time.Duration(s.SchematicTTLHours) * time.Hour
}

func (s SyncConfig) EnrichThrottle() time.Duration {
	return time.Duration(s.EnrichThrottleMinutes) * time.Minute
}

func (s SyncConfig) EnrichAttemptWindow() time.Duration {
	return time.Duration(s.EnrichAttemptMinutes) * time.Minute
}

func (s SyncConfig) LikelyDespawnedAge() time.Duration {
	return time.Duration(s.LikelyDespawnedDays) * 24 * time.Hour
}

// SalesConfig identifies sale-notification mails in the archive.
type SalesConfig struct {
	Sender      string `toml:"sender"`
	SubjectLike string `toml:"subject_like"`
	BatchSize   int    `toml:"batch_size"`
}

func (s *SalesConfig) ApplyDefaults() {
	if s.Sender == "" {
		s.Sender = "SWG.ANH.auctioner"
	}
	if s.SubjectLike == "" {
		s.SubjectLike = "%Sale Complete%"
	}
	if s.BatchSize <= 0 {
		s.BatchSize = 500
	}
}

type Log struct {
	Level string `toml:"level"`
	Path  string `toml:"path"`
}

func (l *Log) FromENV() {
	l.Level = os.Getenv("SWGWATCH_LOG_LEVEL")
	l.Path = os.Getenv("SWGWATCH_LOG_PATH")
}

func (l *Log) SlogLevel() slog.Level {
	switch strings.ToLower(l.Level) {
	case "info":
		return slog.LevelInfo
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
