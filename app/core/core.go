package core

import (
	"io"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/swgwatch/swgwatch/app/store"
	"github.com/swgwatch/swgwatch/app/store/sqlstore"
	"github.com/swgwatch/swgwatch/pkg/cache"
	"github.com/swgwatch/swgwatch/pkg/galaxy"
	"github.com/swgwatch/swgwatch/pkg/types"
)

type Core struct {
	cfg CoreConfig

	stores     store.Provider
	httpClient *http.Client
	httpEngine *gin.Engine

	cache   types.Cache
	fetcher *galaxy.Fetcher
	rpc     galaxy.ResourceLookup

	metrics *Metrics
}

func MustSetupCore(cfg CoreConfig) *Core {
	{
		var writer io.Writer = os.Stdout
		if cfg.Log.Path != "" {
			writer = &lumberjack.Logger{
				Filename:   cfg.Log.Path,
				MaxSize:    500, // megabytes
				MaxBackups: 3,
				MaxAge:     28, // days
				Compress:   true,
			}
		}
		l := slog.New(slog.NewJSONHandler(writer, &slog.HandlerOptions{
			Level: cfg.Log.SlogLevel(),
		}))
		slog.SetDefault(l)
	}

	core := &Core{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: time.Second * 3},
		httpEngine: gin.New(),
		metrics:    NewMetrics("swgwatch", "core"),
		fetcher:    galaxy.NewFetcher(cfg.Galaxy.FetchTimeout()),
		rpc:        galaxy.NewClient(cfg.Galaxy.SOAPEndpoint, cfg.Galaxy.RequestsPerMinute, cfg.Galaxy.FetchTimeout()),
	}

	if cfg.Redis.Addr != "" {
		core.cache = cache.NewRedis(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, cfg.Redis.KeyPrefix)
	} else {
		core.cache = cache.NewMemory()
	}

	setupSqlStore(core)

	return core
}

// New assembles a core around an injected store provider. No database or
// network setup happens here, which is what engine tests need.
func New(cfg CoreConfig, provider store.Provider) *Core {
	cfg.ApplyDefaults()
	return &Core{
		cfg:        cfg,
		stores:     provider,
		httpClient: &http.Client{Timeout: time.Second * 3},
		httpEngine: gin.New(),
		metrics:    NewMetrics("swgwatch", "test"),
		cache:      cache.NewMemory(),
	}
}

func setupSqlStore(core *Core) {
	stores := sqlstore.MustSetup(core.cfg.Postgres)
	if err := stores().Install(); err != nil {
		panic(err)
	}
	core.stores = stores()
}

func (s *Core) Cfg() CoreConfig {
	return s.cfg
}

func (s *Core) Store() store.Provider {
	return s.stores
}

func (s *Core) HttpEngine() *gin.Engine {
	return s.httpEngine
}

func (s *Core) HttpClient() *http.Client {
	return s.httpClient
}

func (s *Core) Metrics() *Metrics {
	return s.metrics
}

func (s *Core) Cache() types.Cache {
	return s.cache
}

func (s *Core) Fetcher() *galaxy.Fetcher {
	return s.fetcher
}

func (s *Core) GalaxyRPC() galaxy.ResourceLookup {
	return s.rpc
}

// SetGalaxyRPC swaps the enrichment client, used by tests and by commands
// that target a non-default endpoint.
func (s *Core) SetGalaxyRPC(rpc galaxy.ResourceLookup) {
	s.rpc = rpc
}

// SetFetcher swaps the feed fetcher.
func (s *Core) SetFetcher(f *galaxy.Fetcher) {
	s.fetcher = f
}
