package observability

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

// LogHooks implements every hook interface by writing debug lines to a
// charmbracelet logger.
type LogHooks struct {
	logger *log.Logger
}

// NewLogHooks returns hooks that log to logger, or to log.Default when
// logger is nil.
func NewLogHooks(logger *log.Logger) *LogHooks {
	if logger == nil {
		logger = log.Default()
	}
	return &LogHooks{logger: logger.WithPrefix("trace")}
}

// Install registers h for pipeline, catalog and cache events.
func (h *LogHooks) Install() {
	SetPipelineHooks(h)
	SetCatalogHooks(h)
	SetCacheHooks(h)
}

func (h *LogHooks) OnStageStart(_ context.Context, stage Stage) {
	h.logger.Debug("stage start", "stage", stage)
}

func (h *LogHooks) OnStageComplete(_ context.Context, stage Stage, count int, d time.Duration, err error) {
	if err != nil {
		h.logger.Debug("stage failed", "stage", stage, "duration", d, "err", err)
		return
	}
	h.logger.Debug("stage done", "stage", stage, "count", count, "duration", d)
}

func (h *LogHooks) OnCatalogRead(_ context.Context, provider string, stars int, d time.Duration, err error) {
	if err != nil {
		h.logger.Debug("catalog read failed", "provider", provider, "duration", d, "err", err)
		return
	}
	h.logger.Debug("catalog read", "provider", provider, "stars", stars, "duration", d)
}

func (h *LogHooks) OnCatalogLookup(_ context.Context, provider string, found bool, d time.Duration) {
	h.logger.Debug("catalog lookup", "provider", provider, "found", found, "duration", d)
}

func (h *LogHooks) OnCacheHit(_ context.Context, keyType string) {
	h.logger.Debug("cache hit", "type", keyType)
}

func (h *LogHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.logger.Debug("cache miss", "type", keyType)
}

func (h *LogHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.logger.Debug("cache set", "type", keyType, "bytes", size)
}

var (
	_ PipelineHooks = (*LogHooks)(nil)
	_ CatalogHooks  = (*LogHooks)(nil)
	_ CacheHooks    = (*LogHooks)(nil)
)
