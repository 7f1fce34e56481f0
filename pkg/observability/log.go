package observability

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

// LogHooks writes every hook event to a logger at debug level. It
// implements all hook interfaces.
type LogHooks struct {
	logger *log.Logger
}

// NewLogHooks returns hooks logging to logger. A nil logger uses
// log.Default().
func NewLogHooks(logger *log.Logger) *LogHooks {
	if logger == nil {
		logger = log.Default()
	}
	return &LogHooks{logger: logger.WithPrefix("hooks")}
}

func (h *LogHooks) OnLanes(resources, recomputed int, d time.Duration) {
	h.logger.Debug("lanes", "resources", resources, "recomputed", recomputed, "took", d)
}

func (h *LogHooks) OnRows(items int, totalHeight float64, d time.Duration) {
	h.logger.Debug("rows", "items", items, "height", totalHeight, "took", d)
}

func (h *LogHooks) OnIndex(dates, entries int, d time.Duration) {
	h.logger.Debug("index", "dates", dates, "entries", entries, "took", d)
}

func (h *LogHooks) OnSessionStart(sessionID, bookingID, edge string) {
	h.logger.Debug("session start", "session", sessionID, "booking", bookingID, "edge", edge)
}

func (h *LogHooks) OnSessionEnd(sessionID, bookingID, kind string, d time.Duration) {
	h.logger.Debug("session end", "session", sessionID, "booking", bookingID, "kind", kind, "took", d)
}

func (h *LogHooks) OnCommitApplied(bookingID string, changed bool, err error) {
	if err != nil {
		h.logger.Warn("commit rejected", "booking", bookingID, "err", err)
		return
	}
	h.logger.Debug("commit applied", "booking", bookingID, "changed", changed)
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

func (h *LogHooks) OnRequest(_ context.Context, method, route string, status int, d time.Duration) {
	h.logger.Debug("request", "method", method, "route", route, "status", status, "took", d)
}

var (
	_ EngineHooks = (*LogHooks)(nil)
	_ CacheHooks  = (*LogHooks)(nil)
	_ ServerHooks = (*LogHooks)(nil)
)
