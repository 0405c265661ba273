package queries

import (
	"context"
	"sort"
	"time"

	"github.com/Castore1977/project-track/application/ports"
	"github.com/Castore1977/project-track/domain/config"
	"github.com/Castore1977/project-track/domain/core/aggregates"
	"github.com/Castore1977/project-track/domain/core/entities"
	"github.com/Castore1977/project-track/domain/core/valueobjects"
	"github.com/Castore1977/project-track/domain/versioning"
	pkgerrors "github.com/Castore1977/project-track/pkg/errors"
	"github.com/Castore1977/project-track/pkg/observability"
	"github.com/Castore1977/project-track/pkg/utils"

	"go.uber.org/zap"
)

// TimelineQuery lists versions across the catalog
type TimelineQuery struct {
	EngineID string // optional filter
}

// TimelineEntry is one version in the combined timeline
type TimelineEntry struct {
	EngineID      string   `json:"engineId"`
	EngineName    string   `json:"engineName"`
	VersionID     string   `json:"versionId"`
	VersionNumber int      `json:"versionNumber"`
	Timestamp     string   `json:"timestamp"`
	ValidityDate  string   `json:"validityDate,omitempty"`
	IsLatest      bool     `json:"isLatest"`
	CanRollback   bool     `json:"canRollback"`
	HasPrevious   bool     `json:"hasPrevious"`
	Summary       []string `json:"summary"`
}

// TimelineResult represents the result of a timeline query
type TimelineResult struct {
	Entries    []TimelineEntry `json:"entries"`
	TotalCount int             `json:"totalCount"`
}

// TimelineHandler builds the combined version timeline
type TimelineHandler struct {
	table   ports.EngineTable
	differ  *versioning.Differ
	cache   ports.SummaryCache
	cfg     *config.DomainConfig
	metrics *observability.Collector
	logger  *zap.Logger
}

// NewTimelineHandler creates a new timeline handler
func NewTimelineHandler(
	table ports.EngineTable,
	differ *versioning.Differ,
	cache ports.SummaryCache,
	cfg *config.DomainConfig,
	metrics *observability.Collector,
	logger *zap.Logger,
) *TimelineHandler {
	return &TimelineHandler{
		table:   table,
		differ:  differ,
		cache:   cache,
		cfg:     cfg,
		metrics: metrics,
		logger:  logger,
	}
}

// Handle lists every version of every engine, or of one engine, newest first.
// Each entry carries its change summary against the version before it.
func (h *TimelineHandler) Handle(ctx context.Context, query TimelineQuery) (*TimelineResult, error) {
	start := time.Now()
	defer func() { h.metrics.RecordDiff("timeline", time.Since(start)) }()

	engines := h.table.All()

	if query.EngineID != "" {
		engine, exists := h.table.Get(valueobjects.EngineID(query.EngineID))
		if !exists {
			return nil, pkgerrors.NewEngineNotFound(query.EngineID)
		}
		engines = []*aggregates.Engine{engine}
	}

	type dated struct {
		entry     TimelineEntry
		timestamp int64
	}
	var all []dated

	for _, engine := range engines {
		versions := engine.Versions()
		for i, v := range versions {
			entry := TimelineEntry{
				EngineID:      engine.ID().String(),
				EngineName:    engine.Name(),
				VersionID:     v.ID.String(),
				VersionNumber: i + 1,
				Timestamp:     utils.FormatISO(v.Timestamp),
				ValidityDate:  v.ValidityString(),
				IsLatest:      i == len(versions)-1,
				HasPrevious:   i > 0,
			}
			entry.CanRollback = entry.IsLatest && entry.HasPrevious

			if i == 0 {
				entry.Summary = []string{versioning.InitialVersionLine}
			} else {
				entry.Summary = versioning.CapSummary(h.summary(v, versions[i-1]), h.cfg.SummaryLimit)
			}
			all = append(all, dated{entry: entry, timestamp: v.Timestamp.UnixMilli()})
		}
	}

	sort.SliceStable(all, func(i, j int) bool {
		return all[i].timestamp > all[j].timestamp
	})

	result := &TimelineResult{Entries: make([]TimelineEntry, len(all)), TotalCount: len(all)}
	for i, d := range all {
		result.Entries[i] = d.entry
	}
	return result, nil
}

// summary returns the full change summary between two versions, memoised by
// the checksums of both.
func (h *TimelineHandler) summary(current, previous entities.Version) []string {
	key, err := pairKey(current, previous)
	if err != nil {
		h.logger.Warn("Failed to checksum versions", zap.Error(err))
		return h.differ.DiffSummary(current, previous)
	}

	if h.cache != nil {
		if lines, found := h.cache.Get(key); found {
			return lines
		}
	}

	lines := h.differ.DiffSummary(current, previous)
	if h.cache != nil {
		h.cache.Set(key, lines)
	}
	return lines
}

func pairKey(current, previous entities.Version) (string, error) {
	cur, err := versioning.Checksum(current)
	if err != nil {
		return "", err
	}
	prev, err := versioning.Checksum(previous)
	if err != nil {
		return "", err
	}
	return cur + "|" + prev, nil
}
