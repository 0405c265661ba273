package dto

import (
	"github.com/Castore1977/project-track/domain/core/aggregates"
	"github.com/Castore1977/project-track/pkg/utils"
)

// EngineSummary is the list view of an engine
type EngineSummary struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	Description     string `json:"description"`
	VersionCount    int    `json:"versionCount"`
	LatestVersionID string `json:"latestVersionId"`
	LatestTimestamp string `json:"latestTimestamp"`
	ValidityDate    string `json:"validityDate,omitempty"`
}

// SummarizeEngine builds the list view of one engine
func SummarizeEngine(engine *aggregates.Engine) EngineSummary {
	latest := engine.Latest()
	return EngineSummary{
		ID:              engine.ID().String(),
		Name:            engine.Name(),
		Description:     engine.Description(),
		VersionCount:    engine.VersionCount(),
		LatestVersionID: latest.ID.String(),
		LatestTimestamp: utils.FormatISO(latest.Timestamp),
		ValidityDate:    latest.ValidityString(),
	}
}

// SummarizeEngines builds the list view of several engines, preserving order
func SummarizeEngines(engines []*aggregates.Engine) []EngineSummary {
	out := make([]EngineSummary, len(engines))
	for i, engine := range engines {
		out[i] = SummarizeEngine(engine)
	}
	return out
}
