package dto

import (
	"fmt"
	"time"

	"github.com/Castore1977/project-track/domain/core/aggregates"
	"github.com/Castore1977/project-track/domain/core/entities"
	"github.com/Castore1977/project-track/domain/core/valueobjects"
	pkgerrors "github.com/Castore1977/project-track/pkg/errors"
	"github.com/Castore1977/project-track/pkg/utils"
)

// EngineDocument is the exchange form of an engine
type EngineDocument struct {
	ID          string            `json:"id"`
	Name        string            `json:"name"`
	Description string            `json:"description"`
	Versions    []VersionDocument `json:"versions"`
}

// VersionDocument is the exchange form of a version
type VersionDocument struct {
	VersionID    string            `json:"versionId"`
	Timestamp    string            `json:"timestamp"`
	ValidityDate string            `json:"validityDate,omitempty"`
	Data         entities.Snapshot `json:"data"`
}

// EncodeCatalog converts engines to the exchange form, preserving order
func EncodeCatalog(engines []*aggregates.Engine) []EngineDocument {
	docs := make([]EngineDocument, len(engines))
	for i, engine := range engines {
		docs[i] = EncodeEngine(engine)
	}
	return docs
}

// EncodeEngine converts one engine to the exchange form
func EncodeEngine(engine *aggregates.Engine) EngineDocument {
	versions := engine.Versions()
	doc := EngineDocument{
		ID:          engine.ID().String(),
		Name:        engine.Name(),
		Description: engine.Description(),
		Versions:    make([]VersionDocument, len(versions)),
	}
	for i, v := range versions {
		doc.Versions[i] = EncodeVersion(v)
	}
	return doc
}

// EncodeVersion converts one version to the exchange form
func EncodeVersion(v entities.Version) VersionDocument {
	return VersionDocument{
		VersionID:    v.ID.String(),
		Timestamp:    utils.FormatISO(v.Timestamp),
		ValidityDate: v.ValidityString(),
		Data:         v.Data.Normalized(),
	}
}

// DecodeCatalog rebuilds engines from exchange documents. It rejects what the
// structural validator cannot see: unparseable dates, engines without
// versions and repeated engine ids.
func DecodeCatalog(docs []EngineDocument) ([]*aggregates.Engine, error) {
	engines := make([]*aggregates.Engine, 0, len(docs))
	seen := make(map[string]struct{}, len(docs))

	for i, doc := range docs {
		path := fmt.Sprintf("$[%d]", i)
		if doc.ID == "" {
			return nil, pkgerrors.NewInvalidCatalog(path+".id", "engine id cannot be empty", summarize(doc))
		}
		if _, dup := seen[doc.ID]; dup {
			return nil, pkgerrors.NewInvalidCatalog(path+".id", fmt.Sprintf("engine id %q appears more than once", doc.ID), summarize(doc))
		}
		seen[doc.ID] = struct{}{}

		versions := make([]entities.Version, len(doc.Versions))
		for j, vd := range doc.Versions {
			v, err := decodeVersion(vd, fmt.Sprintf("%s.versions[%d]", path, j))
			if err != nil {
				return nil, err
			}
			versions[j] = v
		}

		if len(versions) == 0 {
			return nil, pkgerrors.NewInvalidCatalog(path+".versions", "an engine needs at least one version", summarize(doc))
		}
		engine, err := aggregates.ReconstructEngine(doc.ID, doc.Name, doc.Description, versions)
		if err != nil {
			return nil, err
		}
		engines = append(engines, engine)
	}
	return engines, nil
}

func decodeVersion(vd VersionDocument, path string) (entities.Version, error) {
	ts, err := utils.ParseISO(vd.Timestamp)
	if err != nil {
		return entities.Version{}, pkgerrors.NewInvalidCatalog(path+".timestamp", "timestamp must be an ISO-8601 instant", vd).WithCause(err)
	}
	validity, err := valueobjects.ParseOptionalDate(vd.ValidityDate)
	if err != nil {
		return entities.Version{}, pkgerrors.NewInvalidCatalog(path+".validityDate", "validityDate must be a YYYY-MM-DD date", vd).WithCause(err)
	}
	return entities.Version{
		ID:           valueobjects.VersionID(vd.VersionID),
		Timestamp:    ts.UTC().Truncate(time.Millisecond),
		ValidityDate: validity,
		Data:         vd.Data.Normalized(),
	}, nil
}

// summarize drops version payloads so that error details stay small
func summarize(doc EngineDocument) map[string]interface{} {
	return map[string]interface{}{
		"id":       doc.ID,
		"name":     doc.Name,
		"versions": len(doc.Versions),
	}
}
