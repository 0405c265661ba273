package validators

import (
	"fmt"

	pkgerrors "github.com/Castore1977/project-track/pkg/errors"
	"go.uber.org/zap"
)

// requiredCollections must be present as sequences in every version's data.
// documentation is absent from older catalogs and is checked only when present.
var requiredCollections = []string{"statisticalEngines", "externalEngines", "logicDetails", "kpis"}

// CatalogValidator checks that a decoded exchange document has the shape the
// catalog depends on. It works on generic JSON values so that it can inspect
// documents before they are bound to typed structures.
type CatalogValidator struct {
	logger *zap.Logger
}

// NewCatalogValidator creates a validator that reports rejections to logger
func NewCatalogValidator(logger *zap.Logger) *CatalogValidator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CatalogValidator{logger: logger}
}

// Validate reports whether candidate is an acceptable catalog
func (v *CatalogValidator) Validate(candidate interface{}) bool {
	return v.Check(candidate) == nil
}

// Check validates candidate and returns an INVALID_CATALOG error locating the
// first offending element. The candidate is never modified.
func (v *CatalogValidator) Check(candidate interface{}) error {
	err := checkCatalog(candidate)
	if err != nil {
		fields := []zap.Field{zap.String("reason", err.Message)}
		if path, ok := err.Details["path"].(string); ok {
			fields = append(fields, zap.String("path", path))
		}
		if record, ok := err.Details["record"]; ok {
			fields = append(fields, zap.Any("record", record))
		}
		v.logger.Warn("Catalog rejected", fields...)
		return err
	}
	return nil
}

func checkCatalog(candidate interface{}) *pkgerrors.DomainError {
	engines, ok := candidate.([]interface{})
	if !ok {
		return pkgerrors.NewInvalidCatalog("$", "catalog must be a list of engines", nil)
	}

	for i, raw := range engines {
		path := fmt.Sprintf("$[%d]", i)
		engine, ok := raw.(map[string]interface{})
		if !ok {
			return pkgerrors.NewInvalidCatalog(path, "engine must be an object", raw)
		}
		if err := requireString(engine, "id", path); err != nil {
			return err
		}
		if err := requireString(engine, "name", path); err != nil {
			return err
		}
		versions, ok := engine["versions"].([]interface{})
		if !ok {
			return pkgerrors.NewInvalidCatalog(path+".versions", "versions must be a list", engine)
		}
		for j, rawVersion := range versions {
			if err := checkVersion(rawVersion, fmt.Sprintf("%s.versions[%d]", path, j)); err != nil {
				return err
			}
		}
	}
	return nil
}

func checkVersion(raw interface{}, path string) *pkgerrors.DomainError {
	version, ok := raw.(map[string]interface{})
	if !ok {
		return pkgerrors.NewInvalidCatalog(path, "version must be an object", raw)
	}
	if err := requireString(version, "versionId", path); err != nil {
		return err
	}
	if err := requireString(version, "timestamp", path); err != nil {
		return err
	}

	data, ok := version["data"].(map[string]interface{})
	if !ok {
		return pkgerrors.NewInvalidCatalog(path+".data", "data must be an object", version)
	}
	if _, ok := data["universe"].(map[string]interface{}); !ok {
		return pkgerrors.NewInvalidCatalog(path+".data.universe", "universe must be an object", version)
	}
	for _, key := range requiredCollections {
		if _, ok := data[key].([]interface{}); !ok {
			return pkgerrors.NewInvalidCatalog(path+".data."+key, key+" must be a list", version)
		}
	}
	if doc, present := data["documentation"]; present {
		if _, ok := doc.([]interface{}); !ok {
			return pkgerrors.NewInvalidCatalog(path+".data.documentation", "documentation must be a list when present", version)
		}
	}
	return nil
}

func requireString(obj map[string]interface{}, key, path string) *pkgerrors.DomainError {
	if _, ok := obj[key].(string); !ok {
		return pkgerrors.NewInvalidCatalog(path+"."+key, key+" must be a string", obj)
	}
	return nil
}
