package handlers

import (
	"net/http"

	"github.com/Castore1977/project-track/domain/core/valueobjects"
	"github.com/Castore1977/project-track/pkg/common"
	pkgerrors "github.com/Castore1977/project-track/pkg/errors"
	"github.com/Castore1977/project-track/pkg/utils"
)

// maxBodyBytes bounds request bodies, catalog imports included
const maxBodyBytes = 10 << 20

// decodeRequest parses a JSON body into req and validates its tags
func decodeRequest(w http.ResponseWriter, r *http.Request, req interface{}) error {
	if err := common.ParseJSONBody(w, r, req, maxBodyBytes); err != nil {
		return pkgerrors.NewInvalidRequest("Invalid request body: "+err.Error(), err)
	}
	if err := utils.ValidateStruct(req); err != nil {
		return pkgerrors.NewInvalidRequest("Validation error: "+err.Error(), err)
	}
	return nil
}

// parseValidity parses an optional validity date
func parseValidity(value string) (*valueobjects.ValidityDate, error) {
	d, err := valueobjects.ParseOptionalDate(value)
	if err != nil {
		return nil, pkgerrors.NewInvalidValidityDate(value, err)
	}
	return d, nil
}
