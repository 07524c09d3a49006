package api

import (
	"errors"
	"net/http"

	"github.com/MikeSquared-Agency/convoset/internal/dataset"
	"github.com/MikeSquared-Agency/convoset/internal/loader"
	"github.com/MikeSquared-Agency/convoset/internal/output"
)

// buildPrompts handles POST /api/v1/convoset/prompts. The body is a JSON array
// of raw export records; the response is the dataset as NDJSON.
func (s *Server) buildPrompts(w http.ResponseWriter, r *http.Request) {
	records, err := loader.DecodeRecords(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}

	msgs, err := dataset.NormalizeAll(records)
	if err != nil {
		var verr *dataset.ValidationError
		if errors.As(err, &verr) {
			writeError(w, http.StatusBadRequest, verr.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	res := dataset.Generate(msgs)

	w.Header().Set("Content-Type", "application/x-ndjson")
	w.WriteHeader(http.StatusOK)
	if err := output.Write(w, res.Prompts); err != nil {
		s.logger.Warn("failed to stream prompts", "error", err)
	}
}
