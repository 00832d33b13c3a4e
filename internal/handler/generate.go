package handler

import (
	"net/http"
	"strconv"

	"github.com/sant0-9/pulse/internal/dataset"
)

type generateResponse struct {
	Records    dataset.Dataset     `json:"records"`
	Skipped    int                 `json:"skipped"`
	TypeCounts []dataset.TypeCount `json:"type_counts"`
}

// Generate handles POST /api/generate. The dataset is returned as a CSV
// attachment, or as JSON with ?format=json.
func (h *Handler) Generate(w http.ResponseWriter, r *http.Request) {
	res, err := h.app.Generator.Generate(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}

	w.Header().Set("X-Skipped-Lines", strconv.Itoa(res.Skipped))

	if r.URL.Query().Get("format") == "json" {
		writeJSON(w, http.StatusOK, generateResponse{
			Records:    res.Dataset,
			Skipped:    res.Skipped,
			TypeCounts: res.Dataset.TypeCounts(),
		})
		return
	}

	text, err := dataset.ToCSV(res.Dataset)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+dataset.DefaultFilename+`"`)
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(text))
}
