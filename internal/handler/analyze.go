package handler

import (
	"encoding/json"
	"errors"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"github.com/sant0-9/pulse/internal/dataset"
	"github.com/sant0-9/pulse/internal/prompts"
)

type analyzeRequest struct {
	Contents    []string `json:"contents"`
	Prompt      string   `json:"prompt"`
	PromptIndex int      `json:"prompt_index"`
}

type analyzeResponse struct {
	Result      string `json:"result"`
	Rows        int    `json:"rows"`
	Instruction string `json:"instruction"`
}

// Analyze handles POST /api/analyze. It accepts either a multipart form
// with a CSV "file" plus "prompt" or "prompt_index", or a JSON body.
func (h *Handler) Analyze(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)

	var req analyzeRequest
	var err error

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch mediaType {
	case "multipart/form-data":
		req, err = readMultipart(r)
	case "application/json", "":
		err = json.NewDecoder(r.Body).Decode(&req)
	default:
		writeError(w, http.StatusUnsupportedMediaType, "use multipart/form-data or application/json")
		return
	}
	if err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			writeError(w, http.StatusRequestEntityTooLarge, "request body too large")
			return
		}
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	instruction, err := h.app.Prompts.Resolve(req.PromptIndex, req.Prompt)
	if err != nil {
		if errors.Is(err, prompts.ErrNoPrompt) {
			writeError(w, http.StatusBadRequest, "choose a prompt or enter your own")
			return
		}
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.app.Analyzer.Analyze(r.Context(), req.Contents, instruction)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, analyzeResponse{
		Result:      result,
		Rows:        len(req.Contents),
		Instruction: instruction,
	})
}

func readMultipart(r *http.Request) (analyzeRequest, error) {
	var req analyzeRequest

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		return req, err
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		return req, errors.New("missing csv file field \"file\"")
	}
	defer file.Close()

	d, err := dataset.ReadCSV(file)
	if err != nil {
		return req, err
	}

	req.Contents = d.Contents()
	req.Prompt = r.FormValue("prompt")

	if v := strings.TrimSpace(r.FormValue("prompt_index")); v != "" {
		idx, err := strconv.Atoi(v)
		if err != nil {
			return req, errors.New("prompt_index must be an integer")
		}
		req.PromptIndex = idx
	}

	return req, nil
}
