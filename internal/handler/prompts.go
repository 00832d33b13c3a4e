package handler

import "net/http"

type promptEntry struct {
	Index       int    `json:"index"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Text        string `json:"text"`
}

// Prompts handles GET /api/prompts. The placeholder entry is omitted;
// indexes match prompt_index on /api/analyze.
func (h *Handler) Prompts(w http.ResponseWriter, r *http.Request) {
	all := h.app.Prompts.All()

	entries := make([]promptEntry, 0, len(all))
	for i, p := range all {
		if i == 0 {
			continue
		}
		entries = append(entries, promptEntry{
			Index:       i,
			Name:        p.Name,
			Description: p.Description,
			Text:        p.Text,
		})
	}

	writeJSON(w, http.StatusOK, map[string]any{"prompts": entries})
}
