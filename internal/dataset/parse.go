package dataset

import "strings"

const (
	typeMarker    = "Type:"
	contentMarker = "Content:"
)

// ParseGenerated extracts records from free-form model output. Only lines
// carrying both markers are considered, e.g.
//
//	1. Type: Email, Content: "I'm feeling overwhelmed with workload."
//
// The type is the text between the first "Type:" and the next comma, the
// content is everything after the first "Content:". Candidate lines where
// either field trims to empty are dropped and counted in skipped.
func ParseGenerated(text string) (d Dataset, skipped int) {
	d = Dataset{}

	for _, line := range strings.Split(normalizeNewlines(text), "\n") {
		rec, ok := ParseLine(line)
		if !ok {
			if strings.Contains(line, typeMarker) && strings.Contains(line, contentMarker) {
				skipped++
			}
			continue
		}
		d = append(d, rec)
	}

	return d, skipped
}

// ParseLine parses a single generated line. It reports false when a marker
// is missing or a field is empty.
func ParseLine(line string) (Record, bool) {
	typeIdx := strings.Index(line, typeMarker)
	contentIdx := strings.Index(line, contentMarker)
	if typeIdx == -1 || contentIdx == -1 {
		return Record{}, false
	}

	typePart := line[typeIdx+len(typeMarker):]
	if comma := strings.Index(typePart, ","); comma != -1 {
		typePart = typePart[:comma]
	}

	rec := Record{
		Type:    strings.TrimSpace(typePart),
		Content: strings.TrimSpace(line[contentIdx+len(contentMarker):]),
	}
	if rec.Type == "" || rec.Content == "" {
		return Record{}, false
	}

	return rec, true
}
