package prompts

import (
	"errors"
	"strings"
)

// Placeholder is entry 0 of the catalog and means no prompt was chosen
const Placeholder = "<Choose a prompt>"

// ErrNoPrompt is returned when neither custom text nor a real catalog
// entry was selected.
var ErrNoPrompt = errors.New("no prompt selected")

// Catalog is the ordered list of predefined analysis instructions
var Catalog = []string{
	Placeholder,
	"Summarize employee morale trends.",
	"Identify signs of burnout and stress.",
	"Detect positive feedback and motivational themes.",
	"Analyze changes in tone over time.",
	"Highlight common complaints and areas for improvement.",
	"Detect any changes in satisfaction over time.",
	"Detect any issues on workplace fairness.",
	"Analyze patterns in employee data.",
	"Assess employee thoughts on company values.",
	"Analyze feedback on leadership and trust.",
	"Analyze employee motivation over time.",
	"Give advice on how to boost company morale.",
	"Provide a general analysis on the employee data.",
	"Display only the percentage of employee data was positive, neutral, and negative.",
	"Conduct a statistical analysis on employee data.",
}

// Resolve picks the instruction to send: custom text when it is not
// blank, otherwise the selected catalog entry.
func Resolve(selected int, custom string) (string, error) {
	return resolve(Catalog, selected, custom)
}

func resolve(list []string, selected int, custom string) (string, error) {
	if strings.TrimSpace(custom) != "" {
		return custom, nil
	}
	if selected <= 0 || selected >= len(list) {
		return "", ErrNoPrompt
	}
	return list[selected], nil
}
