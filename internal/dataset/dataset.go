package dataset

import "sort"

// Column names of the interchange format
const (
	ColumnType    = "Type"
	ColumnContent = "Content"
)

// DefaultFilename is the suggested name for an exported dataset
const DefaultFilename = "employee_data.csv"

// Record is one piece of employee communication
type Record struct {
	Type    string `json:"type"`
	Content string `json:"content"`
}

// Dataset is an ordered list of feedback records. Order is preserved
// through export, import and analysis.
type Dataset []Record

// Len returns the number of records
func (d Dataset) Len() int {
	return len(d)
}

// Contents returns the feedback bodies in dataset order
func (d Dataset) Contents() []string {
	out := make([]string, len(d))
	for i, r := range d {
		out[i] = r.Content
	}
	return out
}

// TypeCount is the number of records carrying a given label
type TypeCount struct {
	Type  string `json:"type"`
	Count int    `json:"count"`
}

// TypeCounts tallies records per label, most frequent first.
// Records without a label are grouped under "".
func (d Dataset) TypeCounts() []TypeCount {
	counts := make(map[string]int)
	var order []string
	for _, r := range d {
		if _, ok := counts[r.Type]; !ok {
			order = append(order, r.Type)
		}
		counts[r.Type]++
	}

	result := make([]TypeCount, 0, len(order))
	for _, t := range order {
		result = append(result, TypeCount{Type: t, Count: counts[t]})
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Count > result[j].Count
	})
	return result
}
