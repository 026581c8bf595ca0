package form

import "sort"

// ErrorSummaryItem is one entry of the error summary shown above a form.
type ErrorSummaryItem struct {
	Field string `json:"field"`
	Text  string `json:"text"`
}

// Snapshot is the short-lived errors-and-input value used to redisplay a
// page after failed validation. It never becomes part of persisted state.
type Snapshot struct {
	Errors       Errors             `json:"errors"`
	ErrorSummary []ErrorSummaryItem `json:"errorSummary"`
	UserInput    Input              `json:"userInput"`
}

// NewSnapshot builds a snapshot with a summary ordered by field name.
func NewSnapshot(errs Errors, input Input) Snapshot {
	fields := make([]string, 0, len(errs))
	for f := range errs {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	summary := make([]ErrorSummaryItem, 0, len(fields))
	for _, f := range fields {
		summary = append(summary, ErrorSummaryItem{Field: f, Text: errs[f]})
	}
	if input == nil {
		input = Input{}
	}
	return Snapshot{Errors: errs, ErrorSummary: summary, UserInput: input}
}
