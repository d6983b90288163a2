package domain

import (
	"fmt"
	"strings"
)

// MissingColumnError reports that a mandatory column is absent from the wide table.
type MissingColumnError struct {
	Column string
}

func (e *MissingColumnError) Error() string {
	return fmt.Sprintf("the spreadsheet must contain a %q column", e.Column)
}

// DateFormatError reports that the year/month pairs of a table parse under
// neither supported month-name convention.
type DateFormatError struct {
	Value   string   // first combined "<year>-<month>" value rejected by the last layout
	Layouts []string // layouts tried, in order
	Err     error
}

func (e *DateFormatError) Error() string {
	return fmt.Sprintf("cannot parse %q as a year-month date (tried layouts %s)",
		e.Value, strings.Join(e.Layouts, ", "))
}

func (e *DateFormatError) Unwrap() error {
	return e.Err
}
