package domain

import (
	"strconv"
	"strings"
)

// CellKind discriminates the scalar kinds a tabular source can produce.
// The set is closed: transformation dispatches on the target field kind,
// never on the runtime type of the raw value.
type CellKind int

const (
	// CellAbsent means the column had no value in this row.
	CellAbsent CellKind = iota

	// CellText is a string value.
	CellText

	// CellNumber is a numeric value.
	CellNumber

	// CellBool is a boolean value.
	CellBool
)

// CellValue is a tagged union over the scalar kinds a spreadsheet cell
// can hold. Exactly one payload field is meaningful, selected by Kind.
type CellValue struct {
	// Kind selects which payload field is valid.
	Kind CellKind

	// Text is the payload when Kind is CellText.
	Text string

	// Number is the payload when Kind is CellNumber.
	Number float64

	// Bool is the payload when Kind is CellBool.
	Bool bool
}

// TextCell returns a text-valued cell.
func TextCell(s string) CellValue {
	return CellValue{Kind: CellText, Text: s}
}

// NumberCell returns a number-valued cell.
func NumberCell(f float64) CellValue {
	return CellValue{Kind: CellNumber, Number: f}
}

// BoolCell returns a boolean-valued cell.
func BoolCell(b bool) CellValue {
	return CellValue{Kind: CellBool, Bool: b}
}

// AbsentCell returns a cell with no value.
func AbsentCell() CellValue {
	return CellValue{Kind: CellAbsent}
}

// IsEmpty reports whether the cell is absent or holds only whitespace text.
func (c CellValue) IsEmpty() bool {
	switch c.Kind {
	case CellAbsent:
		return true
	case CellText:
		return strings.TrimSpace(c.Text) == ""
	default:
		return false
	}
}

// String renders the cell's raw value for error messages and text coercion.
// Numbers render without a trailing ".0" when whole; absent cells render empty.
func (c CellValue) String() string {
	switch c.Kind {
	case CellText:
		return c.Text
	case CellNumber:
		return strconv.FormatFloat(c.Number, 'f', -1, 64)
	case CellBool:
		return strconv.FormatBool(c.Bool)
	default:
		return ""
	}
}

// ContentRow maps a source column name to its cell value.
// Column names are unique within a row.
type ContentRow map[string]CellValue

// RowNumber converts a zero-based row index into the 1-based spreadsheet
// row number used in error reporting. The offset accounts for the header row.
func RowNumber(index int) int {
	return index + 2
}
