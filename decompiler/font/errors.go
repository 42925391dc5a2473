package font

import (
	"fmt"

	"tlog.app/go/errors"
)

type (
	// MissingTableError means the font has no such table.
	MissingTableError struct {
		Tag string
	}

	// MissingProgramError means the table exists but has no program with the name.
	MissingProgramError struct {
		Tag  string
		Kind Kind
		Name string
	}

	// UnsupportedFontError means the font has no TrueType outlines.
	UnsupportedFontError struct {
		Reason string
	}
)

func (e *MissingTableError) Error() string {
	return fmt.Sprintf("%s table not found", e.Tag)
}

func (e *MissingProgramError) Error() string {
	return fmt.Sprintf("%v program missing from %s: '%s'", e.Kind, e.Tag, e.Name)
}

func (e *UnsupportedFontError) Error() string {
	return fmt.Sprintf("unsupported font: %s", e.Reason)
}

// IsMissing reports if err is MissingTableError or MissingProgramError.
func IsMissing(err error) bool {
	var mt *MissingTableError
	var mp *MissingProgramError

	return errors.As(err, &mt) || errors.As(err, &mp)
}
