package report

import (
	"errors"
	"fmt"
)

// ErrUnsupportedReportType is returned when no formatter is registered for the
// requested report type.
var ErrUnsupportedReportType = errors.New("unsupported report type")

// UnsupportedReportTypeError carries the rejected report type.
type UnsupportedReportTypeError struct {
	Type string
}

func (e *UnsupportedReportTypeError) Error() string {
	return fmt.Sprintf("%s: %q", ErrUnsupportedReportType, e.Type)
}

// Is lets errors.Is match ErrUnsupportedReportType.
func (e *UnsupportedReportTypeError) Is(target error) bool {
	return target == ErrUnsupportedReportType
}
