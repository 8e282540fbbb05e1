package export

import "errors"

// ErrExportWrite wraps failures writing the export file.
var ErrExportWrite = errors.New("export write failed")
