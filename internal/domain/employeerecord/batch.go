package employeerecord

import (
	"fmt"
	"regexp"
	"time"
)

const (
	// BatchFilePrefix starts every export file name
	BatchFilePrefix = "RIAE_FS_"
	// MaxBatchSize is the maximum number of lines of an export file
	MaxBatchSize = 700
	// ProcessingCodeSuccess is the ASP code of an accepted line
	ProcessingCodeSuccess = "0000"
)

var batchFileRegex = regexp.MustCompile(`^RIAE_FS_\d{14}\.json$`)

// BatchFileName builds the export file name of a batch, e.g.
// RIAE_FS_20210410130000.json
func BatchFileName(at time.Time) string {
	return fmt.Sprintf("%s%s.json", BatchFilePrefix, at.Format("20060102150405"))
}

// IsValidBatchFileName checks an export file name
func IsValidBatchFileName(name string) bool {
	return batchFileRegex.MatchString(name)
}
