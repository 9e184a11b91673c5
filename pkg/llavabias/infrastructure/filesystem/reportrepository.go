package filesystem

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"kgeyst.com/llavabias/pkg/llavabias/domain"
)

const reportTimestampLayout = "20060102_150405"

type ReportRepository struct {
	resultsDir string
	now        func() time.Time
}

// NewReportRepository writes one file per run into `resultsDir`, named after the local time of the save.
func NewReportRepository(resultsDir string) *ReportRepository {
	return &ReportRepository{
		resultsDir: resultsDir,
		now:        time.Now,
	}
}

func (r *ReportRepository) Save(results []domain.Result) (string, error) {
	path := filepath.Join(r.resultsDir, fmt.Sprintf("bias_test_results_%s.txt", r.now().Format(reportTimestampLayout)))
	err := os.WriteFile(path, []byte(domain.FormatReport(results)), 0644)
	if err != nil {
		return "", err
	}
	return path, nil
}
