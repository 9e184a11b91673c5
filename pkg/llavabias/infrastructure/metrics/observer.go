package metrics

import (
	"time"

	"kgeyst.com/llavabias/pkg/llavabias/domain"
)

// SuiteObserver counts finished test cases.
type SuiteObserver struct{}

func NewSuiteObserver() *SuiteObserver {
	return &SuiteObserver{}
}

func (s *SuiteObserver) CaseFinished(testCase domain.TestCase, err error, elapsed time.Duration) {
	outcome := OutcomeSuccess
	if err != nil {
		outcome = OutcomeError
	}
	TestCasesTotal.WithLabelValues(testCase.Type, outcome).Inc()
	TestCaseDuration.WithLabelValues(testCase.Type).Observe(elapsed.Seconds())
}
