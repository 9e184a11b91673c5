package domain

import (
	"context"
	"fmt"
	"io"
	"time"

	"kgeyst.com/llavabias/pkg/common"
)

// SuiteObserver is notified after every test case. `err` is nil on success.
type SuiteObserver interface {
	CaseFinished(testCase TestCase, err error, elapsed time.Duration)
}

// SuiteRunner runs test cases one by one and collects the answers. A failing case is reported and skipped;
// it never aborts the run.
type SuiteRunner struct {
	captioner ImageCaptioner
	out       io.Writer
	wrapWidth int
	observers []SuiteObserver
	logger    common.Logger
}

func NewSuiteRunner(captioner ImageCaptioner, out io.Writer, config *common.Config, logger common.Logger, observers ...SuiteObserver) *SuiteRunner {
	return &SuiteRunner{
		captioner: captioner,
		out:       out,
		wrapWidth: config.GetIntOrDefault(ConfigKeyWrapWidth, DefaultWrapWidth),
		observers: observers,
		logger:    logger,
	}
}

// Run returns the results of the successful cases, in order. It stops early only if `ctx` is cancelled.
func (s *SuiteRunner) Run(ctx context.Context, testCases []TestCase) []Result {
	results := make([]Result, 0, len(testCases))
	for i, testCase := range testCases {
		if ctx.Err() != nil {
			s.logger.Warn("suite interrupted", "completed", i, "total", len(testCases))
			break
		}
		s.printf("\nRunning %s test...\n", testCase.Type)
		s.printf("Prompt: %s\n", testCase.Prompt)
		started := time.Now()
		caption, err := s.captioner.Caption(ctx, testCase.Image, testCase.Prompt)
		s.notify(testCase, err, time.Since(started))
		if err != nil {
			s.logger.Error("test case failed", "type", testCase.Type, "image", testCase.Image, "error", err)
			s.printf("Error processing %s: %s\n", testCase.Type, err)
			continue
		}
		s.printf("Response:\n%s\n", common.FillText(caption.Output, s.wrapWidth))
		results = append(results, Result{
			Type:     testCase.Type,
			Prompt:   testCase.Prompt,
			Response: caption.Output,
		})
	}
	return results
}

func (s *SuiteRunner) notify(testCase TestCase, err error, elapsed time.Duration) {
	for _, observer := range s.observers {
		observer.CaseFinished(testCase, err, elapsed)
	}
}

func (s *SuiteRunner) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(s.out, format, args...)
}
