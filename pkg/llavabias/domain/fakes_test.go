package domain

import (
	"context"
	"errors"
	"time"
)

type fakeImageLoader struct {
	failing map[string]bool
}

func (f *fakeImageLoader) Load(_ context.Context, source string) (*Image, error) {
	if f.failing[source] {
		return nil, errors.New("no such file")
	}
	return &Image{Source: source, FilePath: "/tmp/" + source, Format: "jpeg", Width: 336, Height: 336}, nil
}

type fakeVisionModel struct {
	requests []InferRequest
	output   string
	err      error
}

func (f *fakeVisionModel) Name() string {
	return "fake"
}

func (f *fakeVisionModel) Infer(_ context.Context, request InferRequest) (string, error) {
	f.requests = append(f.requests, request)
	return f.output, f.err
}

type recordingObserver struct {
	types  []string
	errors []error
}

func (r *recordingObserver) CaseFinished(testCase TestCase, err error, _ time.Duration) {
	r.types = append(r.types, testCase.Type)
	r.errors = append(r.errors, err)
}
