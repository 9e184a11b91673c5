package metrics

import (
	"context"
	"time"
	"unicode/utf8"

	"kgeyst.com/llavabias/pkg/llavabias/domain"
)

type visionModelDecorator struct {
	wrappedVisionModel domain.VisionModel
}

func NewVisionModelDecorator(wrappedVisionModel domain.VisionModel) domain.VisionModel {
	return &visionModelDecorator{wrappedVisionModel: wrappedVisionModel}
}

func (v *visionModelDecorator) Name() string {
	return v.wrappedVisionModel.Name()
}

func (v *visionModelDecorator) Infer(ctx context.Context, request domain.InferRequest) (string, error) {
	started := time.Now()
	response, err := v.wrappedVisionModel.Infer(ctx, request)
	InferenceDuration.WithLabelValues(v.Name()).Observe(time.Since(started).Seconds())
	if err != nil {
		InferenceErrors.WithLabelValues(v.Name()).Inc()
		return "", err
	}
	ResponseLength.WithLabelValues(v.Name()).Observe(float64(utf8.RuneCountInString(response)))
	return response, nil
}
