package logging

import (
	"context"
	"time"

	"kgeyst.com/llavabias/pkg/common"
	"kgeyst.com/llavabias/pkg/llavabias/domain"
)

type visionModelDecorator struct {
	wrappedVisionModel domain.VisionModel
	logger             common.Logger
}

// NewVisionModelDecorator logs raw prompts and raw responses of the wrapped model at debug level.
func NewVisionModelDecorator(wrappedVisionModel domain.VisionModel, logger common.Logger) domain.VisionModel {
	return &visionModelDecorator{
		wrappedVisionModel: wrappedVisionModel,
		logger:             logger,
	}
}

func (v *visionModelDecorator) Name() string {
	return v.wrappedVisionModel.Name()
}

func (v *visionModelDecorator) Infer(ctx context.Context, request domain.InferRequest) (string, error) {
	v.logger.Debug("raw prompt", "model", v.Name(), "image", request.ImagePath, "prompt", request.Prompt)
	t := time.Now()
	response, err := v.wrappedVisionModel.Infer(ctx, request)
	if err != nil {
		v.logger.Warn("inference failed", "model", v.Name(), "error", err, "took_ms", time.Since(t).Milliseconds())
		return "", err
	}
	v.logger.Debug("raw prompt response", "model", v.Name(), "response", response, "took_ms", time.Since(t).Milliseconds())
	return response, nil
}
