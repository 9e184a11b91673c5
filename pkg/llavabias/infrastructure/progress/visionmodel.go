package progress

import (
	"context"
	"io"
	"time"

	"github.com/schollz/progressbar/v3"

	"kgeyst.com/llavabias/pkg/llavabias/domain"
)

type visionModelDecorator struct {
	wrappedVisionModel domain.VisionModel
	out                io.Writer
}

// NewVisionModelDecorator shows a spinner on `out` while the wrapped model is generating. The spinner is
// cleared before the call returns so it never mixes with regular output.
func NewVisionModelDecorator(wrappedVisionModel domain.VisionModel, out io.Writer) domain.VisionModel {
	return &visionModelDecorator{
		wrappedVisionModel: wrappedVisionModel,
		out:                out,
	}
}

func (v *visionModelDecorator) Name() string {
	return v.wrappedVisionModel.Name()
}

func (v *visionModelDecorator) Infer(ctx context.Context, request domain.InferRequest) (string, error) {
	bar := progressbar.NewOptions(-1,
		progressbar.OptionSetWriter(v.out),
		progressbar.OptionSetDescription("Generating"),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionSetElapsedTime(true),
		progressbar.OptionClearOnFinish(),
	)
	done := make(chan struct{})
	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		ticker := time.NewTicker(100 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				_ = bar.Add(1)
			}
		}
	}()
	response, err := v.wrappedVisionModel.Infer(ctx, request)
	close(done)
	<-stopped
	_ = bar.Finish()
	return response, err
}
