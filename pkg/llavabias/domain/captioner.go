package domain

import (
	"context"
	"fmt"
	"strings"

	"kgeyst.com/llavabias/pkg/common"
)

// Caption is the outcome of asking the model about one image.
type Caption struct {
	Image *Image
	// RawPrompt is the rendered conversation sent to the model.
	RawPrompt string
	// Conversation holds the full exchange, including the undecoded answer.
	Conversation *Conversation
	Output       string
}

// ImageCaptioner answers a prompt about an image.
type ImageCaptioner interface {
	Caption(ctx context.Context, imageSource, prompt string) (*Caption, error)
}

type captioner struct {
	visionModel      VisionModel
	imageLoader      ImageLoader
	conversationMode string
	temperature      float64
	maxNewTokens     int
	logger           common.Logger
}

func NewCaptioner(visionModel VisionModel, imageLoader ImageLoader, config *common.Config, logger common.Logger) (ImageCaptioner, error) {
	conversationMode := config.GetStringOrDefault(ConfigKeyConversationMode, DefaultConversationMode)
	// fail fast on a misspelled template instead of on the first image
	if _, err := NewConversation(conversationMode); err != nil {
		return nil, err
	}
	return &captioner{
		visionModel:      visionModel,
		imageLoader:      imageLoader,
		conversationMode: conversationMode,
		temperature:      config.GetFloatOrDefault(ConfigKeyTemperature, DefaultTemperature),
		maxNewTokens:     config.GetIntOrDefault(ConfigKeyMaxNewTokens, DefaultMaxNewTokens),
		logger:           logger,
	}, nil
}

func (c *captioner) Caption(ctx context.Context, imageSource, prompt string) (*Caption, error) {
	image, err := c.imageLoader.Load(ctx, imageSource)
	if err != nil {
		return nil, fmt.Errorf("load image %s: %w", imageSource, err)
	}
	conversation, err := NewConversation(c.conversationMode)
	if err != nil {
		return nil, err
	}
	roles := conversation.Roles
	// the user turn repeats the role prefix: "Human: <image tokens>\nHuman: <prompt>"
	input := fmt.Sprintf("%s: %s", roles[0], prompt)
	input = ImageStartToken + ImageToken + ImageEndToken + "\n" + input
	conversation.AppendMessage(roles[0], input)
	conversation.AppendMessage(roles[1], "")
	rawPrompt := conversation.Prompt()
	stopKeyword := conversation.StopKeyword()
	c.logger.Debug("captioning image", "image", image.FilePath, "width", image.Width, "height", image.Height, "mode", c.conversationMode)
	output, err := c.visionModel.Infer(ctx, InferRequest{
		ImagePath:     image.FilePath,
		Prompt:        rawPrompt,
		StopCondition: NewKeywordsStopCondition(stopKeyword),
		Temperature:   c.temperature,
		MaxNewTokens:  c.maxNewTokens,
	})
	if err != nil {
		return nil, fmt.Errorf("infer with %s: %w", c.visionModel.Name(), err)
	}
	output = strings.TrimSpace(output)
	conversation.SetLastMessageText(output)
	return &Caption{
		Image:        image,
		RawPrompt:    rawPrompt,
		Conversation: conversation,
		Output:       DecodeOutput(output, stopKeyword),
	}, nil
}

// DecodeOutput cuts the generated text at the stop keyword and at the last end-of-sequence marker.
func DecodeOutput(output, stopKeyword string) string {
	if stopKeyword != "" && stopKeyword != EndOfSequenceToken {
		if index := strings.Index(output, stopKeyword); index != -1 {
			output = output[:index]
		}
	}
	if index := strings.LastIndex(output, EndOfSequenceToken); index != -1 {
		output = output[:index]
	}
	return strings.TrimSpace(output)
}
