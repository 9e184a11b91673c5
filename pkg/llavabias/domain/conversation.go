package domain

import (
	"fmt"
	"sort"
	"strings"
)

const (
	ImageToken      = "<image>"
	ImageStartToken = "<im_start>"
	ImageEndToken   = "<im_end>"
	// EndOfSequenceToken is what Llama-family tokenizers decode the EOS token to.
	EndOfSequenceToken = "</s>"
)

// SeparatorStyle defines how turns are delimited when a conversation is rendered into a raw prompt.
type SeparatorStyle int

const (
	// SeparatorStyleSingle every turn ends with Sep.
	SeparatorStyleSingle = SeparatorStyle(iota)
	// SeparatorStyleTwo turns alternately end with Sep and Sep2.
	SeparatorStyleTwo
)

type Message struct {
	Role string
	// Text is empty for the hanging turn the model is expected to complete.
	Text string
}

// Conversation is a chat template plus the turns appended to it so far.
type Conversation struct {
	System   string
	Roles    [2]string
	Messages []Message
	Style    SeparatorStyle
	Sep      string
	Sep2     string
}

const defaultSystemPrompt = "A chat between a curious human and an artificial intelligence assistant. " +
	"The assistant gives helpful, detailed, and polite answers to the human's questions."

var conversationTemplates = map[string]*Conversation{
	"llava_v0": {
		System: defaultSystemPrompt,
		Roles:  [2]string{"Human", "Assistant"},
		Style:  SeparatorStyleSingle,
		Sep:    "###",
	},
	"llava_v1": {
		System: defaultSystemPrompt,
		Roles:  [2]string{"USER", "ASSISTANT"},
		Style:  SeparatorStyleTwo,
		Sep:    " ",
		Sep2:   EndOfSequenceToken,
	},
	"vicuna_v1": {
		System: "A chat between a curious user and an artificial intelligence assistant. " +
			"The assistant gives helpful, detailed, and polite answers to the user's questions.",
		Roles: [2]string{"USER", "ASSISTANT"},
		Style: SeparatorStyleTwo,
		Sep:   " ",
		Sep2:  EndOfSequenceToken,
	},
}

// NewConversation returns a fresh copy of the named template.
func NewConversation(mode string) (*Conversation, error) {
	template, ok := conversationTemplates[mode]
	if !ok {
		return nil, fmt.Errorf("unknown conversation mode %q (known: %s)", mode, strings.Join(ConversationModes(), ", "))
	}
	return template.Copy(), nil
}

// ConversationModes lists the names accepted by NewConversation.
func ConversationModes() []string {
	modes := make([]string, 0, len(conversationTemplates))
	for mode := range conversationTemplates {
		modes = append(modes, mode)
	}
	sort.Strings(modes)
	return modes
}

func (c *Conversation) Copy() *Conversation {
	result := *c
	result.Messages = append([]Message(nil), c.Messages...)
	return &result
}

func (c *Conversation) AppendMessage(role, text string) {
	c.Messages = append(c.Messages, Message{Role: role, Text: text})
}

// SetLastMessageText fills in the hanging turn once the model has answered.
func (c *Conversation) SetLastMessageText(text string) {
	if len(c.Messages) == 0 {
		return
	}
	c.Messages[len(c.Messages)-1].Text = text
}

// Prompt renders the conversation into the raw prompt fed to the model.
func (c *Conversation) Prompt() string {
	var buf strings.Builder
	switch c.Style {
	case SeparatorStyleTwo:
		seps := [2]string{c.Sep, c.Sep2}
		buf.WriteString(c.System)
		buf.WriteString(seps[0])
		for i, message := range c.Messages {
			if message.Text == "" {
				buf.WriteString(message.Role + ":")
				continue
			}
			buf.WriteString(message.Role + ": " + message.Text + seps[i%2])
		}
	default:
		buf.WriteString(c.System)
		buf.WriteString(c.Sep)
		for _, message := range c.Messages {
			if message.Text == "" {
				buf.WriteString(message.Role + ":")
				continue
			}
			buf.WriteString(message.Role + ": " + message.Text + c.Sep)
		}
	}
	return buf.String()
}

// StopKeyword is the string whose appearance in the output means the assistant's turn is over.
func (c *Conversation) StopKeyword() string {
	if c.Style == SeparatorStyleTwo {
		return c.Sep2
	}
	return c.Sep
}
