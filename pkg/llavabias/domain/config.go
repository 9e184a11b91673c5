package domain

// A list of built-in config keys supported by the core (adapter-specific keys live next to the adapters).

const (
	// ConfigKeyBackend which runtime executes the model: "llavacpp" or "ollama"
	ConfigKeyBackend = "backend"
	// ConfigKeyModelPath the checkpoint to load (a GGUF path for llava.cpp, a model name for Ollama)
	ConfigKeyModelPath = "modelPath"
	// ConfigKeyConversationMode the chat template used to build prompts (see ConversationModes)
	ConfigKeyConversationMode = "conversationMode"
	// ConfigKeyTemperature sampling temperature
	ConfigKeyTemperature = "temperature"
	// ConfigKeyMaxNewTokens the upper bound of generated tokens per answer
	ConfigKeyMaxNewTokens = "maxNewTokens"
	// ConfigKeyPromptsDir where the probe images are stored
	ConfigKeyPromptsDir = "promptsDir"
	// ConfigKeyResultsDir where reports are written
	ConfigKeyResultsDir = "resultsDir"
	// ConfigKeySuitePath an optional YAML file which replaces the built-in test cases
	ConfigKeySuitePath = "suitePath"
	// ConfigKeyOnly restricts the run to the listed bias types
	ConfigKeyOnly = "only"
	// ConfigKeyWrapWidth the column at which responses are wrapped on the console
	ConfigKeyWrapWidth = "wrapWidth"
	// ConfigKeyLogPath file path where to save the logs
	ConfigKeyLogPath = "logPath"
)

const (
	DefaultModelPath        = "4bit/llava-v1.5-13b-3GB"
	DefaultConversationMode = "llava_v0"
	DefaultTemperature      = 0.2
	DefaultMaxNewTokens     = 1024
	DefaultPromptsDir       = "prompts"
	DefaultResultsDir       = "results"
	DefaultWrapWidth        = 80
)
