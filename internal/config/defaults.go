package config

import (
	"github.com/knadh/koanf/providers/confmap"
)

func DefaultConfig() map[string]interface{} {
	return map[string]interface{}{
		"provider": "deepseek",
		"deepseek": map[string]interface{}{
			"api_key":  "",
			"base_url": "https://api.deepseek.com",
			"timeout":  120,
		},
		"ollama": map[string]interface{}{
			"base_url": "http://localhost:11434",
			"timeout":  120,
		},
		"model": map[string]interface{}{
			"name":          "deepseek-chat",
			"max_tokens":    2048,
			"temperature":   1.0,
			"system_prompt": "You are a helpful AI assistant. Provide clear, concise, and accurate responses.",
		},
		"assistant": map[string]interface{}{
			"data_file":      "~/.assistant/assistant.db",
			"sweep_interval": 5,
			"badge_interval": 3,
		},
		"ui": map[string]interface{}{
			"colored_output":  true,
			"render_markdown": true,
			"show_timestamps": false,
		},
	}
}

func NewDefaultProvider() *confmap.Confmap {
	return confmap.Provider(DefaultConfig(), ".")
}

func GetDefaultConfigPath() string {
	return "~/.assistant/config.yaml"
}
