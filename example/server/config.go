package main

import (
	"os"

	"github.com/bytedance/sonic"
)

type Config struct {
	APIKey  string `json:"api_key"`
	BaseURL string `json:"base_url"`
	Model   string `json:"model"`
	Addr    string `json:"addr"`
	Debug   bool   `json:"debug"`
}

func loadConfig(path string) (*Config, error) {
	conf := &Config{
		Model: "gpt-4",
		Addr:  ":8000",
	}
	file, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return conf, nil
		}
		return nil, err
	}
	if err := sonic.Unmarshal(file, conf); err != nil {
		return nil, err
	}
	return conf, nil
}
