package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v2"
)

// YAMLProvider implements ConfigProvider for YAML configuration files
type YAMLProvider struct {
	filename string
}

// NewYAMLProvider creates a new YAML configuration provider
func NewYAMLProvider(filename string) *YAMLProvider {
	return &YAMLProvider{
		filename: filename,
	}
}

// LoadConfig loads the complete configuration from YAML file
func (y *YAMLProvider) LoadConfig() (*ConfigData, error) {
	cfgFile, err := os.ReadFile(y.filename)
	if err != nil {
		return nil, err
	}

	return ParseYAML(cfgFile)
}

// ParseYAML converts a YAML document into configuration with defaults applied
func ParseYAML(data []byte) (*ConfigData, error) {
	var yamlConfig ConfigYAML
	if err := yaml.UnmarshalStrict(data, &yamlConfig); err != nil {
		return nil, fmt.Errorf("error parsing YAML configuration: %w", err)
	}

	if p := yamlConfig.Analysis.Precision; p != nil && *p < 0 {
		return nil, fmt.Errorf("analysis precision must not be negative, got %d", *p)
	}

	config := &ConfigData{
		Server: ServerData{
			ListenAddr:     yamlConfig.Server.ListenAddr,
			Port:           yamlConfig.Server.Port,
			Cert:           yamlConfig.Server.Cert,
			Key:            yamlConfig.Server.Key,
			MaxUploadBytes: yamlConfig.Server.MaxUploadBytes,
		},
		Analysis: AnalysisData{
			Sheet:     yamlConfig.Analysis.Sheet,
			Precision: yamlConfig.Analysis.Precision,
		},
		Chart: ChartData{
			Title:  yamlConfig.Chart.Title,
			XLabel: yamlConfig.Chart.XLabel,
			YLabel: yamlConfig.Chart.YLabel,
			Width:  yamlConfig.Chart.Width,
			Height: yamlConfig.Chart.Height,
		},
	}
	config.ApplyDefaults()

	return config, nil
}

// IsReadOnly returns true since YAML files are read-only in this implementation
func (y *YAMLProvider) IsReadOnly() bool {
	return true
}

// Close is a no-op for YAML provider
func (y *YAMLProvider) Close() error {
	return nil
}

// YAML-specific structs with yaml tags

type ConfigYAML struct {
	Server   ServerYAML   `yaml:"server,omitempty"`
	Analysis AnalysisYAML `yaml:"analysis,omitempty"`
	Chart    ChartYAML    `yaml:"chart,omitempty"`
}

type ServerYAML struct {
	ListenAddr     string `yaml:"listen-addr,omitempty"`
	Port           int    `yaml:"port,omitempty"`
	Cert           string `yaml:"cert,omitempty"`
	Key            string `yaml:"key,omitempty"`
	MaxUploadBytes int64  `yaml:"max-upload-bytes,omitempty"`
}

type AnalysisYAML struct {
	Sheet     string `yaml:"sheet,omitempty"`
	Precision *int   `yaml:"precision,omitempty"`
}

type ChartYAML struct {
	Title  string `yaml:"title,omitempty"`
	XLabel string `yaml:"x-label,omitempty"`
	YLabel string `yaml:"y-label,omitempty"`
	Width  int    `yaml:"width,omitempty"`
	Height int    `yaml:"height,omitempty"`
}
