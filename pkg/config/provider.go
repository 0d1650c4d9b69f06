package config

// ConfigProvider defines the interface for configuration data sources
type ConfigProvider interface {
	// Load complete configuration
	LoadConfig() (*ConfigData, error)

	IsReadOnly() bool
	Close() error
}

// Defaults applied to any setting left at its zero value
const (
	DefaultListenAddr     = "0.0.0.0"
	DefaultHTTPPort       = 8080
	DefaultMaxUploadBytes = 10 << 20
	DefaultPrecision      = 2
	DefaultChartWidth     = 1000
	DefaultChartHeight    = 600
	DefaultChartTitle     = "Graphical ΔT determination"
	DefaultXLabel         = "Time (min)"
	DefaultYLabel         = "Temperature (°C)"
)

// ConfigData represents the complete configuration structure
type ConfigData struct {
	Server   ServerData   `json:"server"`
	Analysis AnalysisData `json:"analysis"`
	Chart    ChartData    `json:"chart"`
}

// ServerData holds the HTTP server settings
type ServerData struct {
	ListenAddr     string `json:"listen_addr,omitempty"`
	Port           int    `json:"port,omitempty"`
	Cert           string `json:"cert,omitempty"`
	Key            string `json:"key,omitempty"`
	MaxUploadBytes int64  `json:"max_upload_bytes,omitempty"`
}

// AnalysisData holds settings for reading input and reporting results
type AnalysisData struct {
	// Sheet is the default worksheet read from xlsx uploads; empty means the first one
	Sheet string `json:"sheet,omitempty"`
	// Precision is the number of decimals in text summaries. Nil means unset;
	// zero prints whole degrees.
	Precision *int `json:"precision,omitempty"`
}

// Digits returns the configured precision, or the default when unset
func (a AnalysisData) Digits() int {
	if a.Precision == nil || *a.Precision < 0 {
		return DefaultPrecision
	}
	return *a.Precision
}

// ChartData holds chart labels and image size
type ChartData struct {
	Title  string `json:"title,omitempty"`
	XLabel string `json:"x_label,omitempty"`
	YLabel string `json:"y_label,omitempty"`
	Width  int    `json:"width,omitempty"`
	Height int    `json:"height,omitempty"`
}

// TLSEnabled reports whether both a certificate and a key were configured
func (s ServerData) TLSEnabled() bool {
	return s.Cert != "" && s.Key != ""
}

// ApplyDefaults fills in every unset field
func (c *ConfigData) ApplyDefaults() {
	if c.Server.ListenAddr == "" {
		c.Server.ListenAddr = DefaultListenAddr
	}
	if c.Server.Port == 0 {
		c.Server.Port = DefaultHTTPPort
	}
	if c.Server.MaxUploadBytes <= 0 {
		c.Server.MaxUploadBytes = DefaultMaxUploadBytes
	}
	if c.Analysis.Precision == nil {
		p := DefaultPrecision
		c.Analysis.Precision = &p
	}
	if c.Chart.Title == "" {
		c.Chart.Title = DefaultChartTitle
	}
	if c.Chart.XLabel == "" {
		c.Chart.XLabel = DefaultXLabel
	}
	if c.Chart.YLabel == "" {
		c.Chart.YLabel = DefaultYLabel
	}
	if c.Chart.Width <= 0 {
		c.Chart.Width = DefaultChartWidth
	}
	if c.Chart.Height <= 0 {
		c.Chart.Height = DefaultChartHeight
	}
}

// Default returns a configuration with every default applied
func Default() *ConfigData {
	c := &ConfigData{}
	c.ApplyDefaults()
	return c
}
