package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server     Server     `yaml:"server" json:"server"`
	Engine     Engine     `yaml:"engine" json:"engine"`
	Scheduling Scheduling `yaml:"scheduling" json:"scheduling"`
	Sweep      Sweep      `yaml:"sweep" json:"sweep"`
}

type Server struct {
	Port    int    `yaml:"port" json:"port"`
	DataDir string `yaml:"data_dir" json:"data_dir"`
}

type Engine struct {
	// AllowGlobalSingleActive turns on the policy where only one PROCESS
	// goal may be active at a time across all categories. The shipped
	// default keeps it off: multiple simultaneous active actions.
	AllowGlobalSingleActive bool `yaml:"allow_global_single_active" json:"allow_global_single_active"`

	// MetricShare is the OUTCOME metric's weight when blending aggregate
	// progress (the linked-process average takes the rest).
	MetricShare float64 `yaml:"metric_share" json:"metric_share"`
}

type Scheduling struct {
	DefaultDurationMin  int `yaml:"default_duration_min" json:"default_duration_min"`
	SlotStepMin         int `yaml:"slot_step_min" json:"slot_step_min"`
	SlotSuggestionLimit int `yaml:"slot_suggestion_limit" json:"slot_suggestion_limit"`
}

type Sweep struct {
	IntervalSeconds int `yaml:"interval_seconds" json:"interval_seconds"`
}

func (s *Server) ApplyDefaults() {
	if s.Port == 0 {
		s.Port = 8470
	}
	if s.DataDir == "" {
		s.DataDir = "data"
	}
}

func (e *Engine) ApplyDefaults() {
	if e.MetricShare <= 0 || e.MetricShare >= 1 {
		e.MetricShare = 0.3
	}
}

func (s *Scheduling) ApplyDefaults() {
	if s.DefaultDurationMin <= 0 {
		s.DefaultDurationMin = 30
	}
	if s.SlotStepMin <= 0 {
		s.SlotStepMin = 15
	}
	if s.SlotSuggestionLimit <= 0 {
		s.SlotSuggestionLimit = 3
	}
}

func (s *Sweep) ApplyDefaults() {
	if s.IntervalSeconds <= 0 {
		s.IntervalSeconds = 60
	}
}

func (c *Config) ApplyDefaults() {
	c.Server.ApplyDefaults()
	c.Engine.ApplyDefaults()
	c.Scheduling.ApplyDefaults()
	c.Sweep.ApplyDefaults()
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	c := &Config{}
	c.ApplyDefaults()
	return c
}

func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, err
	}
	c.ApplyDefaults()
	return &c, nil
}
