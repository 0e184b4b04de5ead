// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package config loads the ee895 logger configuration.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"time"
	"unicode/utf8"

	"gopkg.in/yaml.v3"
)

// Config is the logger configuration file.
type Config struct {
	Device DeviceConfig `yaml:"device"`
	Sample SampleConfig `yaml:"sample"`
	Output OutputConfig `yaml:"output"`
}

// ---- DEVICE ----

type DeviceConfig struct {
	// Bus name for i2creg.Open. Empty selects the first bus.
	Bus     string `yaml:"bus"`
	Address uint16 `yaml:"address"`
	// Open the bus around each transaction instead of once.
	Scoped bool `yaml:"scoped"`

	// Settings written at start. Unset fields leave the module as is.
	Mode      string `yaml:"mode"` // "continuous" or "single_shot"
	Interval  *int   `yaml:"interval"`
	Filter    *int   `yaml:"filter"`
	CO2Offset *int16 `yaml:"co2_offset"`
}

// ---- SAMPLING ----

type SampleConfig struct {
	PeriodMs int `yaml:"period_ms"`
	// 0 samples until interrupted.
	Count int `yaml:"count"`
	// Use the checksum-less bulk read.
	Simplified bool `yaml:"simplified"`
	// Single shot: how long to wait for data ready after a trigger.
	ReadyTimeoutMs int `yaml:"ready_timeout_ms"`
}

// ---- OUTPUT ----

type OutputConfig struct {
	Delimiter string `yaml:"delimiter"`
	Color     bool   `yaml:"color"`
}

const (
	ModeContinuous = "continuous"
	ModeSingleShot = "single_shot"

	DefaultAddress        uint16 = 0x5f
	DefaultPeriodMs              = 15000
	DefaultReadyTimeoutMs        = 10000
	DefaultDelimiter             = ","
)

// Load reads and decodes the file at path.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(b)
}

// Parse decodes a YAML document. Unknown keys are rejected; an empty
// document gives the zero Config.
func Parse(b []byte) (*Config, error) {
	cfg := &Config{}
	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

// Normalize fills in defaults. Call it before Validate.
func Normalize(cfg *Config) {
	if cfg == nil {
		return
	}
	if cfg.Device.Address == 0 {
		cfg.Device.Address = DefaultAddress
	}
	if cfg.Sample.PeriodMs == 0 {
		cfg.Sample.PeriodMs = DefaultPeriodMs
	}
	if cfg.Sample.ReadyTimeoutMs == 0 {
		cfg.Sample.ReadyTimeoutMs = DefaultReadyTimeoutMs
	}
	if cfg.Output.Delimiter == "" {
		cfg.Output.Delimiter = DefaultDelimiter
	}
}

// Validate reports every invalid setting.
func Validate(cfg *Config) error {
	if cfg == nil {
		return errors.New("config: nil")
	}
	var errs []error
	d := cfg.Device
	if d.Address > 0x7f {
		errs = append(errs, fmt.Errorf("device.address 0x%x is not a 7 bit address", d.Address))
	}
	switch d.Mode {
	case "", ModeContinuous, ModeSingleShot:
	default:
		errs = append(errs, fmt.Errorf("device.mode %q: want %q or %q", d.Mode, ModeContinuous, ModeSingleShot))
	}
	if d.Interval != nil && (*d.Interval < 100 || *d.Interval > 36000) {
		errs = append(errs, fmt.Errorf("device.interval %d: want 100..36000", *d.Interval))
	}
	if d.Filter != nil && (*d.Filter < 1 || *d.Filter > 20) {
		errs = append(errs, fmt.Errorf("device.filter %d: want 1..20", *d.Filter))
	}
	if cfg.Sample.PeriodMs < 0 {
		errs = append(errs, fmt.Errorf("sample.period_ms %d is negative", cfg.Sample.PeriodMs))
	}
	if cfg.Sample.Count < 0 {
		errs = append(errs, fmt.Errorf("sample.count %d is negative", cfg.Sample.Count))
	}
	if cfg.Sample.ReadyTimeoutMs < 0 {
		errs = append(errs, fmt.Errorf("sample.ready_timeout_ms %d is negative", cfg.Sample.ReadyTimeoutMs))
	}
	if utf8.RuneCountInString(cfg.Output.Delimiter) != 1 {
		errs = append(errs, fmt.Errorf("output.delimiter %q must be one character", cfg.Output.Delimiter))
	}
	return errors.Join(errs...)
}

// Period is the sampling period.
func (s SampleConfig) Period() time.Duration {
	return time.Duration(s.PeriodMs) * time.Millisecond
}

// ReadyTimeout is the single shot wait limit.
func (s SampleConfig) ReadyTimeout() time.Duration {
	return time.Duration(s.ReadyTimeoutMs) * time.Millisecond
}

// Comma is the delimiter as a rune for encoding/csv.
func (o OutputConfig) Comma() rune {
	r, _ := utf8.DecodeRuneInString(o.Delimiter)
	return r
}
