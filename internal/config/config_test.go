// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

const sample = `
device:
  bus: "1"
  mode: single_shot
  interval: 150
  filter: 4
  co2_offset: -50
sample:
  period_ms: 1000
  count: 3
output:
  delimiter: ";"
  color: true
`

func intp(v int) *int       { return &v }
func int16p(v int16) *int16 { return &v }

func TestParse(t *testing.T) {
	cfg, err := Parse([]byte(sample))
	if err != nil {
		t.Fatal(err)
	}
	Normalize(cfg)
	want := &Config{
		Device: DeviceConfig{
			Bus:       "1",
			Address:   DefaultAddress,
			Mode:      ModeSingleShot,
			Interval:  intp(150),
			Filter:    intp(4),
			CO2Offset: int16p(-50),
		},
		Sample: SampleConfig{PeriodMs: 1000, Count: 3, ReadyTimeoutMs: DefaultReadyTimeoutMs},
		Output: OutputConfig{Delimiter: ";", Color: true},
	}
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("Parse() mismatch (-want +got):\n%s", diff)
	}
	if err := Validate(cfg); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if cfg.Output.Comma() != ';' {
		t.Errorf("Comma()=%q", cfg.Output.Comma())
	}
}

func TestParseEmpty(t *testing.T) {
	cfg, err := Parse(nil)
	if err != nil {
		t.Fatal(err)
	}
	Normalize(cfg)
	if err := Validate(cfg); err != nil {
		t.Errorf("defaults do not validate: %v", err)
	}
	if cfg.Sample.Period().Seconds() != 15 {
		t.Errorf("default period %s", cfg.Sample.Period())
	}
}

func TestParseUnknownField(t *testing.T) {
	if _, err := Parse([]byte("device:\n  speed: 400000\n")); err == nil {
		t.Error("expected error for unknown field")
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ee895.yaml")
	if err := os.WriteFile(path, []byte(sample), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Device.Mode != ModeSingleShot {
		t.Errorf("mode %q", cfg.Device.Mode)
	}
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestValidate(t *testing.T) {
	for _, test := range []struct {
		name   string
		modify func(c *Config)
		want   string
	}{
		{name: "mode", modify: func(c *Config) { c.Device.Mode = "burst" }, want: "device.mode"},
		{name: "interval low", modify: func(c *Config) { c.Device.Interval = intp(99) }, want: "device.interval"},
		{name: "interval high", modify: func(c *Config) { c.Device.Interval = intp(36001) }, want: "device.interval"},
		{name: "filter", modify: func(c *Config) { c.Device.Filter = intp(21) }, want: "device.filter"},
		{name: "address", modify: func(c *Config) { c.Device.Address = 0x80 }, want: "device.address"},
		{name: "count", modify: func(c *Config) { c.Sample.Count = -1 }, want: "sample.count"},
		{name: "delimiter", modify: func(c *Config) { c.Output.Delimiter = ",," }, want: "output.delimiter"},
	} {
		t.Run(test.name, func(t *testing.T) {
			cfg := &Config{}
			Normalize(cfg)
			test.modify(cfg)
			err := Validate(cfg)
			if err == nil || !strings.Contains(err.Error(), test.want) {
				t.Errorf("Validate()=%v want mention of %s", err, test.want)
			}
		})
	}
	if err := Validate(nil); err == nil {
		t.Error("expected error for nil config")
	}
}
