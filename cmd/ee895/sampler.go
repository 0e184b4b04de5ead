// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package main

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"time"

	"github.com/GermanBionicSystems/ee895/ee895"
	"github.com/GermanBionicSystems/ee895/indicator"
	"github.com/GermanBionicSystems/ee895/internal/config"
	"periph.io/x/conn/v3/physic"
)

var errNotReady = errors.New("data not ready before timeout")

// sampler configures the module once then reads it periodically.
type sampler struct {
	dev *ee895.Dev
	cfg *config.Config
	log *slog.Logger
	out *csv.Writer
	ind *indicator.Dev

	now  func() time.Time
	poll time.Duration
}

func newSampler(dev *ee895.Dev, cfg *config.Config, log *slog.Logger, w io.Writer) *sampler {
	out := csv.NewWriter(w)
	out.Comma = cfg.Output.Comma()
	return &sampler{
		dev:  dev,
		cfg:  cfg,
		log:  log,
		out:  out,
		now:  time.Now,
		poll: 100 * time.Millisecond,
	}
}

// setup logs the module identity and writes the configured settings.
func (s *sampler) setup() error {
	serial, err := s.dev.SerialNumber()
	if err != nil {
		return err
	}
	fw, err := s.dev.FirmwareVersion()
	if err != nil {
		return err
	}
	name, err := s.dev.SensorName()
	if err != nil {
		return err
	}
	s.log.Info("sensor", "name", cString(name), "serial", fmt.Sprintf("%x", serial), "firmware", fw.String())

	d := s.cfg.Device
	switch d.Mode {
	case config.ModeContinuous:
		err = s.dev.SetMeasuringMode(ee895.Continuous)
	case config.ModeSingleShot:
		err = s.dev.SetMeasuringMode(ee895.SingleShot)
	}
	if err != nil {
		return err
	}
	if d.Interval != nil {
		if err := s.dev.SetMeasuringInterval(*d.Interval); err != nil {
			return err
		}
	}
	if d.Filter != nil {
		if err := s.dev.SetFilterCoefficient(*d.Filter); err != nil {
			return err
		}
	}
	if d.CO2Offset != nil {
		if err := s.dev.SetCO2Offset(*d.CO2Offset); err != nil {
			return err
		}
	}
	mode, err := s.dev.MeasuringMode()
	if err != nil {
		return err
	}
	s.log.Debug("settings", "mode", mode.String())
	return nil
}

// run samples until Count readings were written or ctx is done. Failed
// readings are logged and skipped.
func (s *sampler) run(ctx context.Context) error {
	if err := s.out.Write([]string{"time", "temperature_c", "co2_ppm", "pressure_mbar"}); err != nil {
		return err
	}
	s.out.Flush()
	t := time.NewTicker(s.cfg.Sample.Period())
	defer t.Stop()
	for n := 0; s.cfg.Sample.Count == 0 || n < s.cfg.Sample.Count; {
		env, err := s.sample(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			s.log.Warn("read failed", "status", ee895.StatusOf(err).String(), "err", err)
		} else {
			if err := s.write(&env); err != nil {
				return err
			}
			n++
			if s.cfg.Sample.Count != 0 && n == s.cfg.Sample.Count {
				break
			}
		}
		select {
		case <-ctx.Done():
			return nil
		case <-t.C:
		}
	}
	return nil
}

func (s *sampler) sample(ctx context.Context) (ee895.Env, error) {
	if s.cfg.Sample.Simplified {
		return s.dev.AllMeasurements()
	}
	if s.cfg.Device.Mode == config.ModeSingleShot {
		if err := s.trigger(ctx); err != nil {
			return ee895.Env{}, err
		}
	}
	var env ee895.Env
	err := s.dev.Sense(&env)
	return env, err
}

// trigger starts a single shot measurement and waits for data ready.
func (s *sampler) trigger(ctx context.Context) error {
	if err := s.dev.TriggerMeasurement(); err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, s.cfg.Sample.ReadyTimeout())
	defer cancel()
	for {
		ok, err := s.dev.DataReady()
		if err != nil {
			return err
		}
		if ok {
			return nil
		}
		select {
		case <-ctx.Done():
			return errNotReady
		case <-time.After(s.poll):
		}
	}
}

func (s *sampler) write(env *ee895.Env) error {
	s.log.Debug("sample", "env", env.String())
	err := s.out.Write([]string{
		s.now().UTC().Format(time.RFC3339),
		strconv.FormatFloat(celsius(env.Temperature), 'f', 2, 64),
		strconv.Itoa(int(env.CO2)),
		strconv.FormatFloat(millibar(env.Pressure), 'f', 1, 64),
	})
	if err != nil {
		return err
	}
	s.out.Flush()
	if err := s.out.Error(); err != nil {
		return err
	}
	if s.ind != nil {
		return s.ind.Show(float64(env.CO2), env.CO2.String())
	}
	return nil
}

func celsius(t physic.Temperature) float64 {
	return float64(t-physic.ZeroCelsius) / float64(physic.Celsius)
}

func millibar(p physic.Pressure) float64 {
	return float64(p) / float64(100*physic.Pascal)
}

// cString trims b at the first NUL.
func cString(b []byte) string {
	for i, c := range b {
		if c == 0 {
			return string(b[:i])
		}
	}
	return string(b)
}
