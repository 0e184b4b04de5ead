// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// ee895 logs CO2, temperature and pressure readings from an EE895 module as
// CSV on stdout.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/GermanBionicSystems/ee895/ee895"
	"github.com/GermanBionicSystems/ee895/indicator"
	"github.com/GermanBionicSystems/ee895/internal/config"
	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/host/v3"
)

func mainImpl() error {
	cfgPath := flag.String("config", "", "YAML configuration file")
	bus := flag.String("bus", "", "I²C bus to use, overrides the configuration")
	count := flag.Int("n", -1, "number of samples, 0 for no limit, overrides the configuration")
	verbose := flag.Bool("v", false, "verbose mode")
	flag.Parse()
	if flag.NArg() != 0 {
		return errors.New("unexpected argument, try -help")
	}

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	cfg := &config.Config{}
	if *cfgPath != "" {
		var err error
		if cfg, err = config.Load(*cfgPath); err != nil {
			return err
		}
	}
	if *bus != "" {
		cfg.Device.Bus = *bus
	}
	if *count >= 0 {
		cfg.Sample.Count = *count
	}
	config.Normalize(cfg)
	if err := config.Validate(cfg); err != nil {
		return err
	}

	if _, err := host.Init(); err != nil {
		return err
	}

	opts := ee895.DefaultOpts
	opts.Addr = cfg.Device.Address
	var dev *ee895.Dev
	if cfg.Device.Scoped {
		var err error
		dev, err = ee895.NewScoped(func() (i2c.BusCloser, error) {
			return i2creg.Open(cfg.Device.Bus)
		}, &opts)
		if err != nil {
			return err
		}
	} else {
		b, err := i2creg.Open(cfg.Device.Bus)
		if err != nil {
			return err
		}
		defer b.Close()
		if dev, err = ee895.NewI2C(b, &opts); err != nil {
			return err
		}
	}
	logger.Debug("opened", "dev", dev.String())

	s := newSampler(dev, cfg, logger, os.Stdout)
	if cfg.Output.Color && (isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd())) {
		s.ind = indicator.NewWriter(colorable.NewColorableStderr(), nil)
		defer s.ind.Halt()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := s.setup(); err != nil {
		return err
	}
	return s.run(ctx)
}

func main() {
	if err := mainImpl(); err != nil {
		fmt.Fprintf(os.Stderr, "ee895: %s.\n", err)
		os.Exit(1)
	}
}
