// Copyright 2026 The go-ssp Contributors.
// SPDX-License-Identifier: Apache-2.0
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// hopperctl locates a coin hopper on the USB bus, brute-forces the link
// parameters it answers on and runs the protocol bring-up sequence
// against it. It also stages a udev rule giving the device a stable
// /dev symlink, with instructions for installing it.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/sirupsen/logrus"

	ssp "github.com/tempstore/go-ssp"
	"github.com/tempstore/go-ssp/detection"
	"github.com/tempstore/go-ssp/hostcfg"
	"github.com/tempstore/go-ssp/transport/serialport"
)

// Exit codes, one per failure class so callers can tell outcomes apart.
const (
	exitOK             = 0
	exitDeviceNotFound = 1
	exitConfigNotFound = 2
	exitTransportFault = 3
	exitUsage          = 4
)

var (
	flagConfig  string
	flagDevice  string
	flagLevel   string
	flagUdevDir string
	flagNoUdev  bool
	flagDisable bool
)

func init() {
	flag.StringVar(&flagConfig, "config", "", "Path to a TOML config file")
	flag.StringVar(&flagDevice, "device", "", "Device path (skip enumeration if set)")
	flag.StringVar(&flagLevel, "level", "", "Log level (debug, info, warn, error)")
	flag.StringVar(&flagUdevDir, "udev-dir", "", "Directory to stage the udev rule in (default: temp dir)")
	flag.BoolVar(&flagNoUdev, "no-udev", false, "Skip staging the udev rule")
	flag.BoolVar(&flagDisable, "disable", false, "Append a DISABLE command to the sequence")
}

func main() {
	os.Exit(run())
}

func run() int {
	flag.Parse()

	cfg, err := loadConfig(flagConfig)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return exitUsage
	}

	logger, err := newLogger(cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return exitUsage
	}

	vid, pid, err := targetIDs(cfg)
	if err != nil {
		logger.WithError(err).Error("bad target IDs in config")
		return exitUsage
	}

	client := newClient(cfg, vid, pid, logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("starting hopper client")

	port, code := locatePort(cfg, client, vid, pid, logger)
	if code != exitOK {
		return code
	}

	if !flagNoUdev {
		stageUdevRule(cfg, vid, pid, logger)
	}

	report, err := client.Exercise(ctx, port)
	switch {
	case err == nil:
	case errors.Is(err, ssp.ErrConfigNotFound):
		logger.Error("could not establish communication with the device")
		return exitConfigNotFound
	default:
		logger.WithError(err).Error("run aborted")
		return exitTransportFault
	}

	logger.WithFields(logrus.Fields{
		"link":      report.Link.String(),
		"commands":  len(report.Results),
		"responses": report.Responses(),
	}).Info("device run complete")
	return exitOK
}

// newLogger builds the stderr logger, flag level winning over the file.
func newLogger(cfg *fileConfig) (*logrus.Logger, error) {
	logger := logrus.New()
	logger.SetOutput(os.Stderr)

	level := flagLevel
	if level == "" {
		level = cfg.LogLevel
	}
	if level == "" {
		return logger, nil
	}

	parsed, err := logrus.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("bad log level %q: %w", level, err)
	}
	logger.SetLevel(parsed)
	return logger, nil
}

// targetIDs resolves the USB IDs to look for, defaulting to the known
// hopper identifiers.
func targetIDs(cfg *fileConfig) (vid, pid uint16, err error) {
	vid, pid = ssp.VendorID, ssp.ProductID
	if cfg.VendorID != "" {
		if vid, err = parseUSBID(cfg.VendorID); err != nil {
			return 0, 0, err
		}
	}
	if cfg.ProductID != "" {
		if pid, err = parseUSBID(cfg.ProductID); err != nil {
			return 0, 0, err
		}
	}
	return vid, pid, nil
}

func newClient(cfg *fileConfig, vid, pid uint16, logger *logrus.Logger) *ssp.Client {
	commands := ssp.InitSequence()
	if flagDisable || cfg.Disable {
		commands = append(commands, ssp.Command{Name: "DISABLE", Code: ssp.CmdDisable})
	}

	return &ssp.Client{
		Enumerator: detection.SerialEnumerator{},
		Open: func(path string, baudRate int) (ssp.Transport, error) {
			return serialport.Open(path, baudRate)
		},
		Remediator:   detection.AdviceRemediator{Logger: logger},
		Logger:       logger,
		Commands:     commands,
		VendorID:     vid,
		ProductID:    pid,
		BaudRates:    cfg.BaudRates,
		SettleDelay:  durationMS(cfg.SettleMS),
		ReadTimeout:  durationMS(cfg.ReadTimeoutMS),
		CommandDelay: durationMS(cfg.CommandDelayMS),
	}
}

// locatePort finds the device port, or trusts an explicit -device path.
func locatePort(cfg *fileConfig, client *ssp.Client, vid, pid uint16,
	logger *logrus.Logger,
) (*detection.PortInfo, int) {
	path := flagDevice
	if path == "" {
		path = cfg.Device
	}
	if path != "" {
		return &detection.PortInfo{
			Path: path,
			Name: filepath.Base(path),
			VID:  vid,
			PID:  pid,
		}, exitOK
	}

	port, err := client.FindPort()
	if err != nil {
		logger.WithError(err).Error("device not found")
		return nil, exitDeviceNotFound
	}
	return port, exitOK
}

// stageUdevRule writes the naming rule to a staging directory and logs
// how to install it. Failures here never stop the run.
func stageUdevRule(cfg *fileConfig, vid, pid uint16, logger *logrus.Logger) {
	dir := flagUdevDir
	if dir == "" {
		dir = cfg.UdevDir
	}
	if dir == "" {
		dir = os.TempDir()
	}

	rule := hostcfg.Rule{
		Symlink:   "smarthopper",
		Mode:      "0666",
		Group:     "dialout",
		Comment:   "udev rule for the smarthopper coin device",
		VendorID:  vid,
		ProductID: pid,
	}

	staged, err := rule.WriteFile(dir)
	if err != nil {
		logger.WithError(err).Warn("could not stage udev rule")
		return
	}

	logger.WithField("file", staged).Info("staged udev rule, to install run:")
	for _, line := range rule.InstallInstructions(staged) {
		logger.Info("  " + line)
	}
}
