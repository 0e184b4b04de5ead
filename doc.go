// Copyright 2021 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package ee895 is a container for the E+E EE895 CO2 module driver.
//
// The driver is in the ee895 sub package. common holds the checksum shared
// by the frame codec, indicator renders CO2 levels on a terminal and
// cmd/ee895 is a logger built on them.
package ee895
