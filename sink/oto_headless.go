// SPDX-License-Identifier: EPL-2.0

//go:build headless

package sink

import "time"

// Device is unavailable in headless builds.
type Device struct{}

func NewDevice(time.Duration) (*Device, error) {
	return nil, ErrNoDevice
}

func (*Device) WriteFrames([]int16) (int, error) { return 0, ErrNoDevice }
func (*Device) Close() error                     { return nil }
