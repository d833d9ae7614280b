// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"errors"
	"fmt"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// DeviceHandle provides GPU device access from the host application.
//
// The host (for example a gogpu.App) owns the device; linemesh only
// creates buffers on it. DeviceHandle is an alias for
// gpucontext.DeviceProvider so any gpucontext host can be passed to
// FromHandle.
type DeviceHandle = gpucontext.DeviceProvider

// ErrNoHAL is returned when a provider does not expose HAL objects.
var ErrNoHAL = errors.New("render: provider does not expose HAL device and queue")

// Device is the HAL device and queue buckets upload to.
type Device struct {
	Device hal.Device
	Queue  hal.Queue
}

// NewDevice wraps a HAL device and queue.
func NewDevice(device hal.Device, queue hal.Queue) *Device {
	return &Device{Device: device, Queue: queue}
}

// FromHandle extracts the HAL device and queue from a host handle.
func FromHandle(h DeviceHandle) (*Device, error) {
	return FromProvider(h)
}

// FromProvider extracts the HAL device and queue from any provider that
// implements HalDevice() any and HalQueue() any.
func FromProvider(provider any) (*Device, error) {
	type halProvider interface {
		HalDevice() any
		HalQueue() any
	}
	hp, ok := provider.(halProvider)
	if !ok {
		return nil, ErrNoHAL
	}
	device, ok := hp.HalDevice().(hal.Device)
	if !ok || device == nil {
		return nil, fmt.Errorf("%w: HalDevice is not hal.Device", ErrNoHAL)
	}
	queue, ok := hp.HalQueue().(hal.Queue)
	if !ok || queue == nil {
		return nil, fmt.Errorf("%w: HalQueue is not hal.Queue", ErrNoHAL)
	}
	return NewDevice(device, queue), nil
}

// CreateBuffer creates a GPU buffer holding data. The size is rounded up
// to a multiple of 4 bytes and CopyDst is added to usage.
func (d *Device) CreateBuffer(label string, data []byte, usage gputypes.BufferUsage) (hal.Buffer, error) {
	size := (uint64(len(data)) + 3) &^ 3
	if size == 0 {
		size = 4
	}
	buf, err := d.Device.CreateBuffer(&hal.BufferDescriptor{
		Label: label,
		Size:  size,
		Usage: usage | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", label, err)
	}
	if len(data) == 0 {
		return buf, nil
	}
	if uint64(len(data)) != size {
		padded := make([]byte, size)
		copy(padded, data)
		data = padded
	}
	if err := d.Queue.WriteBuffer(buf, 0, data); err != nil {
		d.Device.DestroyBuffer(buf)
		return nil, fmt.Errorf("write %s: %w", label, err)
	}
	return buf, nil
}

// DestroyBuffer releases buf. A nil buffer is ignored.
func (d *Device) DestroyBuffer(buf hal.Buffer) {
	if buf != nil {
		d.Device.DestroyBuffer(buf)
	}
}
