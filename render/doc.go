// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package render connects linemesh to a GPU device owned by the host
// application.
//
// linemesh RECEIVES a device from the host, it does NOT create one. A host
// exposes its HAL device and queue through HalDevice() and HalQueue();
// FromProvider wraps them in a Device that buckets upload their buffers to.
package render
