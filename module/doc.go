// Copyright (C) 2023 Huawei Technologies Co., Ltd. All rights reserved.
// SPDX-License-Identifier: MIT

// Package module is the ownership-checked wrapper over the backend's
// module handles. A Module owns exactly one native handle and exposes
// typed declaration, lookup, metadata, verification and serialization
// operations over it. Foreign failure signals (null sentinels, status
// codes, heap-allocated message buffers) never escape this package: they
// are translated into comma-ok lookups, booleans, and typed errors, with
// every diagnostic buffer disposed exactly once.
//
// Operations on one Module must be externally serialized by the caller;
// the wrapper adds no locking of its own.
package module
