// Copyright (C) 2023 Huawei Technologies Co., Ltd. All rights reserved.
// SPDX-License-Identifier: MIT

package module

import (
	"llkit/backend"
)

// takeMessage copies a foreign diagnostic buffer into a Go string and
// disposes the buffer. Copy happens strictly before disposal. The null
// handle yields the empty string and is not disposed; disposing an unset
// buffer is undefined in the backend. Every fallible foreign call in this
// package funnels its message through here so the dispose-exactly-once
// rule lives in one place.
func takeMessage(api backend.API, msg backend.MessageRef) string {
	if msg == 0 {
		return ""
	}
	text := api.MessageString(msg)
	api.DisposeMessage(msg)
	return text
}
