// Copyright (C) 2023 Huawei Technologies Co., Ltd. All rights reserved.
// SPDX-License-Identifier: MIT

package module

import (
	"llkit/backend"
)

// DataLayout owns a small native layout-description handle. SetDataLayout
// only reads the handle (the backend copies the description into the
// module), so the caller keeps ownership and disposes it when done.
type DataLayout struct {
	api backend.API
	ref backend.LayoutRef
}

// NewDataLayout allocates a layout description from its textual form.
func NewDataLayout(api backend.API, repr string) DataLayout {
	return DataLayout{api: api, ref: api.CreateDataLayout(repr)}
}

// Dispose releases the native handle. Safe to call once.
func (dl *DataLayout) Dispose() {
	if dl.ref == 0 {
		return
	}
	dl.api.DisposeDataLayout(dl.ref)
	dl.ref = 0
}
