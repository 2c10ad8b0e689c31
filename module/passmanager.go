// Copyright (C) 2023 Huawei Technologies Co., Ltd. All rights reserved.
// SPDX-License-Identifier: MIT

package module

import (
	"llkit/backend"
)

// PassManager owns a native function-pass-manager handle created from a
// module. Its lifecycle is independent of the module: the caller disposes
// it explicitly.
type PassManager struct {
	api backend.API
	ref backend.PassRef
}

// Ref exposes the raw handle to downstream pass-execution consumers.
func (p PassManager) Ref() backend.PassRef {
	return p.ref
}

// Dispose releases the native handle. Safe to call once.
func (p *PassManager) Dispose() {
	if p.ref == 0 {
		return
	}
	p.api.DisposePassManager(p.ref)
	p.ref = 0
}
