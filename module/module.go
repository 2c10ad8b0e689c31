// Copyright (C) 2023 Huawei Technologies Co., Ltd. All rights reserved.
// SPDX-License-Identifier: MIT

package module

import (
	"fmt"
	"strings"

	"llkit/backend"
	"llkit/logger"
	"llkit/types"
	"llkit/values"
)

// Module owns one native module handle. The handle is non-null for the
// lifetime of the wrapper, until an execution engine is created from it;
// at that point ownership moves into the engine and the wrapper is
// consumed. A Module must not be copied: that would create two owners of
// one native resource.
type Module struct {
	api backend.API
	ref backend.ModuleRef
}

// New wraps a native module handle obtained from the enclosing context.
// A null handle is a backend contract failure the wrapper cannot recover
// from and aborts.
func New(api backend.API, ref backend.ModuleRef) *Module {
	if ref == 0 {
		logger.Fatal("module: null module handle from backend")
	}
	return &Module{api: api, ref: ref}
}

// Create allocates a fresh empty module with the given name.
func Create(api backend.API, name string) *Module {
	return New(api, api.CreateModule(symbolName(name)))
}

// Load parses a textual IR file into a new module.
func Load(api backend.API, fn string) (*Module, error) {
	logger.Infof("Parse '%s'", fn)

	ref, code, msg := api.ParseModuleFile(fn)
	if code != backend.StatusOK {
		return nil, fmt.Errorf("parse %s: %s", fn, takeMessage(api, msg))
	}
	return New(api, ref), nil
}

// handle returns the native handle, aborting on use after the module has
// been consumed by an execution engine.
func (m *Module) handle() backend.ModuleRef {
	if m.ref == 0 {
		logger.Fatal("module: use after ownership transfer to an execution engine")
	}
	return m.ref
}

// symbolName enforces the backend requirement that symbol names and paths
// are plain NUL-free text. Violations are programmer errors, not
// recoverable results.
func symbolName(name string) string {
	if strings.IndexByte(name, 0) >= 0 {
		logger.Fatalf("module: name %q contains a NUL byte", name)
	}
	return name
}

// AddFunction declares a function with the given name and signature. No
// uniqueness check is performed; re-declaring an existing name follows
// backend semantics.
func (m *Module) AddFunction(name string, fnType types.FunctionType) values.FunctionValue {
	ref := m.api.AddFunction(m.handle(), symbolName(name), fnType.TypeRef())
	return values.NewFunction(ref)
}

// GetFunction looks up an existing declaration by exact name. Absence is
// a normal case, not an error.
func (m *Module) GetFunction(name string) (values.FunctionValue, bool) {
	ref := m.api.GetNamedFunction(m.handle(), symbolName(name))
	if ref == 0 {
		return values.FunctionValue{}, false
	}
	return values.NewFunction(ref), true
}

// GetType looks up a named type definition.
func (m *Module) GetType(name string) (types.BasicTypeEnum, bool) {
	ref := m.api.GetTypeByName(m.handle(), symbolName(name))
	if ref == 0 {
		return types.BasicTypeEnum{}, false
	}
	return types.Enum(m.api, ref), true
}

// SetTarget sets the target triple on the module. The triple is not
// validated here; a bad triple surfaces at engine creation or code
// generation.
func (m *Module) SetTarget(triple string) {
	m.api.SetTarget(m.handle(), symbolName(triple))
}

// AddGlobal declares a global variable of the given type and installs the
// initializer when one is supplied (nil means none). Collisions follow
// backend semantics.
func (m *Module) AddGlobal(typ types.BasicType, init values.BasicValue, name string) values.PointerValue {
	ref := m.api.AddGlobal(m.handle(), typ.TypeRef(), symbolName(name))
	if init != nil {
		m.api.SetInitializer(ref, init.ValueRef())
	}
	return values.NewPointer(ref)
}

// Verify checks the structural and semantic well-formedness of the whole
// module. Failing verification is a query outcome, not an error: the
// result is a boolean, and the diagnostic text is written to the logger
// only when print is set. The foreign diagnostic buffer is disposed on
// every path.
func (m *Module) Verify(print bool) bool {
	code, msg := m.api.VerifyModule(m.handle())
	if code == backend.StatusOK {
		return true
	}
	text := takeMessage(m.api, msg)
	if print && text != "" {
		logger.Error(text)
	}
	return false
}

// WriteBitcodeToFile serializes the module's binary form to path. Best
// effort: the backend makes no atomicity claims, and neither does this
// wrapper.
func (m *Module) WriteBitcodeToFile(path string) bool {
	return m.api.WriteBitcodeToFile(m.handle(), symbolName(path)) == backend.StatusOK
}

// CreateFunctionPassManager allocates a pass manager bound to this
// module. The caller disposes it independently of the module.
func (m *Module) CreateFunctionPassManager() PassManager {
	return PassManager{api: m.api, ref: m.api.CreateFunctionPassManager(m.handle())}
}

// SetDataLayout applies a data-layout description to the module. The
// backend copies the description; the layout handle stays owned by the
// caller.
func (m *Module) SetDataLayout(dl DataLayout) {
	m.api.SetDataLayout(m.handle(), dl.ref)
}

// String renders the module in its human-readable textual form.
func (m *Module) String() string {
	return m.api.ModuleString(m.handle())
}

// Dump writes the textual form of the module to the debug channel.
func (m *Module) Dump() {
	logger.Println(m.String())
}
