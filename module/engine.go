// Copyright (C) 2023 Huawei Technologies Co., Ltd. All rights reserved.
// SPDX-License-Identifier: MIT

package module

import (
	"errors"
	"sync"

	"llkit/backend"
)

// Named failures of the native-target bring-up steps. Each step aborts
// the steps after it.
var (
	// ErrTargetInit reports a failed native target registration.
	ErrTargetInit = errors.New("initializing native target failed")
	// ErrAsmPrinterInit reports a failed native asm printer registration.
	ErrAsmPrinterInit = errors.New("initializing native asm printer failed")
	// ErrAsmParserInit reports a failed native asm parser registration.
	ErrAsmParserInit = errors.New("initializing native asm parser failed")
	// ErrDisassemblerInit reports a failed native disassembler registration.
	ErrDisassemblerInit = errors.New("initializing native disassembler failed")
)

// EngineError carries the backend diagnostic text of a failed fallible
// operation, copied out of the foreign buffer before disposal.
type EngineError struct {
	Text string
}

func (e *EngineError) Error() string {
	return e.Text
}

// ExecutionEngine wraps a native engine handle. It is the sole owner of
// the native module it was created from.
type ExecutionEngine struct {
	api backend.API
	ref backend.EngineRef
	jit bool
}

// JIT reports whether the engine was constructed in JIT mode.
func (e *ExecutionEngine) JIT() bool {
	return e.jit
}

// Dispose releases the engine together with the module it owns.
func (e *ExecutionEngine) Dispose() {
	if e.ref == 0 {
		return
	}
	e.api.DisposeExecutionEngine(e.ref)
	e.ref = 0
}

// bringupState guards the process-wide backend registration. The native
// registries are global mutable state: linking a strategy or initializing
// the host target must happen effectively once per process, no matter how
// many engines are created. A failed bring-up is cached and returned on
// every later attempt.
type bringupState struct {
	mcjit  sync.Once
	interp sync.Once
	native sync.Once
	err    error
}

var bringup = new(bringupState)

func initNativeBackend(api backend.API) error {
	bringup.native.Do(func() {
		bringup.err = runNativeInit(api)
	})
	return bringup.err
}

// runNativeInit performs the ordered host bring-up: target, asm printer,
// asm parser, disassembler. Later steps assume earlier ones succeeded, so
// the first non-zero status aborts the sequence.
func runNativeInit(api backend.API) error {
	steps := []struct {
		run  func() int
		fail error
	}{
		{api.InitializeNativeTarget, ErrTargetInit},
		{api.InitializeNativeAsmPrinter, ErrAsmPrinterInit},
		{api.InitializeNativeAsmParser, ErrAsmParserInit},
		{api.InitializeNativeDisassembler, ErrDisassemblerInit},
	}
	for _, s := range steps {
		if s.run() != backend.StatusOK {
			return s.fail
		}
	}
	return nil
}

// CreateExecutionEngine converts the module into an execution engine.
//
// The protocol is ordered: the JIT strategy is linked in only when
// requested, then the host target chain is initialized, then the
// interpreter is linked in as the fallback strategy, and only then is the
// engine materialized. On success the native module is owned by the
// engine and this Module is consumed; any further mutation through it
// aborts. On failure the backend diagnostic is returned as *EngineError
// and the foreign buffer is disposed.
func (m *Module) CreateExecutionEngine(jitMode bool) (*ExecutionEngine, error) {
	ref := m.handle()

	if jitMode {
		bringup.mcjit.Do(m.api.LinkInMCJIT)
	}
	if err := initNativeBackend(m.api); err != nil {
		return nil, err
	}
	bringup.interp.Do(m.api.LinkInInterpreter)

	engine, code, msg := m.api.CreateExecutionEngine(ref)
	if code != backend.StatusOK {
		return nil, &EngineError{Text: takeMessage(m.api, msg)}
	}

	// The engine owns the native module now.
	m.ref = 0
	return &ExecutionEngine{api: m.api, ref: engine, jit: jitMode}, nil
}
