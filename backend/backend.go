// Copyright (C) 2023 Huawei Technologies Co., Ltd. All rights reserved.
// SPDX-License-Identifier: MIT

// Package backend defines the narrow foreign interface of the native
// code-generation backend: opaque integer handles, C-style status codes and
// the API surface consumed by the wrapper layer. The reference
// implementation (Native) is built on github.com/llir; Mock is a
// fault-injection stand-in for tests.
package backend

// Opaque handles into the backend's object graph. The zero value is the
// null handle.
type (
	// ModuleRef identifies a module owned by the backend.
	ModuleRef uint64
	// TypeRef identifies a type.
	TypeRef uint64
	// ValueRef identifies a value (function, global, constant).
	ValueRef uint64
	// BlockRef identifies a basic block within a function.
	BlockRef uint64
	// EngineRef identifies an execution engine.
	EngineRef uint64
	// PassRef identifies a function pass manager.
	PassRef uint64
	// LayoutRef identifies a data-layout description.
	LayoutRef uint64
	// MessageRef identifies a heap-allocated diagnostic message buffer.
	// The receiver must dispose it exactly once.
	MessageRef uint64
)

// Status codes returned by fallible backend operations.
const (
	StatusOK   = 0
	StatusFail = 1
)

// TypeKind classifies a type handle.
type TypeKind int

//go:generate go run golang.org/x/tools/cmd/stringer -type=TypeKind
const (
	// OtherKind is any type not covered by the kinds below.
	OtherKind TypeKind = iota
	// VoidKind is the void type.
	VoidKind
	// IntKind is an integer type of any bit width.
	IntKind
	// FloatKind is a floating-point type.
	FloatKind
	// PointerKind is a pointer type.
	PointerKind
	// FunctionKind is a function signature type.
	FunctionKind
	// StructKind is a structure type.
	StructKind
	// ArrayKind is an array type.
	ArrayKind
)

// API is the backend surface consumed by the wrapper layer. All methods
// follow the backend's C conventions: integer status codes (StatusOK,
// StatusFail), null handles as absence sentinels, and out-of-band
// MessageRef diagnostic buffers that the caller owns on failure.
//
// Passing an unknown or stale handle to any method is a contract violation
// and panics; the wrapper layer is responsible for never doing so.
type API interface {
	// Module construction and queries.
	CreateModule(name string) ModuleRef
	ParseModuleFile(path string) (ModuleRef, int, MessageRef)
	AddFunction(m ModuleRef, name string, fnType TypeRef) ValueRef
	GetNamedFunction(m ModuleRef, name string) ValueRef
	GetTypeByName(m ModuleRef, name string) TypeRef
	SetTarget(m ModuleRef, triple string)
	AddGlobal(m ModuleRef, typ TypeRef, name string) ValueRef
	SetInitializer(global, value ValueRef)
	VerifyModule(m ModuleRef) (int, MessageRef)
	WriteBitcodeToFile(m ModuleRef, path string) int
	ModuleString(m ModuleRef) string

	// Pass managers and data layouts.
	CreateFunctionPassManager(m ModuleRef) PassRef
	DisposePassManager(p PassRef)
	CreateDataLayout(repr string) LayoutRef
	DisposeDataLayout(l LayoutRef)
	SetDataLayout(m ModuleRef, l LayoutRef)

	// Process-wide execution backend registration. The Initialize steps
	// return a status code each; engine creation requires all of them to
	// have succeeded and at least one execution strategy to be linked in.
	LinkInMCJIT()
	LinkInInterpreter()
	InitializeNativeTarget() int
	InitializeNativeAsmPrinter() int
	InitializeNativeAsmParser() int
	InitializeNativeDisassembler() int

	// CreateExecutionEngine materializes an engine from a module. On
	// success the backend transfers ownership of the module into the
	// engine and the module handle becomes stale.
	CreateExecutionEngine(m ModuleRef) (EngineRef, int, MessageRef)
	DisposeExecutionEngine(e EngineRef)

	// Diagnostic message buffers.
	MessageString(msg MessageRef) string
	DisposeMessage(msg MessageRef)

	// Type and value factory, consumed by the type/value wrapper layers.
	VoidType() TypeRef
	IntType(bits int) TypeRef
	FunctionType(ret TypeRef, params []TypeRef) TypeRef
	TypeKind(t TypeRef) TypeKind
	ConstInt(t TypeRef, v uint64) ValueRef
	AppendBasicBlock(fn ValueRef, name string) BlockRef
	CreateRet(b BlockRef, v ValueRef)
}
