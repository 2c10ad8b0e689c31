// Copyright (C) 2023 Huawei Technologies Co., Ltd. All rights reserved.
// SPDX-License-Identifier: MIT

package backend

import "fmt"

// Mock is a scriptable API implementation for tests. It records the
// sequence of calls and can be told to fail any of the native-init steps
// or engine creation. Message buffers are tracked like in Native so that
// tests can assert on leaks and double disposal.
type Mock struct {
	Calls []string

	FailTarget       bool
	FailAsmPrinter   bool
	FailAsmParser    bool
	FailDisassembler bool

	// EngineErr, when non-empty, makes CreateExecutionEngine fail with
	// this diagnostic text.
	EngineErr string

	// VerifyErr, when non-empty, makes VerifyModule fail with this
	// diagnostic text.
	VerifyErr string

	nextRef uint64
	modules map[ModuleRef]bool
	msgs    map[MessageRef]*message
}

// NewMock returns an empty mock backend.
func NewMock() *Mock {
	return &Mock{
		modules: make(map[ModuleRef]bool),
		msgs:    make(map[MessageRef]*message),
	}
}

func (c *Mock) record(call string) {
	c.Calls = append(c.Calls, call)
}

// CallCount returns how often the named call was recorded.
func (c *Mock) CallCount(call string) int {
	count := 0
	for _, s := range c.Calls {
		if s == call {
			count++
		}
	}
	return count
}

func (c *Mock) ref() uint64 {
	c.nextRef++
	return c.nextRef
}

func (c *Mock) newMessage(text string) MessageRef {
	r := MessageRef(c.ref())
	c.msgs[r] = &message{text: text}
	return r
}

func (c *Mock) status(fail bool) int {
	if fail {
		return StatusFail
	}
	return StatusOK
}

func (c *Mock) CreateModule(name string) ModuleRef {
	c.record("CreateModule")
	r := ModuleRef(c.ref())
	c.modules[r] = true
	return r
}

func (c *Mock) ParseModuleFile(path string) (ModuleRef, int, MessageRef) {
	c.record("ParseModuleFile")
	return c.CreateModule(path), StatusOK, 0
}

func (c *Mock) AddFunction(m ModuleRef, name string, fnType TypeRef) ValueRef {
	c.record("AddFunction")
	return ValueRef(c.ref())
}

func (c *Mock) GetNamedFunction(m ModuleRef, name string) ValueRef {
	c.record("GetNamedFunction")
	return 0
}

func (c *Mock) GetTypeByName(m ModuleRef, name string) TypeRef {
	c.record("GetTypeByName")
	return 0
}

func (c *Mock) SetTarget(m ModuleRef, triple string) {
	c.record("SetTarget")
}

func (c *Mock) AddGlobal(m ModuleRef, typ TypeRef, name string) ValueRef {
	c.record("AddGlobal")
	return ValueRef(c.ref())
}

func (c *Mock) SetInitializer(global, value ValueRef) {
	c.record("SetInitializer")
}

func (c *Mock) VerifyModule(m ModuleRef) (int, MessageRef) {
	c.record("VerifyModule")
	if c.VerifyErr != "" {
		return StatusFail, c.newMessage(c.VerifyErr)
	}
	return StatusOK, 0
}

func (c *Mock) WriteBitcodeToFile(m ModuleRef, path string) int {
	c.record("WriteBitcodeToFile")
	return StatusOK
}

func (c *Mock) ModuleString(m ModuleRef) string {
	c.record("ModuleString")
	return ""
}

func (c *Mock) CreateFunctionPassManager(m ModuleRef) PassRef {
	c.record("CreateFunctionPassManager")
	return PassRef(c.ref())
}

func (c *Mock) DisposePassManager(p PassRef) {
	c.record("DisposePassManager")
}

func (c *Mock) CreateDataLayout(repr string) LayoutRef {
	c.record("CreateDataLayout")
	return LayoutRef(c.ref())
}

func (c *Mock) DisposeDataLayout(l LayoutRef) {
	c.record("DisposeDataLayout")
}

func (c *Mock) SetDataLayout(m ModuleRef, l LayoutRef) {
	c.record("SetDataLayout")
}

func (c *Mock) LinkInMCJIT() {
	c.record("LinkInMCJIT")
}

func (c *Mock) LinkInInterpreter() {
	c.record("LinkInInterpreter")
}

func (c *Mock) InitializeNativeTarget() int {
	c.record("InitializeNativeTarget")
	return c.status(c.FailTarget)
}

func (c *Mock) InitializeNativeAsmPrinter() int {
	c.record("InitializeNativeAsmPrinter")
	return c.status(c.FailAsmPrinter)
}

func (c *Mock) InitializeNativeAsmParser() int {
	c.record("InitializeNativeAsmParser")
	return c.status(c.FailAsmParser)
}

func (c *Mock) InitializeNativeDisassembler() int {
	c.record("InitializeNativeDisassembler")
	return c.status(c.FailDisassembler)
}

func (c *Mock) CreateExecutionEngine(m ModuleRef) (EngineRef, int, MessageRef) {
	c.record("CreateExecutionEngine")
	if c.EngineErr != "" {
		return 0, StatusFail, c.newMessage(c.EngineErr)
	}
	delete(c.modules, m)
	return EngineRef(c.ref()), StatusOK, 0
}

func (c *Mock) DisposeExecutionEngine(e EngineRef) {
	c.record("DisposeExecutionEngine")
}

func (c *Mock) MessageString(msg MessageRef) string {
	ms, ok := c.msgs[msg]
	if !ok || ms.disposed {
		panic(fmt.Sprintf("mock: use of unknown or disposed message %#x", uint64(msg)))
	}
	return ms.text
}

func (c *Mock) DisposeMessage(msg MessageRef) {
	ms, ok := c.msgs[msg]
	if !ok {
		panic(fmt.Sprintf("mock: dispose of unknown message %#x", uint64(msg)))
	}
	if ms.disposed {
		panic(fmt.Sprintf("mock: double dispose of message %#x", uint64(msg)))
	}
	ms.disposed = true
}

// LiveMessages counts undisposed message buffers.
func (c *Mock) LiveMessages() int {
	live := 0
	for _, ms := range c.msgs {
		if !ms.disposed {
			live++
		}
	}
	return live
}

func (c *Mock) VoidType() TypeRef {
	c.record("VoidType")
	return TypeRef(c.ref())
}

func (c *Mock) IntType(bits int) TypeRef {
	c.record("IntType")
	return TypeRef(c.ref())
}

func (c *Mock) FunctionType(ret TypeRef, params []TypeRef) TypeRef {
	c.record("FunctionType")
	return TypeRef(c.ref())
}

func (c *Mock) TypeKind(t TypeRef) TypeKind {
	c.record("TypeKind")
	return OtherKind
}

func (c *Mock) ConstInt(t TypeRef, v uint64) ValueRef {
	c.record("ConstInt")
	return ValueRef(c.ref())
}

func (c *Mock) AppendBasicBlock(fn ValueRef, name string) BlockRef {
	c.record("AppendBasicBlock")
	return BlockRef(c.ref())
}

func (c *Mock) CreateRet(b BlockRef, v ValueRef) {
	c.record("CreateRet")
}

var _ API = (*Mock)(nil)
