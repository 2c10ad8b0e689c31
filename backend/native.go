// Copyright (C) 2023 Huawei Technologies Co., Ltd. All rights reserved.
// SPDX-License-Identifier: MIT

package backend

import (
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/llir/llvm/asm"
	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"
)

const fileMode = 0600

// registry holds the process-wide execution backend state. Target and
// strategy registration outlives any Native instance, mirroring the
// global registries of the native library.
var registry struct {
	sync.Mutex
	mcjit  bool
	interp bool

	target     bool
	asmPrinter bool
	asmParser  bool
	disasm     bool
}

// archs the host engine can materialize code for.
var knownArchs = map[string]bool{
	"x86_64":  true,
	"amd64":   true,
	"i386":    true,
	"i686":    true,
	"aarch64": true,
	"arm64":   true,
	"riscv64": true,
}

type message struct {
	text     string
	disposed bool
}

// Native is the reference backend, holding modules as llir IR behind
// integer handles. Message buffers are tracked so that tests can observe
// leaks; disposing a buffer twice or touching it after disposal panics.
type Native struct {
	mu      sync.Mutex
	nextRef uint64

	modules map[ModuleRef]*ir.Module
	engines map[EngineRef]*ir.Module
	passes  map[PassRef]*ir.Module
	layouts map[LayoutRef]string

	typs   map[TypeRef]types.Type
	typRef map[types.Type]TypeRef
	vals   map[ValueRef]value.Value
	valRef map[value.Value]ValueRef
	blocks map[BlockRef]*ir.Block

	msgs map[MessageRef]*message
}

// NewNative returns an empty backend instance. Registration state is
// process-wide and shared between instances.
func NewNative() *Native {
	return &Native{
		modules: make(map[ModuleRef]*ir.Module),
		engines: make(map[EngineRef]*ir.Module),
		passes:  make(map[PassRef]*ir.Module),
		layouts: make(map[LayoutRef]string),
		typs:    make(map[TypeRef]types.Type),
		typRef:  make(map[types.Type]TypeRef),
		vals:    make(map[ValueRef]value.Value),
		valRef:  make(map[value.Value]ValueRef),
		blocks:  make(map[BlockRef]*ir.Block),
		msgs:    make(map[MessageRef]*message),
	}
}

func (n *Native) ref() uint64 {
	n.nextRef++
	return n.nextRef
}

func (n *Native) module(m ModuleRef) *ir.Module {
	mod, ok := n.modules[m]
	if !ok {
		panic(fmt.Sprintf("backend: unknown or stale module handle %#x", uint64(m)))
	}
	return mod
}

func (n *Native) typ(t TypeRef) types.Type {
	typ, ok := n.typs[t]
	if !ok {
		panic(fmt.Sprintf("backend: unknown type handle %#x", uint64(t)))
	}
	return typ
}

func (n *Native) val(v ValueRef) value.Value {
	val, ok := n.vals[v]
	if !ok {
		panic(fmt.Sprintf("backend: unknown value handle %#x", uint64(v)))
	}
	return val
}

func (n *Native) putType(t types.Type) TypeRef {
	if r, ok := n.typRef[t]; ok {
		return r
	}
	r := TypeRef(n.ref())
	n.typs[r] = t
	n.typRef[t] = r
	return r
}

func (n *Native) putValue(v value.Value) ValueRef {
	if r, ok := n.valRef[v]; ok {
		return r
	}
	r := ValueRef(n.ref())
	n.vals[r] = v
	n.valRef[v] = r
	return r
}

func (n *Native) newMessage(text string) MessageRef {
	r := MessageRef(n.ref())
	n.msgs[r] = &message{text: text}
	return r
}

// CreateModule allocates a fresh empty module.
func (n *Native) CreateModule(name string) ModuleRef {
	n.mu.Lock()
	defer n.mu.Unlock()

	mod := ir.NewModule()
	mod.SourceFilename = name
	r := ModuleRef(n.ref())
	n.modules[r] = mod
	return r
}

// ParseModuleFile loads a textual IR file into a fresh module. On parse
// failure the returned message buffer carries the parser diagnostic.
func (n *Native) ParseModuleFile(path string) (ModuleRef, int, MessageRef) {
	mod, err := asm.ParseFile(path)

	n.mu.Lock()
	defer n.mu.Unlock()
	if err != nil {
		return 0, StatusFail, n.newMessage(err.Error())
	}
	r := ModuleRef(n.ref())
	n.modules[r] = mod
	return r, StatusOK, 0
}

// AddFunction declares a function with the given signature. The fnType
// handle must refer to a function type.
func (n *Native) AddFunction(m ModuleRef, name string, fnType TypeRef) ValueRef {
	n.mu.Lock()
	defer n.mu.Unlock()

	sig, ok := n.typ(fnType).(*types.FuncType)
	if !ok {
		panic(fmt.Sprintf("backend: AddFunction with non-function type %v", n.typ(fnType)))
	}
	var params []*ir.Param
	for _, pt := range sig.Params {
		params = append(params, ir.NewParam("", pt))
	}
	f := n.module(m).NewFunc(name, sig.RetType, params...)
	return n.putValue(f)
}

// GetNamedFunction returns the function with the given name, or the null
// handle when absent.
func (n *Native) GetNamedFunction(m ModuleRef, name string) ValueRef {
	n.mu.Lock()
	defer n.mu.Unlock()

	for _, f := range n.module(m).Funcs {
		if f.Name() == name {
			return n.putValue(f)
		}
	}
	return 0
}

// GetTypeByName returns the named type definition, or the null handle.
func (n *Native) GetTypeByName(m ModuleRef, name string) TypeRef {
	n.mu.Lock()
	defer n.mu.Unlock()

	for _, t := range n.module(m).TypeDefs {
		named, ok := t.(interface{ Name() string })
		if ok && named.Name() == name {
			return n.putType(t)
		}
	}
	return 0
}

// SetTarget records the target triple on the module. The triple is not
// validated here; a bad triple surfaces at engine creation.
func (n *Native) SetTarget(m ModuleRef, triple string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.module(m).TargetTriple = triple
}

// AddGlobal declares a global variable of the given content type.
func (n *Native) AddGlobal(m ModuleRef, typ TypeRef, name string) ValueRef {
	n.mu.Lock()
	defer n.mu.Unlock()

	g := n.module(m).NewGlobal(name, n.typ(typ))
	return n.putValue(g)
}

// SetInitializer installs an initializer constant on a global.
func (n *Native) SetInitializer(global, val ValueRef) {
	n.mu.Lock()
	defer n.mu.Unlock()

	g, ok := n.val(global).(*ir.Global)
	if !ok {
		panic(fmt.Sprintf("backend: SetInitializer on non-global %v", n.val(global)))
	}
	c, ok := n.val(val).(constant.Constant)
	if !ok {
		panic(fmt.Sprintf("backend: initializer %v is not a constant", n.val(val)))
	}
	g.Init = c
}

// VerifyModule checks the structural well-formedness of the module. On
// failure it returns StatusFail and a message buffer the caller owns.
func (n *Native) VerifyModule(m ModuleRef) (int, MessageRef) {
	n.mu.Lock()
	defer n.mu.Unlock()

	probs := verify(n.module(m))
	if len(probs) == 0 {
		return StatusOK, 0
	}
	return StatusFail, n.newMessage(strings.Join(probs, "\n"))
}

func verify(mod *ir.Module) []string {
	var probs []string
	for _, f := range mod.Funcs {
		for _, b := range f.Blocks {
			if b.Term == nil {
				probs = append(probs,
					fmt.Sprintf("basic block in function '%s' does not have a terminator", f.Name()))
				continue
			}
			ret, ok := b.Term.(*ir.TermRet)
			if !ok {
				continue
			}
			_, void := f.Sig.RetType.(*types.VoidType)
			switch {
			case void && ret.X != nil:
				probs = append(probs,
					fmt.Sprintf("function '%s' returns void but ret has an operand", f.Name()))
			case !void && ret.X == nil:
				probs = append(probs,
					fmt.Sprintf("function '%s' return type does not match operand type of ret", f.Name()))
			case !void && !ret.X.Type().Equal(f.Sig.RetType):
				probs = append(probs,
					fmt.Sprintf("function '%s' return type does not match operand type of ret", f.Name()))
			}
		}
	}
	for _, g := range mod.Globals {
		if g.Init != nil && !g.Init.Type().Equal(g.ContentType) {
			probs = append(probs,
				fmt.Sprintf("global '%s' initializer type does not match content type", g.Name()))
		}
	}
	return probs
}

// WriteBitcodeToFile persists the backend's serialized form of the module.
// The format is backend-defined; callers treat the file as opaque.
func (n *Native) WriteBitcodeToFile(m ModuleRef, path string) int {
	n.mu.Lock()
	text := n.module(m).String()
	n.mu.Unlock()

	if err := os.WriteFile(path, []byte(text), fileMode); err != nil {
		return StatusFail
	}
	return StatusOK
}

// ModuleString renders the module in its textual form.
func (n *Native) ModuleString(m ModuleRef) string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.module(m).String()
}

// CreateFunctionPassManager allocates a pass manager bound to the module.
func (n *Native) CreateFunctionPassManager(m ModuleRef) PassRef {
	n.mu.Lock()
	defer n.mu.Unlock()

	r := PassRef(n.ref())
	n.passes[r] = n.module(m)
	return r
}

// DisposePassManager releases a pass manager handle.
func (n *Native) DisposePassManager(p PassRef) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if _, ok := n.passes[p]; !ok {
		panic(fmt.Sprintf("backend: dispose of unknown pass manager %#x", uint64(p)))
	}
	delete(n.passes, p)
}

// CreateDataLayout allocates a layout-description handle.
func (n *Native) CreateDataLayout(repr string) LayoutRef {
	n.mu.Lock()
	defer n.mu.Unlock()

	r := LayoutRef(n.ref())
	n.layouts[r] = repr
	return r
}

// DisposeDataLayout releases a layout handle.
func (n *Native) DisposeDataLayout(l LayoutRef) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if _, ok := n.layouts[l]; !ok {
		panic(fmt.Sprintf("backend: dispose of unknown data layout %#x", uint64(l)))
	}
	delete(n.layouts, l)
}

// SetDataLayout copies the layout description into the module. The layout
// handle is only read; the caller keeps ownership.
func (n *Native) SetDataLayout(m ModuleRef, l LayoutRef) {
	n.mu.Lock()
	defer n.mu.Unlock()

	repr, ok := n.layouts[l]
	if !ok {
		panic(fmt.Sprintf("backend: unknown data layout handle %#x", uint64(l)))
	}
	n.module(m).DataLayout = repr
}

// LinkInMCJIT registers the JIT compilation strategy process-wide.
func (n *Native) LinkInMCJIT() {
	registry.Lock()
	defer registry.Unlock()
	registry.mcjit = true
}

// LinkInInterpreter registers the interpretation strategy process-wide.
func (n *Native) LinkInInterpreter() {
	registry.Lock()
	defer registry.Unlock()
	registry.interp = true
}

// InitializeNativeTarget registers the host target.
func (n *Native) InitializeNativeTarget() int {
	registry.Lock()
	defer registry.Unlock()
	registry.target = true
	return StatusOK
}

// InitializeNativeAsmPrinter registers the host assembly printer.
func (n *Native) InitializeNativeAsmPrinter() int {
	registry.Lock()
	defer registry.Unlock()
	registry.asmPrinter = true
	return StatusOK
}

// InitializeNativeAsmParser registers the host assembly parser.
func (n *Native) InitializeNativeAsmParser() int {
	registry.Lock()
	defer registry.Unlock()
	registry.asmParser = true
	return StatusOK
}

// InitializeNativeDisassembler registers the host disassembler.
func (n *Native) InitializeNativeDisassembler() int {
	registry.Lock()
	defer registry.Unlock()
	registry.disasm = true
	return StatusOK
}

// CreateExecutionEngine materializes an engine from the module. On success
// the module handle is retired: the engine owns the module from then on.
func (n *Native) CreateExecutionEngine(m ModuleRef) (EngineRef, int, MessageRef) {
	registry.Lock()
	ready := registry.target && registry.asmPrinter && registry.asmParser && registry.disasm
	linked := registry.interp || registry.mcjit
	registry.Unlock()

	n.mu.Lock()
	defer n.mu.Unlock()

	mod := n.module(m)
	switch {
	case !ready:
		return 0, StatusFail, n.newMessage("native target is not initialized")
	case !linked:
		return 0, StatusFail, n.newMessage("no execution strategy has been linked in")
	}
	if t := mod.TargetTriple; t != "" && !hostTriple(t) {
		return 0, StatusFail,
			n.newMessage(fmt.Sprintf("no available targets are compatible with triple %q", t))
	}

	r := EngineRef(n.ref())
	n.engines[r] = mod
	delete(n.modules, m)
	return r, StatusOK, 0
}

// DisposeExecutionEngine releases the engine and the module it owns.
func (n *Native) DisposeExecutionEngine(e EngineRef) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if _, ok := n.engines[e]; !ok {
		panic(fmt.Sprintf("backend: dispose of unknown engine %#x", uint64(e)))
	}
	delete(n.engines, e)
}

func hostTriple(triple string) bool {
	arch := triple
	if i := strings.IndexByte(triple, '-'); i >= 0 {
		arch = triple[:i]
	}
	return knownArchs[arch]
}

// MessageString returns the contents of a diagnostic buffer.
func (n *Native) MessageString(msg MessageRef) string {
	n.mu.Lock()
	defer n.mu.Unlock()

	ms, ok := n.msgs[msg]
	if !ok {
		panic(fmt.Sprintf("backend: unknown message handle %#x", uint64(msg)))
	}
	if ms.disposed {
		panic(fmt.Sprintf("backend: use of disposed message %#x", uint64(msg)))
	}
	return ms.text
}

// DisposeMessage releases a diagnostic buffer. Releasing a buffer twice is
// a memory-safety violation and panics.
func (n *Native) DisposeMessage(msg MessageRef) {
	n.mu.Lock()
	defer n.mu.Unlock()

	ms, ok := n.msgs[msg]
	if !ok {
		panic(fmt.Sprintf("backend: dispose of unknown message %#x", uint64(msg)))
	}
	if ms.disposed {
		panic(fmt.Sprintf("backend: double dispose of message %#x", uint64(msg)))
	}
	ms.disposed = true
}

// LiveMessages counts the diagnostic buffers that have been produced but
// not yet disposed. Tests use it as leak instrumentation.
func (n *Native) LiveMessages() int {
	n.mu.Lock()
	defer n.mu.Unlock()

	live := 0
	for _, ms := range n.msgs {
		if !ms.disposed {
			live++
		}
	}
	return live
}

// VoidType returns the void type handle.
func (n *Native) VoidType() TypeRef {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.putType(types.Void)
}

// IntType returns an integer type of the given bit width.
func (n *Native) IntType(bits int) TypeRef {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.putType(types.NewInt(uint64(bits)))
}

// FunctionType returns a function signature type.
func (n *Native) FunctionType(ret TypeRef, params []TypeRef) TypeRef {
	n.mu.Lock()
	defer n.mu.Unlock()

	var pts []types.Type
	for _, p := range params {
		pts = append(pts, n.typ(p))
	}
	return n.putType(types.NewFunc(n.typ(ret), pts...))
}

// TypeKind classifies a type handle.
func (n *Native) TypeKind(t TypeRef) TypeKind {
	n.mu.Lock()
	defer n.mu.Unlock()

	switch n.typ(t).(type) {
	case *types.VoidType:
		return VoidKind
	case *types.IntType:
		return IntKind
	case *types.FloatType:
		return FloatKind
	case *types.PointerType:
		return PointerKind
	case *types.FuncType:
		return FunctionKind
	case *types.StructType:
		return StructKind
	case *types.ArrayType:
		return ArrayKind
	default:
		return OtherKind
	}
}

// ConstInt returns an integer constant of the given type.
func (n *Native) ConstInt(t TypeRef, v uint64) ValueRef {
	n.mu.Lock()
	defer n.mu.Unlock()

	it, ok := n.typ(t).(*types.IntType)
	if !ok {
		panic(fmt.Sprintf("backend: ConstInt with non-integer type %v", n.typ(t)))
	}
	return n.putValue(constant.NewInt(it, int64(v)))
}

// AppendBasicBlock appends a basic block to a function body.
func (n *Native) AppendBasicBlock(fn ValueRef, name string) BlockRef {
	n.mu.Lock()
	defer n.mu.Unlock()

	f, ok := n.val(fn).(*ir.Func)
	if !ok {
		panic(fmt.Sprintf("backend: AppendBasicBlock on non-function %v", n.val(fn)))
	}
	b := f.NewBlock(name)
	r := BlockRef(n.ref())
	n.blocks[r] = b
	return r
}

// CreateRet terminates a block with a return. The null value handle emits
// a void return.
func (n *Native) CreateRet(b BlockRef, v ValueRef) {
	n.mu.Lock()
	defer n.mu.Unlock()

	blk, ok := n.blocks[b]
	if !ok {
		panic(fmt.Sprintf("backend: unknown block handle %#x", uint64(b)))
	}
	if v == 0 {
		blk.NewRet(nil)
		return
	}
	blk.NewRet(n.val(v))
}

// ResetRegistry clears the process-wide registration flags. Only tests may
// call this; the native library has no equivalent.
func ResetRegistry() {
	registry.Lock()
	defer registry.Unlock()
	registry.mcjit = false
	registry.interp = false
	registry.target = false
	registry.asmPrinter = false
	registry.asmParser = false
	registry.disasm = false
}

var _ API = (*Native)(nil)
