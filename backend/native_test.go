// Copyright (C) 2023 Huawei Technologies Co., Ltd. All rights reserved.
// SPDX-License-Identifier: MIT

package backend

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func initEngineBackend(n *Native) {
	n.LinkInInterpreter()
	n.InitializeNativeTarget()
	n.InitializeNativeAsmPrinter()
	n.InitializeNativeAsmParser()
	n.InitializeNativeDisassembler()
}

func TestParseModuleFile(t *testing.T) {
	n := NewNative()

	t.Run("valid input", func(t *testing.T) {
		fn := filepath.Join(t.TempDir(), "ok.ll")
		require.NoError(t, os.WriteFile(fn, []byte("declare i32 @main()\n"), 0600))

		m, code, msg := n.ParseModuleFile(fn)
		require.Equal(t, StatusOK, code)
		assert.Zero(t, msg)
		assert.Contains(t, n.ModuleString(m), "@main")
	})

	t.Run("syntax error", func(t *testing.T) {
		fn := filepath.Join(t.TempDir(), "bad.ll")
		require.NoError(t, os.WriteFile(fn, []byte("garbage {{{\n"), 0600))

		_, code, msg := n.ParseModuleFile(fn)
		require.Equal(t, StatusFail, code)
		require.NotZero(t, msg)
		assert.NotEmpty(t, n.MessageString(msg))
		n.DisposeMessage(msg)
		assert.Zero(t, n.LiveMessages())
	})
}

func TestVerifyModule(t *testing.T) {
	n := NewNative()
	i32 := n.IntType(32)
	sig := n.FunctionType(i32, nil)

	t.Run("valid", func(t *testing.T) {
		m := n.CreateModule("valid")
		f := n.AddFunction(m, "f", sig)
		b := n.AppendBasicBlock(f, "entry")
		n.CreateRet(b, n.ConstInt(i32, 1))

		code, msg := n.VerifyModule(m)
		assert.Equal(t, StatusOK, code)
		assert.Zero(t, msg)
	})

	t.Run("global initializer mismatch", func(t *testing.T) {
		m := n.CreateModule("globals")
		g := n.AddGlobal(m, i32, "g")
		n.SetInitializer(g, n.ConstInt(n.IntType(64), 1))

		code, msg := n.VerifyModule(m)
		require.Equal(t, StatusFail, code)
		assert.Contains(t, n.MessageString(msg), "initializer")
		n.DisposeMessage(msg)
	})
}

func TestMessageDisposeTwicePanics(t *testing.T) {
	n := NewNative()
	m := n.CreateModule("t")
	f := n.AddFunction(m, "f", n.FunctionType(n.IntType(32), nil))
	n.AppendBasicBlock(f, "entry")

	code, msg := n.VerifyModule(m)
	require.Equal(t, StatusFail, code)

	n.DisposeMessage(msg)
	assert.Panics(t, func() { n.DisposeMessage(msg) })
	assert.Panics(t, func() { n.MessageString(msg) })
}

func TestEngineOwnershipTransfer(t *testing.T) {
	n := NewNative()
	initEngineBackend(n)

	m := n.CreateModule("t")
	e, code, msg := n.CreateExecutionEngine(m)
	require.Equal(t, StatusOK, code)
	require.Zero(t, msg)
	require.NotZero(t, e)

	// The module handle is stale once the engine owns the module.
	assert.Panics(t, func() { n.SetTarget(m, "x86_64-pc-linux-gnu") })
	n.DisposeExecutionEngine(e)
}

func TestEngineRequiresRegistration(t *testing.T) {
	ResetRegistry()
	defer ResetRegistry()

	n := NewNative()
	m := n.CreateModule("t")

	_, code, msg := n.CreateExecutionEngine(m)
	require.Equal(t, StatusFail, code)
	assert.NotEmpty(t, n.MessageString(msg))
	n.DisposeMessage(msg)
}

func TestEngineRejectsForeignTriple(t *testing.T) {
	n := NewNative()
	initEngineBackend(n)

	m := n.CreateModule("t")
	n.SetTarget(m, "quantum99-unknown-none")

	_, code, msg := n.CreateExecutionEngine(m)
	require.Equal(t, StatusFail, code)
	assert.Contains(t, n.MessageString(msg), "quantum99")
	n.DisposeMessage(msg)
}

func TestHostTriple(t *testing.T) {
	testCases := []struct {
		triple string
		ok     bool
	}{
		{"x86_64-pc-linux-gnu", true},
		{"aarch64-unknown-linux-gnu", true},
		{"arm64", true},
		{"quantum99-unknown-none", false},
		{"", false},
	}
	for _, tc := range testCases {
		t.Run(fmt.Sprintf("%v", tc), func(t *testing.T) {
			assert.Equal(t, tc.ok, hostTriple(tc.triple))
		})
	}
}

func TestValueHandleIdentity(t *testing.T) {
	n := NewNative()
	m := n.CreateModule("t")
	sig := n.FunctionType(n.IntType(32), nil)

	f := n.AddFunction(m, "f", sig)
	assert.Equal(t, f, n.GetNamedFunction(m, "f"))
	assert.Zero(t, n.GetNamedFunction(m, "g"))
}

func TestTypeKinds(t *testing.T) {
	n := NewNative()

	assert.Equal(t, VoidKind, n.TypeKind(n.VoidType()))
	assert.Equal(t, IntKind, n.TypeKind(n.IntType(1)))
	assert.Equal(t, FunctionKind, n.TypeKind(n.FunctionType(n.VoidType(), nil)))
	assert.Equal(t, "IntKind", IntKind.String())
}
