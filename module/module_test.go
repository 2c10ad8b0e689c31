// Copyright (C) 2023 Huawei Technologies Co., Ltd. All rights reserved.
// SPDX-License-Identifier: MIT

package module

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"llkit/backend"
	"llkit/logger"
	"llkit/types"
	"llkit/values"
)

func newTestModule(t *testing.T) (*Module, *backend.Native) {
	t.Helper()
	api := backend.NewNative()
	return Create(api, t.Name()), api
}

// addMain declares i32 @main() with a body returning zero.
func addMain(api *backend.Native, m *Module) values.FunctionValue {
	i32 := types.Int(api, 32)
	f := m.AddFunction("main", types.Function(api, i32))
	b := api.AppendBasicBlock(f.ValueRef(), "entry")
	api.CreateRet(b, values.ConstInt(api, i32.TypeRef(), 0).ValueRef())
	return f
}

func TestAddFunctionGetFunction(t *testing.T) {
	m, api := newTestModule(t)
	i32 := types.Int(api, 32)

	f := m.AddFunction("answer", types.Function(api, i32))
	g := m.AddFunction("other", types.Function(api, i32, i32))

	got, ok := m.GetFunction("answer")
	require.True(t, ok)
	assert.Equal(t, f.ValueRef(), got.ValueRef())

	got, ok = m.GetFunction("other")
	require.True(t, ok)
	assert.Equal(t, g.ValueRef(), got.ValueRef())

	_, ok = m.GetFunction("never-declared")
	assert.False(t, ok)
}

func TestGetTypeAbsent(t *testing.T) {
	m, _ := newTestModule(t)
	_, ok := m.GetType("missing")
	assert.False(t, ok)
}

func TestGetTypeNamed(t *testing.T) {
	fn := filepath.Join(t.TempDir(), "pair.ll")
	src := "%pair = type { i32, i32 }\n"
	require.NoError(t, os.WriteFile(fn, []byte(src), 0600))

	api := backend.NewNative()
	m, err := Load(api, fn)
	require.NoError(t, err)

	typ, ok := m.GetType("pair")
	require.True(t, ok)
	assert.Equal(t, backend.StructKind, typ.Kind())
}

func TestAddGlobal(t *testing.T) {
	m, api := newTestModule(t)
	i32 := types.Int(api, 32)

	g := m.AddGlobal(i32, nil, "g0")
	assert.NotZero(t, g.ValueRef())

	init := values.ConstInt(api, i32.TypeRef(), 42)
	g = m.AddGlobal(i32, init, "g1")
	assert.NotZero(t, g.ValueRef())

	assert.True(t, m.Verify(false))
	assert.Contains(t, m.String(), "g1")
	assert.Zero(t, api.LiveMessages())
}

func TestVerify(t *testing.T) {
	t.Run("declaration only", func(t *testing.T) {
		m, api := newTestModule(t)
		m.AddFunction("external", types.Function(api, types.Int(api, 32)))
		assert.True(t, m.Verify(false))
	})

	t.Run("well-formed body", func(t *testing.T) {
		m, api := newTestModule(t)
		addMain(api, m)
		assert.True(t, m.Verify(true))
		assert.Zero(t, api.LiveMessages())
	})

	t.Run("missing terminator", func(t *testing.T) {
		m, api := newTestModule(t)
		f := m.AddFunction("broken", types.Function(api, types.Int(api, 32)))
		api.AppendBasicBlock(f.ValueRef(), "entry")

		assert.False(t, m.Verify(false))
		assert.Zero(t, api.LiveMessages(), "diagnostic buffer must be disposed")
	})

	t.Run("mismatched terminator", func(t *testing.T) {
		m, api := newTestModule(t)
		f := m.AddFunction("broken", types.Function(api, types.Int(api, 32)))
		b := api.AppendBasicBlock(f.ValueRef(), "entry")
		api.CreateRet(b, 0) // ret void from an i32 function

		assert.False(t, m.Verify(false))
		assert.Zero(t, api.LiveMessages())
	})
}

func TestVerifyPrintsDiagnosticsOnce(t *testing.T) {
	m, api := newTestModule(t)
	f := m.AddFunction("broken", types.Function(api, types.Int(api, 32)))
	api.AppendBasicBlock(f.ValueRef(), "entry")

	out, err := os.CreateTemp(t.TempDir(), "log")
	require.NoError(t, err)
	logger.SetFileDescriptor(out)
	defer logger.SetFileDescriptor(os.Stdout)

	assert.False(t, m.Verify(true))

	data, err := os.ReadFile(out.Name())
	require.NoError(t, err)
	text := string(data)
	assert.Contains(t, text, "broken")
	assert.Equal(t, 1, strings.Count(text, "terminator"))
	assert.Zero(t, api.LiveMessages())
}

func TestWriteBitcodeToFile(t *testing.T) {
	m, api := newTestModule(t)
	addMain(api, m)

	t.Run("writable path", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "out.bc")
		require.True(t, m.WriteBitcodeToFile(path))

		fi, err := os.Stat(path)
		require.NoError(t, err)
		assert.NotZero(t, fi.Size())
	})

	t.Run("unwritable path", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "no", "such", "dir", "out.bc")
		assert.False(t, m.WriteBitcodeToFile(path))
	})
}

func TestSetTargetAndDataLayout(t *testing.T) {
	m, api := newTestModule(t)

	m.SetTarget("x86_64-pc-linux-gnu")
	dl := NewDataLayout(api, "e-m:e-i64:64-f80:128-n8:16:32:64-S128")
	m.SetDataLayout(dl)
	dl.Dispose()
	dl.Dispose() // second dispose is a no-op on the wrapper

	text := m.String()
	assert.Contains(t, text, `target triple = "x86_64-pc-linux-gnu"`)
	assert.Contains(t, text, "target datalayout")
}

func TestCreateFunctionPassManager(t *testing.T) {
	m, _ := newTestModule(t)

	pm := m.CreateFunctionPassManager()
	assert.NotZero(t, pm.Ref())
	pm.Dispose()
	pm.Dispose()
	assert.Zero(t, pm.Ref())
}

func TestDeclarationOrderPreserved(t *testing.T) {
	m, api := newTestModule(t)
	i32 := types.Int(api, 32)

	names := []string{"first", "second", "third"}
	for _, name := range names {
		m.AddFunction(name, types.Function(api, i32))
	}

	text := m.String()
	last := -1
	for _, name := range names {
		idx := strings.Index(text, fmt.Sprintf("@%s", name))
		require.GreaterOrEqual(t, idx, 0)
		assert.Greater(t, idx, last)
		last = idx
	}
}

func TestLoadParseError(t *testing.T) {
	fn := filepath.Join(t.TempDir(), "bad.ll")
	require.NoError(t, os.WriteFile(fn, []byte("garbage {{{\n"), 0600))

	api := backend.NewNative()
	_, err := Load(api, fn)
	require.Error(t, err)
	assert.Zero(t, api.LiveMessages(), "parse diagnostic must be disposed")
}
