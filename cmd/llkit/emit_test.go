// Copyright (C) 2023 Huawei Technologies Co., Ltd. All rights reserved.
// SPDX-License-Identifier: MIT

package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmit(t *testing.T) {
	fn := writeLL(t, "in.ll", validLL)
	out := filepath.Join(t.TempDir(), "out.bc")

	require.NoError(t, Emit(fn, out))

	fi, err := os.Stat(out)
	require.NoError(t, err)
	assert.NotZero(t, fi.Size())
}

func TestEmitUnwritableOutput(t *testing.T) {
	fn := writeLL(t, "in.ll", validLL)
	out := filepath.Join(t.TempDir(), "no", "such", "dir", "out.bc")

	err := Emit(fn, out)
	require.Error(t, err)
	assert.Equal(t, 1, getErrorCode(err))
}

func TestEngineCommand(t *testing.T) {
	fn := writeLL(t, "in.ll", validLL)
	assert.NoError(t, Engine(fn, true))
	assert.NoError(t, Engine(writeLL(t, "in2.ll", validLL), false))
}
