// Copyright (C) 2023 Huawei Technologies Co., Ltd. All rights reserved.
// SPDX-License-Identifier: MIT

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"llkit/logger"
)

func writeLL(t *testing.T, name, src string) string {
	t.Helper()
	fn := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(fn, []byte(src), 0600))
	return fn
}

const validLL = "declare i32 @main()\n"

func TestVerifyOK(t *testing.T) {
	files := []string{
		writeLL(t, "a.ll", validLL),
		writeLL(t, "b.ll", "declare void @foo()\n"),
	}
	assert.NoError(t, Verify(files, false))
}

// A module that parses but fails verification must exit with code 2.
func TestVerifyMalformedModule(t *testing.T) {
	fn := writeLL(t, "malformed.ll", "define i32 @f() {\nentry:\n  ret void\n}\n")

	err := Verify([]string{fn}, true)
	require.Error(t, err)
	assert.Equal(t, 2, getErrorCode(err))
	assert.Zero(t, api.LiveMessages(), "verifier diagnostic must be disposed")
}

func TestVerifyMixedResults(t *testing.T) {
	files := []string{
		writeLL(t, "good.ll", validLL),
		writeLL(t, "bad.ll", "define i32 @f() {\nentry:\n  ret void\n}\n"),
	}
	err := Verify(files, false)
	require.Error(t, err)
	assert.Equal(t, 2, getErrorCode(err))
}

func TestVerifyManyFilesWithLogging(t *testing.T) {
	logger.SetLevel(logger.INFO)
	defer logger.SetLevel(logger.ERROR)

	var files []string
	for i := 0; i < 8; i++ {
		files = append(files, writeLL(t, fmt.Sprintf("f%d.ll", i), validLL))
	}
	assert.NoError(t, Verify(files, false))
}

func TestVerifyParseError(t *testing.T) {
	fn := writeLL(t, "bad.ll", "garbage {{{\n")
	err := Verify([]string{fn}, false)
	require.Error(t, err)
	assert.Equal(t, 1, getErrorCode(err))
}

func TestVerifyMissingFile(t *testing.T) {
	err := Verify([]string{"does-not-exist.ll"}, false)
	require.Error(t, err)
	assert.Equal(t, 1, getErrorCode(err))
}
