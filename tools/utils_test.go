// Copyright (C) 2023 Huawei Technologies Co., Ltd. All rights reserved.
// SPDX-License-Identifier: MIT

package tools

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOutputName(t *testing.T) {
	testCases := []struct {
		in  string
		out string
	}{
		{"file.ll", "file.bc"},
		{"dir/file.ll", "dir/file.bc"},
		{"noext", "noext.bc"},
		{"two.dots.ll", "two.dots.bc"},
	}
	for _, tc := range testCases {
		t.Run(fmt.Sprintf("%v", tc), func(t *testing.T) {
			assert.Equal(t, tc.out, OutputName(tc.in, ".bc"))
		})
	}
}

func TestFileExists(t *testing.T) {
	dir := t.TempDir()
	fn := filepath.Join(dir, "x")
	require.NoError(t, os.WriteFile(fn, []byte("x"), 0600))

	assert.NoError(t, FileExists(fn))
	assert.Error(t, FileExists(filepath.Join(dir, "missing")))
	assert.Error(t, FileExists(dir))
}
