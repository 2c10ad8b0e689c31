// Copyright (C) 2023 Huawei Technologies Co., Ltd. All rights reserved.
// SPDX-License-Identifier: MIT

// Package tools contains small filesystem helpers shared by the command
// line interface.
package tools

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// FileExists returns an error if fn does not exist or is a directory.
func FileExists(fn string) error {
	fi, err := os.Stat(fn)
	if err != nil {
		return fmt.Errorf("file '%s' not found", fn)
	}
	if fi.IsDir() {
		return fmt.Errorf("'%s' is a directory", fn)
	}
	return nil
}

// OutputName derives an output file name from fn by replacing its
// extension with ext.
func OutputName(fn, ext string) string {
	base := strings.TrimSuffix(fn, filepath.Ext(fn))
	return base + ext
}
