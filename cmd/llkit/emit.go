// Copyright (C) 2023 Huawei Technologies Co., Ltd. All rights reserved.
// SPDX-License-Identifier: MIT

package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"llkit/logger"
	"llkit/module"
	"llkit/tools"
)

const emitDoc = `
Parses the input file, optionally applies target and data-layout metadata,
verifies the module, and serializes it to the backend's binary form. The
output file defaults to the input name with a .bc extension.
`

var emitFlags struct {
	output string
	triple string
	layout string
	force  bool
}

func init() {
	var emitCmd = cobra.Command{
		Use:   "emit [flags] <input.ll>",
		Short: "Serializes an IR module to its binary form",
		Long:  emitDoc,
		Args:  cobra.ExactArgs(1),

		DisableFlagsInUseLine: true,

		RunE: func(cmd *cobra.Command, args []string) error {
			output := emitFlags.output
			if output == "" {
				output = tools.OutputName(args[0], ".bc")
			}
			return Emit(args[0], output)
		},
	}
	flags := emitCmd.Flags()
	flags.StringVarP(&emitFlags.output, "output", "o", "", "output file")
	flags.StringVar(&emitFlags.layout, "data-layout", "", "data-layout description to set on the module")
	flags.BoolVar(&emitFlags.force, "force", false, "serialize even when verification fails")
	addTargetFlag(flags, &emitFlags.triple)

	rootCmd.AddCommand(&emitCmd)
}

// Emit loads fn, applies the requested metadata, and writes the module's
// serialized form to output.
func Emit(fn, output string) error {
	if err := tools.FileExists(fn); err != nil {
		return kerror(internalError, err)
	}
	m, err := module.Load(api, fn)
	if err != nil {
		return kerror(internalError, err)
	}

	if emitFlags.triple != "" {
		m.SetTarget(emitFlags.triple)
	}
	if emitFlags.layout != "" {
		dl := module.NewDataLayout(api, emitFlags.layout)
		m.SetDataLayout(dl)
		dl.Dispose()
	}

	if !m.Verify(true) && !emitFlags.force {
		return kerror(verifyFail, errors.New("module verification failed"))
	}
	if !m.WriteBitcodeToFile(output) {
		return kerror(internalError, fmt.Errorf("could not write '%s'", output))
	}
	logger.Infof("Wrote '%s'", output)
	return nil
}
