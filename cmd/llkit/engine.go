// Copyright (C) 2023 Huawei Technologies Co., Ltd. All rights reserved.
// SPDX-License-Identifier: MIT

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"llkit/module"
	"llkit/tools"
)

const engineDoc = `
Parses and verifies the input file, then builds an execution engine from
the module. With --jit the just-in-time strategy is linked in; otherwise
the module would be interpreted. Building the engine consumes the module.
`

var engineFlags struct {
	jit    bool
	triple string
}

func init() {
	var engineCmd = cobra.Command{
		Use:   "engine [flags] <input.ll>",
		Short: "Builds an execution engine from an IR module",
		Long:  engineDoc,
		Args:  cobra.ExactArgs(1),

		DisableFlagsInUseLine: true,

		RunE: func(cmd *cobra.Command, args []string) error {
			return Engine(args[0], engineFlags.jit)
		},
	}
	flags := engineCmd.Flags()
	flags.BoolVar(&engineFlags.jit, "jit", false, "link in the JIT compilation strategy")
	addTargetFlag(flags, &engineFlags.triple)

	rootCmd.AddCommand(&engineCmd)
}

// Engine builds an execution engine from fn and reports its mode.
func Engine(fn string, jit bool) error {
	if err := tools.FileExists(fn); err != nil {
		return kerror(internalError, err)
	}
	m, err := module.Load(api, fn)
	if err != nil {
		return kerror(internalError, err)
	}
	if engineFlags.triple != "" {
		m.SetTarget(engineFlags.triple)
	}

	ee, err := m.CreateExecutionEngine(jit)
	if err != nil {
		return kerror(internalError, err)
	}
	defer ee.Dispose()

	mode := "interpreter"
	if ee.JIT() {
		mode = "JIT"
	}
	fmt.Printf("%s: engine created (%s)\n", fn, mode)
	return nil
}
