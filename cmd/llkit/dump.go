// Copyright (C) 2023 Huawei Technologies Co., Ltd. All rights reserved.
// SPDX-License-Identifier: MIT

package main

import (
	"github.com/spf13/cobra"

	"llkit/module"
	"llkit/tools"
)

func init() {
	var dumpCmd = cobra.Command{
		Use:   "dump <input.ll>",
		Short: "Prints the textual form of an IR module",
		Args:  cobra.ExactArgs(1),

		DisableFlagsInUseLine: true,

		RunE: func(cmd *cobra.Command, args []string) error {
			if err := tools.FileExists(args[0]); err != nil {
				return kerror(internalError, err)
			}
			m, err := module.Load(api, args[0])
			if err != nil {
				return kerror(internalError, err)
			}
			m.Dump()
			return nil
		},
	}

	rootCmd.AddCommand(&dumpCmd)
}
