// Copyright (C) 2023 Huawei Technologies Co., Ltd. All rights reserved.
// SPDX-License-Identifier: MIT

package main

import (
	"errors"
	"fmt"
	"sync"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"llkit/module"
	"llkit/tools"
)

const verifyDoc = `
Parses each input file and runs structural verification over the module.
A failing module is reported per file; with --print the verifier
diagnostics are shown as well. Exit code is 2 when any module fails
verification.
`

var verifyFlags struct {
	print bool
}

func init() {
	var verifyCmd = cobra.Command{
		Use:   "verify [flags] <input.ll...>",
		Short: "Verifies the well-formedness of IR modules",
		Long:  verifyDoc,
		Args:  IsArgsn,

		DisableFlagsInUseLine: true,

		RunE: func(cmd *cobra.Command, args []string) error {
			return Verify(args, verifyFlags.print)
		},
	}
	flags := verifyCmd.Flags()
	flags.BoolVar(&verifyFlags.print, "print", false, "print verifier diagnostics")

	rootCmd.AddCommand(&verifyCmd)
}

var (
	passStr = color.New(color.FgGreen).SprintFunc()
	failStr = color.New(color.FgRed).SprintFunc()
)

// Verify checks every input module and reports one OK/FAIL line per file.
// Files are checked concurrently; output is serialized.
func Verify(files []string, print bool) error {
	for _, fn := range files {
		if err := tools.FileExists(fn); err != nil {
			return kerror(internalError, err)
		}
	}

	var (
		mu     sync.Mutex
		failed int
		g      errgroup.Group
	)
	for _, fn := range files {
		fn := fn
		g.Go(func() error {
			m, err := module.Load(api, fn)
			if err != nil {
				return err
			}

			mu.Lock()
			defer mu.Unlock()
			if m.Verify(print) {
				printStatus(fn, passStr("OK"))
			} else {
				printStatus(fn, failStr("FAIL"))
				failed++
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return kerror(internalError, err)
	}
	if failed > 0 {
		return kerror(verifyFail, errors.New(""))
	}
	return nil
}

func printStatus(fn, status string) {
	fmt.Printf("%s: %s\n", fn, status)
}
