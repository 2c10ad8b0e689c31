// Copyright (C) 2023 Huawei Technologies Co., Ltd. All rights reserved.
// SPDX-License-Identifier: MIT

// Package main is the llkit command: it drives the module wrapper layer
// to verify, serialize, dump, and build execution engines from textual IR
// files.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"llkit/backend"
	"llkit/logger"
)

// api is the backend instance shared by all subcommands.
var api = backend.NewNative()

var rootCmd = cobra.Command{
	Use:           "llkit",
	Short:         "",
	Long:          "llkit -- safe construction, verification and execution of IR modules",
	SilenceUsage:  true,
	SilenceErrors: true,

	TraverseChildren: true,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("run 'llkit -h' for help")
	},
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		switch rootFlags.log {
		case "INFO":
			logger.SetLevel(logger.INFO)
		case "WARN":
			logger.SetLevel(logger.WARN)
		default:
			logger.SetLevel(logger.ERROR)
		}
		if rootFlags.debug {
			logger.SetLevel(logger.DEBUG)
		}
		if rootFlags.quiet {
			logger.SetFileDescriptor(nil)
		}
	},
}

var rootFlags struct {
	log   string
	debug bool
	quiet bool
}

func init() {
	addRootFlags(rootCmd.PersistentFlags())
	rootCmd.SetHelpCommand(&cobra.Command{Hidden: true})
}

// addRootFlags registers the persistent flags shared by all subcommands.
func addRootFlags(flags *pflag.FlagSet) {
	flags.StringVar(&rootFlags.log, "log", "ERROR", "log level (ERROR|INFO|WARN)")
	flags.BoolVarP(&rootFlags.debug, "debug", "d", false, "set debug mode")
	flags.BoolVarP(&rootFlags.quiet, "quiet", "q", false, "do not produce output")
}

// addTargetFlag registers the target-triple flag for the commands that
// apply module metadata before acting on it.
func addTargetFlag(flags *pflag.FlagSet, triple *string) {
	flags.StringVar(triple, "target", "", "target triple to set on the module")
}

// IsArgsn requires at least one positional argument.
func IsArgsn(cmd *cobra.Command, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("requires at least one input file")
	}
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		var (
			code = getErrorCode(err)
			msg  = getErrorMessage(err)
		)
		if msg != "" {
			logger.Println(msg)
		}
		os.Exit(code)
	}
}
