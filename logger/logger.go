// Copyright (C) 2023 Huawei Technologies Co., Ltd. All rights reserved.
// SPDX-License-Identifier: MIT

// Package logger implements a simple leveled logger. It is the reporting
// channel for module diagnostics: verifier output and module dumps are
// written here rather than returned to callers.
package logger

import (
	"bufio"
	"fmt"
	"os"
	"sync"
)

// Level represents the amount of detail in which the log is output.
type Level int

const (
	// ERROR only log errors
	ERROR Level = iota
	// WARN log warnings and errors
	WARN
	// INFO log information, warnings and errors
	INFO
	// DEBUG log as much as possible
	DEBUG
)

// mu serializes access to the shared writer; callers may log from
// multiple goroutines.
var (
	mu    sync.Mutex
	out   *bufio.Writer
	level Level
)

func init() {
	out = bufio.NewWriter(os.Stdout)
}

// SetFileDescriptor sets the file descriptor to which the output is sent.
// If fd is nil, no output is shown.
func SetFileDescriptor(fd *os.File) {
	mu.Lock()
	defer mu.Unlock()
	if fd == nil {
		out = nil
		return
	}
	out = bufio.NewWriter(fd)
}

// SetLevel reconfigures the error level of the logger.
func SetLevel(l Level) {
	mu.Lock()
	defer mu.Unlock()
	level = l
}

func enabled(min Level) bool {
	mu.Lock()
	defer mu.Unlock()
	return out != nil && level >= min
}

// Fatal works as Error, but aborts the program.
func Fatal(args ...any) {
	Println(args...)
	os.Exit(1)
}

// Fatalf works as Errorf, but aborts the program.
func Fatalf(format string, args ...any) {
	Printf(format, args...)
	Println()
	os.Exit(1)
}

// Error works as fmt.Print, adding a newline at the end.
func Error(args ...any) {
	if !enabled(ERROR) {
		return
	}
	Println(args...)
}

// Errorf works as fmt.Printf, adding a newline at the end.
func Errorf(format string, args ...any) {
	if !enabled(ERROR) {
		return
	}
	Printf(format, args...)
	Println()
}

// Warn works as fmt.Print when error level is at least WARN.
func Warn(args ...any) {
	if !enabled(WARN) {
		return
	}
	Println(args...)
}

// Warnf works as fmt.Printf when error level is at least WARN.
func Warnf(format string, args ...any) {
	if !enabled(WARN) {
		return
	}
	Printf(format, args...)
	Println()
}

// Info works as fmt.Print when error level is at least INFO.
func Info(args ...any) {
	if !enabled(INFO) {
		return
	}
	Println(args...)
}

// Infof works as fmt.Printf when error level is at least INFO.
func Infof(format string, args ...any) {
	if !enabled(INFO) {
		return
	}
	Printf(format, args...)
	Println()
}

// Debug works as fmt.Print when error level is DEBUG.
func Debug(args ...any) {
	if !enabled(DEBUG) {
		return
	}
	Println(args...)
}

// Debugf works as fmt.Printf when error level is DEBUG.
func Debugf(format string, args ...any) {
	if !enabled(DEBUG) {
		return
	}
	Printf(format, args...)
	Println()
}

// Print works as fmt.Print, but flushes the file descriptor.
func Print(args ...any) {
	mu.Lock()
	defer mu.Unlock()
	if out == nil {
		return
	}
	if _, err := fmt.Fprint(out, args...); err != nil {
		return
	}
	_ = out.Flush()
}

// Println works as fmt.Println, but flushes the file descriptor.
func Println(args ...any) {
	mu.Lock()
	defer mu.Unlock()
	if out == nil {
		return
	}
	if _, err := fmt.Fprintln(out, args...); err != nil {
		return
	}
	_ = out.Flush()
}

// Printf works as fmt.Printf, but flushes the file descriptor.
func Printf(format string, args ...any) {
	Print(fmt.Sprintf(format, args...))
}
