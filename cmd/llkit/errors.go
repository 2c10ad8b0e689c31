// Copyright (C) 2023 Huawei Technologies Co., Ltd. All rights reserved.
// SPDX-License-Identifier: MIT

package main

type errorType int

const (
	verifyFail    errorType = 2
	internalError errorType = 1
	noError       errorType = 0
)

type kError struct {
	typ errorType
	err error
}

func (e *kError) Error() string {
	if e.err == nil {
		return ""
	}
	return e.err.Error()
}

func (e *kError) Code() int {
	return int(e.typ)
}

func kerror(typ errorType, err error) *kError {
	return &kError{
		typ: typ,
		err: err,
	}
}

func getErrorCode(err error) int {
	if err == nil {
		return 0
	}
	if e, ok := err.(*kError); ok {
		return e.Code()
	}
	return 1
}

func getErrorMessage(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
