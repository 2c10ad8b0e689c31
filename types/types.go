// Copyright (C) 2023 Huawei Technologies Co., Ltd. All rights reserved.
// SPDX-License-Identifier: MIT

// Package types wraps the backend's opaque type handles. The wrappers are
// non-owning views: they stay valid as long as the backend instance that
// produced them is alive and have no lifecycle of their own.
package types

import (
	"llkit/backend"
)

// BasicType is the capability consumed by declaration operations: anything
// that can yield a raw backend type handle.
type BasicType interface {
	TypeRef() backend.TypeRef
}

// VoidType is the void type.
type VoidType struct {
	ref backend.TypeRef
}

// Void returns the void type.
func Void(api backend.API) VoidType {
	return VoidType{ref: api.VoidType()}
}

// TypeRef yields the raw backend handle.
func (t VoidType) TypeRef() backend.TypeRef { return t.ref }

// IntType is an integer type of a fixed bit width.
type IntType struct {
	ref backend.TypeRef
}

// Int returns an integer type of the given bit width.
func Int(api backend.API, bits int) IntType {
	return IntType{ref: api.IntType(bits)}
}

// TypeRef yields the raw backend handle.
func (t IntType) TypeRef() backend.TypeRef { return t.ref }

// FunctionType is a function signature type.
type FunctionType struct {
	ref backend.TypeRef
}

// Function returns the signature with the given return and parameter types.
func Function(api backend.API, ret BasicType, params ...BasicType) FunctionType {
	var prefs []backend.TypeRef
	for _, p := range params {
		prefs = append(prefs, p.TypeRef())
	}
	return FunctionType{ref: api.FunctionType(ret.TypeRef(), prefs)}
}

// TypeRef yields the raw backend handle.
func (t FunctionType) TypeRef() backend.TypeRef { return t.ref }

// BasicTypeEnum is a type of unknown concrete kind, as returned by named
// type lookups.
type BasicTypeEnum struct {
	api backend.API
	ref backend.TypeRef
}

// Enum wraps a raw type handle.
func Enum(api backend.API, ref backend.TypeRef) BasicTypeEnum {
	return BasicTypeEnum{api: api, ref: ref}
}

// TypeRef yields the raw backend handle.
func (t BasicTypeEnum) TypeRef() backend.TypeRef { return t.ref }

// Kind classifies the wrapped type.
func (t BasicTypeEnum) Kind() backend.TypeKind {
	return t.api.TypeKind(t.ref)
}
