// Copyright (C) 2023 Huawei Technologies Co., Ltd. All rights reserved.
// SPDX-License-Identifier: MIT

// Package values wraps the backend's opaque value handles. Like the type
// wrappers these are non-owning views tied to the lifetime of the backend
// that produced them.
package values

import (
	"llkit/backend"
)

// BasicValue is the capability consumed by operations taking a value
// input, such as global initializers.
type BasicValue interface {
	ValueRef() backend.ValueRef
}

// FunctionValue refers to a function declaration inside a module.
type FunctionValue struct {
	ref backend.ValueRef
}

// NewFunction wraps a raw function handle.
func NewFunction(ref backend.ValueRef) FunctionValue {
	return FunctionValue{ref: ref}
}

// ValueRef yields the raw backend handle.
func (v FunctionValue) ValueRef() backend.ValueRef { return v.ref }

// PointerValue refers to an address-valued definition, such as a global
// variable.
type PointerValue struct {
	ref backend.ValueRef
}

// NewPointer wraps a raw pointer handle.
func NewPointer(ref backend.ValueRef) PointerValue {
	return PointerValue{ref: ref}
}

// ValueRef yields the raw backend handle.
func (v PointerValue) ValueRef() backend.ValueRef { return v.ref }

// ConstInt returns an integer constant of the given type.
func ConstInt(api backend.API, typ backend.TypeRef, v uint64) BasicValue {
	return constValue{ref: api.ConstInt(typ, v)}
}

type constValue struct {
	ref backend.ValueRef
}

func (v constValue) ValueRef() backend.ValueRef { return v.ref }
