// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// Package script runs sequences of registry operations written in HCL.
//
// A script is a list of `call` blocks executed top to bottom. The block label
// names the operation and the body supplies its arguments:
//
//	call "create" {
//	  as = "fruits"
//	}
//
//	call "insert" {
//	  set   = set.fruits
//	  value = "apple"
//	}
//
//	call "test" {
//	  set    = set.fruits
//	  value  = "apple"
//	  expect = 1
//	}
//
// Ids returned by `create` and `immutable_singleton` can be bound to a name
// with `as`. Later calls refer to them as `set.<name>`; plain numbers work as
// well, which is how scripts address ids that were never created. Operations
// that return a value accept an `expect` attribute. A mismatch is recorded as
// a failure and the script keeps going; evaluation errors stop it.
//
// Why HCL expressions instead of plain values?
//
// Arguments are kept as hcl.Expression until the call runs. Each call is
// evaluated against the names bound so far, so a reference to a set that has
// not been created yet is reported with the exact source range.
package script
