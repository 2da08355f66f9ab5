// Copyright 2020 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package m199

import "errors"

var (
	// ErrAlloc is returned when the handle storage could not be allocated.
	ErrAlloc = errors.New("m199: could not allocate handle storage")

	// ErrIllegalID is returned when the module identification does not
	// match the expected magic word and module identifier.
	ErrIllegalID = errors.New("m199: illegal module identification")

	// ErrUserBuf is returned when a block buffer is too small (or
	// malformed) for the requested operation.
	ErrUserBuf = errors.New("m199: invalid user buffer")

	// ErrUnknownCode is returned for an unknown status code, or for a
	// known code used in the wrong direction.
	ErrUnknownCode = errors.New("m199: unknown status code")

	// ErrIllegalParam is returned for an unknown capability query.
	ErrIllegalParam = errors.New("m199: illegal parameter")

	// ErrClosed is returned when operating on a closed device.
	ErrClosed = errors.New("m199: device closed")
)
