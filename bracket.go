// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package kontrol

import "errors"

// Bracket runs acquire, then use(resource), guaranteeing release(resource)
// runs whether use succeeds or fails. This is the same acquire-use-release
// discipline Transaction implements at a larger granularity (three phases,
// status tracking, eager rollback); Bracket is the plain two-phase case,
// adapted from error-effect composition to ordinary (T, error) returns.
func Bracket[R, T any](acquire func() (R, error), use func(R) (T, error), release func(R) error) (T, error) {
	var zero T
	resource, err := acquire()
	if err != nil {
		return zero, err
	}
	result, useErr := use(resource)
	relErr := release(resource)
	switch {
	case useErr != nil && relErr != nil:
		return zero, errors.Join(useErr, relErr)
	case useErr != nil:
		return zero, useErr
	case relErr != nil:
		return zero, relErr
	default:
		return result, nil
	}
}

// OnError runs cleanup only if use fails, then returns the combined
// (or original) error. Unlike Bracket, cleanup never runs on success.
func OnError[T any](use func() (T, error), cleanup func(error) error) (T, error) {
	result, err := use()
	if err == nil {
		return result, nil
	}
	if cerr := cleanup(err); cerr != nil {
		return result, errors.Join(err, cerr)
	}
	return result, err
}
