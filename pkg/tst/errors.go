package tst

import "errors"

var (
	// ErrNilKey is returned by Insert when the key itself is absent.
	ErrNilKey = errors.New("tst: nil key")

	// ErrEmptyKey is returned by Insert when the key stringifies to "".
	ErrEmptyKey = errors.New("tst: empty key string")

	// ErrKeyCollision is returned by Insert when the terminal node is
	// already stamped with a non-equal key of the same key string.
	ErrKeyCollision = errors.New("tst: key collision")
)
