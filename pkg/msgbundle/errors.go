package msgbundle

import "errors"

// Errors returned (or wrapped) by msgbundle and the source packages built on it.
var (
	ErrInvalidArgument   = errors.New("msgbundle: invalid argument")
	ErrResourceNotFound  = errors.New("msgbundle: resource not found")
	ErrIO                = errors.New("msgbundle: i/o failure")
	ErrDuplicateProvider = errors.New("msgbundle: duplicate provider")
	ErrProvider          = errors.New("msgbundle: provider failed")
)
