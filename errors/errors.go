/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package errors

import (
	"errors"
	"fmt"
)

// Common sentinel errors
var (
	// ErrEmptyInput is returned when a write operation receives no records
	ErrEmptyInput = errors.New("empty input")

	// ErrMissingArguments is returned when a required argument is absent
	ErrMissingArguments = errors.New("missing arguments")

	// ErrNotFound is returned when a record is not found
	ErrNotFound = errors.New("record not found")

	// ErrRemote is returned when the backing store reports a failure
	ErrRemote = errors.New("remote store error")

	// ErrInvalidConfiguration is returned when no usable connection target can be resolved
	ErrInvalidConfiguration = errors.New("invalid configuration")
)

// EmptyInputError reports a write operation invoked with no records.
type EmptyInputError struct {
	Op string
}

func (e *EmptyInputError) Error() string {
	return fmt.Sprintf("%s requires at least one record", e.Op)
}

func (e *EmptyInputError) Is(target error) bool {
	return target == ErrEmptyInput
}

// MissingArgumentsError reports a required argument that was not supplied.
type MissingArgumentsError struct {
	Op      string
	Missing string
}

func (e *MissingArgumentsError) Error() string {
	return fmt.Sprintf("%s requires %s", e.Op, e.Missing)
}

func (e *MissingArgumentsError) Is(target error) bool {
	return target == ErrMissingArguments
}

// NotFoundError reports a record lookup that matched nothing.
type NotFoundError struct {
	Table string
	ID    string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("record %q not found in table %q", e.ID, e.Table)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// RemoteError is an opaque passthrough of a backing-store failure,
// including auth failures and unresolvable bases.
type RemoteError struct {
	StatusCode int
	Kind       string
	Message    string
}

func (e *RemoteError) Error() string {
	if e.Kind != "" {
		return fmt.Sprintf("remote store error (%d %s): %s", e.StatusCode, e.Kind, e.Message)
	}
	return fmt.Sprintf("remote store error (%d): %s", e.StatusCode, e.Message)
}

func (e *RemoteError) Is(target error) bool {
	return target == ErrRemote
}

// InvalidConfigurationError reports an effective configuration with no
// usable connection target.
type InvalidConfigurationError struct {
	Reason string
}

func (e *InvalidConfigurationError) Error() string {
	return fmt.Sprintf("invalid configuration: %s", e.Reason)
}

func (e *InvalidConfigurationError) Is(target error) bool {
	return target == ErrInvalidConfiguration
}

// Helper functions for creating errors

// NewEmptyInputError creates a new EmptyInputError
func NewEmptyInputError(op string) error {
	return &EmptyInputError{Op: op}
}

// NewMissingArgumentsError creates a new MissingArgumentsError
func NewMissingArgumentsError(op, missing string) error {
	return &MissingArgumentsError{Op: op, Missing: missing}
}

// NewNotFoundError creates a new NotFoundError
func NewNotFoundError(table, id string) error {
	return &NotFoundError{Table: table, ID: id}
}

// NewRemoteError creates a new RemoteError
func NewRemoteError(statusCode int, kind, message string) error {
	return &RemoteError{StatusCode: statusCode, Kind: kind, Message: message}
}

// NewInvalidConfigurationError creates a new InvalidConfigurationError
func NewInvalidConfigurationError(reason string) error {
	return &InvalidConfigurationError{Reason: reason}
}

// IsEmptyInput checks if an error is an empty input error
func IsEmptyInput(err error) bool {
	return errors.Is(err, ErrEmptyInput)
}

// IsMissingArguments checks if an error is a missing arguments error
func IsMissingArguments(err error) bool {
	return errors.Is(err, ErrMissingArguments)
}

// IsNotFound checks if an error is a not found error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsRemote checks if an error is a remote store error
func IsRemote(err error) bool {
	return errors.Is(err, ErrRemote)
}

// IsInvalidConfiguration checks if an error is an invalid configuration error
func IsInvalidConfiguration(err error) bool {
	return errors.Is(err, ErrInvalidConfiguration)
}
