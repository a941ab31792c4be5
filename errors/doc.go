/*
Package errors provides semantic error types for the gridstore library.

The package defines common error scenarios with specific types that can be
checked using the standard errors.Is() function or the provided helper functions.

Common Errors:

	var (
	    ErrEmptyInput           = errors.New("empty input")
	    ErrMissingArguments     = errors.New("missing arguments")
	    ErrNotFound             = errors.New("record not found")
	    ErrRemote               = errors.New("remote store error")
	    ErrInvalidConfiguration = errors.New("invalid configuration")
	)

Usage:

	// Check error type
	rec, err := client.Find(ctx, "rec123")
	if err != nil {
	    if errors.IsNotFound(err) {
	        // Handle not found case
	        return nil, fmt.Errorf("record %s does not exist", "rec123")
	    }
	    return nil, err
	}

	// Create typed errors
	err := errors.NewNotFoundError("Contacts", "rec123")
	err := errors.NewEmptyInputError("create")
	err := errors.NewRemoteError(403, "AUTHENTICATION_REQUIRED", "invalid api key")

The error types implement the error interface and support wrapping,
making them compatible with Go's standard error handling patterns.
*/
package errors
