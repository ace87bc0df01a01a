/*
Package errors provides semantic error types for tablestore.

Sentinel errors support errors.Is checks across package boundaries:

	desc, err := reg.Resolve("notes")
	if errors.IsNotFound(err) {
	    // the name was never registered; fall back or prompt
	}

Typed errors carry context about what failed:

	err := reg.RegisterTable("notes", desc)
	var dup *errors.AlreadyRegisteredError
	if stderrors.As(err, &dup) {
	    log.Printf("table %s taken", dup.Name)
	}

Resolution misses are ordinary lookup failures, not system failures;
callers are expected to branch on them. Errors raised by the embedded
SQL engine pass through this library unwrapped.
*/
package errors
