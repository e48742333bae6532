// Package errors provides structured framework errors with stable codes,
// categories, and fix suggestions.
//
// Errors are created from registered codes so every failure mode carries
// consistent guidance:
//
//	return errors.New("F201").
//	    WithDetail(fmt.Sprintf("session %q not found", id)).
//	    Wrap(err)
//
// Format renders the error for terminal display with colors; Error keeps
// the compact "code: message" form for logs.
package errors
