// Package filter compiles structured, schema-validated query conditions
// into the two-part form the projection needs: a native filter the vector
// store evaluates itself during a scan, and a residual set of predicates
// evaluated in-memory per returned point.
//
// Compilation always pins the model name natively, since one physical
// collection holds points of every projected model. Validation is a
// strict pre-pass: an unknown field, an operator outside the field's
// legal set, a scalar value for "in", or a non-string value for
// "contains" fail the whole list with a *ValidationError carrying a
// field-name suggestion where one is derivable. No filter is ever
// partially applied.
package filter
