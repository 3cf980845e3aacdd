// Package validation provides struct-tag validation for container settings,
// built on go-playground/validator with field names mapped back to the keys
// used in settings files.
package validation
