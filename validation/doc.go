// Package validation checks configuration structs.
//
// Validate runs go-playground/validator struct tags and reports field names
// using their mapstructure keys, so messages match the YAML the operator
// wrote. Validator is a small fluent collector for checks that tags cannot
// express.
package validation
