// Package sanitizer normalizes user supplied contact and catalogue fields
// before validation and storage.
//
// All functions are idempotent. Invalid input is reported by returning an
// empty value rather than an error so that the validator can produce a single
// field-level message.
//
// Normalization includes:
//   - Phone numbers: E.164 (+[country][number]), parsed against a default region
//   - Emails: trimmed and lowercased
//   - Names and identifiers: whitespace collapsed, surrounding spaces trimmed
//   - Slices: duplicates and empty values removed after normalization
//   - Percentages: clamped to [0, 100]
package sanitizer
