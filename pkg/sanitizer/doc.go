// Package sanitizer provides the field normalization applied to every contact row.
//
// Functions never fail: input that cannot be normalized produces an empty
// string, so callers can keep the row and decide what an empty value means.
//
// Normalization includes:
//   - Names: keep letters, numbers, underscores and whitespace; drop punctuation, symbols and emoji
//   - Phones: reduce spreadsheet cells to digits and rewrite them as country code + area code + number
//   - Labels: collapse whitespace and trim the ends
//   - Slices: remove duplicates and empty values after normalization, keeping order
package sanitizer
