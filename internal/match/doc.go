// Package match ranks known identifiers by similarity to an unknown one.
//
// It backs the "did you mean" hints attached to errors about unknown field,
// parameter and directive names.
//
// Key functions:
//   - Normalize: case-folds an identifier and strips separators
//   - Distance / Similarity: Levenshtein edit distance over runes
//   - Suggest: the best few known names for a misspelt one
package match
