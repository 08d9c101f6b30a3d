// Package jobs resolves per-job configuration for an interview session.
//
// Each dispatched job carries a single opaque metadata string. It may be
// empty, a JSON object with optional "prompt" and "openingMessage" fields,
// or arbitrary free text. Resolution never fails: malformed metadata falls
// back through literal-text interpretation to the built-in default prompt.
package jobs
