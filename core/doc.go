// Package session wires speech-to-text, a streaming language model, and
// text-to-speech into a conversational agent session.
//
// A session is configured through functional options, started once with
// [Session.Start], and closed with [Session.Close]. Per-job behavior comes
// from an opaque metadata string resolved through the jobs package; completed
// conversational turns are republished over the configured room channel as
// transcript messages.
package session
