// Package events defines the typed session event contract.
//
// Event kinds are grouped by receiver-facing namespaces:
//
//   - user_input.*
//   - assistant_response.*
//   - assistant_speech.*
//   - turn_state.*
//
// Semantics used across the package:
//
//   - Segment: append-only text piece emitted in stream order.
//   - Updated: mutable point-in-time snapshot that can change over time.
//   - Final: terminal immutable text/state for the current stream/turn phase.
//   - Finalized: fully assembled payload for a completed turn.
//
// user_input events
//
//   - UserSpeechStarted (user_input.speech_started): speech activity began.
//   - UserSpeechEnded (user_input.speech_ended): speech activity ended.
//   - UserTranscriptInterimUpdated (user_input.transcript_interim_updated):
//     mutable interim full transcript snapshot.
//   - UserTranscriptFinal (user_input.transcript_final): terminal full
//     transcript for the utterance.
//
// assistant_response events
//
//   - AssistantResponseSegment (assistant_response.segment): streamed
//     response text segment.
//   - AssistantResponseFinal (assistant_response.final): response text stream
//     is complete.
//   - AssistantTurnFinalized (assistant_response.turn_finalized): final
//     assembled response text for the turn.
//
// assistant_speech events
//
//   - AssistantSpeechFrame (assistant_speech.frame): synthesized speech audio
//     frame.
//   - AssistantSpeechFinal (assistant_speech.final): speech generation ended.
//
// turn_state events
//
//   - TurnCancelled (turn_state.cancelled): the current turn was cancelled.
package events
