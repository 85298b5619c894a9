// Package resample converts sample rates by rational factors with a
// polyphase bank cut from a Kaiser-windowed sinc prototype.
//
// [Rates] is the whole-signal entry point used when recordings are brought
// to a common rate: it removes the prototype delay so the output stays
// aligned with the input. [Resampler] keeps state between blocks for
// streaming use. The prototype is chosen with [WithQuality].
package resample
