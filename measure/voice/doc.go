// Package voice runs every feature extractor over one waveform and collects
// the results into a single report.
//
// Extraction is best effort: a feature that cannot be computed leaves its
// report field nil and adds a [FeatureError], while the remaining features
// are still extracted.
package voice
