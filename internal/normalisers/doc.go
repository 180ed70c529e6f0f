// Package normalisers provides implementations of the Normaliser interface
// for the connector payloads. Each normaliser decodes one connector's
// RawDocument content and renders the text exported by "memorybox fetch".
//
// Normalisers are registered with the NormaliserRegistry at startup.
package normalisers
