// Package plugin exposes the feedback waveshaper behind a host-style
// interface. Parameters are a flat list of normalized values with display
// names and texts, and audio arrives as float32 channel buffers.
//
// CanonicalLayout keeps the eight-parameter order hosts automate against.
// ExtendedLayout adds the SineFM shaper and its two extra shape controls.
package plugin
