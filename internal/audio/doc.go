// Package audio is the sound facility.
//
// Callers use a Manager to play cues and change mixer volumes. The Manager
// holds no audio state: its operations are facade slots that do nothing but
// report a warning until a Provider is activated. The Provider drives an
// external Backend that owns the actual sources and mixer.
//
// Volumes are linear values in [0, 1] mapped to mixer decibels by Level.
package audio
