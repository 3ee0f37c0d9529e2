// Package config loads .assembler.yaml.
//
// The file is optional; every field has a default and Default returns the
// configuration used without one. Find walks from a directory up to the
// filesystem root looking for the file. A loaded Config builds the settings
// of each pipeline stage, including the immutable ignore set.
package config
