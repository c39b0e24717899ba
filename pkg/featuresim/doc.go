// Package featuresim replays the guards of a generated feature header and
// translation unit for one concrete configuration.
//
// The generator never evaluates expressions itself; the C preprocessor does.
// Resolve performs the same passes in the same order so that a
// configuration can be checked, and its active features listed, without a
// compiler.
package featuresim
