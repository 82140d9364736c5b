// Package utils hosts shared infrastructure for the forksync CLI: the zap
// logger factory, the Viper-backed configuration loader, command context
// accessors, and output writers.
package utils
