// Package cli assembles the forksync root command, configuration loading, and
// structured logging.
package cli
