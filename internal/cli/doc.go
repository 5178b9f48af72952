// Package cli builds the cobra command trees of the oukaro daemon and the
// okrmng package list manager.
package cli
