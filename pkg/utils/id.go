package utils

import gonanoid "github.com/matoous/go-nanoid/v2"

const characters = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

// NewRunID returns a short identifier for one analysis run, used to tie log
// lines and tool results together.
func NewRunID() string {
	return "run_" + gonanoid.MustGenerate(characters, 6)
}
