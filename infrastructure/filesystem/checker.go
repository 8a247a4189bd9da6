package filesystem

import (
	"os"

	"github.com/pardeema/trivia-music/domain/clip"
)

// Checker implements clip.FileChecker using the os package
type Checker struct{}

// NewChecker creates a new filesystem checker
func NewChecker() *Checker {
	return &Checker{}
}

// Exists returns true if the file exists
func (c *Checker) Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// Ensure Checker implements clip.FileChecker
var _ clip.FileChecker = (*Checker)(nil)
