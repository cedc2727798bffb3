// Package alias issues short aliases and guarantees they are unused before
// a link is stored under them.
package alias

import (
	"regexp"

	gonanoid "github.com/matoous/go-nanoid/v2"

	"github.com/shortenerproject/shortener/internal/model"
)

// Alphabet is the 62-character set every alias is drawn from.
const Alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

var aliasPattern = regexp.MustCompile(`^[A-Za-z0-9]{8}$`)

// Valid reports whether s has the shape of an issued alias.
func Valid(s string) bool {
	return aliasPattern.MatchString(s)
}

// Generator produces random alias candidates.
type Generator struct {
	length int
}

// NewGenerator returns a Generator for aliases of model.AliasLength.
func NewGenerator() *Generator {
	return &Generator{length: model.AliasLength}
}

// Generate returns a candidate sampled uniformly per position from Alphabet.
func (g *Generator) Generate() string {
	// MustGenerate only panics on an invalid alphabet or length.
	return gonanoid.MustGenerate(Alphabet, g.length)
}
