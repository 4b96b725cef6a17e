package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	cases := map[string]string{
		"Laptop":               "laptop",
		"NovelBook Best Buy":   "novelbook-best-buy",
		"  Trim Me  ":          "trim-me",
		"Tees & Tops":          "tees-tops",
		"UPPER lower 123":      "upper-lower-123",
		"--already--slugged--": "already-slugged",
	}
	for in, want := range cases {
		assert.Equal(t, want, Slugify(in), "Slugify(%q)", in)
	}
}
