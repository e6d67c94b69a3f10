package templates

import (
	"embed"
	"io/fs"
)

// ExampleRingPath is the example ring's name inside RingFS.
const ExampleRingPath = "firechicken.toml"

//go:embed ring
var ringTemplates embed.FS

// RingFS returns the embedded filesystem holding the starter ring file
// written by `firechicken init`.
func RingFS() fs.FS {
	sub, err := fs.Sub(ringTemplates, "ring")
	if err != nil {
		panic(err) // embedded path is fixed at compile time
	}
	return sub
}

// ExampleRing returns the contents of the starter ring file.
func ExampleRing() []byte {
	data, err := fs.ReadFile(RingFS(), ExampleRingPath)
	if err != nil {
		panic(err)
	}
	return data
}
