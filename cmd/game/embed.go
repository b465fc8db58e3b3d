package main

import "embed"

// Settings and demo assets ship inside the binary.
//
//go:embed configs assets
var embedded embed.FS
