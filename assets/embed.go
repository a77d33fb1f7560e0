package assets

import _ "embed"

// Logo is the inline image embedded into nudge emails as cid:logo.
//
//go:embed logo.png
var Logo []byte
