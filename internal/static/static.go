package static

import _ "embed"

// APIMd contains the embedded HTTP API notes served at /api.md.
//
//go:embed api.md
var APIMd string
