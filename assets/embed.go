package assets

import "embed"

// AssetsFS holds the stylesheet and scripts served under /assets/.
// css/output.css and the htmx scripts are produced by "go run ./cmd/do gen".
//
//go:embed css js
var AssetsFS embed.FS
