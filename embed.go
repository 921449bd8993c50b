package inkwell

import "embed"

// EmbeddedAssets contains files shipped with inkwell and written into the
// output tree when the site does not provide its own: the default stylesheet
// and robots.txt.
//
//go:embed embedded/*
var EmbeddedAssets embed.FS
