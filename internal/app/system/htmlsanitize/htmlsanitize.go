// Package htmlsanitize strips dangerous markup from user-authored rich
// text before it is stored. Histories, powers, sheets and feats all
// accept HTML from the client-side editor; everything else is plain
// text and never goes through here.
package htmlsanitize

import (
	"github.com/microcosm-cc/bluemonday"
)

var ugc = bluemonday.UGCPolicy()

// Content sanitizes editor-produced HTML with the UGC policy.
func Content(html string) string {
	return ugc.Sanitize(html)
}
