package htmx

import (
	"net/http"
	"strings"
)

const (
	HeaderRequest  = "HX-Request"
	HeaderTrigger  = "HX-Trigger"
	HeaderRetarget = "HX-Retarget"
	HeaderReswap   = "HX-Reswap"
)

func IsRequest(r *http.Request) bool {
	return strings.EqualFold(r.Header.Get(HeaderRequest), "true")
}

// Trigger fires a client-side event once the response is swapped in.
func Trigger(h http.Header, event string) {
	h.Set(HeaderTrigger, event)
}

// Retarget swaps the response into selector instead of the requesting
// element. htmx ignores 4xx bodies unless the swap is overridden, so this is
// how errors reach the page.
func Retarget(h http.Header, selector, swap string) {
	h.Set(HeaderRetarget, selector)
	h.Set(HeaderReswap, swap)
}
