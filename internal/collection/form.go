package collection

import (
	"net/url"
	"strings"

	"github.com/tidwall/gjson"
)

// encodeForm encodes Postman urlencoded params, keeping document order.
// url.Values would sort the keys.
func encodeForm(params gjson.Result) string {
	var b strings.Builder
	params.ForEach(func(_, p gjson.Result) bool {
		if p.Get("disabled").Bool() {
			return true
		}
		if b.Len() > 0 {
			b.WriteByte('&')
		}
		b.WriteString(url.QueryEscape(p.Get("key").String()))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(p.Get("value").String()))
		return true
	})
	return b.String()
}
