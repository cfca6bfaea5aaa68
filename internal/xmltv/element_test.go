// SPDX-License-Identifier: GPL-3.0-or-later

package xmltv

import (
	"bytes"
	"encoding/xml"
	"testing"
)

func render(t *testing.T, e Element) string {
	t.Helper()
	var buf bytes.Buffer
	enc := xml.NewEncoder(&buf)
	if err := e.Emit(enc); err != nil {
		t.Fatalf("Emit failed: %v", err)
	}
	if err := enc.Flush(); err != nil {
		t.Fatalf("Flush failed: %v", err)
	}
	return buf.String()
}

func TestElementVariants(t *testing.T) {
	tests := []struct {
		name string
		el   Element
		want string
	}{
		{
			name: "text",
			el:   Text("title", "News"),
			want: "<title>News</title>",
		},
		{
			name: "empty text is absent",
			el:   Text("desc", ""),
			want: "",
		},
		{
			name: "text is escaped",
			el:   Text("title", `Tom & Jerry <II> "again"`),
			want: "<title>Tom &amp; Jerry &lt;II&gt; &#34;again&#34;</title>",
		},
		{
			name: "flag set",
			el:   Flag("premiere", true),
			want: "<premiere></premiere>",
		},
		{
			name: "flag unset is absent",
			el:   Flag("premiere", false),
			want: "",
		},
		{
			name: "attributes preserve order",
			el:   Text("subtitles", "x", Attr{Name: "type", Value: "teletext"}),
			want: `<subtitles type="teletext">x</subtitles>`,
		},
		{
			name: "nested",
			el: Nested("video", []Element{
				Text("aspect", "16:9"),
				Text("colour", ""),
			}),
			want: "<video><aspect>16:9</aspect></video>",
		},
		{
			name: "nested with no present children is absent",
			el: Nested("video", []Element{
				Text("aspect", ""),
				Text("colour", ""),
			}),
			want: "",
		},
		{
			name: "deeply nested",
			el: Nested("credits", []Element{
				Text("director", "S. Spielberg"),
				Text("actor", "R. Scheider (Brody)"),
			}),
			want: "<credits><director>S. Spielberg</director><actor>R. Scheider (Brody)</actor></credits>",
		},
		{
			name: "flag child keeps wrapper present",
			el: Nested("outer", []Element{
				Flag("inner", true),
			}),
			want: "<outer><inner></inner></outer>",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := render(t, tt.el); got != tt.want {
				t.Errorf("rendered %q, want %q", got, tt.want)
			}
		})
	}
}
