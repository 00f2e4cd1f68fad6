package main

import (
	"reflect"
	"testing"
)

func TestRewriteDirectNodeLookupArgs(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   []string
		want []string
	}{
		{
			name: "no args",
			in:   []string{"treeline"},
			want: []string{"treeline"},
		},
		{
			name: "direct node id first token",
			in:   []string{"treeline", "node-abc123"},
			want: []string{"treeline", "show", "node-abc123"},
		},
		{
			name: "direct node id after value flag",
			in:   []string{"treeline", "--dir", "./tmp-test-ws", "node-abc123"},
			want: []string{"treeline", "--dir", "./tmp-test-ws", "show", "node-abc123"},
		},
		{
			name: "direct node id after equals flag",
			in:   []string{"treeline", "--dir=./tmp-test-ws", "node-abc123"},
			want: []string{"treeline", "--dir=./tmp-test-ws", "show", "node-abc123"},
		},
		{
			name: "direct node id after bool flag",
			in:   []string{"treeline", "--pretty", "node-abc123"},
			want: []string{"treeline", "--pretty", "show", "node-abc123"},
		},
		{
			name: "direct node id after double dash",
			in:   []string{"treeline", "--dir", "./tmp-test-ws", "--", "node-abc123"},
			want: []string{"treeline", "--dir", "./tmp-test-ws", "--", "show", "node-abc123"},
		},
		{
			name: "normal subcommand not rewritten",
			in:   []string{"treeline", "show", "node-abc123"},
			want: []string{"treeline", "show", "node-abc123"},
		},
		{
			name: "unknown command not rewritten",
			in:   []string{"treeline", "wat"},
			want: []string{"treeline", "wat"},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := rewriteDirectNodeLookupArgs(tt.in)
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("rewriteDirectNodeLookupArgs:\n got: %#v\nwant: %#v", got, tt.want)
			}
		})
	}
}
