package agent

import (
	"bytes"
	"testing"
)

func TestNegotiatorFeed(t *testing.T) {
	tests := []struct {
		name string
		in   [][]byte
		want []byte
	}{
		{
			name: "plain data",
			in:   [][]byte{[]byte("Router>")},
			want: nil,
		},
		{
			name: "DO refused with WONT",
			in:   [][]byte{{telnetIAC, telnetDO, 1}},
			want: []byte{telnetIAC, telnetWONT, 1},
		},
		{
			name: "WILL refused with DONT",
			in:   [][]byte{{telnetIAC, telnetWILL, 3}},
			want: []byte{telnetIAC, telnetDONT, 3},
		},
		{
			name: "DONT and WONT not answered",
			in:   [][]byte{{telnetIAC, telnetDONT, 1, telnetIAC, telnetWONT, 3}},
			want: nil,
		},
		{
			name: "split across reads",
			in:   [][]byte{{'x', telnetIAC}, {telnetDO}, {24, 'y'}},
			want: []byte{telnetIAC, telnetWONT, 24},
		},
		{
			name: "subnegotiation skipped",
			in:   [][]byte{{telnetIAC, telnetSB, 24, telnetDO, 1, telnetIAC, telnetSE, telnetIAC, telnetDO, 31}},
			want: []byte{telnetIAC, telnetWONT, 31},
		},
		{
			name: "escaped IAC is data",
			in:   [][]byte{{telnetIAC, telnetIAC, telnetIAC, telnetWILL, 1}},
			want: []byte{telnetIAC, telnetDONT, 1},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var n negotiator
			var got []byte
			for _, chunk := range tt.in {
				got = append(got, n.feed(chunk)...)
			}
			if !bytes.Equal(got, tt.want) {
				t.Errorf("feed() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestEscapeIAC(t *testing.T) {
	tests := []struct {
		in, want []byte
	}{
		{[]byte("conf t\r\n"), []byte("conf t\r\n")},
		{[]byte{'a', telnetIAC, 'b'}, []byte{'a', telnetIAC, telnetIAC, 'b'}},
		{[]byte{telnetIAC, telnetIAC}, []byte{telnetIAC, telnetIAC, telnetIAC, telnetIAC}},
		{nil, nil},
	}
	for _, tt := range tests {
		if got := escapeIAC(tt.in); !bytes.Equal(got, tt.want) {
			t.Errorf("escapeIAC(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
