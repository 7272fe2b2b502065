package mp4demux

import (
	"bytes"
	"testing"
)

func TestAvccToAnnexB(t *testing.T) {
	tests := []struct {
		name string
		in   []byte
		want []byte
	}{
		{
			name: "single nalu",
			in:   []byte{0, 0, 0, 2, 0x65, 0x88},
			want: []byte{0, 0, 0, 1, 0x65, 0x88},
		},
		{
			name: "two nalus",
			in:   []byte{0, 0, 0, 1, 0x09, 0, 0, 0, 2, 0x41, 0x9a},
			want: []byte{0, 0, 0, 1, 0x09, 0, 0, 0, 1, 0x41, 0x9a},
		},
		{
			name: "truncated",
			in:   []byte{0, 0, 0, 5, 0x65},
			want: nil,
		},
		{
			name: "empty",
			in:   nil,
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := avccToAnnexB(nil, tt.in)
			if !bytes.Equal(got, tt.want) {
				t.Errorf("got %x, want %x", got, tt.want)
			}
		})
	}
}

func TestParameterSets(t *testing.T) {
	got := parameterSets([][]byte{{0x67, 0x42}}, [][]byte{{0x68}})
	want := []byte{0, 0, 0, 1, 0x67, 0x42, 0, 0, 0, 1, 0x68}
	if !bytes.Equal(got, want) {
		t.Errorf("got %x, want %x", got, want)
	}
}
