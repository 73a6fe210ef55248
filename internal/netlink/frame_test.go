package netlink

import (
	"bytes"
	"errors"
	"io"
	"testing"
)

func TestFrameLayout(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteFrame(&buf, []byte{1, 0, 0, 0, 7}); err != nil {
		t.Fatalf("WriteFrame failed: %v", err)
	}
	expected := []byte{0, 5, 1, 0, 0, 0, 7}
	if !bytes.Equal(buf.Bytes(), expected) {
		t.Errorf("frame = %v, expected %v", buf.Bytes(), expected)
	}
}

func TestFramesInSequence(t *testing.T) {
	var buf bytes.Buffer
	payloads := [][]byte{{2}, {}, {1, 0xff, 0xff, 0xff, 0xff}, {3}}
	for _, p := range payloads {
		if err := WriteFrame(&buf, p); err != nil {
			t.Fatalf("WriteFrame failed: %v", err)
		}
	}

	for i, expected := range payloads {
		got, err := ReadFrame(&buf)
		if err != nil {
			t.Fatalf("frame %d: %v", i, err)
		}
		if !bytes.Equal(got, expected) {
			t.Errorf("frame %d = %v, expected %v", i, got, expected)
		}
	}

	if _, err := ReadFrame(&buf); !errors.Is(err, io.EOF) {
		t.Errorf("read past end = %v, expected io.EOF", err)
	}
}

func TestReadFrameTruncated(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"half header", []byte{0}},
		{"short body", []byte{0, 4, 1, 2}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ReadFrame(bytes.NewReader(tc.data))
			if !errors.Is(err, io.ErrUnexpectedEOF) {
				t.Errorf("err = %v, expected io.ErrUnexpectedEOF", err)
			}
		})
	}
}

func TestWriteFrameTooLarge(t *testing.T) {
	var buf bytes.Buffer
	err := WriteFrame(&buf, make([]byte, MaxFrame+1))
	if !errors.Is(err, ErrFrameTooLarge) {
		t.Errorf("err = %v, expected ErrFrameTooLarge", err)
	}
	if buf.Len() != 0 {
		t.Errorf("wrote %d bytes for a rejected frame", buf.Len())
	}
}
