// ABOUTME: Tests for PCM decoder
// ABOUTME: Tests 16-bit and 24-bit PCM decoding
package decode

import (
	"bytes"
	"errors"
	"io"
	"testing"
)

func TestPCMDecode16Bit(t *testing.T) {
	// 0x00, 0x01 -> 0x0100 = 256 (16-bit) -> 256<<8 = 65536 (24-bit)
	// 0x02, 0x03 -> 0x0302 = 770 (16-bit) -> 770<<8 = 197120 (24-bit)
	input := []byte{0x00, 0x01, 0x02, 0x03}

	decoder, err := NewPCM(bytes.NewReader(input), 48000, 2, 16)
	if err != nil {
		t.Fatalf("failed to create decoder: %v", err)
	}

	output := make([]int32, 8)
	n, err := decoder.Read(output)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if n != 2 {
		t.Fatalf("expected 2 samples, got %d", n)
	}

	if output[0] != 256<<8 {
		t.Errorf("expected first sample %d, got %d", 256<<8, output[0])
	}
	if output[1] != 770<<8 {
		t.Errorf("expected second sample %d, got %d", 770<<8, output[1])
	}

	if _, err := decoder.Read(output); err != io.EOF {
		t.Errorf("expected io.EOF after input, got %v", err)
	}
}

func TestPCMDecode24Bit(t *testing.T) {
	input := []byte{0x00, 0x01, 0x02, 0x03, 0x04, 0x05}

	decoder, err := NewPCM(bytes.NewReader(input), 192000, 2, 24)
	if err != nil {
		t.Fatalf("failed to create decoder: %v", err)
	}

	output := make([]int32, 2)
	n, err := decoder.Read(output)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if n != 2 {
		t.Fatalf("expected 2 samples, got %d", n)
	}

	// 0x00, 0x01, 0x02 -> 0x020100
	if output[0] != 0x020100 {
		t.Errorf("expected first sample %d, got %d", 0x020100, output[0])
	}
	// 0x03, 0x04, 0x05 -> 0x050403
	if output[1] != 0x050403 {
		t.Errorf("expected second sample %d, got %d", 0x050403, output[1])
	}
}

func TestPCMDecodeDropsPartialSample(t *testing.T) {
	decoder, err := NewPCM(bytes.NewReader([]byte{0x01, 0x00, 0x7f}), 8000, 1, 16)
	if err != nil {
		t.Fatalf("failed to create decoder: %v", err)
	}

	output := make([]int32, 4)
	n, err := decoder.Read(output)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if n != 1 {
		t.Errorf("expected 1 whole sample, got %d", n)
	}
}

func TestNewPCM_UnsupportedBitDepth(t *testing.T) {
	decoder, err := NewPCM(bytes.NewReader(nil), 48000, 2, 32)
	if err == nil {
		t.Fatal("expected error for unsupported bit depth, got nil")
	}
	if decoder != nil {
		t.Fatal("expected decoder to be nil for unsupported bit depth")
	}
	if !errors.Is(err, ErrUnsupportedBitDepth) {
		t.Errorf("expected ErrUnsupportedBitDepth, got %v", err)
	}
}

func TestPCMDecode_EmptyInput(t *testing.T) {
	decoder, err := NewPCM(bytes.NewReader(nil), 48000, 2, 16)
	if err != nil {
		t.Fatalf("failed to create decoder: %v", err)
	}

	n, err := decoder.Read(make([]int32, 4))
	if err != io.EOF {
		t.Fatalf("expected io.EOF from empty input, got %v", err)
	}
	if n != 0 {
		t.Errorf("expected 0 samples from empty input, got %d", n)
	}
}
