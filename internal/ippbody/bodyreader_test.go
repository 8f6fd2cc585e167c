package ippbody

import (
	"context"
	"io"
	"strings"
	"testing"
)

type fakeChunkSource struct {
	chunks [][]byte
	i      int
}

func (f *fakeChunkSource) NextChunk(ctx context.Context) ([]byte, error) {
	if f.i >= len(f.chunks) {
		return nil, io.EOF
	}
	c := f.chunks[f.i]
	f.i++
	return c, nil
}

func TestBodyReaderAssemblesChunks(t *testing.T) {
	tests := []struct {
		name   string
		chunks [][]byte
		want   string
	}{
		{"single chunk", [][]byte{[]byte("hello")}, "hello"},
		{"multiple chunks", [][]byte{[]byte("he"), []byte("ll"), []byte("o")}, "hello"},
		{"empty source", nil, ""},
		{"chunk larger than read buffer", [][]byte{[]byte("abcdefghij")}, "abcdefghij"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			br := NewBodyReader(context.Background(), &fakeChunkSource{chunks: tt.chunks})
			got, err := io.ReadAll(br)
			if err != nil {
				t.Fatalf("ReadAll: %v", err)
			}
			if string(got) != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestBodyReaderSmallDestinationBuffer(t *testing.T) {
	br := NewBodyReader(context.Background(), &fakeChunkSource{chunks: [][]byte{[]byte("abcdefgh")}})
	buf := make([]byte, 3)
	var out []byte
	for {
		n, err := br.Read(buf)
		out = append(out, buf[:n]...)
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("Read: %v", err)
		}
	}
	if string(out) != "abcdefgh" {
		t.Errorf("got %q, want %q", out, "abcdefgh")
	}
}

func TestReaderChunkSourceAdaptsIoReader(t *testing.T) {
	src := NewReaderChunkSource(strings.NewReader("streamed content"))
	br := NewBodyReader(context.Background(), src)
	got, err := io.ReadAll(br)
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if string(got) != "streamed content" {
		t.Errorf("got %q, want %q", got, "streamed content")
	}
}

func TestResponseBodyHeaderOnly(t *testing.T) {
	rb := NewResponseBody([]byte("HEAD"), nil)
	if rb.HasPayload() {
		t.Fatal("HasPayload() = true, want false")
	}
	got, err := io.ReadAll(rb)
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if string(got) != "HEAD" {
		t.Errorf("got %q, want %q", got, "HEAD")
	}
}

func TestResponseBodyHeaderAndPayload(t *testing.T) {
	rb := NewResponseBody([]byte("HEAD"), strings.NewReader("PAYLOAD"))
	if !rb.HasPayload() {
		t.Fatal("HasPayload() = false, want true")
	}
	got, err := io.ReadAll(rb)
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if string(got) != "HEADPAYLOAD" {
		t.Errorf("got %q, want %q", got, "HEADPAYLOAD")
	}
}
