package reactssr

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"
)

func TestRenderToString(t *testing.T) {
	out, err := renderToString(func(w io.Writer) error {
		_, err := io.WriteString(w, "<p>first</p>")
		return err
	})
	if err != nil {
		t.Fatalf("renderToString() error = %v", err)
	}
	if out != "<p>first</p>" {
		t.Errorf("renderToString() = %q", out)
	}

	// the next render must not see the previous output
	out, err = renderToString(func(w io.Writer) error {
		_, err := io.WriteString(w, "second")
		return err
	})
	if err != nil {
		t.Fatalf("renderToString() error = %v", err)
	}
	if out != "second" {
		t.Errorf("renderToString() = %q, want %q", out, "second")
	}
}

func TestRenderToStringError(t *testing.T) {
	boom := errors.New("boom")
	out, err := renderToString(func(w io.Writer) error {
		_, _ = io.WriteString(w, "partial")
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("error = %v, want %v", err, boom)
	}
	if out != "" {
		t.Errorf("output on error = %q, want empty", out)
	}

	out, err = renderToString(func(w io.Writer) error {
		return nil
	})
	if err != nil || out != "" {
		t.Errorf("renderToString() after error = %q, %v; want empty", out, err)
	}
}

func TestRenderToStringCopiesOutput(t *testing.T) {
	first, _ := renderToString(func(w io.Writer) error {
		_, err := io.WriteString(w, "aaaa")
		return err
	})
	_, _ = renderToString(func(w io.Writer) error {
		_, err := io.WriteString(w, "bbbb")
		return err
	})
	if first != "aaaa" {
		t.Errorf("earlier result changed to %q", first)
	}
}

func TestPutBufferDropsLargeBuffers(t *testing.T) {
	buf := getBuffer()
	buf.WriteString(strings.Repeat("x", maxPooledBuffer+1))
	putBuffer(buf)

	if got := getBuffer(); got == buf {
		t.Error("oversized buffer should not be pooled")
	}

	small := bytes.NewBufferString("left over")
	putBuffer(small)
	if small.Len() != 0 {
		t.Error("putBuffer should reset the buffer")
	}
}
