package rendercache

import "testing"

func TestCacheGetAdd(t *testing.T) {
	c := New(2)

	if _, ok := c.Get(1); ok {
		t.Fatal("empty cache should miss")
	}

	c.Add(1, "<b>one</b>")
	c.Add(2, "<b>two</b>")
	if got, ok := c.Get(1); !ok || got != "<b>one</b>" {
		t.Errorf("Get(1) = %q, %v", got, ok)
	}

	// 1 was used last, so 2 is evicted
	c.Add(3, "<b>three</b>")
	if _, ok := c.Get(2); ok {
		t.Error("least recently used entry should be evicted")
	}
	if _, ok := c.Get(1); !ok {
		t.Error("recently used entry should survive")
	}
	if c.Len() != 2 {
		t.Errorf("Len() = %d, want 2", c.Len())
	}
}

func TestCacheReplace(t *testing.T) {
	c := New(2)
	c.Add(1, "old")
	c.Add(1, "new")

	if got, _ := c.Get(1); got != "new" {
		t.Errorf("Get(1) = %q, want new", got)
	}
	if c.Len() != 1 {
		t.Errorf("Len() = %d, want 1", c.Len())
	}
}

func TestCacheDisabled(t *testing.T) {
	c := New(0)
	c.Add(1, "x")
	if _, ok := c.Get(1); ok {
		t.Error("zero sized cache should store nothing")
	}
}

func TestCachePurge(t *testing.T) {
	c := New(4)
	c.Add(1, "a")
	c.Add(2, "b")
	c.Purge()

	if c.Len() != 0 {
		t.Errorf("Len() = %d after Purge", c.Len())
	}
	if _, ok := c.Get(1); ok {
		t.Error("Purge should drop entries")
	}
}

func TestKey(t *testing.T) {
	tests := []struct {
		name string
		a, b [3]any
		same bool
	}{
		{"identical", [3]any{"Hello", false, `{"a":1}`}, [3]any{"Hello", false, `{"a":1}`}, true},
		{"component", [3]any{"Hello", false, `{}`}, [3]any{"Bye", false, `{}`}, false},
		{"mode", [3]any{"Hello", false, `{}`}, [3]any{"Hello", true, `{}`}, false},
		{"props", [3]any{"Hello", false, `{"a":1}`}, [3]any{"Hello", false, `{"a":2}`}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ka, err := Key(tt.a[0].(string), tt.a[1].(bool), tt.a[2].(string))
			if err != nil {
				t.Fatalf("Key failed: %v", err)
			}
			kb, err := Key(tt.b[0].(string), tt.b[1].(bool), tt.b[2].(string))
			if err != nil {
				t.Fatalf("Key failed: %v", err)
			}
			if (ka == kb) != tt.same {
				t.Errorf("keys equal = %v, want %v", ka == kb, tt.same)
			}
		})
	}
}
