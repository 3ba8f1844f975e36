package asmpp

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
)

func TestPreprocess(t *testing.T) {
	testCases := []struct {
		src  string
		want string
	}{
		{"nop\n.end\n; trailer", "nop\n.end"},
		{".macro add = (a, b): { [a] + [b] }\nadd(x, y)\n.end", "\nx + y\n.end"},
		{".macro nop3 = (): { nop\nnop\nnop }\nnop3()\n.end", "\nnop\nnop\nnop\n.end"},
	}

	for i, tc := range testCases {
		got, err := Preprocess(tc.src, "main.asm")
		if err != nil {
			t.Errorf("TestPreprocess(%d): %v", i, err)
		} else if got != tc.want {
			t.Errorf("TestPreprocess(%d): got: %q want: %q", i, got, tc.want)
		}
	}
}

func TestPreprocessFile(t *testing.T) {
	dir := t.TempDir()
	inc := filepath.Join(dir, "defs.inc")
	entry := filepath.Join(dir, "main.asm")
	if err := os.WriteFile(inc, []byte(".macro ret2 = (a, b): { mov r0, [a]\n\tmov r1, [b]\n\tret }\n"), 0644); err != nil {
		t.Fatal(err)
	}
	src := fmt.Sprintf(".include %q ; helpers\nmain:\n\tret2(1, 2)\n.end\nunreachable\n", inc)
	if err := os.WriteFile(entry, []byte(src), 0644); err != nil {
		t.Fatal(err)
	}

	got, err := PreprocessFile(entry)
	if err != nil {
		t.Fatalf("PreprocessFile: %v", err)
	}
	want := "\n\nmain:\n\tmov r0, 1\n\tmov r1, 2\n\tret\n.end"
	if got != want {
		t.Errorf("got: %q want: %q", got, want)
	}
}

func TestPreprocessFileSelfInclude(t *testing.T) {
	entry := filepath.Join(t.TempDir(), "a.asm")
	if err := os.WriteFile(entry, []byte(fmt.Sprintf(".include %q\n.end\n", entry)), 0644); err != nil {
		t.Fatal(err)
	}
	_, err := PreprocessFile(entry)
	var e *IncludeRecursionError
	if !errors.As(err, &e) {
		t.Fatalf("expected IncludeRecursionError, got %v", err)
	}
}

func TestPreprocessConcurrent(t *testing.T) {
	var wg sync.WaitGroup
	errs := make([]error, 8)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			src := fmt.Sprintf(".macro m%d = (a): { op%d [a] }\nm%d(r%d)\n.end", i, i, i, i)
			want := fmt.Sprintf("\nop%d r%d\n.end", i, i)
			got, err := Preprocess(src, "main.asm")
			if err == nil && got != want {
				err = fmt.Errorf("got %q want %q", got, want)
			}
			errs[i] = err
		}(i)
	}
	wg.Wait()
	for i, err := range errs {
		if err != nil {
			t.Errorf("run %d: %v", i, err)
		}
	}
}
