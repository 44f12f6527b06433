package errors

import (
	"bytes"
	stderrors "errors"
	"fmt"
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		code    string
		wantMsg string
		wantCat Category
	}{
		{
			name:    "programming error",
			code:    "P010",
			wantMsg: "Index out of range",
			wantCat: CategoryProgramming,
		},
		{
			name:    "listener error",
			code:    "L001",
			wantMsg: "Listener panicked during change notification",
			wantCat: CategoryListener,
		},
		{
			name:    "scenario error",
			code:    "S005",
			wantMsg: "Expectation failed",
			wantCat: CategoryScenario,
		},
		{
			name:    "unknown error code",
			code:    "Z999",
			wantMsg: "Unknown error",
			wantCat: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := New(tt.code)
			if err.Message != tt.wantMsg {
				t.Errorf("Message = %q, want %q", err.Message, tt.wantMsg)
			}
			if err.Category != tt.wantCat {
				t.Errorf("Category = %q, want %q", err.Category, tt.wantCat)
			}
			if err.Code != tt.code {
				t.Errorf("Code = %q, want %q", err.Code, tt.code)
			}
		})
	}
}

func TestNewf(t *testing.T) {
	err := Newf(CategoryCLI, "file %q not found", "x.yaml")
	if err.Message != `file "x.yaml" not found` {
		t.Errorf("Message = %q, want %q", err.Message, `file "x.yaml" not found`)
	}
	if err.Category != CategoryCLI {
		t.Errorf("Category = %q, want %q", err.Category, CategoryCLI)
	}
}

func TestError_Error(t *testing.T) {
	err := New("P010").WithDetail("index 3, length 2")
	want := "P010: Index out of range (index 3, length 2)"
	if got := err.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}

	err2 := &Error{Message: "test error"}
	if err2.Error() != "test error" {
		t.Errorf("Error() = %q, want %q", err2.Error(), "test error")
	}
}

func TestError_Builders(t *testing.T) {
	err := New("P001").
		WithSuggestion("pass a function").
		WithExample("binding.Transform(src, strings.ToUpper)").
		WithDetailf("argument %d", 2)

	if err.Suggestion != "pass a function" {
		t.Errorf("Suggestion = %q", err.Suggestion)
	}
	if err.Example != "binding.Transform(src, strings.ToUpper)" {
		t.Errorf("Example = %q", err.Example)
	}
	if err.Detail != "argument 2" {
		t.Errorf("Detail = %q, want %q", err.Detail, "argument 2")
	}
}

func TestError_WrapAndIs(t *testing.T) {
	inner := fmt.Errorf("disk full")
	outer := New("C001").Wrap(inner)

	if outer.Unwrap() != inner {
		t.Error("Unwrap() should return wrapped error")
	}
	if !stderrors.Is(outer, inner) {
		t.Error("errors.Is should find the wrapped error")
	}
	if !stderrors.Is(fmt.Errorf("load: %w", outer), New("C001")) {
		t.Error("errors.Is should match by code")
	}
	if stderrors.Is(outer, New("C002")) {
		t.Error("errors.Is should not match a different code")
	}
}

func TestFromError(t *testing.T) {
	if FromError(nil, "C001") != nil {
		t.Error("FromError(nil) should be nil")
	}

	pe := New("S003")
	if got := FromError(fmt.Errorf("ctx: %w", pe), "C001"); got != pe {
		t.Error("FromError should return the existing *Error")
	}

	plain := stderrors.New("boom")
	got := FromError(plain, "C002")
	if got.Code != "C002" || got.Wrapped != plain {
		t.Errorf("FromError = %+v, want code C002 wrapping boom", got)
	}
}

func TestCodeOf(t *testing.T) {
	if got := CodeOf(fmt.Errorf("x: %w", New("S004"))); got != "S004" {
		t.Errorf("CodeOf = %q, want S004", got)
	}
	if got := CodeOf(stderrors.New("plain")); got != "" {
		t.Errorf("CodeOf(plain) = %q, want empty", got)
	}
}

func TestFormat(t *testing.T) {
	DisableColors()
	defer EnableColors()

	err := New("P020").
		WithSuggestion("Use binding.Aggregate").
		WithExample("binding.Aggregate(src, transform.And)")

	out := err.Format()
	for _, want := range []string{
		"ERROR P020: Transform needs exactly one source",
		"Hint: Use binding.Aggregate",
		"Example:",
		"binding.Aggregate(src, transform.And)",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("Format() missing %q in:\n%s", want, out)
		}
	}
}

func TestFormatCompact(t *testing.T) {
	err := New("C002").Wrap(stderrors.New("unexpected EOF"))
	want := "C002: Config file not valid JSON: unexpected EOF"
	if got := err.FormatCompact(); got != want {
		t.Errorf("FormatCompact() = %q, want %q", got, want)
	}
}

func TestFormatJSON(t *testing.T) {
	err := New("S005").WithDetail(`"ok" expected true`)
	got := err.FormatJSON()
	want := `{"code":"S005","category":"scenario","message":"Expectation failed","detail":"\"ok\" expected true"}`
	if got != want {
		t.Errorf("FormatJSON() = %s, want %s", got, want)
	}
}

func TestPrintError(t *testing.T) {
	DisableColors()
	defer EnableColors()

	var buf bytes.Buffer
	PrintError(&buf, New("X001"))
	if !strings.Contains(buf.String(), "ERROR X001: Missing argument") {
		t.Errorf("PrintError output = %q", buf.String())
	}

	buf.Reset()
	PrintError(&buf, stderrors.New("plain failure"))
	if !strings.Contains(buf.String(), "ERROR: plain failure") {
		t.Errorf("PrintError output = %q", buf.String())
	}
}

func TestGetAllCodes(t *testing.T) {
	codes := GetAllCodes()
	if len(codes) == 0 {
		t.Fatal("expected registered codes")
	}
	for i := 1; i < len(codes); i++ {
		if codes[i-1] > codes[i] {
			t.Fatalf("codes not sorted: %v", codes)
		}
	}
}

func TestRegister(t *testing.T) {
	Register("Z100", ErrorTemplate{Category: CategoryCLI, Message: "custom"})
	defer delete(registry, "Z100")

	tmpl, ok := GetTemplate("Z100")
	if !ok || tmpl.Message != "custom" {
		t.Errorf("GetTemplate(Z100) = %+v, %v", tmpl, ok)
	}
}

func TestWrapText(t *testing.T) {
	lines := wrapText("one two three four five six", 10)
	for _, l := range lines {
		if len(l) > 10 {
			t.Errorf("line %q longer than width", l)
		}
	}
	if strings.Join(lines, " ") != "one two three four five six" {
		t.Errorf("wrapText lost words: %v", lines)
	}
	if wrapText("", 10) != nil {
		t.Error("wrapText(\"\") should be nil")
	}
}
