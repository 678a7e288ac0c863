package prompt

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"
)

func TestLine_TrimsAndCountsInput(t *testing.T) {
	var out bytes.Buffer
	inputs := 0
	p := New(strings.NewReader("  hello  \r\nworld"), &out, func() { inputs++ })

	first, err := p.Line(context.Background(), "Name")
	if err != nil || first != "hello" {
		t.Fatalf("first = %q, %v", first, err)
	}
	second, err := p.Line(context.Background(), "Other")
	if err != nil || second != "world" {
		t.Fatalf("second = %q, %v", second, err)
	}
	if _, err := p.Line(context.Background(), "Third"); !errors.Is(err, ErrNoInput) {
		t.Fatalf("expected ErrNoInput, got %v", err)
	}
	if inputs != 2 {
		t.Errorf("onInput called %d times, want 2", inputs)
	}
	if !strings.Contains(out.String(), "Name: ") {
		t.Errorf("label not printed: %q", out.String())
	}
}

func TestLine_ContextCancelUnblocks(t *testing.T) {
	r, w := io.Pipe()
	defer w.Close()
	p := New(r, io.Discard, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if _, err := p.Line(ctx, "Waiting"); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline error, got %v", err)
	}

	// The line typed after the cancelled prompt goes to the next one.
	go func() { _, _ = w.Write([]byte("late\n")) }()
	got, err := p.Line(context.Background(), "Next")
	if err != nil || got != "late" {
		t.Fatalf("next = %q, %v", got, err)
	}
}

func TestConfirm(t *testing.T) {
	var out bytes.Buffer
	p := New(strings.NewReader("maybe\nyes\n\n"), &out, nil)

	ok, err := p.Confirm(context.Background(), "Proceed", false)
	if err != nil || !ok {
		t.Fatalf("Confirm = %v, %v", ok, err)
	}
	if !strings.Contains(out.String(), "Please answer yes or no.") {
		t.Error("expected re-prompt for invalid answer")
	}
	ok, err = p.Confirm(context.Background(), "Again", true)
	if err != nil || !ok {
		t.Fatalf("default Confirm = %v, %v", ok, err)
	}
}

func TestChoose(t *testing.T) {
	var out bytes.Buffer
	p := New(strings.NewReader("0\n3\n2\n"), &out, nil)

	idx, err := p.Choose(context.Background(), "Account", []string{"CHECKING", "SAVINGS"})
	if err != nil || idx != 1 {
		t.Fatalf("Choose = %d, %v", idx, err)
	}
	if strings.Count(out.String(), "Enter a number from 1 to 2.") != 2 {
		t.Errorf("output = %q", out.String())
	}
}

func TestDefaultAndPasswordFallback(t *testing.T) {
	p := New(strings.NewReader("\nsecret1\n"), io.Discard, nil)

	got, err := p.Default(context.Background(), "Description", "Wire transfer")
	if err != nil || got != "Wire transfer" {
		t.Fatalf("Default = %q, %v", got, err)
	}
	pw, err := p.Password(context.Background(), "Password")
	if err != nil || pw != "secret1" {
		t.Fatalf("Password = %q, %v", pw, err)
	}
}
