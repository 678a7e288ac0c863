package prompt

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"sync"

	"golang.org/x/term"
)

// ErrNoInput is returned when stdin is closed before an answer is given
var ErrNoInput = errors.New("no input")

type lineResult struct {
	line string
	err  error
}

// Prompter asks questions on a terminal. Reads happen on a background goroutine
// so a cancelled context unblocks a waiting prompt. A line read by a cancelled
// prompt is handed to the next one.
type Prompter struct {
	in      io.Reader
	out     io.Writer
	onInput func()

	once    sync.Once
	mu      sync.Mutex
	pending bool
	reqs    chan struct{}
	results chan lineResult
}

// New creates a prompter. onInput, when set, runs after every line the user enters.
func New(in io.Reader, out io.Writer, onInput func()) *Prompter {
	return &Prompter{in: in, out: out, onInput: onInput}
}

// Stdio returns a prompter on the process's standard streams
func Stdio(onInput func()) *Prompter {
	return New(os.Stdin, os.Stdout, onInput)
}

func (p *Prompter) start() {
	p.once.Do(func() {
		p.reqs = make(chan struct{})
		p.results = make(chan lineResult, 1)
		go p.loop()
	})
}

func (p *Prompter) loop() {
	r := bufio.NewReader(p.in)
	for range p.reqs {
		line, err := r.ReadString('\n')
		if err == io.EOF {
			if line != "" {
				err = nil
			} else {
				err = ErrNoInput
			}
		}
		p.results <- lineResult{line: strings.TrimRight(line, "\r\n"), err: err}
	}
}

// readLine waits for one line or for ctx to end
func (p *Prompter) readLine(ctx context.Context) (string, error) {
	p.start()

	p.mu.Lock()
	if !p.pending {
		p.pending = true
		p.mu.Unlock()
		select {
		case p.reqs <- struct{}{}:
		case <-ctx.Done():
			p.mu.Lock()
			p.pending = false
			p.mu.Unlock()
			return "", ctx.Err()
		}
	} else {
		p.mu.Unlock()
	}

	select {
	case res := <-p.results:
		p.mu.Lock()
		p.pending = false
		p.mu.Unlock()
		if res.err == nil && p.onInput != nil {
			p.onInput()
		}
		return res.line, res.err
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

// Line prints label and returns the trimmed answer
func (p *Prompter) Line(ctx context.Context, label string) (string, error) {
	fmt.Fprintf(p.out, "%s: ", label)
	line, err := p.readLine(ctx)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// Default is Line with a value used when the answer is empty
func (p *Prompter) Default(ctx context.Context, label, def string) (string, error) {
	if def == "" {
		return p.Line(ctx, label)
	}
	answer, err := p.Line(ctx, fmt.Sprintf("%s [%s]", label, def))
	if err != nil {
		return "", err
	}
	if answer == "" {
		return def, nil
	}
	return answer, nil
}

// Confirm asks a yes/no question
func (p *Prompter) Confirm(ctx context.Context, label string, def bool) (bool, error) {
	hint := "y/N"
	if def {
		hint = "Y/n"
	}
	for {
		answer, err := p.Line(ctx, fmt.Sprintf("%s (%s)", label, hint))
		if err != nil {
			return false, err
		}
		switch strings.ToLower(answer) {
		case "":
			return def, nil
		case "y", "yes":
			return true, nil
		case "n", "no":
			return false, nil
		}
		fmt.Fprintln(p.out, "Please answer yes or no.")
	}
}

// Choose lists options and returns the index picked by number
func (p *Prompter) Choose(ctx context.Context, label string, options []string) (int, error) {
	if len(options) == 0 {
		return -1, errors.New("nothing to choose from")
	}
	for i, opt := range options {
		fmt.Fprintf(p.out, "  %d) %s\n", i+1, opt)
	}
	for {
		answer, err := p.Line(ctx, label)
		if err != nil {
			return -1, err
		}
		n, err := strconv.Atoi(answer)
		if err == nil && n >= 1 && n <= len(options) {
			return n - 1, nil
		}
		fmt.Fprintf(p.out, "Enter a number from 1 to %d.\n", len(options))
	}
}

// Password reads a secret without echo when stdin is a terminal
func (p *Prompter) Password(ctx context.Context, label string) (string, error) {
	f, ok := p.in.(*os.File)
	p.mu.Lock()
	busy := p.pending
	p.mu.Unlock()
	if !ok || busy || !term.IsTerminal(int(f.Fd())) {
		fmt.Fprintf(p.out, "%s: ", label)
		return p.readLine(ctx)
	}

	fmt.Fprintf(p.out, "%s: ", label)
	done := make(chan lineResult, 1)
	go func() {
		secret, err := term.ReadPassword(int(f.Fd()))
		done <- lineResult{line: string(secret), err: err}
	}()

	select {
	case res := <-done:
		fmt.Fprintln(p.out)
		if res.err == nil && p.onInput != nil {
			p.onInput()
		}
		return res.line, res.err
	case <-ctx.Done():
		fmt.Fprintln(p.out)
		return "", ctx.Err()
	}
}
