package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/avelardi/polisbot/internal/application/common"
)

// errAborted signals that the operator cancelled the session at a prompt.
// It is handled as a clean exit, never as a failure.
var errAborted = errors.New("aborted by user")

// abortRune at any quantity prompt cancels the whole session, matching the
// long-standing convention operators already know.
const abortRune = "'"

type prompter struct {
	in  *bufio.Reader
	out io.Writer
}

func newPrompter(in io.Reader, out io.Writer) *prompter {
	return &prompter{in: bufio.NewReader(in), out: out}
}

func (p *prompter) line(prompt string) (string, error) {
	fmt.Fprint(p.out, prompt)
	text, err := p.in.ReadString('\n')
	if err != nil && text == "" {
		if err == io.EOF {
			return "", errAborted
		}
		return "", err
	}
	return strings.TrimSpace(text), nil
}

// quantity reads a non-negative quantity. Blank means zero; the abort rune
// cancels the session.
func (p *prompter) quantity(name string) (int, error) {
	for {
		text, err := p.line(fmt.Sprintf("  %s: ", name))
		if err != nil {
			return 0, err
		}
		if text == "" {
			return 0, nil
		}
		if text == abortRune {
			return 0, errAborted
		}
		n, convErr := strconv.Atoi(text)
		if convErr != nil || n < 0 {
			fmt.Fprintln(p.out, "  Enter a number, leave blank for none, or ' to abort.")
			continue
		}
		return n, nil
	}
}

// confirm asks a yes/no question. Blank takes the default.
func (p *prompter) confirm(question string, def bool) (bool, error) {
	hint := "[Y/n]"
	if !def {
		hint = "[y/N]"
	}
	for {
		text, err := p.line(fmt.Sprintf("%s %s ", question, hint))
		if err != nil {
			return false, err
		}
		switch strings.ToLower(text) {
		case "":
			return def, nil
		case "y", "yes":
			return true, nil
		case "n", "no":
			return false, nil
		}
		fmt.Fprintln(p.out, "Please answer y or n.")
	}
}

// choose presents numbered options and returns the selected index.
func (p *prompter) choose(question string, options []string) (int, error) {
	fmt.Fprintln(p.out, question)
	for i, opt := range options {
		fmt.Fprintf(p.out, "  %d) %s\n", i+1, opt)
	}
	for {
		text, err := p.line("> ")
		if err != nil {
			return 0, err
		}
		if text == abortRune {
			return 0, errAborted
		}
		n, convErr := strconv.Atoi(text)
		if convErr == nil && n >= 1 && n <= len(options) {
			return n - 1, nil
		}
		fmt.Fprintf(p.out, "Enter a number between 1 and %d.\n", len(options))
	}
}

// excludeCities shows the numbered city list and reads a comma-separated
// selection to skip. Blank excludes nothing.
func (p *prompter) excludeCities(cities []common.CityRef) (map[int]bool, error) {
	fmt.Fprintln(p.out, "Cities:")
	for i, city := range cities {
		fmt.Fprintf(p.out, "  %d) %s\n", i+1, city.Name)
	}

	for {
		text, err := p.line("Cities to skip (comma separated numbers, blank for none): ")
		if err != nil {
			return nil, err
		}
		if text == "" {
			return nil, nil
		}
		if text == abortRune {
			return nil, errAborted
		}

		excluded := make(map[int]bool)
		valid := true
		for _, part := range strings.Split(text, ",") {
			n, convErr := strconv.Atoi(strings.TrimSpace(part))
			if convErr != nil || n < 1 || n > len(cities) {
				valid = false
				break
			}
			excluded[cities[n-1].ID] = true
		}
		if valid {
			return excluded, nil
		}
		fmt.Fprintf(p.out, "Enter numbers between 1 and %d, separated by commas.\n", len(cities))
	}
}
