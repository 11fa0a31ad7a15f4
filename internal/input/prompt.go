package input

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/san-kum/trussim/internal/truss"
)

// Prompter builds a model by asking for it one record at a time, the way
// a user would type it at a terminal. A bad answer is reported on out and
// the same question is asked again; running out of input is an error.
type Prompter struct {
	sc   *bufio.Scanner
	out  io.Writer
	line int
}

func NewPrompter(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{sc: bufio.NewScanner(in), out: out}
}

// Model asks for the nodes, then the members, then the loads.
func (p *Prompter) Model() (*truss.Model, error) {
	m := truss.New()

	name, err := p.ask("truss name (optional): ")
	if err != nil {
		return nil, err
	}
	m.Name = strings.TrimSpace(name)

	sections := []struct {
		kind, hint string
		min        int
	}{
		{"node", "x y fixedX fixedY", 1},
		{"member", "n1 n2 [area modulus]", 1},
		{"load", "node fx fy", 0},
	}
	for _, sec := range sections {
		n, err := p.count(fmt.Sprintf("number of %ss: ", sec.kind), sec.min)
		if err != nil {
			return nil, err
		}
		for i := 0; i < n; i++ {
			if err := p.record(m, sec.kind, fmt.Sprintf("%s %d (%s): ", sec.kind, i, sec.hint)); err != nil {
				return nil, err
			}
		}
	}

	if err := m.Validate(); err != nil {
		return nil, err
	}
	return m, nil
}

func (p *Prompter) ask(question string) (string, error) {
	fmt.Fprint(p.out, question)
	if !p.sc.Scan() {
		if err := p.sc.Err(); err != nil {
			return "", err
		}
		return "", &ParseError{File: "<stdin>", Line: p.line + 1, Wrapped: io.ErrUnexpectedEOF}
	}
	p.line++
	return p.sc.Text(), nil
}

func (p *Prompter) count(question string, min int) (int, error) {
	for {
		answer, err := p.ask(question)
		if err != nil {
			return 0, err
		}
		n, err := parseInt(strings.TrimSpace(answer))
		if err == nil && n < min {
			err = fmt.Errorf("%w: need at least %d", ErrSyntax, min)
		}
		if err == nil {
			return n, nil
		}
		p.complain(err)
	}
}

func (p *Prompter) record(m *truss.Model, kind, question string) error {
	for {
		answer, err := p.ask(question)
		if err != nil {
			return err
		}
		if i := strings.IndexByte(answer, '#'); i >= 0 {
			answer = answer[:i]
		}
		fields := append([]string{kind}, strings.Fields(answer)...)
		err = parseRecord(m, fields)
		if err == nil {
			return nil
		}
		p.complain(err)
	}
}

func (p *Prompter) complain(err error) {
	fmt.Fprintf(p.out, "line %d: %v, try again\n", p.line, err)
}
