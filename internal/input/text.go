package input

import (
	"bufio"
	"fmt"
	"strconv"
	"strings"

	"github.com/san-kum/trussim/internal/truss"
)

// ParseText reads the line-oriented format. Records may appear in any
// order as long as nodes precede the members and loads that use them.
func ParseText(src string) (*truss.Model, error) {
	m := truss.New()
	sc := bufio.NewScanner(strings.NewReader(src))
	line := 0

	for sc.Scan() {
		line++
		text := sc.Text()
		if i := strings.IndexByte(text, '#'); i >= 0 {
			text = text[:i]
		}
		fields := strings.Fields(text)
		if len(fields) == 0 {
			continue
		}

		if err := parseRecord(m, fields); err != nil {
			return nil, &ParseError{Line: line, Wrapped: err}
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return m, nil
}

func parseRecord(m *truss.Model, fields []string) error {
	kind, args := strings.ToLower(fields[0]), fields[1:]
	switch kind {
	case "name":
		m.Name = strings.Join(args, " ")
		return nil

	case "node":
		if len(args) != 2 && len(args) != 4 {
			return fmt.Errorf("%w: node wants x y [fixedX fixedY], got %d fields", ErrSyntax, len(args))
		}
		x, err := parseFloat(args[0])
		if err != nil {
			return err
		}
		y, err := parseFloat(args[1])
		if err != nil {
			return err
		}
		var fx, fy bool
		if len(args) == 4 {
			if fx, err = parseFlag(args[2]); err != nil {
				return err
			}
			if fy, err = parseFlag(args[3]); err != nil {
				return err
			}
		}
		m.AddNode(x, y, fx, fy)
		return nil

	case "member":
		if len(args) != 2 && len(args) != 4 {
			return fmt.Errorf("%w: member wants n1 n2 [area modulus], got %d fields", ErrSyntax, len(args))
		}
		n1, err := parseInt(args[0])
		if err != nil {
			return err
		}
		n2, err := parseInt(args[1])
		if err != nil {
			return err
		}
		var opts []truss.MemberOption
		if len(args) == 4 {
			a, err := parseFloat(args[2])
			if err != nil {
				return err
			}
			e, err := parseFloat(args[3])
			if err != nil {
				return err
			}
			opts = append(opts, truss.WithArea(a), truss.WithModulus(e))
		}
		_, err = m.AddMember(n1, n2, opts...)
		return err

	case "load":
		if len(args) != 3 {
			return fmt.Errorf("%w: load wants node fx fy, got %d fields", ErrSyntax, len(args))
		}
		n, err := parseInt(args[0])
		if err != nil {
			return err
		}
		fx, err := parseFloat(args[1])
		if err != nil {
			return err
		}
		fy, err := parseFloat(args[2])
		if err != nil {
			return err
		}
		return m.AddLoad(n, fx, fy)
	}
	return fmt.Errorf("%w: unknown record %q", ErrSyntax, fields[0])
}

func parseFloat(s string) (float64, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: bad number %q", ErrSyntax, s)
	}
	return v, nil
}

func parseInt(s string) (int, error) {
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%w: bad index %q", ErrSyntax, s)
	}
	return v, nil
}

func parseFlag(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "1", "true", "t", "yes", "fixed":
		return true, nil
	case "0", "false", "f", "no", "free":
		return false, nil
	}
	return false, fmt.Errorf("%w: bad flag %q", ErrSyntax, s)
}
