package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"

	"github.com/fieldnote-app/notation"
)

const historyFile = ".notation_history"

func main() {
	log.SetFlags(0)
	var (
		inname, fieldname, system string
		echo                      bool
	)
	flag.StringVar(&inname, "in", "", "input file (default stdin if no args given)")
	flag.StringVar(&fieldname, "field", "units", "field to calculate in: real, complex, or units")
	flag.StringVar(&system, "system", "SI", "unit system for results: SI or US")
	flag.BoolVar(&echo, "echo", false, "print parse trees")
	flag.Parse()

	field, err := fieldByName(fieldname)
	if err != nil {
		log.Fatal(err)
	}

	s := session{
		ctx:    notation.NewContext(),
		field:  field,
		system: system,
		echo:   echo,
	}

	if inname == "" && flag.NArg() == 0 && isTerminal(os.Stdin) {
		repl(&s)
		return
	}

	if inname != "" {
		f, err := os.Open(inname)
		if err != nil {
			log.Fatal(err)
		}
		s.run(bufio.NewScanner(f))
		f.Close()
	}
	for _, arg := range flag.Args() {
		s.run(bufio.NewScanner(strings.NewReader(arg)))
	}
	if inname == "" && flag.NArg() == 0 {
		s.run(bufio.NewScanner(os.Stdin))
	}
}

func fieldByName(name string) (notation.Field, error) {
	switch name {
	case "real":
		return notation.Reals, nil
	case "complex":
		return notation.Complexes, nil
	case "units":
		return notation.Units, nil
	}
	return nil, fmt.Errorf("no such field %q: use real, complex, or units", name)
}

// session holds the evaluation state shared by every input line.
type session struct {
	ctx    *notation.Context
	field  notation.Field
	system string
	echo   bool
	lineno int
}

// line evaluates one line of input and returns what to print, which is the
// empty string for blank lines and definitions without a value.
func (s *session) line(src string) (string, error) {
	s.lineno++
	if strings.TrimSpace(src) == "" {
		return "", nil
	}
	a, err := notation.Parse(src, notation.WithField(s.field))
	if err != nil {
		var pe *notation.ParseError
		if errors.As(err, &pe) {
			pe.Line = s.lineno
		}
		return "", err
	}
	if s.echo {
		fmt.Printf("%v : ", a)
	}
	v, err := a.Eval(s.ctx)
	if err != nil {
		if s.echo {
			fmt.Println()
		}
		return "", err
	}
	if v == nil {
		if s.echo {
			fmt.Println()
		}
		return "", nil
	}
	if u, ok := v.(notation.UnitVal); ok {
		return u.Format(s.system), nil
	}
	return v.String(), nil
}

// run feeds every line of sc to the session. Errors are reported per line and
// do not end the session.
func (s *session) run(sc *bufio.Scanner) {
	for sc.Scan() {
		out, err := s.line(sc.Text())
		if err != nil {
			log.Println(err)
			continue
		}
		if out != "" {
			fmt.Println(out)
		}
	}
	if err := sc.Err(); err != nil {
		log.Fatal(err)
	}
}

func repl(s *session) {
	home, _ := os.UserHomeDir()
	histPath := filepath.Join(home, historyFile)

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)
	if f, err := os.Open(histPath); err == nil {
		ln.ReadHistory(f)
		f.Close()
	}

	for {
		src, err := ln.Prompt("> ")
		if errors.Is(err, io.EOF) {
			fmt.Println()
			break
		}
		if err != nil {
			// Ctrl+C drops the current line.
			continue
		}
		if strings.TrimSpace(src) == "" {
			continue
		}
		ln.AppendHistory(src)
		out, err := s.line(src)
		if err != nil {
			fmt.Println("error:", err)
			continue
		}
		if out != "" {
			fmt.Println(out)
		}
	}

	if f, err := os.Create(histPath); err == nil {
		ln.WriteHistory(f)
		f.Close()
	}
}

func isTerminal(f *os.File) bool {
	fi, err := f.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}
