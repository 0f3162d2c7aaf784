package notation

import (
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

type lexToken struct {
	text string
	kind tokenKind
	pos  int
}

func (t lexToken) String() string {
	return t.kind.String() + ":" + t.text + "@" + strconv.Itoa(t.pos)
}

// describe renders a token for an error message.
func (t lexToken) describe() string {
	if t.kind == tokenEOF {
		return "end of line"
	}
	return strconv.Quote(t.text)
}

type tokenKind int

const (
	tokenNone tokenKind = iota
	// tokenEOF indicates the end of the line.
	tokenEOF
	// tokenNum is an integer or decimal literal.
	tokenNum
	// tokenIdent is a variable, function, or unit name.
	tokenIdent
	// tokenOp is an operator.
	tokenOp
	// tokenOpen is an open bracket, ( or {.
	tokenOpen
	// tokenClose is a close bracket, ) or }.
	tokenClose
	// tokenSep is the function argument separator, a comma.
	tokenSep
	// tokenCommand is a backslash command. The text omits the backslash.
	tokenCommand
)

var tokenKindNames = [...]string{
	tokenNone:    "None",
	tokenEOF:     "EOF",
	tokenNum:     "Num",
	tokenIdent:   "Ident",
	tokenOp:      "Op",
	tokenOpen:    "Open",
	tokenClose:   "Close",
	tokenSep:     "Sep",
	tokenCommand: "Command",
}

func (k tokenKind) String() string {
	if int(k) < len(tokenKindNames) {
		return tokenKindNames[k]
	}
	return "tokenKind(" + strconv.Itoa(int(k)) + ")"
}

// Operators contains the runes which are considered to be operators.
const Operators = "+-*/^_="

// lexer scans one line of input. Positions are byte offsets into the original
// line, shifted by off when the lexer covers a slice of a larger line.
type lexer struct {
	src string
	pos int
	off int
	p   lexToken
}

func lex(src string) *lexer {
	return &lexer{src: src}
}

// lexAt lexes a slice of a line beginning at byte offset off, so that token
// and error positions refer to the whole line.
func lexAt(src string, off int) *lexer {
	return &lexer{src: src, off: off}
}

// push unreads a token so that it is the next token returned from next. Panics
// if there is already a pushed token.
func (l *lexer) push(tok lexToken) {
	if l.p.kind != tokenNone {
		panic("notation: double push")
	}
	l.p = tok
}

// next scans the next token from the input. Once the line is exhausted, next
// returns EOF tokens forever.
func (l *lexer) next() (lexToken, error) {
	if l.p.kind != tokenNone {
		tok := l.p
		l.p = lexToken{}
		return tok, nil
	}
	l.skipSpace()
	tok := lexToken{pos: l.off + l.pos}
	if l.pos >= len(l.src) {
		tok.kind = tokenEOF
		return tok, nil
	}
	r, sz := utf8.DecodeRuneInString(l.src[l.pos:])
	switch {
	case '0' <= r && r <= '9':
		tok.text = l.scanNum()
		tok.kind = tokenNum
		return tok, nil
	case unicode.IsLetter(r):
		tok.text = l.scanIdent()
		tok.kind = tokenIdent
		return tok, nil
	case r == ',':
		l.pos += sz
		tok.text, tok.kind = ",", tokenSep
		return tok, nil
	case r == '\\':
		l.pos += sz
		return l.scanCommand(tok)
	case strings.ContainsRune(Operators, r):
		l.pos += sz
		tok.text, tok.kind = string(r), tokenOp
		return tok, nil
	case r == '(', r == '{':
		l.pos += sz
		tok.text, tok.kind = string(r), tokenOpen
		return tok, nil
	case r == ')', r == '}':
		l.pos += sz
		tok.text, tok.kind = string(r), tokenClose
		return tok, nil
	}
	return tok, l.errorAt(tok.pos, "invalid character "+strconv.QuoteRune(r))
}

// skipSpace advances past whitespace, including the LaTeX explicit space, a
// backslash followed by a space.
func (l *lexer) skipSpace() {
	for l.pos < len(l.src) {
		r, sz := utf8.DecodeRuneInString(l.src[l.pos:])
		if unicode.IsSpace(r) {
			l.pos += sz
			continue
		}
		if r == '\\' && l.pos+sz < len(l.src) {
			r2, sz2 := utf8.DecodeRuneInString(l.src[l.pos+sz:])
			if unicode.IsSpace(r2) {
				l.pos += sz + sz2
				continue
			}
		}
		return
	}
}

func (l *lexer) scanNum() string {
	start := l.pos
	for l.pos < len(l.src) && isDigit(l.src[l.pos]) {
		l.pos++
	}
	if l.pos < len(l.src) && l.src[l.pos] == '.' {
		k := l.pos + 1
		for k < len(l.src) && isDigit(l.src[k]) {
			k++
		}
		// A dot with no digits after it is not part of the number.
		if k > l.pos+1 {
			l.pos = k
		}
	}
	return l.src[start:l.pos]
}

func (l *lexer) scanIdent() string {
	start := l.pos
	for l.pos < len(l.src) {
		r, sz := utf8.DecodeRuneInString(l.src[l.pos:])
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			break
		}
		l.pos += sz
	}
	return l.src[start:l.pos]
}

// scanCommand scans a backslash command. The backslash itself has been
// consumed; tok.pos points at it. \cdot, \left(, and \right) canonicalize to
// the plain tokens they stand for.
func (l *lexer) scanCommand(tok lexToken) (lexToken, error) {
	start := l.pos
	for l.pos < len(l.src) {
		r, sz := utf8.DecodeRuneInString(l.src[l.pos:])
		if !unicode.IsLetter(r) {
			break
		}
		l.pos += sz
	}
	name := l.src[start:l.pos]
	switch name {
	case "":
		return tok, l.errorAt(tok.pos, "lone backslash")
	case "cdot":
		tok.text, tok.kind = "*", tokenOp
		return tok, nil
	case "left":
		if l.pos >= len(l.src) || l.src[l.pos] != '(' {
			return tok, l.errorAt(tok.pos, `\left must be followed by "("`)
		}
		l.pos++
		tok.text, tok.kind = "(", tokenOpen
		return tok, nil
	case "right":
		if l.pos >= len(l.src) || l.src[l.pos] != ')' {
			return tok, l.errorAt(tok.pos, `\right must be followed by ")"`)
		}
		l.pos++
		tok.text, tok.kind = ")", tokenClose
		return tok, nil
	}
	tok.text, tok.kind = name, tokenCommand
	return tok, nil
}

// peekRune returns the next raw rune without consuming it, or 0 at the end of
// the line. Panics if a token has been pushed back, since the pushed text has
// already been consumed from the source.
func (l *lexer) peekRune() rune {
	if l.p.kind != tokenNone {
		panic("notation: peekRune with pushed token")
	}
	if l.pos >= len(l.src) {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(l.src[l.pos:])
	return r
}

// takeRune consumes a single raw rune, bypassing tokenization. Bare LaTeX
// script parameters take exactly one character.
func (l *lexer) takeRune() (rune, int, error) {
	if l.p.kind != tokenNone {
		panic("notation: takeRune with pushed token")
	}
	pos := l.off + l.pos
	if l.pos >= len(l.src) {
		return 0, pos, l.errorAt(pos, "unexpected end of line")
	}
	r, sz := utf8.DecodeRuneInString(l.src[l.pos:])
	l.pos += sz
	return r, pos, nil
}

// group returns the raw input up to the brace matching an already consumed
// open brace, leaving the lexer positioned after the close. The base offset
// of the group within the whole line accompanies it.
func (l *lexer) group() (string, int, error) {
	depth := 1
	start := l.pos
	for i := l.pos; i < len(l.src); i++ {
		switch l.src[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				inner := l.src[start:i]
				l.pos = i + 1
				return inner, l.off + start, nil
			}
		}
	}
	return "", 0, l.errorAt(l.off+start, "unclosed brace group")
}

// errorAt builds a ParseError at an absolute byte offset within the line.
func (l *lexer) errorAt(pos int, msg string) *ParseError {
	frag := ""
	if k := pos - l.off; 0 <= k && k <= len(l.src) {
		frag = l.src[k:]
	}
	return &ParseError{Msg: msg, Line: 1, Offset: pos, Fragment: frag}
}

func isDigit(c byte) bool { return '0' <= c && c <= '9' }
