package lexer

import (
	"unicode"
	"unicode/utf8"

	"github.com/uidom/uidom/internal/diag"
	"github.com/uidom/uidom/internal/source"
)

// Lexer tokenizes a source.File into a Token stream with spans. It never
// aborts mid-file: illegal characters and malformed literals are
// diagnosed and emitted as best-effort tokens so the parser can keep
// going and surface further errors in the same pass.
type Lexer struct {
	file   *source.File
	input  string
	pos    int // byte offset of ch
	next   int // byte offset of next rune
	ch     rune
	line   int
	column int
	diags  *diag.Bag
}

// New creates a Lexer over f's text.
func New(f *source.File) *Lexer {
	l := &Lexer{file: f, input: f.Text, line: 1, column: 0, diags: &diag.Bag{}}
	l.readChar()
	return l
}

// Diagnostics returns the bag accumulated so far; Failed reports whether
// any lexical error occurred (the tokenizer's "failure flag").
func (l *Lexer) Diagnostics() *diag.Bag { return l.diags }

func (l *Lexer) readChar() {
	if l.next >= len(l.input) {
		l.ch = 0
		l.pos = l.next
		return
	}
	ch, size := utf8.DecodeRuneInString(l.input[l.next:])
	l.pos = l.next
	l.next += size
	if ch == '\n' {
		l.line++
		l.column = 0
	} else {
		l.column++
	}
	l.ch = ch
}

func (l *Lexer) peekChar() rune {
	if l.next >= len(l.input) {
		return 0
	}
	ch, _ := utf8.DecodeRuneInString(l.input[l.next:])
	return ch
}

func isSpace(ch rune) bool { return ch == ' ' || ch == '\t' || ch == '\r' || ch == '\n' }
func isNameFirst(ch rune) bool {
	return ch == '_' || unicode.IsLetter(ch)
}
func isName(ch rune) bool { return isNameFirst(ch) || unicode.IsDigit(ch) }
func isDigit(ch rune) bool { return unicode.IsDigit(ch) }
func isHexDigit(ch rune) bool {
	return unicode.IsDigit(ch) || (ch >= 'a' && ch <= 'f') || (ch >= 'A' && ch <= 'F')
}

func (l *Lexer) here() (int, int) { return l.line, l.column }

func (l *Lexer) spanFrom(startLine, startCol int) source.Span {
	return source.Span{File: l.file, StartLine: startLine, StartCol: startCol, EndLine: l.line, EndCol: l.column}
}

// Tokenize drains the entire token stream, always ending with a trailing
// Eof token.
func Tokenize(f *source.File) ([]Token, *diag.Bag) {
	l := New(f)
	var toks []Token
	for {
		t := l.Next()
		toks = append(toks, t)
		if t.Kind == Eof {
			break
		}
	}
	return toks, l.diags
}

// Next returns the next token, skipping whitespace and comments.
func (l *Lexer) Next() Token {
	for {
		for isSpace(l.ch) {
			l.readChar()
		}
		if l.ch == '/' && l.peekChar() == '/' {
			for l.ch != '\n' && l.ch != 0 {
				l.readChar()
			}
			continue
		}
		if l.ch == '/' && l.peekChar() == '*' {
			l.skipBlockComment()
			continue
		}
		break
	}

	line, col := l.here()

	switch {
	case l.ch == 0:
		return Token{Kind: Eof, Span: l.spanFrom(line, col)}
	case isNameFirst(l.ch):
		return l.nameToken(line, col)
	case isDigit(l.ch):
		return l.numberToken(line, col)
	case l.ch == '#':
		return l.hexColorToken(line, col)
	case l.ch == '"':
		return l.stringToken(line, col)
	case l.ch == '.':
		if isNameFirst(l.peekChar()) {
			l.readChar() // consume '.'
			return l.enumToken(line, col)
		}
		l.readChar()
		return Token{Kind: Period, Text: ".", Span: l.spanFrom(line, col)}
	default:
		return l.singleCharToken(line, col)
	}
}

func (l *Lexer) skipBlockComment() {
	l.readChar() // '/'
	l.readChar() // '*'
	depth := 1
	for depth > 0 {
		if l.ch == 0 {
			return
		}
		if l.ch == '/' && l.peekChar() == '*' {
			l.readChar()
			l.readChar()
			depth++
			continue
		}
		if l.ch == '*' && l.peekChar() == '/' {
			l.readChar()
			l.readChar()
			depth--
			continue
		}
		l.readChar()
	}
}

func (l *Lexer) nameToken(line, col int) Token {
	start := l.pos
	for isName(l.ch) {
		l.readChar()
	}
	text := l.input[start:l.pos]
	kind := Name
	if k, ok := keywords[text]; ok {
		kind = k
	}
	return Token{Kind: kind, Text: text, Span: l.spanFrom(line, col)}
}

func (l *Lexer) enumToken(line, col int) Token {
	start := l.pos
	for isName(l.ch) {
		l.readChar()
	}
	text := l.input[start:l.pos]
	return Token{Kind: Enum, Text: text, Span: l.spanFrom(line, col)}
}

func (l *Lexer) numberToken(line, col int) Token {
	start := l.pos
	for isDigit(l.ch) {
		l.readChar()
	}
	isFloat := false
	if l.ch == '.' && isDigit(l.peekChar()) {
		isFloat = true
		l.readChar()
		for isDigit(l.ch) {
			l.readChar()
		}
	}
	text := l.input[start:l.pos]

	suffix := ""
	if isNameFirst(l.ch) {
		sufStart := l.pos
		for isName(l.ch) {
			l.readChar()
		}
		suffix = l.input[sufStart:l.pos]
	}

	return Token{Kind: Number, Text: text, IsFloat: isFloat, Suffix: suffix, Span: l.spanFrom(line, col)}
}

func (l *Lexer) hexColorToken(line, col int) Token {
	l.readChar() // '#'
	start := l.pos
	for isHexDigit(l.ch) {
		l.readChar()
	}
	text := l.input[start:l.pos]
	span := l.spanFrom(line, col)
	switch len(text) {
	case 3, 4, 6, 8:
	default:
		l.diags.Errorf(diag.LEX002, span, "malformed hex color literal #%s: expected 3, 4, 6, or 8 hex digits", text)
	}
	return Token{Kind: HexColor, Text: text, Span: span}
}

func (l *Lexer) stringToken(line, col int) Token {
	l.readChar() // opening quote
	start := l.pos
	for l.ch != '"' && l.ch != 0 {
		l.readChar()
	}
	text := l.input[start:l.pos]
	span := l.spanFrom(line, col)
	if l.ch == 0 {
		l.diags.Errorf(diag.LEX003, span, "unterminated string literal")
		return Token{Kind: String, Text: text, Span: span}
	}
	l.readChar() // closing quote
	return Token{Kind: String, Text: text, Span: l.spanFrom(line, col)}
}

var singleChar = map[rune]Kind{
	'{': LBrace, '}': RBrace, '(': LParen, ')': RParen,
	':': Colon, ';': Semicolon, '+': Plus, '-': Minus,
	'*': Asterisk, ',': Comma, '/': Slash,
}

func (l *Lexer) singleCharToken(line, col int) Token {
	ch := l.ch
	if k, ok := singleChar[ch]; ok {
		l.readChar()
		return Token{Kind: k, Text: string(ch), Span: l.spanFrom(line, col)}
	}
	l.readChar()
	span := l.spanFrom(line, col)
	l.diags.Errorf(diag.LEX001, span, "illegal character %q", ch)
	return Token{Kind: Err, Text: string(ch), Span: span}
}
