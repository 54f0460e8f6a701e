package kaleido

import (
	"bufio"
	"io"
	"strings"
	"unicode"
	"unicode/utf8"
)

// EOF marks the end of the character stream.
const EOF rune = 0

type TokenType uint64
type stateFunc func(l *Lexer) stateFunc

//go:generate stringer -type=TokenType -trimprefix=Token
const (
	// TokenEOF is the zero value so that a drained lexer keeps
	// reporting end-of-input.
	TokenEOF TokenType = iota
	TokenNumber
	TokenIdentifier

	TokenDef
	TokenExtern

	// TokenPunct carries any other single character verbatim. Operators,
	// parentheses and commas all arrive this way; the parser decides what
	// they mean.
	TokenPunct
)

var keywordTable = map[string]TokenType{
	"def":    TokenDef,
	"extern": TokenExtern,
}

type Token struct {
	Typ   TokenType
	Value string
}

// punct returns the character of a punctuation token, or 0 for any other kind.
func (t Token) punct() rune {
	if t.Typ != TokenPunct {
		return 0
	}

	r, _ := utf8.DecodeRuneInString(t.Value)
	return r
}

func (t Token) isPunct(r rune) bool {
	return t.Typ == TokenPunct && t.Value == string(r)
}

// Tokenizer is the parser's view of the lexical stage. Do starts producing
// tokens and Get blocks until the next one is available; after end of input
// Get returns TokenEOF forever.
type Tokenizer interface {
	Do()
	Get() Token
}

// Lexer tokenizes a character stream. It cannot fail: unrecognized characters
// are emitted as punctuation tokens and classification is left to the parser.
type Lexer struct {
	reader *bufio.Reader
	done   chan Token
}

func NewLexer(reader io.Reader) *Lexer {
	return &Lexer{
		reader: bufio.NewReader(reader),
		done:   make(chan Token),
	}
}

func (l *Lexer) Chan() chan Token {
	return l.done
}

func (l *Lexer) Do() {
	for state := defaultState; state != nil; {
		state = state(l)
	}

	close(l.done)
}

func (l *Lexer) Get() Token {
	return <-l.done
}

// RunBlocking tokenizes the whole stream at once, without the end-of-input
// marker. Mostly useful for tests and benchmarks.
func (l *Lexer) RunBlocking() []Token {
	go l.Do()

	var tokens []Token
	for {
		t := l.Get()
		if t.Typ == TokenEOF {
			return tokens
		}

		tokens = append(tokens, t)
	}
}

func defaultState(l *Lexer) stateFunc {
	for {
		switch r := l.peek(); {
		case r == EOF:
			l.emmitValue(TokenEOF, "")
			return nil
		case unicode.IsSpace(r):
			l.next()
			continue
		case isDigit(r) || r == '.':
			return numberState
		case unicode.IsLetter(r):
			return identifierState
		case r == '#':
			return commentState
		default:
			return punctState
		}
	}
}

// numberState consumes a run of digits and dots. The text is not validated
// here: "1.2.3" is a single number token, converted permissively by the
// parser.
func numberState(l *Lexer) stateFunc {
	var num strings.Builder
	for r := l.peek(); isDigit(r) || r == '.'; r = l.peek() {
		num.WriteRune(l.next())
	}

	return l.emmitValue(TokenNumber, num.String())
}

func identifierState(l *Lexer) stateFunc {
	var id strings.Builder
	id.WriteRune(l.next())

	for r := l.peek(); unicode.IsLetter(r) || isDigit(r); r = l.peek() {
		id.WriteRune(l.next())
	}

	if t, ok := keywordTable[id.String()]; ok {
		return l.emmitValue(t, id.String())
	}

	return l.emmitValue(TokenIdentifier, id.String())
}

// commentState consumes a '#' comment through end of line and emits nothing.
func commentState(l *Lexer) stateFunc {
	for r := l.peek(); r != '\n' && r != EOF; r = l.peek() {
		l.next()
	}

	return defaultState
}

func punctState(l *Lexer) stateFunc {
	return l.emmitValue(TokenPunct, string(l.next()))
}

func (l *Lexer) emmitValue(t TokenType, val string) stateFunc {
	l.done <- Token{
		Typ:   t,
		Value: val,
	}

	return defaultState
}

func (l *Lexer) peek() rune {
	r := l.next()
	_ = l.reader.UnreadRune()

	return r
}

func (l *Lexer) next() rune {
	r, _, err := l.reader.ReadRune()
	if err != nil {
		if err == io.EOF {
			return EOF
		}

		return utf8.RuneError
	}

	return r
}

func isDigit(r rune) bool {
	return '0' <= r && r <= '9'
}
