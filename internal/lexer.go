package internal

import (
	"strings"

	"go.uber.org/zap"
)

// Lexer tokenizes template source into a flat token stream. Unlike the
// teacher's lexer, which threads separate "tag content" and "attribute"
// scan modes through scanTagContent/scanAttribute, weave's grammar needs
// exactly one mode switch: right after an OPEN delimiter the lexer must
// scan an identifier, because everything else in an invocation body —
// arguments, nested invocations — is handled by the parser walking the
// same flat token stream recursively.
type Lexer struct {
	source []rune
	pos    int
	line   int
	column int
	logger *zap.Logger
}

// NewLexer creates a lexer over source. A nil logger is replaced with a
// no-op logger so callers never need a nil check.
func NewLexer(source string, logger *zap.Logger) *Lexer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Lexer{
		source: []rune(source),
		pos:    0,
		line:   1,
		column: 1,
		logger: logger,
	}
}

// Tokenize scans the full source and returns its token stream. The lexer
// never returns an error: unrecognized structure is always representable
// as a TEXT token, so there is nothing for a caller to recover from here
// (recovery, where needed, happens one layer up in the parser).
func (l *Lexer) Tokenize() []Token {
	l.logger.Debug(LogMsgLexerStart, zap.Int(LogFieldSource, len(l.source)))
	var tokens []Token

	for !l.atEnd() {
		if l.matchesOpenWithIdent() {
			pos := l.position()
			l.advanceN(len(strOpen))
			tokens = append(tokens, newToken(TokenOpen, strOpen, pos))
			tokens = append(tokens, l.scanIdent())
			continue
		}
		if l.matches(strSep) {
			pos := l.position()
			l.advanceN(len(strSep))
			tokens = append(tokens, newToken(TokenSep, strSep, pos))
			continue
		}
		if l.matches(strClose) {
			pos := l.position()
			l.advanceN(len(strClose))
			tokens = append(tokens, newToken(TokenClose, strClose, pos))
			continue
		}
		tokens = append(tokens, l.scanText())
	}

	tokens = append(tokens, newToken(TokenEOF, "", l.position()))
	l.logger.Debug(LogMsgLexerDone, zap.Int(LogFieldTokens, len(tokens)))
	return tokens
}

// scanText consumes runes up to (but not including) the next structural
// token start, merging them into a single TEXT token. Consuming one rune
// at a time and re-checking the structural lookahead each iteration is
// what makes a bare "{{" that isn't followed by an identifier fall
// through as plaintext one character at a time; merging the resulting
// run into one token is just an efficiency detail, the output is the
// same either way.
func (l *Lexer) scanText() Token {
	start := l.position()
	var sb strings.Builder
	for !l.atEnd() {
		if l.matchesOpenWithIdent() || l.matches(strSep) || l.matches(strClose) {
			break
		}
		sb.WriteRune(l.advance())
	}
	return newToken(TokenText, sb.String(), start)
}

// scanIdent consumes an identifier. It is only called once the caller has
// already verified (via matchesOpenWithIdent) that the current rune is a
// valid identifier start.
//
// The comment form's name is the literal two-character prefix "//", and
// it is special-cased here: once a leading "//" is seen, scanning stops
// right there instead of continuing to consume ident-continue runes
// (which would otherwise swallow "/" as well, since "/" is both a valid
// start and continue rune). Without this, "{{//any}}" would lex as the
// single identifier "//any" rather than the builtin name "//" followed
// by trailing text, and the comment form would never match.
func (l *Lexer) scanIdent() Token {
	start := l.position()
	var sb strings.Builder
	first := l.advance()
	sb.WriteRune(first)
	if first == '/' && l.peek() == '/' {
		sb.WriteRune(l.advance())
		return newToken(TokenIdent, sb.String(), start)
	}
	for !l.atEnd() && isIdentContinue(l.peek()) {
		sb.WriteRune(l.advance())
	}
	return newToken(TokenIdent, sb.String(), start)
}

func (l *Lexer) matchesOpenWithIdent() bool {
	if !l.matches(strOpen) {
		return false
	}
	next := l.peekAt(2)
	return next != 0 && isIdentStart(next)
}

func (l *Lexer) matches(s string) bool {
	runes := []rune(s)
	if l.pos+len(runes) > len(l.source) {
		return false
	}
	for i, r := range runes {
		if l.source[l.pos+i] != r {
			return false
		}
	}
	return true
}

func (l *Lexer) position() Position {
	return Position{Offset: l.pos, Line: l.line, Column: l.column}
}

func (l *Lexer) atEnd() bool {
	return l.pos >= len(l.source)
}

func (l *Lexer) peek() rune {
	if l.atEnd() {
		return 0
	}
	return l.source[l.pos]
}

func (l *Lexer) peekAt(offset int) rune {
	idx := l.pos + offset
	if idx < 0 || idx >= len(l.source) {
		return 0
	}
	return l.source[idx]
}

func (l *Lexer) advance() rune {
	if l.atEnd() {
		return 0
	}
	r := l.source[l.pos]
	l.pos++
	if r == '\n' {
		l.line++
		l.column = 1
	} else {
		l.column++
	}
	return r
}

func (l *Lexer) advanceN(n int) {
	for i := 0; i < n && !l.atEnd(); i++ {
		l.advance()
	}
}
