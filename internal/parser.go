package internal

import "go.uber.org/zap"

// Parser builds a Document CST from a token stream using recursive
// descent. It never aborts: malformed structure is recovered by
// synthesizing a closing token rather than returning an error up the
// stack.
type Parser struct {
	tokens []Token
	pos    int
	diag   Diagnostics
}

// NewParser creates a parser over a token stream already produced by a
// Lexer. A nil Diagnostics is replaced with a no-op sink.
func NewParser(tokens []Token, diag Diagnostics) *Parser {
	if diag == nil {
		diag = NewNopDiagnostics()
	}
	return &Parser{tokens: tokens, pos: 0, diag: diag}
}

// Parse consumes the whole token stream and returns the Document root.
func (p *Parser) Parse() *Document {
	children := p.parseNodesUntil(func(TokenType) bool { return false })
	return &Document{Children: children}
}

func (p *Parser) current() Token {
	return p.tokens[p.pos]
}

// parseNodesUntil parses a run of sibling nodes, stopping at EOF or the
// first token whose type satisfies stop (the stop token itself is left
// unconsumed, for the caller to inspect/consume).
func (p *Parser) parseNodesUntil(stop func(TokenType) bool) []Node {
	var nodes []Node
	for {
		tok := p.current()
		if tok.Type == TokenEOF || stop(tok.Type) {
			return nodes
		}
		if tok.Type == TokenOpen {
			nodes = append(nodes, p.parseInvocation())
			continue
		}
		nodes = append(nodes, p.parsePlaintextRun(stop))
	}
}

// parsePlaintextRun merges consecutive non-structural tokens into one
// Plaintext node, addressed by Range into the source so the walker can
// reconstruct exact text without depending on token Value concatenation.
func (p *Parser) parsePlaintextRun(stop func(TokenType) bool) *Plaintext {
	start := p.current().Pos
	var value string
	for {
		tok := p.current()
		if tok.Type == TokenEOF || tok.Type == TokenOpen || stop(tok.Type) {
			break
		}
		value += tok.Value
		p.pos++
	}
	end := p.current().Pos.Offset
	return NewPlaintext(value, Range{Start: start.Offset, End: end}, start)
}

// parseInvocation parses one `{{name...}}` form. The current token must
// be TokenOpen.
func (p *Parser) parseInvocation() *Invocation {
	openTok := p.current()
	p.pos++ // consume OPEN

	identTok := p.current() // guaranteed IDENT by the lexer's lookahead
	p.pos++
	inv := NewInvocation(identTok.Value, identTok.Pos, openTok.Pos)

	switch p.current().Type {
	case TokenClose:
		p.closeReal(inv, openTok)
	case TokenEOF:
		p.closeSynthetic(inv, openTok)
	case TokenSep:
		p.parseStandardArgs(inv, openTok)
	default:
		p.parseLegacyArgument(inv, openTok)
	}
	return inv
}

// parseStandardArgs parses the `(SEP argument)*` form.
func (p *Parser) parseStandardArgs(inv *Invocation, openTok Token) {
	var args []*Argument
	stop := func(t TokenType) bool { return t == TokenSep || t == TokenClose }
	for p.current().Type == TokenSep {
		p.pos++ // consume SEP
		argPos := p.current().Pos
		children := p.parseNodesUntil(stop)
		argEnd := p.current().Pos.Offset
		args = append(args, NewArgument(children, Range{Start: argPos.Offset, End: argEnd}, argPos))
	}
	inv.Args = args
	if p.current().Type == TokenClose {
		p.closeReal(inv, openTok)
		return
	}
	p.closeSynthetic(inv, openTok)
}

// parseLegacyArgument implements the resolved Open Question on the
// legacy single-colon/whitespace argument form: exactly one triggering
// delimiter character (a lone ':' or a single whitespace rune) is
// consumed if present immediately after the name, then everything up to
// the close token — including any nested invocations — becomes exactly
// one Argument node. A name with no delimiter and no following close is
// still read as a single argument starting at that position, so names
// glued directly to a nested invocation (`{{name{{inner}}}}`) still
// parse instead of being rejected.
func (p *Parser) parseLegacyArgument(inv *Invocation, openTok Token) {
	inv.LegacyForm = true
	p.consumeLegacyDelim()

	argPos := p.current().Pos
	stop := func(t TokenType) bool { return t == TokenClose }
	children := p.parseNodesUntil(stop)
	argEnd := p.current().Pos.Offset
	inv.Args = []*Argument{NewArgument(children, Range{Start: argPos.Offset, End: argEnd}, argPos)}

	if p.current().Type == TokenClose {
		p.closeReal(inv, openTok)
		return
	}
	p.closeSynthetic(inv, openTok)
}

// consumeLegacyDelim strips exactly one leading ':' or whitespace rune
// off the current TEXT token, if present, splitting the token in place.
func (p *Parser) consumeLegacyDelim() {
	tok := p.current()
	if tok.Type != TokenText || tok.Value == "" {
		return
	}
	runes := []rune(tok.Value)
	if !isLegacyArgDelim(runes[0]) {
		return
	}
	remainder := string(runes[1:])
	newPos := tok.Pos
	newPos.Offset++
	if runes[0] == '\n' {
		newPos.Line++
		newPos.Column = 1
	} else {
		newPos.Column++
	}
	if remainder == "" {
		p.pos++
		return
	}
	p.tokens[p.pos] = newToken(TokenText, remainder, newPos)
}

func (p *Parser) closeReal(inv *Invocation, openTok Token) {
	closeTok := p.current()
	p.pos++
	inv.Close = CloseToken{Synthetic: false, Pos: closeTok.Pos}
	inv.Range = Range{Start: openTok.Pos.Offset, End: closeTok.Pos.Offset + len([]rune(strClose))}
}

func (p *Parser) closeSynthetic(inv *Invocation, openTok Token) {
	eofTok := p.current()
	inv.Close = CloseToken{Synthetic: true, Pos: eofTok.Pos}
	inv.Range = Range{Start: openTok.Pos.Offset, End: eofTok.Pos.Offset}
	p.diag.SyntaxWarning(LogMsgParserRecovered,
		zap.String(LogFieldName, inv.Name),
		zap.Int(LogFieldOffset, openTok.Pos.Offset))
}
