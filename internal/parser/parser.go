// Package parser turns a token stream into the untyped element tree:
// imports, property declarations, and a single root element.
package parser

import (
	"path/filepath"
	"strconv"
	"strings"

	"github.com/uidom/uidom/internal/ast"
	"github.com/uidom/uidom/internal/diag"
	"github.com/uidom/uidom/internal/lexer"
	"github.com/uidom/uidom/internal/source"
)

// Parser consumes a flat token slice produced by the lexer. It never
// stops at the first error: diagnostics accumulate in a Bag and parsing
// continues on a best-effort basis so later errors in the same file
// still surface.
type Parser struct {
	file  *source.File
	toks  []lexer.Token
	pos   int
	diags *diag.Bag
}

// Parse runs the full pipeline (tokenize, then parse) over f and
// returns the untyped Component plus every diagnostic collected along
// the way. The returned Component may be partial if parsing failed.
func Parse(f *source.File) (*ast.Component, *diag.Bag) {
	toks, lexDiags := lexer.Tokenize(f)
	p := &Parser{file: f, toks: toks, diags: &diag.Bag{}}
	comp := p.parseComponent()
	p.diags.Merge(lexDiags)
	return comp, p.diags
}

func (p *Parser) peek() lexer.Token  { return p.at(0) }
func (p *Parser) peek1() lexer.Token { return p.at(1) }

func (p *Parser) at(n int) lexer.Token {
	i := p.pos + n
	if i >= len(p.toks) {
		return p.toks[len(p.toks)-1] // trailing Eof
	}
	return p.toks[i]
}

func (p *Parser) advance() lexer.Token {
	t := p.peek()
	if p.pos < len(p.toks)-1 {
		p.pos++
	}
	return t
}

func (p *Parser) expect(k lexer.Kind) (lexer.Token, bool) {
	t := p.peek()
	if t.Kind != k {
		p.diags.Errorf(diag.SYN001, t.Span, "expected %s, found %s", k, t.Kind)
		return t, false
	}
	return p.advance(), true
}

// expectStatementSep consumes an optional trailing ";": required unless
// the next token already closes the enclosing construct.
func (p *Parser) expectStatementSep() {
	if p.peek().Kind == lexer.Semicolon {
		p.advance()
		return
	}
	switch p.peek().Kind {
	case lexer.RBrace, lexer.RParen, lexer.Eof:
		return
	}
	p.diags.Errorf(diag.SYN001, p.peek().Span, "expected ';', found %s", p.peek().Kind)
}

func componentNameFromPath(path string) string {
	base := filepath.Base(path)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	var b strings.Builder
	upperNext := true
	for _, r := range base {
		switch {
		case r == '_' || r == '-':
			upperNext = true
		case upperNext:
			b.WriteRune(toUpper(r))
			upperNext = false
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

func toUpper(r rune) rune {
	if r >= 'a' && r <= 'z' {
		return r - ('a' - 'A')
	}
	return r
}

func (p *Parser) parseComponent() *ast.Component {
	comp := &ast.Component{Name: componentNameFromPath(p.file.Path)}

	for p.peek().Kind == lexer.Import {
		comp.Imports = append(comp.Imports, p.parseImport())
	}

	seenProps := map[string]bool{}
	for p.isPropDeclStart() {
		decl := p.parsePropDecl()
		if seenProps[decl.Name] {
			p.diags.Errorf(diag.SYN005, decl.Span, "duplicate property declaration %q", decl.Name)
		}
		seenProps[decl.Name] = true
		comp.Props = append(comp.Props, decl)
	}

	if p.peek().Kind == lexer.Name {
		comp.Root = p.parseElement()
		if comp.Root != nil {
			if comp.Root.Condition != nil {
				p.diags.Errorf(diag.SYN004, comp.Root.Condition.Span(), "an 'if' condition is not permitted on the root element")
			}
			if comp.Root.Repeater != nil {
				p.diags.Errorf(diag.SYN004, comp.Root.Repeater.Span(), "a 'for' repeater is not permitted on the root element")
			}
		}
		// Anything declaration-shaped found after the root is a
		// reordering mistake, not a second root.
		for p.isPropDeclStart() {
			decl := p.parsePropDecl()
			p.diags.Errorf(diag.SYN002, decl.Span, "property declarations must occur before any content definitions")
		}
	} else {
		p.diags.Errorf(diag.SYN003, p.peek().Span, "the component must have a single root element")
	}

	return comp
}

func (p *Parser) isPropDeclStart() bool {
	if p.peek().Kind == lexer.Pub {
		return true
	}
	return p.peek().Kind == lexer.Name && p.peek1().Kind == lexer.Colon
}

func (p *Parser) parseImport() ast.Import {
	start := p.advance() // 'import'
	pathTok, _ := p.expect(lexer.String)
	imp := ast.Import{Path: pathTok.Text}
	if p.peek().Kind == lexer.As {
		p.advance()
		alias, _ := p.expect(lexer.Name)
		imp.Alias = alias.Text
	}
	end, _ := p.expect(lexer.Semicolon)
	imp.Span = source.Merge(start.Span, end.Span)
	return imp
}

var typeNames = map[string]bool{
	"Int": true, "Float": true, "Length": true, "Brush": true,
	"String": true, "Boolean": true, "Alignment": true, "Callback": true,
}

func (p *Parser) parsePropDecl() ast.PropDecl {
	isPub := false
	start := p.peek()
	if p.peek().Kind == lexer.Pub {
		isPub = true
		p.advance()
	}
	nameTok, _ := p.expect(lexer.Name)
	p.expect(lexer.Colon)
	typeTok, _ := p.expect(lexer.Name)
	if !typeNames[typeTok.Text] {
		p.diags.Errorf(diag.SYN001, typeTok.Span, "unknown type name %q", typeTok.Text)
	}
	end, _ := p.expect(lexer.Semicolon)
	return ast.PropDecl{
		IsPub: isPub,
		Name:  nameTok.Text,
		Type:  typeTok.Text,
		Span:  source.Merge(start.Span, end.Span),
	}
}

// pathSegments parses Name (Enum)* into a plain segment list, used for
// both element tag paths and property-reference expressions.
func (p *Parser) pathSegments() ([]string, source.Span) {
	first, _ := p.expect(lexer.Name)
	segs := []string{first.Text}
	span := first.Span
	for p.peek().Kind == lexer.Enum {
		seg := p.advance()
		segs = append(segs, seg.Text)
		span = source.Merge(span, seg.Span)
	}
	return segs, span
}

func (p *Parser) parseElement() *ast.Element {
	tag, nameSpan := p.pathSegments()
	el := ast.NewElement(nameSpan, nameSpan, tag)

	for {
		switch p.peek().Kind {
		case lexer.If:
			ifTok := p.advance()
			expr := p.parseExpr()
			el.Condition = ast.NewCondition(source.Merge(ifTok.Span, expr.Span()), expr)
			continue
		case lexer.For:
			forTok := p.advance()
			first, _ := p.expect(lexer.Name)
			second := ""
			if p.peek().Kind == lexer.Comma {
				p.advance()
				secondTok, _ := p.expect(lexer.Name)
				second = secondTok.Text
			}
			p.expect(lexer.In)
			collection := p.parseExpr()
			item, index := first.Text, second
			if item == "_" {
				item = ""
			}
			if index == "_" {
				index = ""
			}
			el.Repeater = ast.NewRepeater(source.Merge(forTok.Span, collection.Span()), index, item, collection)
			continue
		}
		break
	}

	p.expect(lexer.LBrace)
	for p.peek().Kind != lexer.RBrace && p.peek().Kind != lexer.Eof {
		p.parseElementBodyItem(el)
	}
	rbrace, _ := p.expect(lexer.RBrace)
	el.Extend(rbrace.Span)
	return el
}

func (p *Parser) parseElementBodyItem(el *ast.Element) {
	tok := p.peek()

	switch tok.Kind {
	case lexer.String:
		strTok := p.advance()
		expr := ast.NewStringLit(strTok.Span, strTok.Text)
		el.Children = append(el.Children, ast.Text(expr, strTok.Span))
		p.expectStatementSep()
		return
	case lexer.LParen:
		lp := p.advance()
		expr := p.parseExpr()
		rp, _ := p.expect(lexer.RParen)
		span := source.Merge(lp.Span, rp.Span)
		el.Children = append(el.Children, ast.Text(expr, span))
		p.expectStatementSep()
		return
	case lexer.Name:
		if tok.Text == "Children" && p.peek1().Kind != lexer.Colon {
			el.Children = append(el.Children, p.parseChildrenFilter())
			return
		}
		if p.peek1().Kind == lexer.Colon {
			p.parsePropAssign(el)
			return
		}
		el.Children = append(el.Children, p.parseElement())
		return
	default:
		p.diags.Errorf(diag.SYN001, tok.Span, "unexpected token %s in element body", tok.Kind)
		p.advance()
	}
}

func (p *Parser) parseChildrenFilter() *ast.ChildrenFilter {
	start := p.advance() // 'Children'
	var paths [][]string
	end := start
	if p.peek().Kind == lexer.LParen {
		p.advance()
		if p.peek().Kind != lexer.RParen {
			seg, _ := p.pathSegments()
			paths = append(paths, seg)
			for p.peek().Kind == lexer.Comma {
				p.advance()
				seg, _ := p.pathSegments()
				paths = append(paths, seg)
			}
		}
		rp, _ := p.expect(lexer.RParen)
		end = rp
	}
	p.expectStatementSep()
	return ast.NewChildrenFilter(source.Merge(start.Span, end.Span), paths)
}

func (p *Parser) parsePropAssign(el *ast.Element) {
	seen := map[string]bool{}
	for _, pa := range el.Props {
		seen[pa.Name] = true
	}
	name, _ := p.expect(lexer.Name)
	p.expect(lexer.Colon)
	value := p.parseExpr()
	p.expectStatementSep()
	span := source.Merge(name.Span, value.Span())
	if seen[name.Text] {
		p.diags.Errorf(diag.SYN006, span, "duplicate property assignment %q", name.Text)
	}
	el.Props = append(el.Props, ast.PropAssign{Name: name.Text, Expr: value, Span: span})
}

func (p *Parser) parseExpr() ast.Expr {
	v := p.parseValue()
	if path, ok := v.(*ast.PathExpr); ok && p.peek().Kind == lexer.LParen {
		args, end := p.parseArgList()
		return ast.NewCallExpr(source.Merge(path.Span(), end), path, args)
	}
	return v
}

func (p *Parser) parseArgList() ([]ast.Expr, source.Span) {
	p.advance() // '('
	var args []ast.Expr
	if p.peek().Kind != lexer.RParen {
		args = append(args, p.parseExpr())
		for p.peek().Kind == lexer.Comma {
			p.advance()
			args = append(args, p.parseExpr())
		}
	}
	rp, _ := p.expect(lexer.RParen)
	return args, rp.Span
}

func (p *Parser) parseValue() ast.Expr {
	tok := p.peek()

	switch tok.Kind {
	case lexer.Plus, lexer.Minus:
		p.advance()
		numTok, ok := p.expect(lexer.Number)
		if !ok {
			return ast.NewIntLit(tok.Span, 0)
		}
		span := source.Merge(tok.Span, numTok.Span)
		lit := p.numberLiteral(numTok, span)
		if tok.Kind == lexer.Minus {
			lit = ast.Negate(lit)
		}
		return lit
	case lexer.Number:
		p.advance()
		return p.numberLiteral(tok, tok.Span)
	case lexer.HexColor:
		p.advance()
		r, g, b, a := hexToColor(tok.Text)
		return ast.NewColorLit(tok.Span, r, g, b, a)
	case lexer.True:
		p.advance()
		return ast.NewBoolLit(tok.Span, true)
	case lexer.False:
		p.advance()
		return ast.NewBoolLit(tok.Span, false)
	case lexer.String:
		p.advance()
		return ast.NewStringLit(tok.Span, tok.Text)
	case lexer.Enum:
		p.advance()
		return ast.NewEnumLit(tok.Span, tok.Text)
	case lexer.LParen:
		p.advance()
		inner := p.parseExpr()
		p.expect(lexer.RParen)
		return inner
	case lexer.Name:
		segs, span := p.pathSegments()
		return ast.NewPathExpr(span, segs)
	default:
		p.diags.Errorf(diag.SYN001, tok.Span, "expected a value, found %s", tok.Kind)
		p.advance()
		return ast.NewStringLit(tok.Span, "")
	}
}

func (p *Parser) numberLiteral(tok lexer.Token, span source.Span) ast.Expr {
	switch tok.Suffix {
	case "px":
		f, _ := strconv.ParseFloat(tok.Text, 64)
		return ast.NewPxLit(span, f)
	case "":
		if tok.IsFloat {
			f, _ := strconv.ParseFloat(tok.Text, 64)
			return ast.NewFloatLit(span, f)
		}
		n, _ := strconv.ParseInt(tok.Text, 10, 64)
		return ast.NewIntLit(span, n)
	default:
		p.diags.Errorf(diag.LEX004, tok.Span, "unknown numeric suffix %q", tok.Suffix)
		f, _ := strconv.ParseFloat(tok.Text, 64)
		return ast.NewFloatLit(span, f)
	}
}

// hexToColor expands a 3/4/6/8-digit hex color literal into normalized
// 0..1 RGBA components: 3 and 6 digit forms carry no alpha (A=1); 4 and
// 8 digit forms do; 3/4-digit forms duplicate each nybble.
func hexToColor(text string) (r, g, b, a float64) {
	nyb := func(c byte) float64 {
		v, _ := strconv.ParseUint(string(c), 16, 8)
		return float64(v*16+v) / 255.0
	}
	byte2 := func(hi, lo byte) float64 {
		v, _ := strconv.ParseUint(string([]byte{hi, lo}), 16, 8)
		return float64(v) / 255.0
	}
	switch len(text) {
	case 3:
		return nyb(text[0]), nyb(text[1]), nyb(text[2]), 1
	case 4:
		return nyb(text[0]), nyb(text[1]), nyb(text[2]), nyb(text[3])
	case 6:
		return byte2(text[0], text[1]), byte2(text[2], text[3]), byte2(text[4], text[5]), 1
	case 8:
		return byte2(text[0], text[1]), byte2(text[2], text[3]), byte2(text[4], text[5]), byte2(text[6], text[7])
	default:
		return 0, 0, 0, 1
	}
}
