package sql

// lexer wraps the tokenizer with one token of lookahead, the shape every
// recursive-descent production in parser.go consumes: match* to test
// without consuming, eat* to consume or fail.
type lexer struct {
	tz      *tokenizer
	current token
}

func newLexer(src string) (*lexer, error) {
	l := &lexer{tz: newTokenizer(src)}
	if err := l.advance(); err != nil {
		return nil, err
	}
	return l, nil
}

func (l *lexer) advance() error {
	tok, err := l.tz.next()
	if err != nil {
		return err
	}
	l.current = tok
	return nil
}

func (l *lexer) matchDelim(d rune) bool {
	return l.current.kind == tokenDelimiter && l.current.delim == d
}

func (l *lexer) matchKeyword(kw string) bool {
	return l.current.kind == tokenKeyword && l.current.text == kw
}

func (l *lexer) matchIdentifier() bool {
	return l.current.kind == tokenIdentifier
}

func (l *lexer) matchIntConstant() bool {
	return l.current.kind == tokenIntConstant
}

func (l *lexer) matchStringConstant() bool {
	return l.current.kind == tokenStringConstant
}

func (l *lexer) eatDelim(d rune) error {
	if !l.matchDelim(d) {
		return ErrUnexpectedToken
	}
	return l.advance()
}

func (l *lexer) eatKeyword(kw string) error {
	if !l.matchKeyword(kw) {
		return ErrUnexpectedToken
	}
	return l.advance()
}

func (l *lexer) eatIdentifier() (string, error) {
	if !l.matchIdentifier() {
		return "", ErrUnexpectedToken
	}
	s := l.current.text
	return s, l.advance()
}

func (l *lexer) eatIntConstant() (int, error) {
	if !l.matchIntConstant() {
		return 0, ErrUnexpectedToken
	}
	n := l.current.intVal
	return n, l.advance()
}

func (l *lexer) eatStringConstant() (string, error) {
	if !l.matchStringConstant() {
		return "", ErrUnexpectedToken
	}
	s := l.current.strVal
	return s, l.advance()
}
