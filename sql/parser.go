package sql

// Parser implements the recursive-descent grammar described in spec §4.9:
//
//	Constant    := IntLit | StringLit
//	Expr        := Constant | Id
//	EqualTerm   := Expr '=' Expr
//	Predicate   := EqualTerm ('and' EqualTerm)*
//	IdList      := Id (',' Id)*
//	ConstList   := Constant (',' Constant)*
//	Query       := 'select' IdList 'from' IdList ('where' Predicate)?
//	Insert      := 'insert' 'into' Id '(' IdList ')' 'values' '(' ConstList ')'
//	Delete      := 'delete' 'from' Id ('where' Predicate)?
//	Update      := 'update' Id 'set' Id '=' Expr ('where' Predicate)?
//	FieldDef    := Id ('int' | 'varchar' '(' IntLit ')')
//	FieldDefs   := FieldDef (',' FieldDefs)?
//	CreateTable := 'create' 'table' Id '(' FieldDefs ')'
//	CreateView  := 'create' 'view' Id 'as' Query
//	CreateIndex := 'create' 'index' Id 'on' Id '(' Id ')'
//	UpdateCmd   := Insert | Delete | Update | CreateTable | CreateView | CreateIndex
type Parser struct {
	lx *lexer
}

func NewParser(src string) (*Parser, error) {
	lx, err := newLexer(src)
	if err != nil {
		return nil, err
	}
	return &Parser{lx: lx}, nil
}

// Parse dispatches to Query for a SELECT, or UpdateCommand for everything
// else.
func (p *Parser) Parse() (Command, error) {
	if p.lx.matchKeyword("select") {
		return p.Query()
	}
	return p.UpdateCommand()
}

func (p *Parser) field() (string, error) {
	return p.lx.eatIdentifier()
}

func (p *Parser) constant() (Constant, error) {
	if p.lx.matchStringConstant() {
		s, err := p.lx.eatStringConstant()
		if err != nil {
			return Constant{}, err
		}
		return StringConstant(s), nil
	}
	n, err := p.lx.eatIntConstant()
	if err != nil {
		return Constant{}, err
	}
	return IntConstant(n), nil
}

func (p *Parser) expression() (Expression, error) {
	if p.lx.matchIdentifier() {
		f, err := p.field()
		if err != nil {
			return Expression{}, err
		}
		return FieldExpression(f), nil
	}
	c, err := p.constant()
	if err != nil {
		return Expression{}, err
	}
	return ConstantExpression(c), nil
}

func (p *Parser) term() (Term, error) {
	lhs, err := p.expression()
	if err != nil {
		return Term{}, err
	}
	if err := p.lx.eatDelim('='); err != nil {
		return Term{}, err
	}
	rhs, err := p.expression()
	if err != nil {
		return Term{}, err
	}
	return NewTerm(lhs, rhs), nil
}

func (p *Parser) predicate() (Predicate, error) {
	t, err := p.term()
	if err != nil {
		return Predicate{}, err
	}
	pred := NewPredicate(t)
	for p.lx.matchKeyword("and") {
		if err := p.lx.eatKeyword("and"); err != nil {
			return Predicate{}, err
		}
		next, err := p.term()
		if err != nil {
			return Predicate{}, err
		}
		pred.ConjoinWith(NewPredicate(next))
	}
	return pred, nil
}

func (p *Parser) idList() ([]string, error) {
	id, err := p.field()
	if err != nil {
		return nil, err
	}
	out := []string{id}
	for p.lx.matchDelim(',') {
		if err := p.lx.eatDelim(','); err != nil {
			return nil, err
		}
		id, err := p.field()
		if err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, nil
}

func (p *Parser) constList() ([]Constant, error) {
	c, err := p.constant()
	if err != nil {
		return nil, err
	}
	out := []Constant{c}
	for p.lx.matchDelim(',') {
		if err := p.lx.eatDelim(','); err != nil {
			return nil, err
		}
		c, err := p.constant()
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

// Query parses a SELECT statement.
func (p *Parser) Query() (QueryData, error) {
	if err := p.lx.eatKeyword("select"); err != nil {
		return QueryData{}, err
	}
	fields, err := p.idList()
	if err != nil {
		return QueryData{}, err
	}
	if err := p.lx.eatKeyword("from"); err != nil {
		return QueryData{}, err
	}
	tables, err := p.idList()
	if err != nil {
		return QueryData{}, err
	}
	pred := EmptyPredicate()
	if p.lx.matchKeyword("where") {
		if err := p.lx.eatKeyword("where"); err != nil {
			return QueryData{}, err
		}
		pred, err = p.predicate()
		if err != nil {
			return QueryData{}, err
		}
	}
	return NewQueryData(fields, tables, pred), nil
}

// UpdateCommand parses any non-SELECT statement.
func (p *Parser) UpdateCommand() (Command, error) {
	if p.lx.matchKeyword("insert") {
		return p.insert()
	}
	if p.lx.matchKeyword("delete") {
		return p.delete()
	}
	if p.lx.matchKeyword("update") {
		return p.modify()
	}
	return p.create()
}

func (p *Parser) insert() (InsertData, error) {
	if err := p.lx.eatKeyword("insert"); err != nil {
		return InsertData{}, err
	}
	if err := p.lx.eatKeyword("into"); err != nil {
		return InsertData{}, err
	}
	tbl, err := p.field()
	if err != nil {
		return InsertData{}, err
	}
	if err := p.lx.eatDelim('('); err != nil {
		return InsertData{}, err
	}
	fields, err := p.idList()
	if err != nil {
		return InsertData{}, err
	}
	if err := p.lx.eatDelim(')'); err != nil {
		return InsertData{}, err
	}
	if err := p.lx.eatKeyword("values"); err != nil {
		return InsertData{}, err
	}
	if err := p.lx.eatDelim('('); err != nil {
		return InsertData{}, err
	}
	values, err := p.constList()
	if err != nil {
		return InsertData{}, err
	}
	if err := p.lx.eatDelim(')'); err != nil {
		return InsertData{}, err
	}
	return InsertData{TableName: tbl, Fields: fields, Values: values}, nil
}

func (p *Parser) delete() (DeleteData, error) {
	if err := p.lx.eatKeyword("delete"); err != nil {
		return DeleteData{}, err
	}
	if err := p.lx.eatKeyword("from"); err != nil {
		return DeleteData{}, err
	}
	tbl, err := p.field()
	if err != nil {
		return DeleteData{}, err
	}
	pred := EmptyPredicate()
	if p.lx.matchKeyword("where") {
		if err := p.lx.eatKeyword("where"); err != nil {
			return DeleteData{}, err
		}
		pred, err = p.predicate()
		if err != nil {
			return DeleteData{}, err
		}
	}
	return DeleteData{TableName: tbl, Pred: pred}, nil
}

func (p *Parser) modify() (ModifyData, error) {
	if err := p.lx.eatKeyword("update"); err != nil {
		return ModifyData{}, err
	}
	tbl, err := p.field()
	if err != nil {
		return ModifyData{}, err
	}
	if err := p.lx.eatKeyword("set"); err != nil {
		return ModifyData{}, err
	}
	fld, err := p.field()
	if err != nil {
		return ModifyData{}, err
	}
	if err := p.lx.eatDelim('='); err != nil {
		return ModifyData{}, err
	}
	val, err := p.expression()
	if err != nil {
		return ModifyData{}, err
	}
	pred := EmptyPredicate()
	if p.lx.matchKeyword("where") {
		if err := p.lx.eatKeyword("where"); err != nil {
			return ModifyData{}, err
		}
		pred, err = p.predicate()
		if err != nil {
			return ModifyData{}, err
		}
	}
	return ModifyData{TableName: tbl, Field: fld, NewValue: val, Pred: pred}, nil
}

func (p *Parser) create() (Command, error) {
	if err := p.lx.eatKeyword("create"); err != nil {
		return nil, err
	}
	if p.lx.matchKeyword("table") {
		return p.createTable()
	}
	if p.lx.matchKeyword("view") {
		return p.createView()
	}
	return p.createIndex()
}

func (p *Parser) fieldType() (FieldType, int, error) {
	if p.lx.matchKeyword("int") {
		if err := p.lx.eatKeyword("int"); err != nil {
			return 0, 0, err
		}
		return FieldTypeInt, 0, nil
	}
	if err := p.lx.eatKeyword("varchar"); err != nil {
		return 0, 0, err
	}
	if err := p.lx.eatDelim('('); err != nil {
		return 0, 0, err
	}
	n, err := p.lx.eatIntConstant()
	if err != nil {
		return 0, 0, err
	}
	if err := p.lx.eatDelim(')'); err != nil {
		return 0, 0, err
	}
	return FieldTypeString, n, nil
}

func (p *Parser) fieldDef() (FieldDef, error) {
	name, err := p.field()
	if err != nil {
		return FieldDef{}, err
	}
	typ, length, err := p.fieldType()
	if err != nil {
		return FieldDef{}, err
	}
	return FieldDef{Name: name, Type: typ, Length: length}, nil
}

func (p *Parser) fieldDefs() ([]FieldDef, error) {
	fd, err := p.fieldDef()
	if err != nil {
		return nil, err
	}
	out := []FieldDef{fd}
	for p.lx.matchDelim(',') {
		if err := p.lx.eatDelim(','); err != nil {
			return nil, err
		}
		fd, err := p.fieldDef()
		if err != nil {
			return nil, err
		}
		out = append(out, fd)
	}
	return out, nil
}

func (p *Parser) createTable() (CreateTableData, error) {
	if err := p.lx.eatKeyword("table"); err != nil {
		return CreateTableData{}, err
	}
	tbl, err := p.field()
	if err != nil {
		return CreateTableData{}, err
	}
	if err := p.lx.eatDelim('('); err != nil {
		return CreateTableData{}, err
	}
	fields, err := p.fieldDefs()
	if err != nil {
		return CreateTableData{}, err
	}
	if err := p.lx.eatDelim(')'); err != nil {
		return CreateTableData{}, err
	}
	return CreateTableData{TableName: tbl, Fields: fields}, nil
}

func (p *Parser) createView() (CreateViewData, error) {
	if err := p.lx.eatKeyword("view"); err != nil {
		return CreateViewData{}, err
	}
	name, err := p.field()
	if err != nil {
		return CreateViewData{}, err
	}
	if err := p.lx.eatKeyword("as"); err != nil {
		return CreateViewData{}, err
	}
	q, err := p.Query()
	if err != nil {
		return CreateViewData{}, err
	}
	return CreateViewData{ViewName: name, Query: q}, nil
}

func (p *Parser) createIndex() (CreateIndexData, error) {
	if err := p.lx.eatKeyword("index"); err != nil {
		return CreateIndexData{}, err
	}
	name, err := p.field()
	if err != nil {
		return CreateIndexData{}, err
	}
	if err := p.lx.eatKeyword("on"); err != nil {
		return CreateIndexData{}, err
	}
	tbl, err := p.field()
	if err != nil {
		return CreateIndexData{}, err
	}
	if err := p.lx.eatDelim('('); err != nil {
		return CreateIndexData{}, err
	}
	fld, err := p.field()
	if err != nil {
		return CreateIndexData{}, err
	}
	if err := p.lx.eatDelim(')'); err != nil {
		return CreateIndexData{}, err
	}
	return CreateIndexData{IndexName: name, TableName: tbl, TargetField: fld}, nil
}
