package parser

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	log "github.com/sirupsen/logrus"
)

type mapperParser struct {
	dialect Dialect
	logger  log.FieldLogger
	checker *Checker
}

type Option func(*mapperParser)

// 对每条规范化之后的语句做语法检查，失败记为诊断信息
func WithChecker(checker *Checker) Option {
	return func(p *mapperParser) {
		p.checker = checker
	}
}

func NewMapperParser(dialect Dialect, logger log.FieldLogger, opts ...Option) MapperParser {
	parser := &mapperParser{dialect: dialect, logger: logger}
	for _, opt := range opts {
		opt(parser)
	}
	return parser
}

func (p *mapperParser) Detect(path string) bool {
	return DetectMatch(p.dialect, path, p.logger)
}

func (p *mapperParser) Parse(path string) (file *MapperFile, err error) {
	var content []byte
	content, err = os.ReadFile(path)
	if err != nil {
		err = fmt.Errorf("%w,err=[%v],file=[%v]", ErrReadFile, err.Error(), path)
		return
	}
	return p.ParseContent(path, content)
}

// 结构解析 -> 展开片段 -> 规范化，文档损坏时保留已抽取的结果
func (p *mapperParser) ParseContent(path string, content []byte) (file *MapperFile, err error) {
	logger := p.logger.WithField("file", path)

	state := NewParseState()
	decoder := xml.NewDecoder(bytes.NewReader(content))
	decoder.CharsetReader = charsetReader
	err = p.consume(decoder, state, logger)
	if err != nil {
		err = fmt.Errorf("%w,err=[%v],file=[%v]", ErrMalformedDocument, err.Error(), path)
		logger.Warnf("parse aborted, keep %v statement(s) and %v fragment(s) captured before the error,err=[%v]",
			len(state.Statements), len(state.Fragments), err)
	}

	file = &MapperFile{
		Path:       path,
		Dialect:    p.dialect.Name(),
		Namespace:  state.Namespace,
		Statements: state.Statements,
		Fragments:  make(map[string]*Fragment, len(state.Fragments)),
	}
	for name, text := range state.Fragments {
		file.Fragments[name] = &Fragment{Name: name, Text: text}
	}

	resolver := NewResolver(path, state.Namespace, state.Fragments, p.logger)
	for _, stmt := range file.Statements {
		resolver.Resolve(stmt)
		stmt.Final = Normalize(stmt.Resolved, p.dialect.Rules(), logger.WithField("statement", stmt.Id))
	}
	file.Diagnostics = append(file.Diagnostics, resolver.Diagnostics()...)

	if p.checker != nil {
		for _, stmt := range file.Statements {
			if checkErr := p.checker.Check(stmt); checkErr != nil {
				diagnostic := Diagnostic{File: path, Statement: stmt.Id, Err: checkErr}
				logger.Warn(diagnostic.String())
				file.Diagnostics = append(file.Diagnostics, diagnostic)
			}
		}
	}

	logger.Debugf("extracted %v statement(s), %v fragment(s)", len(file.Statements), len(file.Fragments))
	return
}

// 消费XML事件直到文档结束或出错
func (p *mapperParser) consume(decoder *xml.Decoder, state *ParseState, logger log.FieldLogger) error {
	for {
		token, err := decoder.Token()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}

		switch t := token.(type) {
		case xml.StartElement:
			p.startElement(t, state, logger)
		case xml.EndElement:
			p.endElement(state, logger)
		case xml.CharData:
			state.write(string(t))
		}
	}
}

func (p *mapperParser) startElement(element xml.StartElement, state *ParseState, logger log.FieldLogger) {
	name := strings.ToLower(element.Name.Local)
	state.depth++

	var injection Injection
	switch {
	case state.skipping():
	case !state.capturing():
		if kind, ok := p.dialect.StatementKind(name); ok {
			id, _ := attrValue(element.Attr, attr_Id)
			state.beginStatement(id, kind)
		} else if name == element_Sql {
			id, _ := attrValue(element.Attr, attr_Id)
			if id == "" {
				logger.Warn("sql fragment without id is ignored")
			}
			state.beginFragment(id)
		} else if state.depth == 1 {
			state.Namespace, _ = attrValue(element.Attr, attr_Namespace)
		}
	case name == element_SelectKey:
		state.skipDepth = state.depth
	case name == element_Include:
		if refId, ok := attrValue(element.Attr, attr_RefId); ok && refId != "" {
			state.write(ReferenceMarker(refId))
		} else {
			logger.WithField("statement", state.currentId).Warn("include without refid is ignored")
		}
	default:
		injection = p.dialect.OpenElement(name, element.Attr)
	}
	state.openElement(injection)
}

func (p *mapperParser) endElement(state *ParseState, logger log.FieldLogger) {
	element := state.popElement()
	switch {
	case state.skipping():
		if state.depth == state.skipDepth {
			state.skipDepth = 0
		}
	case state.capturing() && state.depth == state.captureDepth:
		if overwritten := state.finish(); overwritten != "" {
			logger.WithField("fragment", overwritten).Debug("fragment redefined, the later definition wins")
		}
	default:
		state.closeElement(element)
	}
	state.depth--
}
