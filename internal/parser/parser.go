// Package parser extracts annotated enum definitions from C++ header
// text. It is a line oriented scanner, not a C++ parser: it recognizes
// GENERATED_JAVA_* directive comments and the enum declaration that
// follows them, and ignores everything else.
package parser

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"regexp"
	"strings"

	"github.com/nativebuild/enum2java/internal/model"
)

// Errors reported while parsing enum declarations.
var (
	ErrUnterminatedEnum   = errors.New("unterminated enum declaration")
	ErrMalformedEntry     = errors.New("malformed enum entry")
	ErrBlockCommentInEnum = errors.New("block comments inside enums are not supported")
	ErrMissingEnumBody    = errors.New("expected '{' after annotated enum declaration")
)

// enumHead matches the common prefix of every recognized declaration
// form: an optional [cpp...] IDL attribute, the enum keyword, an optional
// class/struct keyword, the enum name and an optional fixed type.
const enumHead = `^\s*(?:\[cpp.*\])?\s*enum\s+(?:class\s+|struct\s+)?(\w+)\s*(?::\s*(\w+(?:\s+\w+)?))?\s*`

var (
	reDirectiveEmpty = regexp.MustCompile(`^\s*//\s+GENERATED_JAVA_(\w+)\s*:\s*$`)
	reDirective      = regexp.MustCompile(`^\s*//\s+GENERATED_JAVA_(\w+)\s*:\s*([.\w]+)\s*$`)
	reDirectiveOpen  = regexp.MustCompile(`^\s*//\s+GENERATED_JAVA_(\w+)\s*:\s*\(([.\w]*)\s*$`)
	reDirectiveCont  = regexp.MustCompile(`^\s*//\s+([.\w]+)\s*$`)
	reDirectiveClose = regexp.MustCompile(`^\s*//\s+([.\w]*)\)\s*$`)

	reComment      = regexp.MustCompile(`^\s*//\s*(.*)$`)
	reBlockComment = regexp.MustCompile(`^\s*/\*`)

	reEnumSingleLine = regexp.MustCompile(enumHead + `\{(.*)\}\s*;\s*$`)
	reEnumStart      = regexp.MustCompile(enumHead + `\{\s*$`)
	reEnumBare       = regexp.MustCompile(enumHead + `$`)
	reEnumEnd        = regexp.MustCompile(`^\s*\}\s*;\s*$`)

	reEnumEntry = regexp.MustCompile(`^\s*(\w+)\s*(?:=\s*([^,\n]+?))?\s*$`)
)

type parseState int

const (
	// stateScanning walks regular header lines looking for directives
	// and enum declarations.
	stateScanning parseState = iota
	// stateAwaitBrace saw an enum header whose opening brace is on a
	// following line.
	stateAwaitBrace
	// stateEnumBody is inside an annotated enum declaration.
	stateEnumBody
	// stateSkipBody consumes the body of an enum without directives.
	stateSkipBody
)

// enumHeader carries declaration details between the header line and its
// opening brace.
type enumHeader struct {
	name      string
	fixedType string
}

// HeaderParser scans the lines of one C++ header. It performs no I/O;
// the path is used for diagnostics only.
type HeaderParser struct {
	path  string
	lines []string

	definitions []*model.EnumDefinition
	state       parseState
	current     *model.EnumDefinition
	pending     *enumHeader
	comments    []string
	entryBuf    string
	directives  *DirectiveSet
	multiLine   *multiLineDirective
	lineno      int
}

// New returns a parser over the given header lines.
func New(path string, lines []string) *HeaderParser {
	return &HeaderParser{
		path:       path,
		lines:      lines,
		directives: NewDirectiveSet(),
	}
}

// Parse splits header text into lines and parses it.
func Parse(path, text string) ([]*model.EnumDefinition, error) {
	return New(path, strings.Split(text, "\n")).ParseDefinitions()
}

// ParseFile reads and parses a header file.
func ParseFile(path string) ([]*model.EnumDefinition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}
	return Parse(path, string(data))
}

// ParseDefinitions walks the header and returns every annotated enum in
// declaration order. Enums without a preceding directive block are
// consumed structurally and do not appear in the result. The first
// violation stops the parse.
func (p *HeaderParser) ParseDefinitions() ([]*model.EnumDefinition, error) {
	for i, line := range p.lines {
		p.lineno = i + 1
		if err := p.parseLine(line); err != nil {
			return nil, fmt.Errorf("%s:%d: %w", p.path, p.lineno, err)
		}
	}
	if p.multiLine != nil {
		return nil, fmt.Errorf("%s: %w: GENERATED_JAVA_%s value never closed",
			p.path, ErrMalformedDirective, p.multiLine.name)
	}
	switch p.state {
	case stateEnumBody:
		return nil, fmt.Errorf("%s: %w: %s", p.path, ErrUnterminatedEnum, p.current.OriginalEnumName)
	case stateSkipBody:
		return nil, fmt.Errorf("%s: %w", p.path, ErrUnterminatedEnum)
	case stateAwaitBrace:
		if !p.directives.Empty() {
			return nil, fmt.Errorf("%s: %w: %s", p.path, ErrMissingEnumBody, p.pending.name)
		}
	}
	return p.definitions, nil
}

func (p *HeaderParser) parseLine(line string) error {
	if p.multiLine != nil {
		return p.parseMultiLineDirectiveLine(line)
	}
	switch p.state {
	case stateEnumBody:
		return p.parseEnumBodyLine(line)
	case stateSkipBody:
		if reEnumEnd.MatchString(line) {
			p.state = stateScanning
		}
		return nil
	case stateAwaitBrace:
		return p.parseAwaitBraceLine(line)
	default:
		return p.parseRegularLine(line)
	}
}

// parseRegularLine handles lines outside any enum body: directives, enum
// declarations, and the surrounding header code.
func (p *HeaderParser) parseRegularLine(line string) error {
	if m := reDirectiveEmpty.FindStringSubmatch(line); m != nil {
		return fmt.Errorf("%w: GENERATED_JAVA_%s has no value, use (...) for multi-line values",
			ErrMalformedDirective, m[1])
	}
	if m := reDirective.FindStringSubmatch(line); m != nil {
		return p.directives.Update(m[1], m[2])
	}
	if m := reDirectiveOpen.FindStringSubmatch(line); m != nil {
		p.multiLine = &multiLineDirective{name: m[1], fragments: []string{m[2]}}
		return nil
	}
	if m := reEnumSingleLine.FindStringSubmatch(line); m != nil {
		return p.parseSingleLineEnum(m[1], m[2], m[3])
	}
	if m := reEnumStart.FindStringSubmatch(line); m != nil {
		return p.openEnum(m[1], m[2])
	}
	if m := reEnumBare.FindStringSubmatch(line); m != nil {
		p.pending = &enumHeader{name: m[1], fixedType: m[2]}
		p.state = stateAwaitBrace
		return nil
	}

	// Plain comments and blank lines keep a directive block alive. Any
	// other code between the block and its enum cancels the block, so
	// directives never leak onto an unrelated declaration further down.
	trimmed := strings.TrimSpace(line)
	if trimmed == "" || strings.HasPrefix(trimmed, "//") {
		return nil
	}
	if !p.directives.Empty() {
		slog.Warn("dropping directives not followed by an enum", "path", p.path, "line", p.lineno)
		p.directives.Reset()
	}
	return nil
}

// parseAwaitBraceLine expects the opening brace of a declaration whose
// header ended without one.
func (p *HeaderParser) parseAwaitBraceLine(line string) error {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return nil
	}
	if trimmed == "{" {
		hdr := p.pending
		p.pending = nil
		return p.openEnum(hdr.name, hdr.fixedType)
	}
	if !p.directives.Empty() {
		return fmt.Errorf("%w: enum %s, got %q", ErrMissingEnumBody, p.pending.name, trimmed)
	}
	// Not an enum definition after all. Reprocess the line normally.
	p.pending = nil
	p.state = stateScanning
	return p.parseRegularLine(line)
}

// openEnum starts a declaration body. Without pending directives the
// enum is not ours: its body is consumed and discarded.
func (p *HeaderParser) openEnum(name, fixedType string) error {
	if p.directives.Empty() {
		slog.Debug("ignoring enum without directives", "path", p.path, "enum", name)
		p.state = stateSkipBody
		return nil
	}
	def := model.NewEnumDefinition(name)
	def.FixedType = strings.TrimSpace(fixedType)
	p.directives.Apply(def)
	p.directives.Reset()
	p.current = def
	p.state = stateEnumBody
	return nil
}

// parseSingleLineEnum handles a whole declaration on one line, like
// "enum Foo { FOO_A, FOO_B };".
func (p *HeaderParser) parseSingleLineEnum(name, fixedType, body string) error {
	if p.directives.Empty() {
		slog.Debug("ignoring enum without directives", "path", p.path, "enum", name)
		return nil
	}
	if err := p.openEnum(name, fixedType); err != nil {
		return err
	}
	for _, fragment := range splitTopLevel(body) {
		if err := p.parseEntryFragment(fragment); err != nil {
			return err
		}
	}
	return p.closeEnum()
}

// parseEnumBodyLine handles one line inside an annotated enum body.
func (p *HeaderParser) parseEnumBodyLine(line string) error {
	if reBlockComment.MatchString(line) {
		return fmt.Errorf("%w: enum %s", ErrBlockCommentInEnum, p.current.OriginalEnumName)
	}
	if m := reComment.FindStringSubmatch(line); m != nil {
		// Blank comment lines keep the run going but add no text.
		if text := strings.TrimSpace(m[1]); text != "" {
			p.comments = append(p.comments, text)
		}
		return nil
	}
	if reEnumEnd.MatchString(line) {
		return p.closeEnum()
	}
	p.entryBuf += " " + strings.TrimSpace(line)
	if strings.Contains(line, ",") {
		return p.flushCompleteEntries()
	}
	return nil
}

// flushCompleteEntries splits the entry buffer on top level commas,
// records every complete fragment and keeps the unfinished remainder
// buffered.
func (p *HeaderParser) flushCompleteEntries() error {
	parts := splitTopLevel(p.entryBuf)
	p.entryBuf = parts[len(parts)-1]
	for _, fragment := range parts[:len(parts)-1] {
		if err := p.parseEntryFragment(fragment); err != nil {
			return err
		}
	}
	return nil
}

// parseEntryFragment records one "NAME" or "NAME = expr" fragment and
// attaches the buffered comment run to it.
func (p *HeaderParser) parseEntryFragment(fragment string) error {
	if strings.TrimSpace(fragment) == "" {
		return nil
	}
	m := reEnumEntry.FindStringSubmatch(fragment)
	if m == nil {
		return fmt.Errorf("%w: %q in enum %s",
			ErrMalformedEntry, strings.TrimSpace(fragment), p.current.OriginalEnumName)
	}
	name, value := m[1], strings.TrimSpace(m[2])
	if err := p.current.AppendEntry(name, value); err != nil {
		return err
	}
	if len(p.comments) > 0 {
		if err := p.current.AppendComment(name, strings.Join(p.comments, " ")); err != nil {
			return err
		}
		p.comments = nil
	}
	return nil
}

// closeEnum flushes the trailing entry, finalizes the definition and
// returns the parser to scanning.
func (p *HeaderParser) closeEnum() error {
	if strings.TrimSpace(p.entryBuf) != "" {
		if err := p.parseEntryFragment(p.entryBuf); err != nil {
			return err
		}
	}
	p.entryBuf = ""
	p.comments = nil
	def := p.current
	p.current = nil
	p.state = stateScanning
	if err := def.Finalize(); err != nil {
		return err
	}
	p.definitions = append(p.definitions, def)
	slog.Debug("parsed annotated enum",
		"path", p.path, "enum", def.OriginalEnumName, "entries", def.Entries.Len())
	return nil
}

// parseMultiLineDirectiveLine consumes continuation lines of a
// parenthesized directive value until the closing parenthesis.
func (p *HeaderParser) parseMultiLineDirectiveLine(line string) error {
	if m := reDirectiveCont.FindStringSubmatch(line); m != nil {
		p.multiLine.fragments = append(p.multiLine.fragments, m[1])
		return nil
	}
	if m := reDirectiveClose.FindStringSubmatch(line); m != nil {
		name := p.multiLine.name
		value := strings.Join(p.multiLine.fragments, "") + m[1]
		p.multiLine = nil
		return p.directives.Update(name, value)
	}
	return fmt.Errorf("%w: GENERATED_JAVA_%s value interrupted by %q",
		ErrMalformedDirective, p.multiLine.name, strings.TrimSpace(line))
}

// splitTopLevel splits on commas outside any bracket pair, so entry
// values like "MAX(1, 2)" survive intact.
func splitTopLevel(s string) []string {
	var parts []string
	depth, start := 0, 0
	for i, r := range s {
		switch r {
		case '(', '[', '{':
			depth++
		case ')', ']', '}':
			depth--
		case ',':
			if depth == 0 {
				parts = append(parts, s[start:i])
				start = i + 1
			}
		}
	}
	return append(parts, s[start:])
}
