package parser

import (
	"errors"
	"fmt"

	"github.com/nativebuild/enum2java/internal/model"
)

// Errors reported while scanning directive comments.
var (
	ErrUnknownDirective   = errors.New("unknown directive")
	ErrMalformedDirective = errors.New("malformed directive")
)

// Directive names recognized after the GENERATED_JAVA_ prefix. Anything
// else under that prefix is rejected so a typo cannot silently disable
// generation.
const (
	directiveEnumPackage       = "ENUM_PACKAGE"
	directiveClassNameOverride = "CLASS_NAME_OVERRIDE"
	directivePrefixToStrip     = "PREFIX_TO_STRIP"
)

// DirectiveSet accumulates the directives of one comment block until the
// annotated enum declaration consumes them.
type DirectiveSet struct {
	values map[string]string
}

// NewDirectiveSet returns an empty directive set.
func NewDirectiveSet() *DirectiveSet {
	return &DirectiveSet{values: make(map[string]string)}
}

// Update records one directive. Repeating a directive inside a block
// overwrites the earlier value.
func (s *DirectiveSet) Update(name, value string) error {
	switch name {
	case directiveEnumPackage, directiveClassNameOverride, directivePrefixToStrip:
		s.values[name] = value
		return nil
	default:
		return fmt.Errorf("%w: GENERATED_JAVA_%s", ErrUnknownDirective, name)
	}
}

// Empty reports whether no directive has been recorded.
func (s *DirectiveSet) Empty() bool {
	return len(s.values) == 0
}

// Reset discards all recorded directives.
func (s *DirectiveSet) Reset() {
	s.values = make(map[string]string)
}

// Apply copies the recorded directives onto a fresh definition.
func (s *DirectiveSet) Apply(def *model.EnumDefinition) {
	def.EnumPackage = s.values[directiveEnumPackage]
	def.ClassNameOverride = s.values[directiveClassNameOverride]
	def.PrefixToStrip = s.values[directivePrefixToStrip]
}

// multiLineDirective buffers a parenthesized directive value while its
// continuation lines are consumed.
type multiLineDirective struct {
	name      string
	fragments []string
}
