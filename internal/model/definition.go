// Package model defines the enum definition model shared by the header
// parser and the Java code generator. A definition is built incrementally
// while its declaration is scanned and becomes immutable once finalized.
package model

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Errors reported while building or finalizing a definition.
var (
	ErrDuplicateEntry         = errors.New("duplicate enum entry")
	ErrDuplicateComment       = errors.New("duplicate enum entry comment")
	ErrNoEntries              = errors.New("enum has no entries")
	ErrUnsupportedFixedType   = errors.New("unsupported fixed type")
	ErrUnresolvableReference  = errors.New("unresolvable value reference")
	ErrPrefixCollapsesEntries = errors.New("prefix stripping collapses entries")
)

// ValueKind discriminates the states an entry value moves through.
type ValueKind int

// Constants for the entry value states.
const (
	// ValueRaw is the expression text as captured from the declaration,
	// not yet resolved. Empty text means the entry had no "= expr" part.
	ValueRaw ValueKind = iota
	// ValueInt is a resolved integer value.
	ValueInt
	// ValueExpr is expression text passed through to the generated Java
	// verbatim, such as "1 << 2".
	ValueExpr
)

// EntryValue is the value of a single enum entry.
type EntryValue struct {
	// Kind tells which of the remaining fields is meaningful.
	Kind ValueKind
	// Num holds the value when Kind is ValueInt.
	Num int
	// Text holds the source text for ValueRaw and ValueExpr.
	Text string
}

// RawValue returns an unresolved value carrying the source expression text.
func RawValue(text string) EntryValue { return EntryValue{Kind: ValueRaw, Text: text} }

// IntValue returns a resolved integer value.
func IntValue(n int) EntryValue { return EntryValue{Kind: ValueInt, Num: n} }

// ExprValue returns an opaque expression value emitted verbatim.
func ExprValue(text string) EntryValue { return EntryValue{Kind: ValueExpr, Text: text} }

// String renders the value the way it appears in generated Java source.
func (v EntryValue) String() string {
	if v.Kind == ValueInt {
		return strconv.Itoa(v.Num)
	}
	return v.Text
}

// EnumDefinition is one annotated C++ enum declaration. Entries and
// Comments preserve declaration order; every consumer iterates them in
// that order so generation stays deterministic.
type EnumDefinition struct {
	// OriginalEnumName is the C++ enum name as declared.
	OriginalEnumName string
	// ClassNameOverride replaces the derived Java class name when set.
	ClassNameOverride string
	// EnumPackage is the Java package the generated file belongs to.
	EnumPackage string
	// FixedType is the declared underlying type, empty when absent.
	FixedType string
	// PrefixToStrip forces prefix stripping when set. When empty an
	// implicit prefix derived from the enum name is tried instead.
	PrefixToStrip string
	// Entries maps entry name to value, in declaration order.
	Entries *orderedmap.OrderedMap[string, EntryValue]
	// Comments maps entry name to collapsed comment text.
	Comments *orderedmap.OrderedMap[string, string]

	finalized bool
}

// NewEnumDefinition returns an empty definition for the named C++ enum.
func NewEnumDefinition(originalName string) *EnumDefinition {
	return &EnumDefinition{
		OriginalEnumName: originalName,
		Entries:          orderedmap.New[string, EntryValue](),
		Comments:         orderedmap.New[string, string](),
	}
}

// ClassName returns the Java class name: the override when present,
// otherwise the original enum name.
func (d *EnumDefinition) ClassName() string {
	if d.ClassNameOverride != "" {
		return d.ClassNameOverride
	}
	return d.OriginalEnumName
}

// AppendEntry records the next declared entry with its raw value text.
// Redeclaring a name is an error; silent overwrites would hide typos.
func (d *EnumDefinition) AppendEntry(name, rawValue string) error {
	if _, ok := d.Entries.Get(name); ok {
		return fmt.Errorf("%w: %s in enum %s", ErrDuplicateEntry, name, d.OriginalEnumName)
	}
	d.Entries.Set(name, RawValue(rawValue))
	return nil
}

// AppendComment attaches collapsed comment text to a declared entry name.
func (d *EnumDefinition) AppendComment(name, text string) error {
	if _, ok := d.Comments.Get(name); ok {
		return fmt.Errorf("%w: %s in enum %s", ErrDuplicateComment, name, d.OriginalEnumName)
	}
	d.Comments.Set(name, text)
	return nil
}

// Underlying C++ types whose values fit a Java int. Wider or unsigned
// 32/64 bit types cannot be represented and are rejected.
var fixedTypes = map[string]struct{}{
	"char":           {},
	"unsigned char":  {},
	"short":          {},
	"unsigned short": {},
	"int":            {},
	"int8_t":         {},
	"int16_t":        {},
	"int32_t":        {},
	"uint8_t":        {},
	"uint16_t":       {},
}

// Finalize validates the definition, strips entry name prefixes and
// resolves entry values. It must be called exactly once, after the whole
// declaration has been consumed; afterwards every entry value is either
// ValueInt or ValueExpr.
func (d *EnumDefinition) Finalize() error {
	if d.finalized {
		return fmt.Errorf("enum %s: finalized twice", d.OriginalEnumName)
	}
	if err := d.validate(); err != nil {
		return err
	}
	if err := d.stripPrefix(); err != nil {
		return err
	}
	if err := d.resolveValues(); err != nil {
		return err
	}
	d.finalized = true
	return nil
}

func (d *EnumDefinition) validate() error {
	if d.ClassName() == "" {
		return errors.New("enum definition has no name")
	}
	if d.EnumPackage == "" {
		return fmt.Errorf("enum %s: no Java package (GENERATED_JAVA_ENUM_PACKAGE) defined", d.OriginalEnumName)
	}
	if d.Entries.Len() == 0 {
		return fmt.Errorf("%w: %s", ErrNoEntries, d.OriginalEnumName)
	}
	if d.FixedType != "" {
		if _, ok := fixedTypes[d.FixedType]; !ok {
			return fmt.Errorf("%w %q in enum %s", ErrUnsupportedFixedType, d.FixedType, d.OriginalEnumName)
		}
	}
	return nil
}

var capsRun = regexp.MustCompile(`[A-Z]+`)

// shoutCase converts a CamelCase name to upper snake case, the C++ style
// constant casing: ClassName becomes CLASS_NAME, AnEnum becomes AN_ENUM.
func shoutCase(name string) string {
	if name == "" {
		return ""
	}
	return strings.ToUpper(name[:1] + capsRun.ReplaceAllString(name[1:], "_$0"))
}

// stripPrefix rewrites entry names, comment keys and still-raw value
// texts with the effective prefix removed. An explicit PrefixToStrip
// applies unconditionally; the implicit prefix (upper snake case of the
// enum name plus underscore) applies only when every entry carries it.
func (d *EnumDefinition) stripPrefix() error {
	prefix := d.PrefixToStrip
	if prefix == "" {
		implicit := shoutCase(d.OriginalEnumName) + "_"
		for pair := d.Entries.Oldest(); pair != nil; pair = pair.Next() {
			if !strings.HasPrefix(pair.Key, implicit) {
				return nil
			}
		}
		prefix = implicit
	}

	entries := orderedmap.New[string, EntryValue]()
	for pair := d.Entries.Oldest(); pair != nil; pair = pair.Next() {
		name := strings.TrimPrefix(pair.Key, prefix)
		if name == "" {
			return fmt.Errorf("enum %s: stripping prefix %q leaves entry %s without a name",
				d.OriginalEnumName, prefix, pair.Key)
		}
		if _, ok := entries.Get(name); ok {
			return fmt.Errorf("%w: prefix %q maps %s onto existing entry %s in enum %s",
				ErrPrefixCollapsesEntries, prefix, pair.Key, name, d.OriginalEnumName)
		}
		value := pair.Value
		if value.Kind == ValueRaw {
			// References to sibling entries keep resolving after the
			// siblings were renamed, including inside expressions like
			// "FOO_A | FOO_B".
			value.Text = strings.ReplaceAll(value.Text, prefix, "")
		}
		entries.Set(name, value)
	}

	comments := orderedmap.New[string, string]()
	for pair := d.Comments.Oldest(); pair != nil; pair = pair.Next() {
		comments.Set(strings.TrimPrefix(pair.Key, prefix), pair.Value)
	}

	d.Entries = entries
	d.Comments = comments
	return nil
}

var identifier = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// resolveValues walks the entries in declaration order and replaces every
// raw value with its resolved form. A counter tracks the next implicit
// value: entries without a value take the counter, integer literals and
// references to integer entries move it past themselves, and opaque
// expressions leave it untouched.
func (d *EnumDefinition) resolveValues() error {
	counter := 0
	for pair := d.Entries.Oldest(); pair != nil; pair = pair.Next() {
		if pair.Value.Kind != ValueRaw {
			return fmt.Errorf("enum %s: entry %s resolved twice", d.OriginalEnumName, pair.Key)
		}
		raw := strings.TrimSpace(pair.Value.Text)

		var resolved EntryValue
		switch {
		case raw == "":
			resolved = IntValue(counter)
		case isInt(raw):
			n, err := strconv.Atoi(raw)
			if err != nil {
				return fmt.Errorf("enum %s: entry %s: %w", d.OriginalEnumName, pair.Key, err)
			}
			resolved = IntValue(n)
		case identifier.MatchString(raw):
			ref, ok := d.Entries.Get(raw)
			if !ok || ref.Kind == ValueRaw {
				return fmt.Errorf("%w: entry %s of enum %s refers to %q, which is not an earlier entry",
					ErrUnresolvableReference, pair.Key, d.OriginalEnumName, raw)
			}
			resolved = ref
		default:
			resolved = ExprValue(raw)
		}

		if resolved.Kind == ValueInt {
			counter = resolved.Num + 1
		}
		d.Entries.Set(pair.Key, resolved)
	}
	return nil
}

func isInt(s string) bool {
	_, err := strconv.Atoi(s)
	return err == nil
}
