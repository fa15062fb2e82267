package pp

import (
	"github.com/viant/parsly"
	"github.com/viant/parsly/matcher"
)

// MacroSpec is a macro predefined on the command line, given as NAME or
// NAME=VALUE. A bare NAME defines it to 1.
type MacroSpec struct {
	Name  string
	Value string
}

// Token codes
const (
	defIdentifierCode = iota
	defAssignCode
	defValueCode
)

// Token definitions
var (
	defIdentifierToken = parsly.NewToken(defIdentifierCode, "Identifier", newDefIdentifierMatcher())
	defAssignToken     = parsly.NewToken(defAssignCode, "=", matcher.NewByte('='))
	defValueToken      = parsly.NewToken(defValueCode, "Value", newDefValueMatcher())
)

func newDefIdentifierMatcher() parsly.Matcher {
	return &defIdentifierMatcher{}
}

func newDefValueMatcher() parsly.Matcher {
	return &defValueMatcher{}
}

// defIdentifierMatcher matches a C identifier.
type defIdentifierMatcher struct{}

func (m *defIdentifierMatcher) Match(cursor *parsly.Cursor) int {
	input := cursor.Input
	pos := cursor.Pos
	size := cursor.InputSize

	if pos >= size {
		return 0
	}
	if !isDefLetter(input[pos]) && input[pos] != '_' {
		return 0
	}

	matched := 1
	for i := pos + 1; i < size; i++ {
		if isDefLetter(input[i]) || isDefDigit(input[i]) || input[i] == '_' {
			matched++
			continue
		}
		break
	}
	return matched
}

// defValueMatcher matches the remainder of the input.
type defValueMatcher struct{}

func (m *defValueMatcher) Match(cursor *parsly.Cursor) int {
	return cursor.InputSize - cursor.Pos
}

// ParseMacroSpec parses a command-line macro definition.
func ParseMacroSpec(input string) (MacroSpec, error) {
	cursor := parsly.NewCursor("", []byte(input), 0)

	matched := cursor.MatchOne(defIdentifierToken)
	if matched.Code != defIdentifierToken.Code {
		return MacroSpec{}, cursor.NewError(defIdentifierToken)
	}
	spec := MacroSpec{Name: matched.Text(cursor), Value: "1"}

	matched = cursor.MatchOne(defAssignToken)
	if matched.Code != defAssignToken.Code {
		if cursor.Pos < cursor.InputSize {
			return MacroSpec{}, cursor.NewError(defAssignToken)
		}
		return spec, nil
	}

	spec.Value = ""
	matched = cursor.MatchOne(defValueToken)
	if matched.Code == defValueToken.Code {
		spec.Value = matched.Text(cursor)
	}
	return spec, nil
}

func isDefLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isDefDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
