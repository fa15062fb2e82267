package pp

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseMacroSpec(t *testing.T) {
	testCases := []struct {
		description string
		input       string
		expect      MacroSpec
		wantErr     bool
	}{
		{
			description: "bare name defaults to 1",
			input:       "DEBUG",
			expect:      MacroSpec{Name: "DEBUG", Value: "1"},
		},
		{
			description: "name with value",
			input:       "VER=3",
			expect:      MacroSpec{Name: "VER", Value: "3"},
		},
		{
			description: "value may contain anything",
			input:       "MSG=hello world",
			expect:      MacroSpec{Name: "MSG", Value: "hello world"},
		},
		{
			description: "explicit empty value",
			input:       "EMPTY=",
			expect:      MacroSpec{Name: "EMPTY", Value: ""},
		},
		{
			description: "underscore names",
			input:       "_FOO_1=x",
			expect:      MacroSpec{Name: "_FOO_1", Value: "x"},
		},
		{
			description: "name starting with a digit",
			input:       "1BAD",
			wantErr:     true,
		},
		{
			description: "junk after the name",
			input:       "FOO*",
			wantErr:     true,
		},
		{
			description: "empty input",
			input:       "",
			wantErr:     true,
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.description, func(t *testing.T) {
			spec, err := ParseMacroSpec(testCase.input)
			if testCase.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, testCase.expect, spec)
		})
	}
}
