package css

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSheetAdd(t *testing.T) {
	s := NewSheet()

	require.True(t, s.Add("a", "& { color: red; }"))
	require.True(t, s.Add("b", "& { color: blue; }"))
	assert.False(t, s.Add("a", "& { color: green; }"), "first rule for a class wins")

	assert.Equal(t, 2, s.Len())
	assert.Equal(t, ".a { color: red; }\n.b { color: blue; }", s.String())
	assert.Equal(t, []Rule{
		{Class: "a", CSS: ".a { color: red; }"},
		{Class: "b", CSS: ".b { color: blue; }"},
	}, s.Rules())
}

func TestSheetAddRules(t *testing.T) {
	var s Sheet
	s.AddRules(Rule{Class: "a", CSS: ".a{}"}, Rule{Class: "a", CSS: ".a{x:y}"}, Rule{Class: "b", CSS: ".b{}"})
	s.Add("b", "& { ignored: 1; }")

	assert.Equal(t, ".a{}\n.b{}", s.String())
}

func TestSheetDrain(t *testing.T) {
	s := NewSheet()
	s.Add("a", "& {}")

	assert.Equal(t, ".a {}", s.Drain())
	assert.Equal(t, 0, s.Len())
	assert.Equal(t, "", s.String())
	assert.True(t, s.Add("a", "& {}"), "drained classes can be added again")
}
