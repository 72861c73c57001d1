package render

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDocument_CreateRequiresParent(t *testing.T) {
	doc := NewDocument()
	doc.Mount("root", "div")

	doc.Create("root", "child", "span")
	doc.Create("missing", "orphan", "span")
	doc.Create("root", "child", "p")

	assert.True(t, doc.Exists("child"))
	assert.False(t, doc.Exists("orphan"))
	assert.Equal(t, []string{"child"}, doc.Children("root"))

	el, ok := doc.Element("child")
	require.True(t, ok)
	assert.Equal(t, "span", el.Tag)
}

func TestDocument_UnknownTargetsAreIgnored(t *testing.T) {
	doc := NewDocument()

	assert.NotPanics(t, func() {
		doc.SetAttr("nope", "a", "b")
		doc.ToggleClass("nope", "c", true)
		doc.SetValue("nope", "v")
		doc.SetText("nope", "t")
		doc.SetStyle("nope", "opacity", "0")
		doc.SetDisabled("nope", true)
		doc.Focus("nope")
		doc.ScrollIntoView("nope")
	})
	assert.Empty(t, doc.Focused())
	assert.Empty(t, doc.LastScrolled())
}

func TestDocument_ByClassKeepsDocumentOrder(t *testing.T) {
	doc := NewDocument()
	doc.Mount("a", "div", "card")
	doc.Mount("b", "div")
	doc.Mount("c", "div", "card")

	doc.ToggleClass("b", "card", true)
	doc.ToggleClass("c", "card", false)

	assert.Equal(t, []string{"a", "b"}, doc.ByClass("card"))
}

func TestRecorder_RecordsOnlyLandedMutations(t *testing.T) {
	doc := NewDocument()
	doc.Mount("root", "div")
	rec := NewRecorder(doc)

	rec.Create("root", "x", "span")
	rec.Create("root", "x", "span")
	rec.Create("ghost", "y", "span")
	rec.ToggleClass("x", "on", true)
	rec.SetText("ghost", "ignored")
	rec.Focus("x")

	want := []Effect{
		Create("root", "x", "span"),
		Class("x", "on", true),
		Focus("x"),
	}
	assert.Equal(t, want, rec.Drain())
	assert.Empty(t, rec.Effects())
}

func TestApply_ReplaysEveryOp(t *testing.T) {
	doc := NewDocument()
	doc.Mount("root", "div")

	Apply(doc, []Effect{
		Create("root", "btn", "button"),
		Attr("btn", "role", "radio"),
		Class("btn", "selected", true),
		Value("btn", "7"),
		Text("btn", "seven"),
		Style("btn", "opacity", "1"),
		Disabled("btn", true),
		Focus("btn"),
		Scroll("btn"),
	})

	assert.Equal(t, "radio", doc.Attr("btn", "role"))
	assert.True(t, doc.HasClass("btn", "selected"))
	assert.Equal(t, "7", doc.Value("btn"))
	assert.Equal(t, "seven", doc.Text("btn"))
	assert.Equal(t, "1", doc.Style("btn", "opacity"))
	assert.True(t, doc.IsDisabled("btn"))
	assert.Equal(t, "btn", doc.Focused())
	assert.Equal(t, "btn", doc.LastScrolled())
	assert.Equal(t, []string{"selected"}, doc.ClassNames("btn"))
}
