package validator

import (
	"strings"
	"testing"

	"github.com/agentflare-ai/go-xmldom"
)

func parseTree(t *testing.T, xml string) *Document {
	t.Helper()
	dom, err := xmldom.NewDecoderFromBytes([]byte(xml)).Decode()
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	return newDocument(dom.DocumentElement())
}

func TestDocument_PathQualifiesIdentity(t *testing.T) {
	doc := parseTree(t, `<PhysicalProperty>
  <Property IDValue="p1">
    <ChargeOfferClass Code="APP">
      <ChargeOfferItem InternalCode="fee-1"/>
    </ChargeOfferClass>
  </Property>
</PhysicalProperty>`)

	classes := doc.Classes()
	if len(classes) != 1 {
		t.Fatalf("expected one class, got %d", len(classes))
	}
	items := offerItems(classes[0])
	if len(items) != 1 {
		t.Fatalf("expected one item, got %d", len(items))
	}

	path := doc.Path(items[0])
	for _, want := range []string{"/PhysicalProperty/", "Property[@IDValue='p1']", "ChargeOfferClass[@Code='APP']", "ChargeOfferItem[@InternalCode='fee-1']"} {
		if !strings.Contains(path, want) {
			t.Fatalf("expected %q in path %q", want, path)
		}
	}
}

func TestDocument_ParentAndAncestor(t *testing.T) {
	doc := parseTree(t, `<PhysicalProperty>
  <Property IDValue="p1">
    <Building IDValue="b1">
      <ChargeOfferClass Code="A"/>
    </Building>
  </Property>
</PhysicalProperty>`)

	class := doc.Classes()[0]
	parent := doc.Parent(class)
	if parent == nil || string(parent.TagName()) != "Building" {
		t.Fatalf("expected Building parent, got %v", parent)
	}

	prop := doc.NearestAncestor(class, map[string]bool{"Property": true})
	if prop == nil || string(prop.TagName()) != "Property" {
		t.Fatalf("expected Property ancestor, got %v", prop)
	}

	if doc.Parent(doc.Root()) != nil {
		t.Fatal("root has no parent")
	}
}

func TestDocument_ClassesInDocumentOrder(t *testing.T) {
	doc := parseTree(t, `<PhysicalProperty>
  <Property IDValue="p1">
    <ChargeOfferClass Code="FIRST"/>
    <Building IDValue="b1">
      <ChargeOfferClass Code="SECOND"/>
    </Building>
    <ChargeOfferClass Code="THIRD"/>
  </Property>
</PhysicalProperty>`)

	classes := doc.Classes()
	if len(classes) != 3 {
		t.Fatalf("expected three classes, got %d", len(classes))
	}
	for i, want := range []string{"FIRST", "SECOND", "THIRD"} {
		if got := attr(classes[i], "Code"); got != want {
			t.Fatalf("class %d: got %q, want %q", i, got, want)
		}
	}
}

func TestTextTrimsWhitespace(t *testing.T) {
	doc := parseTree(t, `<PhysicalProperty><Name>  spaced  </Name></PhysicalProperty>`)
	name := firstNamed(doc.Root(), "Name")
	if name == nil {
		t.Fatal("expected Name element")
	}
	if got := text(name); got != "spaced" {
		t.Fatalf("text() = %q, want %q", got, "spaced")
	}
	if got := rawText(name); strings.TrimSpace(got) != "spaced" {
		t.Fatalf("rawText() = %q", got)
	}
}
