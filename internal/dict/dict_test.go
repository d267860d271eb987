package dict

import "testing"

func TestUnfrozenAllocatesSequentialIDs(t *testing.T) {
	d := New()

	if id := d.Label("nsubj"); id != 0 {
		t.Fatalf("first label id = %d, want 0", id)
	}
	if id := d.Label("dobj"); id != 1 {
		t.Fatalf("second label id = %d, want 1", id)
	}
	if id := d.Label("nsubj"); id != 0 {
		t.Fatalf("repeat lookup of nsubj = %d, want 0", id)
	}
	if d.NumLabels() != 2 {
		t.Fatalf("NumLabels() = %d, want 2", d.NumLabels())
	}
}

func TestIndependentVocabularies(t *testing.T) {
	d := New()

	lbl := d.Label("root")
	attr := d.Attribute("root")
	ns := d.Namespace("root")

	if lbl != 0 || attr != 0 || ns != 0 {
		t.Fatalf("expected all three vocabularies to independently start at 0, got %d %d %d", lbl, attr, ns)
	}
	if d.LabelString(lbl) != "root" || d.AttributeString(attr) != "root" || d.NamespaceString(ns) != "root" {
		t.Fatalf("round trip of interned string failed")
	}
}

func TestFrozenReturnsAbsentForUnseen(t *testing.T) {
	d := New()
	d.Label("nsubj")
	d.Freeze()

	if id := d.Label("nsubj"); id != 0 {
		t.Fatalf("known label after freeze = %d, want 0", id)
	}
	if id := d.Label("never-seen"); id != Absent {
		t.Fatalf("unseen label after freeze = %d, want Absent", id)
	}
	if d.NumLabels() != 1 {
		t.Fatalf("freezing must not grow the vocabulary: NumLabels() = %d, want 1", d.NumLabels())
	}
}
