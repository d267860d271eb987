// Package dict interns strings into dense integer ids for the three
// independent vocabularies eagerparse needs: dependency labels, attribute
// names, and namespace names. Each vocabulary is a separate bijective
// mapping; none share ids with another.
package dict

// Absent is the sentinel id returned for an unseen key once a Dictionary is
// frozen.
const Absent = -1

// table is one bijective string<->int mapping.
type table struct {
	toID  map[string]int
	toStr []string
}

func newTable() *table {
	return &table{toID: make(map[string]int)}
}

// lookup returns the id for s, allocating a new one if t is not frozen and s
// is unseen. When frozen is true and s is unseen, it returns Absent.
func (t *table) lookup(s string, frozen bool) int {
	if id, ok := t.toID[s]; ok {
		return id
	}
	if frozen {
		return Absent
	}
	id := len(t.toStr)
	t.toID[s] = id
	t.toStr = append(t.toStr, s)
	return id
}

func (t *table) string(id int) string {
	if id < 0 || id >= len(t.toStr) {
		return ""
	}
	return t.toStr[id]
}

func (t *table) size() int {
	return len(t.toStr)
}

// Dictionary interns label, attribute, and namespace strings into dense ids.
// It starts unfrozen (every lookup allocates); call Freeze once training's
// vocabulary is final so that test-time lookups of unseen strings degrade to
// Absent instead of growing the vocabulary further.
type Dictionary struct {
	labels     *table
	attributes *table
	namespaces *table
	frozen     bool
}

// New returns an empty, unfrozen Dictionary.
func New() *Dictionary {
	return &Dictionary{
		labels:     newTable(),
		attributes: newTable(),
		namespaces: newTable(),
	}
}

// Freeze stops all three vocabularies from growing; subsequent lookups of
// unseen strings return Absent instead of allocating a new id.
func (d *Dictionary) Freeze() {
	d.frozen = true
}

// Frozen reports whether d has been frozen.
func (d *Dictionary) Frozen() bool {
	return d.frozen
}

// Label returns the dense id for a dependency label string, allocating one
// if d is unfrozen and label is unseen.
func (d *Dictionary) Label(label string) int {
	return d.labels.lookup(label, d.frozen)
}

// LabelString returns the string a label id was interned from.
func (d *Dictionary) LabelString(id int) string {
	return d.labels.string(id)
}

// NumLabels returns the number of distinct labels interned so far.
func (d *Dictionary) NumLabels() int {
	return d.labels.size()
}

// Attribute returns the dense id for an attribute name string, allocating
// one if d is unfrozen and the name is unseen.
func (d *Dictionary) Attribute(name string) int {
	return d.attributes.lookup(name, d.frozen)
}

// AttributeString returns the string an attribute id was interned from.
func (d *Dictionary) AttributeString(id int) string {
	return d.attributes.string(id)
}

// NumAttributes returns the number of distinct attribute names interned so
// far.
func (d *Dictionary) NumAttributes() int {
	return d.attributes.size()
}

// Namespace returns the dense id for a namespace name string, allocating one
// if d is unfrozen and the name is unseen.
func (d *Dictionary) Namespace(name string) int {
	return d.namespaces.lookup(name, d.frozen)
}

// NamespaceString returns the string a namespace id was interned from.
func (d *Dictionary) NamespaceString(id int) string {
	return d.namespaces.string(id)
}

// NumNamespaces returns the number of distinct namespace names interned so
// far.
func (d *Dictionary) NumNamespaces() int {
	return d.namespaces.size()
}

// Tables returns the three vocabulary string tables in id order, for model
// persistence. The returned slices are owned by the caller.
func (d *Dictionary) Tables() (labels, attributes, namespaces []string) {
	return append([]string(nil), d.labels.toStr...),
		append([]string(nil), d.attributes.toStr...),
		append([]string(nil), d.namespaces.toStr...)
}

// FromTables rebuilds a frozen Dictionary from the three string tables
// produced by a prior Tables call, restoring each id exactly.
func FromTables(labels, attributes, namespaces []string) *Dictionary {
	d := New()
	for _, s := range labels {
		d.labels.lookup(s, false)
	}
	for _, s := range attributes {
		d.attributes.lookup(s, false)
	}
	for _, s := range namespaces {
		d.namespaces.lookup(s, false)
	}
	d.Freeze()
	return d
}
