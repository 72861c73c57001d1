package reveal

import (
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ascendant/internal/render"
)

func hero() *render.Document {
	doc := render.NewDocument()
	doc.Mount(BodyID, "body")
	doc.Create(BodyID, HeroID, "section")
	doc.Create(HeroID, DoorLeftID, "div")
	doc.Create(HeroID, DoorRightID, "div")
	doc.Create(HeroID, BrandingID, "div")
	doc.Create(BrandingID, "brand-title", "h1")
	doc.Create(HeroID, RevealedID, "div")
	doc.Create(BodyID, "footer", "footer")
	return doc
}

type pending struct {
	at time.Duration
	f  func()
}

// manualScheduler runs callbacks only when the test advances its clock
type manualScheduler struct {
	now   time.Duration
	queue []pending
}

func (m *manualScheduler) AfterFunc(d time.Duration, f func()) {
	m.queue = append(m.queue, pending{at: m.now + d, f: f})
}

func (m *manualScheduler) Advance(d time.Duration) {
	m.now += d
	sort.SliceStable(m.queue, func(i, j int) bool { return m.queue[i].at < m.queue[j].at })
	var rest []pending
	for _, p := range m.queue {
		if p.at <= m.now {
			p.f()
			continue
		}
		rest = append(rest, p)
	}
	m.queue = rest
}

func TestPrepare_LocksScrollWhileClosed(t *testing.T) {
	doc := hero()
	effects, ok := Default().Prepare(doc, false)
	require.True(t, ok)
	render.Apply(doc, effects)

	assert.True(t, doc.HasClass(BodyID, ScrollLockClass))
	assert.Equal(t, "pointer", doc.Style(HeroID, "cursor"))
}

func TestPrepare_OpenedRendersFinalState(t *testing.T) {
	doc := hero()
	effects, ok := Default().Prepare(doc, true)
	require.True(t, ok)
	render.Apply(doc, effects)

	assert.False(t, doc.HasClass(BodyID, ScrollLockClass))
	assert.True(t, doc.HasClass(RevealedID, "visible"))
	assert.Equal(t, "none", doc.Style(DoorLeftID, "display"))
}

func TestPrepare_MissingMarkup(t *testing.T) {
	doc := render.NewDocument()
	doc.Mount(HeroID, "section")

	effects, ok := Default().Prepare(doc, false)
	assert.False(t, ok)
	assert.Empty(t, effects)
	assert.Nil(t, Default().Open(doc, false, HeroID))
}

func TestQualifies(t *testing.T) {
	doc := hero()
	assert.True(t, Qualifies(doc, HeroID))
	assert.True(t, Qualifies(doc, "brand-title"))
	assert.True(t, Qualifies(doc, DoorRightID))
	assert.False(t, Qualifies(doc, "footer"))
	assert.False(t, Qualifies(doc, "unknown"))
}

func TestOpen_StagesAndTimings(t *testing.T) {
	doc := hero()
	gate := Default()
	sched := &manualScheduler{}

	stages := gate.Open(doc, false, "brand-title")
	require.Len(t, stages, 3)
	assert.Equal(t, 300*time.Millisecond, stages[1].After)
	assert.Equal(t, 1500*time.Millisecond, stages[2].After)

	render.Apply(doc, mustPrepare(t, gate, doc))
	now := Play(sched, stages, func(e []render.Effect) { render.Apply(doc, e) })
	render.Apply(doc, now)

	assert.True(t, doc.HasClass(DoorLeftID, "crumbling"))
	assert.True(t, doc.HasClass(BrandingID, "fade-out"))
	assert.False(t, doc.HasClass(RevealedID, "visible"))

	sched.Advance(299 * time.Millisecond)
	assert.False(t, doc.HasClass(RevealedID, "visible"))
	sched.Advance(time.Millisecond)
	assert.True(t, doc.HasClass(RevealedID, "visible"))
	assert.Empty(t, doc.Style(DoorLeftID, "display"))
	assert.True(t, doc.HasClass(BodyID, ScrollLockClass))

	sched.Advance(1200 * time.Millisecond)
	assert.Equal(t, "none", doc.Style(DoorLeftID, "display"))
	assert.Equal(t, "none", doc.Style(DoorRightID, "display"))
	assert.False(t, doc.HasClass(BodyID, ScrollLockClass))
	assert.Empty(t, sched.queue)
}

func TestOpen_OnlyFirstQualifyingClick(t *testing.T) {
	doc := hero()
	gate := Default()

	assert.Nil(t, gate.Open(doc, false, "footer"))
	assert.NotNil(t, gate.Open(doc, false, HeroID))
	assert.Nil(t, gate.Open(doc, true, HeroID))
}

func mustPrepare(t *testing.T, g Gate, tree Tree) []render.Effect {
	t.Helper()
	effects, ok := g.Prepare(tree, false)
	require.True(t, ok)
	return effects
}
