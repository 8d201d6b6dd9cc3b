package logbus

import (
	"fmt"

	"github.com/theyonatan/multiverse/pkg/types"
)

// Label renders a universe as "Name[#RRGGBB]" for log lines.
func Label(name string, color types.RGB) string {
	return fmt.Sprintf("%s[%s]", name, color.Hex())
}

// relationshipWording maps a rolled relationship to its announcement.
var relationshipWording = map[types.Relationship]struct {
	label  string
	flavor string
}{
	types.RelationshipBrother: {"brothers", "May their bond hold across the void."},
	types.RelationshipEnemy:   {"sworn enemies", "The stars dim between them."},
}

// Info publishes a system message.
func (b *Bus) Info(msg string) {
	b.Publish(LevelInfo, fmt.Sprintf("> %s", msg))
}

// Created announces a freshly spawned universe.
func (b *Bus) Created(name string, color types.RGB) {
	b.Publish(LevelUniverse, fmt.Sprintf("> Created universe %s", Label(name, color)))
}

// Attack narrates damage dealt between two universes.
func (b *Bus) Attack(sourceName string, sourceColor types.RGB, targetName string, targetColor types.RGB, damage int) {
	b.Publish(LevelUniverse, fmt.Sprintf("⚔ %s dealt %d damage to %s",
		Label(sourceName, sourceColor), damage, Label(targetName, targetColor)))
}

// Heal narrates a heal between two universes.
func (b *Bus) Heal(sourceName string, sourceColor types.RGB, targetName string, targetColor types.RGB, amount int) {
	b.Publish(LevelUniverse, fmt.Sprintf("✚ %s healed %s by %d",
		Label(sourceName, sourceColor), Label(targetName, targetColor), amount))
}

// Collapsed announces the terminal state of a universe.
func (b *Bus) Collapsed(name string, color types.RGB) {
	b.Publish(LevelUniverse, fmt.Sprintf("☠ %s has COLLAPSED", Label(name, color)))
}

// Universe publishes a per-entity narration line.
func (b *Bus) Universe(name string, color types.RGB, msg string) {
	b.Publish(LevelUniverse, fmt.Sprintf("%s %s", Label(name, color), msg))
}

// Relationship announces a birth-time roll between two universes.
func (b *Bus) Relationship(aName string, aColor types.RGB, bName string, bColor types.RGB, kind types.Relationship) {
	w := relationshipWording[kind]
	b.Publish(LevelRelationship, fmt.Sprintf("☯ %s and %s are now %s. %s",
		Label(aName, aColor), Label(bName, bColor), w.label, w.flavor))
}

// UserAction records an externally triggered event.
func (b *Bus) UserAction(actor, action, target string) {
	b.Publish(LevelUserAction, fmt.Sprintf("> %s %s %s", actor, action, target))
}
