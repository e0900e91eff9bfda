package schema

import (
	"entgo.io/ent"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

var (
	levelNames = []string{"remember", "understand", "apply", "analyze", "evaluate", "create"}
	speedNames = []string{"fast", "moderate", "slow"}
)

// AnswerEvent is the audit record of one processed answer.
type AnswerEvent struct {
	ent.Schema
}

func (AnswerEvent) Mixin() []ent.Mixin {
	return []ent.Mixin{EventMixin{}}
}

func (AnswerEvent) Fields() []ent.Field {
	return []ent.Field{
		field.String("session_id").
			NotEmpty().
			Comment("Links to Session"),
		field.String("question_id").
			Default("").
			Comment("Caller supplied question identifier"),
		field.Bool("correct"),
		field.Float("elapsed").
			Min(0).
			Comment("Seconds taken to answer"),
		field.Enum("speed").
			Values(speedNames...),
		field.Enum("presented_level").
			Values(levelNames...).
			Comment("Level the question was presented at"),
		field.Enum("previous_level").
			Values(levelNames...),
		field.Enum("resulting_level").
			Values(levelNames...),
		field.String("rule").
			Default("").
			Comment("Decision rule that produced the resulting level"),
	}
}

func (AnswerEvent) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("session_id"),
		index.Fields("presented_level"),
	}
}
