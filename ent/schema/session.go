package schema

import (
	"time"

	"entgo.io/ent"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// Session stores the latest serialized tracker state of one session.
type Session struct {
	ent.Schema
}

func (Session) Fields() []ent.Field {
	return []ent.Field{
		field.String("id").
			NotEmpty().
			Unique().
			Immutable().
			Comment("Session UUID"),
		field.String("student_id").
			Default(""),
		field.Time("created_at").
			Default(time.Now).
			Immutable(),
		field.Time("updated_at").
			Default(time.Now).
			UpdateDefault(time.Now),
		field.JSON("state", map[string]any{}).
			Comment("Versioned session state record"),
	}
}

func (Session) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("student_id"),
		index.Fields("updated_at"),
	}
}
