package models

// Session is a named Q&A event. The id is supplied by the creator and doubles
// as the realtime room name, so it is stored as the Mongo _id.
type Session struct {
	ID                   string `bson:"_id" json:"id"`
	Name                 string `bson:"name" json:"name"`
	IsAcceptingQuestions bool   `bson:"is_accepting_questions" json:"is_accepting_questions"`
	IsVisible            bool   `bson:"is_visible" json:"is_visible"`

	// AdminPassword is returned to the creator once and thereafter only on
	// authenticated fetches; public views carry it blanked.
	AdminPassword string `bson:"admin_password" json:"admin_password,omitempty"`

	// Questions is derived per fetch from the questions collection and is
	// never persisted on the session document.
	Questions []Question `bson:"-" json:"questions"`
}
