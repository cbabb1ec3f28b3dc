package contact

// Collection is the store collection holding contacts.
const Collection = "contacts"

// Source is where a contact came from.
type Source string

const (
	SourceYouTube   Source = "YouTube"
	SourceInstagram Source = "Instagram"
	SourceWebsite   Source = "Website"
	SourceReferral  Source = "Referral"
	SourceOther     Source = "Other"
)

// Sources lists the accepted sources.
var Sources = []Source{SourceYouTube, SourceInstagram, SourceWebsite, SourceReferral, SourceOther}

// Valid reports whether s is an accepted source.
func (s Source) Valid() bool {
	for _, known := range Sources {
		if s == known {
			return true
		}
	}
	return false
}

// Contact is a CRM entry. Emails are not unique.
type Contact struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Source Source `json:"source"`
	Notes  string `json:"notes"`
}

// Draft is the editable part of a contact.
type Draft struct {
	Name   string
	Email  string
	Source Source
	Notes  string
}

// DraftOf returns the draft for editing c.
func DraftOf(c Contact) Draft {
	return Draft{Name: c.Name, Email: c.Email, Source: c.Source, Notes: c.Notes}
}
