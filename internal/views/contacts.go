package views

import (
	"strings"

	"github.com/rpggio/backoffice/internal/domain/contact"
)

// FilterContacts returns the contacts whose name or email contains term,
// ignoring case. An empty term returns the snapshot unfiltered.
func FilterContacts(contacts []contact.Contact, term string) []contact.Contact {
	if term == "" {
		return contacts
	}
	needle := strings.ToLower(term)
	out := []contact.Contact{}
	for _, c := range contacts {
		if strings.Contains(strings.ToLower(c.Name), needle) || strings.Contains(strings.ToLower(c.Email), needle) {
			out = append(out, c)
		}
	}
	return out
}

// RecentContacts returns the first contacts of the snapshot.
func RecentContacts(contacts []contact.Contact) []contact.Contact {
	n := min(len(contacts), UpcomingLimit)
	out := make([]contact.Contact, n)
	copy(out, contacts[:n])
	return out
}
