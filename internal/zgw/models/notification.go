package models

import "time"

// Notification is an inbound event from the ZGW notifications API.
type Notification struct {
	Channel     string            `json:"kanaal"`
	Resource    string            `json:"resource"`
	ResourceURL string            `json:"resourceUrl"`
	MainObject  string            `json:"hoofdObject"`
	Action      string            `json:"actie"`
	CreatedAt   time.Time         `json:"aanmaakdatum"`
	Attributes  map[string]string `json:"kenmerken,omitempty"`
}

// Resource kinds on the zaken channel.
const (
	ResourceZaak   = "zaak"
	ResourceStatus = "status"
	ResourceRol    = "rol"
)
