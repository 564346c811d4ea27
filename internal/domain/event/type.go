package event

// Type identifies the type of domain event
type Type string

const (
	TypeRecordCreated     Type = "record.created"
	TypeRecordUpdated     Type = "record.updated"
	TypeRecordDeleted     Type = "record.deleted"
	TypeStationTransition Type = "station.transitioned"
	TypeDocumentChecked   Type = "document.checked"
	TypeDocumentAttached  Type = "document.attached"
	TypeImportCompleted   Type = "import.completed"
	TypeExportRendered    Type = "export.rendered"
	TypeUserRegistered    Type = "user.registered"
	TypePasswordChanged   Type = "user.password_changed"
)

var types = []Type{
	TypeRecordCreated,
	TypeRecordUpdated,
	TypeRecordDeleted,
	TypeStationTransition,
	TypeDocumentChecked,
	TypeDocumentAttached,
	TypeImportCompleted,
	TypeExportRendered,
	TypeUserRegistered,
	TypePasswordChanged,
}

// Types returns every defined event type
func Types() []Type {
	return append([]Type(nil), types...)
}

func (t Type) String() string {
	return string(t)
}

// IsValid checks if the event type is one of the defined constants
func (t Type) IsValid() bool {
	for _, v := range types {
		if v == t {
			return true
		}
	}
	return false
}
