package domain

// Category classifies the establishment behind a lead.
type Category string

const (
	CategoryRestaurant Category = "Restaurant"
	CategoryDhaba      Category = "Dhaba"
)

// Status is the lead's position in the sales funnel.
type Status string

const (
	StatusNew       Status = "New"
	StatusContacted Status = "Contacted"
	StatusQualified Status = "Qualified"
	StatusClosed    Status = "Closed"
)

// InteractionType is the channel of a recorded touchpoint.
type InteractionType string

const (
	InteractionCall  InteractionType = "Call"
	InteractionEmail InteractionType = "Email"
)

// ContactRole is a point of contact's role at the establishment.
type ContactRole string

const (
	ContactRoleOwner   ContactRole = "Owner"
	ContactRoleManager ContactRole = "Manager"
)

var validCategories = map[Category]bool{
	CategoryRestaurant: true,
	CategoryDhaba:      true,
}

var validStatuses = map[Status]bool{
	StatusNew:       true,
	StatusContacted: true,
	StatusQualified: true,
	StatusClosed:    true,
}

var validInteractionTypes = map[InteractionType]bool{
	InteractionCall:  true,
	InteractionEmail: true,
}

func (c Category) Valid() bool        { return validCategories[c] }
func (s Status) Valid() bool          { return validStatuses[s] }
func (t InteractionType) Valid() bool { return validInteractionTypes[t] }

func (r ContactRole) Valid() bool {
	return r == ContactRoleOwner || r == ContactRoleManager
}
