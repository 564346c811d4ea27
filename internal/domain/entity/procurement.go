package entity

// MealSchedule marks which meals an event covers
type MealSchedule struct {
	AMSnack bool `json:"amSnack"`
	Lunch   bool `json:"lunch"`
	PMSnack bool `json:"pmSnack"`
	Dinner  bool `json:"dinner"`
}

// Labels returns the short names of the selected meals in serving order
func (m MealSchedule) Labels() []string {
	var out []string
	if m.AMSnack {
		out = append(out, "AM")
	}
	if m.Lunch {
		out = append(out, "LUNCH")
	}
	if m.PMSnack {
		out = append(out, "PM")
	}
	if m.Dinner {
		out = append(out, "DINNER")
	}
	return out
}

// Record is a single procurement request
type Record struct {
	ID                string            `json:"id"`
	RecordID          int               `json:"recordId"`
	SupplierName      string            `json:"supplierName"`
	Category          Category          `json:"category"`
	PRNumber          string            `json:"prNumber"`
	PONumber          string            `json:"poNumber"`
	Amount            float64           `json:"amount"`
	POAmount          float64           `json:"poAmount"`
	Status            Status            `json:"status"`
	CreatedBy         string            `json:"createdBy"`
	CreatedByUsername string            `json:"createdByUsername,omitempty"`
	DateRequested     string            `json:"dateRequested"`
	DateCompleted     string            `json:"dateCompleted,omitempty"`
	LastUpdated       string            `json:"lastUpdated"`
	Notes             string            `json:"notes"`
	Documents         DocumentChecklist `json:"documents"`

	// Event details, meaningful only for Meals and Snacks
	EventDate     string        `json:"eventDate,omitempty"`
	VenueLocation string        `json:"venueLocation,omitempty"`
	Servings      string        `json:"servings,omitempty"`
	MealSchedule  *MealSchedule `json:"mealSchedule,omitempty"`

	Workflow Workflow `json:"workflow"`
}

// NewRecord returns a record carrying every default except identity and dates
func NewRecord() Record {
	return Record{
		Category:  DefaultCategory(),
		Status:    StatusRequested,
		Documents: NewDocumentChecklist(),
		Workflow:  NewWorkflow(),
	}
}

// Clone returns a deep copy
func (r Record) Clone() Record {
	out := r
	out.Documents = r.Documents.Clone()
	if r.MealSchedule != nil {
		m := *r.MealSchedule
		out.MealSchedule = &m
	}
	return out
}

// Normalize fills defaults for fields a stored record may lack
func (r *Record) Normalize() {
	if !r.Category.IsValid() {
		r.Category = DefaultCategory()
	}
	if !r.Status.IsValid() {
		r.Status = StatusRequested
	}
	if r.Amount < 0 {
		r.Amount = 0
	}
	if r.POAmount < 0 {
		r.POAmount = 0
	}
	r.Workflow.Normalize()
}

// CloneRecords deep-copies a collection
func CloneRecords(records []Record) []Record {
	if records == nil {
		return nil
	}
	out := make([]Record, len(records))
	for i, r := range records {
		out[i] = r.Clone()
	}
	return out
}
