package entity

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// DocumentSlot names one entry of the compliance checklist
type DocumentSlot int

const (
	DocOmnibus DocumentSlot = iota
	DocCanvass
	DocOBR
	DocSOA
	DocRIS
	DocWasteMaterialReport
	DocAcceptanceReport
	DocInspectionReport
)

// DocumentSlotCount is the fixed size of every checklist
const DocumentSlotCount = 8

var documentIDs = [DocumentSlotCount]string{
	"omnibus",
	"canvass",
	"obr",
	"soa",
	"ris",
	"wasteMaterialReport",
	"acceptanceReport",
	"inspectionReport",
}

var documentLabels = [DocumentSlotCount]string{
	"Omnibus Sworn Statement",
	"Abstract of Canvass",
	"Obligation Request (OBR)",
	"Statement of Account (SOA)",
	"Requisition & Issue Slip (RIS)",
	"Waste Material Report (Optional)",
	"Acceptance Report",
	"Inspection Report",
}

// DocumentSlots returns every slot in checklist order
func DocumentSlots() []DocumentSlot {
	out := make([]DocumentSlot, DocumentSlotCount)
	for i := range out {
		out[i] = DocumentSlot(i)
	}
	return out
}

// MandatoryDocuments returns the seven slots that compliance requires
func MandatoryDocuments() []DocumentSlot {
	out := make([]DocumentSlot, 0, DocumentSlotCount-1)
	for _, d := range DocumentSlots() {
		if d.Mandatory() {
			out = append(out, d)
		}
	}
	return out
}

// IsValid reports whether d is one of the eight slots
func (d DocumentSlot) IsValid() bool {
	return d >= DocOmnibus && d <= DocInspectionReport
}

// Mandatory is false only for the waste material report
func (d DocumentSlot) Mandatory() bool {
	return d.IsValid() && d != DocWasteMaterialReport
}

// ID returns the wire key of the slot
func (d DocumentSlot) ID() string {
	if !d.IsValid() {
		return ""
	}
	return documentIDs[d]
}

// Label returns the display name of the document
func (d DocumentSlot) Label() string {
	if !d.IsValid() {
		return ""
	}
	return documentLabels[d]
}

func (d DocumentSlot) String() string {
	if !d.IsValid() {
		return fmt.Sprintf("DocumentSlot(%d)", int(d))
	}
	return documentIDs[d]
}

// ParseDocumentSlot looks up a slot by its wire key
func ParseDocumentSlot(id string) (DocumentSlot, error) {
	for i, v := range documentIDs {
		if v == id {
			return DocumentSlot(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownDocument, id)
}

// ProcurementFile is an attachment stored inline as a data URL
type ProcurementFile struct {
	Name       string `json:"name"`
	Type       string `json:"type"`
	Size       int64  `json:"size"`
	Data       string `json:"data"`
	UploadedAt string `json:"uploadedAt"`
	Pages      int    `json:"pages,omitempty"`
}

// DocumentEntry is one checklist slot. Checked and File are independent:
// a file may be present on an unchecked slot and vice versa.
type DocumentEntry struct {
	Checked bool             `json:"checked"`
	File    *ProcurementFile `json:"file"`
}

// DocumentChecklist holds exactly one entry per DocumentSlot
type DocumentChecklist [DocumentSlotCount]DocumentEntry

// NewDocumentChecklist returns a checklist with every slot unchecked and empty
func NewDocumentChecklist() DocumentChecklist {
	return DocumentChecklist{}
}

// Entry returns the slot's entry
func (c DocumentChecklist) Entry(d DocumentSlot) DocumentEntry {
	return c[d]
}

// Clone copies attached files so the result shares nothing with c
func (c DocumentChecklist) Clone() DocumentChecklist {
	out := c
	for i := range out {
		if out[i].File != nil {
			f := *out[i].File
			out[i].File = &f
		}
	}
	return out
}

// MarshalJSON writes the checklist as an object keyed by slot id, in slot order
func (c DocumentChecklist) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, entry := range c {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, _ := json.Marshal(documentIDs[i])
		value, err := json.Marshal(entry)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON applies a partial object onto c: absent slots and absent
// entry fields keep their current values, unknown keys are ignored.
func (c *DocumentChecklist) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	out := c.Clone()
	for i, id := range documentIDs {
		msg, ok := raw[id]
		if !ok {
			continue
		}
		entry := out[i]
		if err := json.Unmarshal(msg, &entry); err != nil {
			return fmt.Errorf("document %s: %w", id, err)
		}
		out[i] = entry
	}

	*c = out
	return nil
}
