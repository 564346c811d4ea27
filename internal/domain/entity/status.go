package entity

// Status is the coarse overall position of a procurement. It is set by
// whoever edits the record and is never recomputed from the per-station
// workflow, so the two can disagree.
type Status string

const (
	StatusRequested        Status = "Requested"
	StatusCMOApproval      Status = "CMO Approval"
	StatusITReview         Status = "IT Review"
	StatusBudgetOffice     Status = "Budget Office"
	StatusGSOPR            Status = "GSO - PR Generation"
	StatusBACBidding       Status = "BAC - Bidding"
	StatusPORelease        Status = "PO Release"
	StatusDelivery         Status = "Delivery"
	StatusAccounting       Status = "Accounting Verification"
	StatusPaymentCompleted Status = "Payment Completed"
)

var statuses = []Status{
	StatusRequested,
	StatusCMOApproval,
	StatusITReview,
	StatusBudgetOffice,
	StatusGSOPR,
	StatusBACBidding,
	StatusPORelease,
	StatusDelivery,
	StatusAccounting,
	StatusPaymentCompleted,
}

// Statuses returns every overall status in pipeline order
func Statuses() []Status {
	return append([]Status(nil), statuses...)
}

// IsValid returns true for a known overall status
func (s Status) IsValid() bool {
	for _, v := range statuses {
		if v == s {
			return true
		}
	}
	return false
}

// IsCompleted reports whether payment has been released
func (s Status) IsCompleted() bool {
	return s == StatusPaymentCompleted
}
