package payment

import (
	paymentdomain "github.com/marketplace/backend/internal/domain/payment"
)

// eSewa transaction statuses as reported in the status check and
// callback payloads
const (
	esewaStatusComplete  = "COMPLETE"
	esewaStatusPending   = "PENDING"
	esewaStatusAmbiguous = "AMBIGUOUS"
	esewaStatusNotFound  = "NOT_FOUND"
	esewaStatusFailure   = "FAILURE"
	esewaStatusCanceled  = "CANCELED"
)

// esewaSignedFieldNames is the fixed field set eSewa signs on the
// outbound payment form
const esewaSignedFieldNames = "total_amount,transaction_uuid,product_code"

// esewaNotification is the decoded success-callback body. eSewa sends
// it base64-encoded in the "data" query parameter.
type esewaNotification struct {
	TransactionCode  string `json:"transaction_code"`
	Status           string `json:"status"`
	TotalAmount      string `json:"total_amount"`
	TransactionUUID  string `json:"transaction_uuid"`
	ProductCode      string `json:"product_code"`
	SignedFieldNames string `json:"signed_field_names"`
	Signature        string `json:"signature"`
}

// mapEsewaStatus normalizes eSewa's status vocabulary
func mapEsewaStatus(status string) paymentdomain.SettlementStatus {
	switch status {
	case esewaStatusComplete:
		return paymentdomain.SettlementComplete
	case esewaStatusPending, esewaStatusAmbiguous:
		return paymentdomain.SettlementPending
	case esewaStatusCanceled:
		return paymentdomain.SettlementCanceled
	default:
		// NOT_FOUND, FAILURE and anything unrecognized
		return paymentdomain.SettlementFailed
	}
}
