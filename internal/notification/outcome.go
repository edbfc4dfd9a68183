// Package notification decides, for each inbound case lifecycle event,
// whether and to whom a status update email is sent. Checks run in a fixed
// order and the first one that declines ends processing with a Reason;
// deliveries go through the ledger so a recipient hears about a status at
// most once.
package notification

import (
	"errors"
	"fmt"
)

// ErrInvalidChannel is returned for events from a channel this service does
// not handle. It is the only error Handle returns.
var ErrInvalidChannel = errors.New("invalid notification channel")

// Reason names why an event was not (fully) delivered.
type Reason string

const (
	ReasonResourceNotStatus     Reason = "resource_not_status"
	ReasonSessionUnavailable    Reason = "session_unavailable"
	ReasonNoRoles               Reason = "no_roles"
	ReasonRecipientsUnavailable Reason = "recipients_unavailable"
	ReasonNoRecipients          Reason = "no_recipients"
	ReasonStatusUnavailable     Reason = "status_unavailable"
	ReasonStatusTypeUnavailable Reason = "status_type_unavailable"
	ReasonInformFalse           Reason = "inform_false"
	ReasonCaseUnavailable       Reason = "case_unavailable"
	ReasonCaseTypeUnavailable   Reason = "case_type_unavailable"
	ReasonNoConfigOrDisabled    Reason = "no_config_or_disabled"
	ReasonConfidentiality       Reason = "confidentiality"
	ReasonDuplicate             Reason = "duplicate"
	ReasonDeliveryFailed        Reason = "delivery_failed"
)

// Kind is the terminal state of one event.
type Kind string

const (
	KindIgnored   Kind = "ignored"
	KindDelivered Kind = "delivered"
)

// Outcome is the result of handling one event. Delivered counts emails
// handed to the sender; Duplicates and Failed count the other recipients.
type Outcome struct {
	Kind       Kind
	Reason     Reason
	Delivered  int
	Duplicates int
	Failed     int
}

func Ignored(reason Reason) Outcome {
	return Outcome{Kind: KindIgnored, Reason: reason}
}

func (o Outcome) String() string {
	if o.Kind == KindDelivered {
		return fmt.Sprintf("delivered(%d)", o.Delivered)
	}
	return fmt.Sprintf("ignored(%s)", o.Reason)
}

// deliveryOutcome folds per-recipient results into an Outcome. Nothing sent
// because every recipient had the notification already is a duplicate.
func deliveryOutcome(delivered, duplicates, failed int) Outcome {
	o := Outcome{Kind: KindDelivered, Delivered: delivered, Duplicates: duplicates, Failed: failed}
	if delivered > 0 {
		return o
	}
	o.Kind = KindIgnored
	o.Reason = ReasonDuplicate
	if failed > 0 {
		o.Reason = ReasonDeliveryFailed
	}
	return o
}
