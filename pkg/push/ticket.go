package push

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Status is the discriminator carried by every ticket and receipt.
type Status string

const (
	StatusOK    Status = "ok"
	StatusError Status = "error"
)

// ErrorKind classifies a failed ticket or receipt.
type ErrorKind string

const (
	DeviceNotRegistered ErrorKind = "DeviceNotRegistered"
	InvalidCredentials  ErrorKind = "InvalidCredentials"
	MessageTooBig       ErrorKind = "MessageTooBig"
	MessageRateExceeded ErrorKind = "MessageRateExceeded"
	MismatchSenderID    ErrorKind = "MismatchSenderId"
	DeveloperError      ErrorKind = "DeveloperError"
	ExpoError           ErrorKind = "ExpoError"
	ProviderError       ErrorKind = "ProviderError"
)

// Known reports whether k is part of the documented vocabulary. Kinds added
// by newer service versions decode verbatim and report false.
func (k ErrorKind) Known() bool {
	switch k {
	case DeviceNotRegistered, InvalidCredentials, MessageTooBig, MessageRateExceeded,
		MismatchSenderID, DeveloperError, ExpoError, ProviderError:
		return true
	}
	return false
}

// Details carries the machine readable part of a ticket or receipt error.
type Details struct {
	Error ErrorKind `json:"error,omitempty"`
}

// DeliveryError is the error form of a failed ticket or receipt.
type DeliveryError struct {
	Message string
	Details *Details
}

func (e *DeliveryError) Error() string {
	if e.Details != nil && e.Details.Error != "" {
		return fmt.Sprintf("%s: %s", e.Details.Error, e.Message)
	}
	return e.Message
}

// Kind returns the error kind, or "" when the service sent no details.
func (e *DeliveryError) Kind() ErrorKind {
	if e.Details == nil {
		return ""
	}
	return e.Details.Error
}

// Ticket is the immediate per-message answer to a send request. An ok ticket
// carries the ReceiptID to query later; an error ticket carries the reason.
type Ticket struct {
	Status  Status
	ID      ReceiptID
	Message string
	Details *Details
}

// OK reports whether the service accepted the message.
func (t Ticket) OK() bool { return t.Status == StatusOK }

// Err returns a *DeliveryError for an error ticket and nil otherwise.
func (t Ticket) Err() error {
	if t.Status != StatusError {
		return nil
	}
	return &DeliveryError{Message: t.Message, Details: t.Details}
}

type ticketOK struct {
	Status Status    `json:"status"`
	ID     ReceiptID `json:"id"`
}

type itemError struct {
	Status  Status   `json:"status"`
	Message string   `json:"message"`
	Details *Details `json:"details,omitempty"`
}

// UnmarshalJSON reads the status discriminator first and then decodes the
// fields of the matching variant.
func (t *Ticket) UnmarshalJSON(b []byte) error {
	status, err := readStatus(b)
	if err != nil {
		return err
	}
	switch status {
	case StatusOK:
		var v ticketOK
		if err := json.Unmarshal(b, &v); err != nil {
			return fmt.Errorf("%w: ticket: %v", ErrDeserialize, err)
		}
		if v.ID == "" {
			return fmt.Errorf("%w: ok ticket without id", ErrDeserialize)
		}
		*t = Ticket{Status: StatusOK, ID: v.ID}
	case StatusError:
		var v itemError
		if err := json.Unmarshal(b, &v); err != nil {
			return fmt.Errorf("%w: ticket: %v", ErrDeserialize, err)
		}
		*t = Ticket{Status: StatusError, Message: v.Message, Details: v.Details}
	default:
		return fmt.Errorf("%w: unknown ticket status %q", ErrDeserialize, status)
	}
	return nil
}

// MarshalJSON encodes the ticket in the service's response format.
func (t Ticket) MarshalJSON() ([]byte, error) {
	if t.Status == StatusOK {
		return json.Marshal(ticketOK{Status: StatusOK, ID: t.ID})
	}
	return json.Marshal(itemError{Status: t.Status, Message: t.Message, Details: t.Details})
}

// Receipt is the delivery outcome of an earlier ticket.
type Receipt struct {
	Status  Status
	Message string
	Details *Details
}

// OK reports whether the message was handed to the delivery provider.
func (r Receipt) OK() bool { return r.Status == StatusOK }

// Err returns a *DeliveryError for an error receipt and nil otherwise.
func (r Receipt) Err() error {
	if r.Status != StatusError {
		return nil
	}
	return &DeliveryError{Message: r.Message, Details: r.Details}
}

// UnmarshalJSON reads the status discriminator first and then decodes the
// fields of the matching variant.
func (r *Receipt) UnmarshalJSON(b []byte) error {
	status, err := readStatus(b)
	if err != nil {
		return err
	}
	switch status {
	case StatusOK:
		*r = Receipt{Status: StatusOK}
	case StatusError:
		var v itemError
		if err := json.Unmarshal(b, &v); err != nil {
			return fmt.Errorf("%w: receipt: %v", ErrDeserialize, err)
		}
		*r = Receipt{Status: StatusError, Message: v.Message, Details: v.Details}
	default:
		return fmt.Errorf("%w: unknown receipt status %q", ErrDeserialize, status)
	}
	return nil
}

// MarshalJSON encodes the receipt in the service's response format.
func (r Receipt) MarshalJSON() ([]byte, error) {
	if r.Status == StatusOK {
		return json.Marshal(struct {
			Status Status `json:"status"`
		}{StatusOK})
	}
	return json.Marshal(itemError{Status: r.Status, Message: r.Message, Details: r.Details})
}

func readStatus(b []byte) (Status, error) {
	var head struct {
		Status *Status `json:"status"`
	}
	if err := json.Unmarshal(b, &head); err != nil {
		return "", fmt.Errorf("%w: %v", ErrDeserialize, err)
	}
	if head.Status == nil {
		return "", fmt.Errorf("%w: missing status", ErrDeserialize)
	}
	return *head.Status, nil
}

// APIError is a request level error reported in the "errors" member of a
// response envelope.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type ticketsEnvelope struct {
	Data   []Ticket   `json:"data"`
	Errors []APIError `json:"errors"`
}

type receiptsEnvelope struct {
	Data   map[ReceiptID]Receipt `json:"data"`
	Errors []APIError            `json:"errors"`
}

// DecodeTickets decodes a send response. The returned tickets are in the
// order of the response array, which matches the order of the submitted
// messages. Error tickets are returned as values, not as an error.
func DecodeTickets(body []byte) ([]Ticket, error) {
	var env ticketsEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, deserializeErr(err)
	}
	if env.Data == nil {
		return nil, missingData(env.Errors)
	}
	return env.Data, nil
}

// DecodeReceipts decodes a receipt query response. Ids the service has no
// receipt for yet are simply absent from the map.
func DecodeReceipts(body []byte) (map[ReceiptID]Receipt, error) {
	var env receiptsEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, deserializeErr(err)
	}
	if env.Data == nil {
		return nil, missingData(env.Errors)
	}
	return env.Data, nil
}

func deserializeErr(err error) error {
	if errors.Is(err, ErrDeserialize) {
		return err
	}
	return fmt.Errorf("%w: %v", ErrDeserialize, err)
}

func missingData(apiErrs []APIError) error {
	if len(apiErrs) == 0 {
		return fmt.Errorf("%w: response has no data", ErrDeserialize)
	}
	msgs := make([]string, 0, len(apiErrs))
	for _, e := range apiErrs {
		msgs = append(msgs, e.Code+": "+e.Message)
	}
	return fmt.Errorf("%w: response has no data: %s", ErrDeserialize, strings.Join(msgs, "; "))
}
